package simulation_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/snoopsim/mem/cache"
	"github.com/sarchlab/snoopsim/mem/coherence"
	"github.com/sarchlab/snoopsim/sim"
	"github.com/sarchlab/snoopsim/simulation"
	"github.com/sarchlab/snoopsim/trace"
)

// build creates a simulation with fast miss resolution so that closely
// spaced trace accesses land after the previous install:
// rd/wr hit 5, rd/wr miss 6, snoop 2, snoop hit 4.
func build(numCaches int) *simulation.Simulation {
	cb := cache.MakeBuilder().
		WithReadLatencies(5, 6).
		WithWriteLatencies(5, 6).
		WithSnoopLatencies(2, 4)

	return simulation.MakeBuilder().
		WithNumCaches(numCaches).
		WithCacheBuilder(cb).
		Build()
}

func run(s *simulation.Simulation, accesses []trace.Access) {
	Expect(s.ScheduleTrace(accesses)).To(Succeed())
	Expect(s.Run()).To(Succeed())
}

var _ = Describe("Simulation", func() {
	It("should hit after a cold miss in a single cache", func() {
		s := build(1)

		run(s, []trace.Access{
			{Time: 0, Cache: "L1A", Op: cache.OpRead, Addr: 0x1000},
			{Time: 10, Cache: "L1A", Op: cache.OpRead, Addr: 0x1000},
			{Time: 50, Cache: "L1A", Op: cache.OpRead, Addr: 0x1000},
		})

		stats := s.Stats().Stats("L1A")
		Expect(stats.ReadMisses).To(Equal(uint64(1)))
		Expect(stats.ReadHits).To(Equal(uint64(2)))

		state, found := s.Cache("L1A").LineState(0x1000)
		Expect(found).To(BeTrue())
		Expect(state).To(Equal(coherence.StateExclusive))
	})

	It("should coalesce a miss that arrives while one is outstanding", func() {
		s := build(1)

		run(s, []trace.Access{
			{Time: 0, Cache: "L1A", Op: cache.OpRead, Addr: 0x1000},
			{Time: 1, Cache: "L1A", Op: cache.OpRead, Addr: 0x1000},
		})

		stats := s.Stats().Stats("L1A")
		Expect(stats.ReadMisses).To(Equal(uint64(1)))
		Expect(stats.Coalesces).To(Equal(uint64(1)))
	})

	It("should install Exclusive without sharers and Shared with them",
		func() {
			s := build(2)

			// A's miss resolves at snoop(2) + miss(6) = 8
			run(s, []trace.Access{
				{Time: 0, Cache: "L1A", Op: cache.OpRead, Addr: 0x1000},
			})

			stateA, _ := s.Cache("L1A").LineState(0x1000)
			Expect(stateA).To(Equal(coherence.StateExclusive))

			// issued 12 after A's install at 8, so at 20
			run(s, []trace.Access{
				{Time: 12, Cache: "L1B", Op: cache.OpRead, Addr: 0x1000},
			})

			stateA, _ = s.Cache("L1A").LineState(0x1000)
			stateB, _ := s.Cache("L1B").LineState(0x1000)

			// B's snoop found A Exclusive and demoted it
			Expect(stateA).To(Equal(coherence.StateShared))
			Expect(stateB).To(Equal(coherence.StateShared))
		})

	It("should invalidate the peer when writing a Shared line", func() {
		s := build(2)

		run(s, []trace.Access{
			{Time: 0, Cache: "L1A", Op: cache.OpRead, Addr: 0x1000},
			{Time: 20, Cache: "L1B", Op: cache.OpRead, Addr: 0x1000},
			{Time: 40, Cache: "L1A", Op: cache.OpWrite, Addr: 0x1000},
		})

		stateA, foundA := s.Cache("L1A").LineState(0x1000)
		Expect(foundA).To(BeTrue())
		Expect(stateA).To(Equal(coherence.StateModified))

		_, foundB := s.Cache("L1B").LineState(0x1000)
		Expect(foundB).To(BeFalse())
	})

	It("should source a write miss from the peer that owns the block",
		func() {
			s := build(2)

			run(s, []trace.Access{
				{Time: 0, Cache: "L1B", Op: cache.OpWrite, Addr: 0x1000},
				{Time: 20, Cache: "L1A", Op: cache.OpWrite, Addr: 0x1000},
			})

			stateA, _ := s.Cache("L1A").LineState(0x1000)
			Expect(stateA).To(Equal(coherence.StateModified))

			_, foundB := s.Cache("L1B").LineState(0x1000)
			Expect(foundB).To(BeFalse())

			stats := s.Stats().Stats("L1A")
			Expect(stats.WriteMisses).To(Equal(uint64(1)))
		})

	It("should evict the least recently used way", func() {
		s := build(1)

		// five tags that map to set 0 of a 16-set, 4-way cache
		addrs := []uint64{0x0000, 0x0400, 0x0800, 0x0c00, 0x1000}

		accesses := []trace.Access{}
		for i, addr := range addrs {
			accesses = append(accesses, trace.Access{
				Time:  simTime(i * 20),
				Cache: "L1A",
				Op:    cache.OpRead,
				Addr:  addr,
			})
		}
		accesses = append(accesses, trace.Access{
			Time:  simTime(200),
			Cache: "L1A",
			Op:    cache.OpRead,
			Addr:  0x0000,
		})

		run(s, accesses)

		stats := s.Stats().Stats("L1A")
		Expect(stats.ReadMisses).To(Equal(uint64(6)))
		Expect(stats.ReadHits).To(Equal(uint64(0)))

		// re-installing 0x0000 evicted the next least recent tag
		_, foundSecond := s.Cache("L1A").LineState(0x0400)
		Expect(foundSecond).To(BeFalse())

		_, foundFirst := s.Cache("L1A").LineState(0x0000)
		Expect(foundFirst).To(BeTrue())
	})

	It("should print a per-cache summary", func() {
		s := build(2)

		run(s, []trace.Access{
			{Time: 0, Cache: "L1A", Op: cache.OpRead, Addr: 0x1000},
			{Time: 20, Cache: "L1A", Op: cache.OpRead, Addr: 0x1000},
		})

		sb := &strings.Builder{}
		s.WriteSummary(sb)

		Expect(sb.String()).To(ContainSubstring("L1A"))
		Expect(sb.String()).To(ContainSubstring("L1B"))
	})

	It("should reject traces that reference unknown caches", func() {
		s := build(1)

		err := s.ScheduleTrace([]trace.Access{
			{Time: 0, Cache: "L1Z", Op: cache.OpRead, Addr: 0x1000},
		})

		Expect(err).To(HaveOccurred())
	})

	It("should reject invalid configurations", func() {
		cb := cache.MakeBuilder().WithBlockSize(48)

		err := simulation.MakeBuilder().
			WithCacheBuilder(cb).
			Validate()

		Expect(err).To(HaveOccurred())
	})
})

func simTime(t int) sim.VTime {
	return sim.VTime(t)
}
