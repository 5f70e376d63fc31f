package cache

import (
	"fmt"

	"github.com/sarchlab/snoopsim/bus"
	"github.com/sarchlab/snoopsim/mem/cache/internal/mshr"
	"github.com/sarchlab/snoopsim/mem/cache/internal/tagging"
	"github.com/sarchlab/snoopsim/mem/coherence"
	"github.com/sarchlab/snoopsim/mem/replacement"
	"github.com/sarchlab/snoopsim/sim"
)

// Builder can build cache controllers.
type Builder struct {
	engine sim.Engine
	bus    *bus.Comp

	coherence   coherence.Policy
	replacement replacement.Factory

	blockSize uint64
	numSets   uint64
	assoc     int
	mmSize    uint64

	rdHitLat     int
	rdMissLat    int
	wrHitLat     int
	wrMissLat    int
	snoopLat     int
	snoopHitLat  int
	mshrCapacity int
}

// MakeBuilder creates a Builder with default parameters: a 4-way, 16-set
// cache of 64-byte blocks over 64 KiB of memory, MESI coherence, and LRU
// replacement.
func MakeBuilder() Builder {
	return Builder{
		coherence:    coherence.NewMESI(),
		replacement:  func(numWays int) replacement.Policy { return replacement.NewLRU(numWays) },
		blockSize:    64,
		numSets:      16,
		assoc:        4,
		mmSize:       65536,
		rdHitLat:     5,
		rdMissLat:    15,
		wrHitLat:     5,
		wrMissLat:    15,
		snoopLat:     3,
		snoopHitLat:  8,
		mshrCapacity: 16,
	}
}

// WithEngine sets the engine that drives the cache.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithBus sets the snoop bus the cache is attached to.
func (b Builder) WithBus(c *bus.Comp) Builder {
	b.bus = c
	return b
}

// WithCoherencePolicy sets the coherence policy.
func (b Builder) WithCoherencePolicy(p coherence.Policy) Builder {
	b.coherence = p
	return b
}

// WithReplacementPolicy sets the factory for per-set replacement policies.
func (b Builder) WithReplacementPolicy(f replacement.Factory) Builder {
	b.replacement = f
	return b
}

// WithBlockSize sets the block size in bytes. Must be a power of two.
func (b Builder) WithBlockSize(n uint64) Builder {
	b.blockSize = n
	return b
}

// WithNumSets sets the number of sets. Must be a power of two.
func (b Builder) WithNumSets(n uint64) Builder {
	b.numSets = n
	return b
}

// WithAssociativity sets the number of ways per set.
func (b Builder) WithAssociativity(n int) Builder {
	b.assoc = n
	return b
}

// WithMemorySize sets the modeled memory size in bytes. Must be a power of
// two.
func (b Builder) WithMemorySize(n uint64) Builder {
	b.mmSize = n
	return b
}

// WithReadLatencies sets the read hit and miss latencies.
func (b Builder) WithReadLatencies(hit, miss int) Builder {
	b.rdHitLat = hit
	b.rdMissLat = miss
	return b
}

// WithWriteLatencies sets the write hit and miss latencies.
func (b Builder) WithWriteLatencies(hit, miss int) Builder {
	b.wrHitLat = hit
	b.wrMissLat = miss
	return b
}

// WithSnoopLatencies sets the snoop broadcast latency and the data latency
// when a peer cache sources the block.
func (b Builder) WithSnoopLatencies(snoop, snoopHit int) Builder {
	b.snoopLat = snoop
	b.snoopHitLat = snoopHit
	return b
}

// WithMSHRCapacity sets the number of outstanding misses the cache can
// track.
func (b Builder) WithMSHRCapacity(n int) Builder {
	b.mshrCapacity = n
	return b
}

// Validate reports whether the configuration can build a cache.
func (b Builder) Validate() error {
	if b.engine == nil {
		return fmt.Errorf("cache requires an engine")
	}

	if b.bus == nil {
		return fmt.Errorf("cache requires a bus")
	}

	if !isPowerOfTwo(b.blockSize) {
		return fmt.Errorf("block size %d is not a power of two", b.blockSize)
	}

	if !isPowerOfTwo(b.numSets) {
		return fmt.Errorf("num sets %d is not a power of two", b.numSets)
	}

	if !isPowerOfTwo(b.mmSize) {
		return fmt.Errorf("memory size %d is not a power of two", b.mmSize)
	}

	if b.assoc < 1 {
		return fmt.Errorf("associativity %d is smaller than 1", b.assoc)
	}

	if b.mshrCapacity < 1 {
		return fmt.Errorf("MSHR capacity %d is smaller than 1",
			b.mshrCapacity)
	}

	blkOffset := log2(b.blockSize)
	setBits := log2(b.numSets)
	if log2(b.mmSize) < blkOffset+setBits {
		return fmt.Errorf(
			"memory size %d leaves no room for tag bits", b.mmSize)
	}

	for _, lat := range []int{
		b.rdHitLat, b.rdMissLat, b.wrHitLat,
		b.wrMissLat, b.snoopLat, b.snoopHitLat,
	} {
		if lat < 0 {
			return fmt.Errorf("latency %d is negative", lat)
		}
	}

	return nil
}

// Build creates a cache with the given name and registers it on the bus.
// An invalid configuration is fatal.
func (b Builder) Build(name string) *Comp {
	if err := b.Validate(); err != nil {
		panic(err)
	}

	c := &Comp{
		ComponentBase: sim.NewComponentBase(name),
		engine:        b.engine,
		bus:           b.bus,
		coherence:     b.coherence,
		blockSize:     b.blockSize,
		numSets:       b.numSets,
		assoc:         b.assoc,
		mmSize:        b.mmSize,
		rdHitLat:      sim.VTime(b.rdHitLat),
		rdMissLat:     sim.VTime(b.rdMissLat),
		wrHitLat:      sim.VTime(b.wrHitLat),
		wrMissLat:     sim.VTime(b.wrMissLat),
		snoopLat:      sim.VTime(b.snoopLat),
		snoopHitLat:   sim.VTime(b.snoopHitLat),
	}

	c.blkOffset = log2(b.blockSize)
	c.setBits = log2(b.numSets)
	c.tagBits = log2(b.mmSize) - c.blkOffset - c.setBits

	c.tags = tagging.NewTagArray(
		int(b.numSets), b.assoc, b.coherence.DefaultState())
	c.mshr = mshr.New(b.mshrCapacity)

	c.policies = make([]replacement.Policy, b.numSets)
	for i := range c.policies {
		c.policies[i] = b.replacement(b.assoc)
	}

	b.bus.RegisterCache(c)

	return c
}

func isPowerOfTwo(n uint64) bool {
	return n > 0 && n&(n-1) == 0
}

func log2(n uint64) uint {
	var res uint
	for n > 1 {
		n >>= 1
		res++
	}
	return res
}
