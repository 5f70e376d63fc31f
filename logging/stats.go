package logging

import (
	"fmt"
	"io"
	"sort"

	"github.com/sarchlab/snoopsim/mem/cache"
	"github.com/sarchlab/snoopsim/sim"
)

// Stats are the access counters of one cache.
type Stats struct {
	ReadHits    uint64
	ReadMisses  uint64
	WriteHits   uint64
	WriteMisses uint64
	Coalesces   uint64
	Stalls      uint64
}

// StatsCollector is a hook that counts the accesses of every cache it is
// attached to.
type StatsCollector struct {
	stats map[string]*Stats
}

// NewStatsCollector creates an empty StatsCollector.
func NewStatsCollector() *StatsCollector {
	return &StatsCollector{
		stats: make(map[string]*Stats),
	}
}

// Func counts the cache trace payloads.
func (c *StatsCollector) Func(ctx sim.HookCtx) {
	item, ok := ctx.Item.(cache.Trace)
	if !ok {
		return
	}

	name := ctx.Domain.(sim.Named).Name()
	s := c.statsFor(name)

	switch item.Kind {
	case cache.TraceReadHit:
		s.ReadHits++
	case cache.TraceReadMiss:
		s.ReadMisses++
	case cache.TraceWriteHit:
		s.WriteHits++
	case cache.TraceWriteMiss:
		s.WriteMisses++
	case cache.TraceMSHRCoalesce:
		s.Coalesces++
	case cache.TraceMSHRStall:
		s.Stalls++
	}
}

func (c *StatsCollector) statsFor(name string) *Stats {
	s, found := c.stats[name]
	if !found {
		s = &Stats{}
		c.stats[name] = s
	}

	return s
}

// Stats returns the counters of one cache.
func (c *StatsCollector) Stats(name string) Stats {
	return *c.statsFor(name)
}

// CacheNames returns the names of all observed caches, sorted.
func (c *StatsCollector) CacheNames() []string {
	names := make([]string, 0, len(c.stats))
	for name := range c.stats {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// WriteSummary prints a per-cache summary table.
func (c *StatsCollector) WriteSummary(w io.Writer) {
	fmt.Fprintf(w, "%-8s %10s %10s %10s %10s %10s %8s\n",
		"cache", "rd_hit", "rd_miss", "wr_hit", "wr_miss",
		"coalesced", "stalled")

	for _, name := range c.CacheNames() {
		s := c.stats[name]
		fmt.Fprintf(w, "%-8s %10d %10d %10d %10d %10d %8d\n",
			name, s.ReadHits, s.ReadMisses, s.WriteHits, s.WriteMisses,
			s.Coalesces, s.Stalls)
	}
}
