// Package cache implements a set-associative, write-invalidate cache
// controller. Hits are served after a local latency; misses allocate an
// MSHR entry, snoop the peers over the bus, and install the block when the
// miss-service continuation fires. Peer caches reach in only through the
// snoop entrypoints.
package cache

import (
	"log"

	"github.com/sarchlab/snoopsim/bus"
	"github.com/sarchlab/snoopsim/mem/cache/internal/mshr"
	"github.com/sarchlab/snoopsim/mem/cache/internal/tagging"
	"github.com/sarchlab/snoopsim/mem/coherence"
	"github.com/sarchlab/snoopsim/mem/replacement"
	"github.com/sarchlab/snoopsim/sim"
)

// mshrStallBackoff is how long a stalled access waits before retrying when
// the MSHR is full.
const mshrStallBackoff = 1

// An Op is the kind of a cache access.
type Op int

// The access kinds.
const (
	OpRead Op = iota
	OpWrite
)

func (o Op) String() string {
	if o == OpWrite {
		return "WRITE"
	}
	return "READ"
}

// Comp is the cache controller.
type Comp struct {
	*sim.ComponentBase

	engine sim.Engine
	bus    *bus.Comp

	coherence coherence.Policy
	tags      tagging.TagArray
	mshr      mshr.MSHR
	policies  []replacement.Policy

	blockSize uint64
	numSets   uint64
	assoc     int
	mmSize    uint64

	blkOffset uint
	setBits   uint
	tagBits   uint

	rdHitLat    sim.VTime
	rdMissLat   sim.VTime
	wrHitLat    sim.VTime
	wrMissLat   sim.VTime
	snoopLat    sim.VTime
	snoopHitLat sim.VTime
}

// decode slices an address into set index and tag. Addresses beyond the
// modeled memory are fatal.
func (c *Comp) decode(addr uint64) (setID int, tag uint64) {
	if addr >= c.mmSize {
		c.traceOut(Trace{
			Time: c.engine.CurrentTime(),
			Kind: TraceAddrOutOfRange,
			Addr: addr,
		})
		log.Panicf("%s: address 0x%x beyond memory size 0x%x",
			c.Name(), addr, c.mmSize)
	}

	setID = int((addr >> c.blkOffset) & ((1 << c.setBits) - 1))
	tag = (addr >> (c.blkOffset + c.setBits)) & ((1 << c.tagBits) - 1)

	return setID, tag
}

// ScheduleRead issues a read access after the given delay. Trace replay
// schedules before the engine runs, so issue times are delays from the
// start of the simulation.
func (c *Comp) ScheduleRead(after sim.VTime, addr uint64) {
	c.engine.Schedule(after, newAccessEvent(c, OpRead, addr))
}

// ScheduleWrite issues a write access after the given delay.
func (c *Comp) ScheduleWrite(after sim.VTime, addr uint64) {
	c.engine.Schedule(after, newAccessEvent(c, OpWrite, addr))
}

// Handle dispatches the cache events.
func (c *Comp) Handle(e sim.Event) error {
	switch e := e.(type) {
	case *accessEvent:
		if e.op == OpRead {
			c.Read(e.addr)
		} else {
			c.Write(e.addr)
		}
	case *hitCompleteEvent:
		c.completeHit(e)
	case *missServiceEvent:
		c.completeMiss(e)
	default:
		log.Panicf("cache cannot handle event %T", e)
	}

	return nil
}

// SnoopRead reports whether this cache holds the block and demotes its
// state for a peer's read.
func (c *Comp) SnoopRead(addr uint64) bool {
	setID, tag := c.decode(addr)

	line, found := c.tags.Lookup(setID, tag)
	if !found {
		return false
	}

	line.State = c.coherence.OnSnoopRead(line.State)
	c.tags.Update(line)

	return true
}

// SnoopWrite reports whether this cache holds the block and invalidates it
// for a peer's write.
func (c *Comp) SnoopWrite(addr uint64) bool {
	setID, tag := c.decode(addr)

	line, found := c.tags.Lookup(setID, tag)
	if !found {
		return false
	}

	line.State = c.coherence.OnSnoopWrite(line.State)
	line.IsValid = line.State != coherence.StateInvalid
	c.tags.Update(line)

	return true
}

// LineState returns the coherence state of the line holding addr, if any.
func (c *Comp) LineState(addr uint64) (coherence.State, bool) {
	setID, tag := c.decode(addr)

	line, found := c.tags.Lookup(setID, tag)
	if !found {
		return coherence.StateInvalid, false
	}

	return line.State, true
}

// install places the block into its set, evicting a victim if needed, and
// returns the installed line. The miss path never installs a tag that is
// already present, which keeps at most one valid line per (set, tag).
func (c *Comp) install(setID int, tag uint64) tagging.Line {
	victim := c.policies[setID].ChooseVictim(c.tags.ValidMask(setID))

	line := c.tags.GetSet(setID).Lines[victim]
	line.Tag = tag
	line.IsValid = true
	line.State = c.coherence.DefaultState()
	c.tags.Update(line)

	return line
}

func (c *Comp) touch(setID, wayID int) {
	c.policies[setID].Touch(wayID)
}

func (c *Comp) traceOut(t Trace) {
	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Item:   t,
	})
}
