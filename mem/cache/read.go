package cache

import (
	"github.com/sarchlab/snoopsim/bus"
	"github.com/sarchlab/snoopsim/mem/coherence"
	"github.com/sarchlab/snoopsim/sim"
)

// Read classifies a read access and either schedules the hit continuation
// or starts a miss.
func (c *Comp) Read(addr uint64) {
	setID, tag := c.decode(addr)
	now := c.engine.CurrentTime()

	c.traceOut(Trace{
		Time: now, Kind: TraceReadRequest, Addr: addr, SetID: setID, Tag: tag,
	})

	line, found := c.tags.Lookup(setID, tag)
	if found && c.coherence.CanRead(line.State) {
		c.traceOut(Trace{
			Time: now, Kind: TraceReadHit, Addr: addr, SetID: setID, Tag: tag,
		})
		c.engine.Schedule(c.rdHitLat,
			newHitCompleteEvent(c, OpRead, addr, setID, tag))

		return
	}

	c.startMiss(OpRead, addr, setID, tag)
}

// startMiss allocates or joins the MSHR entry for the block and, for a new
// entry, snoops the peers. Coalesced accesses generate no bus traffic; they
// complete with the miss that is already in flight.
func (c *Comp) startMiss(op Op, addr uint64, setID int, tag uint64) {
	now := c.engine.CurrentTime()

	if c.mshr.Lookup(tag) {
		if err := c.mshr.Coalesce(tag); err != nil {
			panic(err)
		}
		c.traceOut(Trace{
			Time: now, Kind: TraceMSHRCoalesce,
			Addr: addr, SetID: setID, Tag: tag,
		})

		return
	}

	missKind := TraceReadMiss
	if op == OpWrite {
		missKind = TraceWriteMiss
	}
	c.traceOut(Trace{
		Time: now, Kind: missKind, Addr: addr, SetID: setID, Tag: tag,
	})

	if c.mshr.IsFull() {
		c.traceOut(Trace{
			Time: now, Kind: TraceMSHRStall,
			Addr: addr, SetID: setID, Tag: tag,
		})
		c.engine.Schedule(mshrStallBackoff, newAccessEvent(c, op, addr))

		return
	}

	if err := c.mshr.AddEntry(tag, setID); err != nil {
		panic(err)
	}
	c.traceOut(Trace{
		Time: now, Kind: TraceMSHRAlloc, Addr: addr, SetID: setID, Tag: tag,
	})

	kind := bus.ReqSnoopRead
	if op == OpWrite {
		kind = bus.ReqSnoopWrite
	}

	c.bus.RequestGrant(bus.Req{
		Kind:    kind,
		Source:  c,
		Addr:    addr,
		Latency: c.snoopLat,
		Callback: func(snoopHit bool) {
			c.missCallback(op, addr, setID, tag, snoopHit)
		},
	})
}

// missCallback runs when the snoop broadcast completes. Data arrives faster
// when a peer cache sourced it.
func (c *Comp) missCallback(
	op Op,
	addr uint64,
	setID int,
	tag uint64,
	snoopHit bool,
) {
	var serviceLat sim.VTime
	switch {
	case snoopHit:
		serviceLat = c.snoopHitLat
	case op == OpRead:
		serviceLat = c.rdMissLat
	default:
		serviceLat = c.wrMissLat
	}

	c.engine.Schedule(serviceLat,
		newMissServiceEvent(c, op, addr, setID, tag, snoopHit))
}

// completeMiss installs the block, resolves its coherence state from the
// snoop aggregate, and releases the MSHR entry.
func (c *Comp) completeMiss(e *missServiceEvent) {
	now := c.engine.CurrentTime()

	line := c.install(e.setID, e.tag)

	if e.op == OpRead {
		line.State = c.coherence.OnReadMiss(line.State, e.snoopHit)
	} else {
		line.State = c.coherence.OnWrite(line.State)
	}
	c.tags.Update(line)
	c.touch(e.setID, line.WayID)

	if e.op == OpRead {
		c.traceOut(Trace{
			Time: now, Kind: TraceLineReturned,
			Addr: e.addr, SetID: e.setID, Tag: e.tag,
		})
	} else {
		c.traceOut(Trace{
			Time: now, Kind: TraceLineWritten,
			Addr: e.addr, SetID: e.setID, Tag: e.tag,
			From: coherence.StateInvalid, To: line.State,
		})
	}

	if err := c.mshr.RemoveEntry(e.tag); err != nil {
		panic(err)
	}
}
