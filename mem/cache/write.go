package cache

import (
	"github.com/sarchlab/snoopsim/bus"
	"github.com/sarchlab/snoopsim/mem/coherence"
)

// Write classifies a write access. A hit on a writable line completes
// locally; a hit on a Shared line first invalidates the other sharers over
// the bus; everything else is a miss.
func (c *Comp) Write(addr uint64) {
	setID, tag := c.decode(addr)
	now := c.engine.CurrentTime()

	c.traceOut(Trace{
		Time: now, Kind: TraceWriteRequest, Addr: addr, SetID: setID, Tag: tag,
	})

	line, found := c.tags.Lookup(setID, tag)
	if found {
		c.traceOut(Trace{
			Time: now, Kind: TraceWriteHit, Addr: addr, SetID: setID, Tag: tag,
		})

		if c.coherence.CanWrite(line.State) {
			c.engine.Schedule(c.wrHitLat,
				newHitCompleteEvent(c, OpWrite, addr, setID, tag))

			return
		}

		// Shared line: the other sharers must drop their copies first.
		c.bus.RequestGrant(bus.Req{
			Kind:    bus.ReqInvalidate,
			Source:  c,
			Addr:    addr,
			Latency: c.snoopLat,
			Callback: func(bool) {
				c.engine.Schedule(c.wrHitLat,
					newHitCompleteEvent(c, OpWrite, addr, setID, tag))
			},
		})

		return
	}

	c.startMiss(OpWrite, addr, setID, tag)
}

// completeHit finishes a hit after its latency. The line is looked up again
// because a peer may have invalidated it while the hit was in flight. A
// write re-installs a vanished line through the victim path; a read still
// reports the line returned but installs nothing.
func (c *Comp) completeHit(e *hitCompleteEvent) {
	now := c.engine.CurrentTime()

	line, found := c.tags.Lookup(e.setID, e.tag)

	if e.op == OpRead {
		if found {
			c.touch(e.setID, line.WayID)
		}
		c.traceOut(Trace{
			Time: now, Kind: TraceLineReturned,
			Addr: e.addr, SetID: e.setID, Tag: e.tag,
		})

		return
	}

	from := coherence.StateInvalid
	if !found {
		line = c.install(e.setID, e.tag)
	} else {
		from = line.State
	}

	line.State = c.coherence.OnWrite(line.State)
	c.tags.Update(line)
	c.touch(e.setID, line.WayID)

	c.traceOut(Trace{
		Time: now, Kind: TraceLineWritten,
		Addr: e.addr, SetID: e.setID, Tag: e.tag,
		From: from, To: line.State,
	})
}
