package cache

import (
	"github.com/sarchlab/snoopsim/sim"
)

// accessEvent delivers one trace access to the controller. Stalled accesses
// are re-scheduled as new accessEvents.
type accessEvent struct {
	sim.EventBase

	op   Op
	addr uint64
}

func newAccessEvent(c *Comp, op Op, addr uint64) *accessEvent {
	return &accessEvent{
		EventBase: sim.MakeEventBase(c),
		op:        op,
		addr:      addr,
	}
}

// hitCompleteEvent is the continuation of a hit, fired after the hit
// latency.
type hitCompleteEvent struct {
	sim.EventBase

	op    Op
	addr  uint64
	setID int
	tag   uint64
}

func newHitCompleteEvent(
	c *Comp,
	op Op,
	addr uint64,
	setID int,
	tag uint64,
) *hitCompleteEvent {
	return &hitCompleteEvent{
		EventBase: sim.MakeEventBase(c),
		op:        op,
		addr:      addr,
		setID:     setID,
		tag:       tag,
	}
}

// missServiceEvent installs the block when the data arrives, after the
// snoop broadcast resolved and the service latency elapsed.
type missServiceEvent struct {
	sim.EventBase

	op       Op
	addr     uint64
	setID    int
	tag      uint64
	snoopHit bool
}

func newMissServiceEvent(
	c *Comp,
	op Op,
	addr uint64,
	setID int,
	tag uint64,
	snoopHit bool,
) *missServiceEvent {
	return &missServiceEvent{
		EventBase: sim.MakeEventBase(c),
		op:        op,
		addr:      addr,
		setID:     setID,
		tag:       tag,
		snoopHit:  snoopHit,
	}
}
