package bus

import (
	"github.com/sarchlab/snoopsim/sim"
)

// processNextEvent starts the head of the grant queue.
type processNextEvent struct {
	sim.EventBase
}

func newProcessNextEvent(c *Comp) *processNextEvent {
	return &processNextEvent{EventBase: sim.MakeEventBase(c)}
}

// snoopResponseEvent is one responder's share of a snoop broadcast.
type snoopResponseEvent struct {
	sim.EventBase

	reqID     uint64
	responder Snooper
}

func newSnoopResponseEvent(
	c *Comp,
	reqID uint64,
	responder Snooper,
) *snoopResponseEvent {
	return &snoopResponseEvent{
		EventBase: sim.MakeEventBase(c),
		reqID:     reqID,
		responder: responder,
	}
}

// completionEvent finishes a request that has no responders: a data service
// or a broadcast over an empty target set.
type completionEvent struct {
	sim.EventBase

	req       Req
	result    bool
	isService bool
}

func newCompletionEvent(
	c *Comp,
	req Req,
	result bool,
	isService bool,
) *completionEvent {
	return &completionEvent{
		EventBase: sim.MakeEventBase(c),
		req:       req,
		result:    result,
		isService: isService,
	}
}
