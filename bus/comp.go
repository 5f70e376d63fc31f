// Package bus models the serialized snoop interconnect that the caches
// share. At most one request is in flight at any instant; snoops fan out to
// every registered cache but the source and their responses are
// OR-aggregated before the requestor's callback fires.
package bus

import (
	"log"

	"github.com/sarchlab/snoopsim/sim"
)

// Comp is the snoop bus.
type Comp struct {
	*sim.ComponentBase

	engine sim.Engine
	caches []Snooper

	queue []Req
	busy  bool

	// in-flight broadcasts, keyed by a bus-local request ID
	nextReqID uint64
	inflight  map[uint64]*broadcast
}

// broadcast aggregates the responses of one snoop fan-out.
type broadcast struct {
	req       Req
	remaining int
	anyHit    bool
}

// RegisterCache adds a cache to the snoop fan-out set. Registration order
// fixes the response order within one broadcast.
func (c *Comp) RegisterCache(s Snooper) {
	c.caches = append(c.caches, s)
}

// RequestGrant appends the request to the grant queue. If the bus is idle,
// the head of the queue starts at the current instant.
func (c *Comp) RequestGrant(req Req) {
	c.queue = append(c.queue, req)

	if !c.busy {
		c.busy = true
		c.engine.Schedule(0, newProcessNextEvent(c))
	}
}

// Handle dispatches the bus events.
func (c *Comp) Handle(e sim.Event) error {
	switch e := e.(type) {
	case *processNextEvent:
		c.processNext()
	case *snoopResponseEvent:
		c.collectSnoopResponse(e)
	case *completionEvent:
		c.complete(e)
	default:
		log.Panicf("bus cannot handle event %T", e)
	}

	return nil
}

// processNext starts the head of the grant queue, or parks the bus if the
// queue is empty.
func (c *Comp) processNext() {
	if len(c.queue) == 0 {
		c.busy = false
		return
	}

	req := c.queue[0]
	c.queue = c.queue[1:]

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Item: Trace{
			Time:    c.engine.CurrentTime(),
			Kind:    TraceProcessing,
			ReqKind: req.Kind,
			Source:  req.Source.Name(),
			Addr:    req.Addr,
		},
	})

	switch req.Kind {
	case ReqSnoopRead, ReqSnoopWrite, ReqInvalidate:
		c.startBroadcast(req)
	case ReqReadMissService, ReqWriteMissService:
		c.engine.Schedule(req.Latency,
			newCompletionEvent(c, req, true, true))
	}
}

// startBroadcast fans the snoop out to every cache but the source. With no
// target the request completes after its latency with no hit.
func (c *Comp) startBroadcast(req Req) {
	targets := 0
	for _, cache := range c.caches {
		if cache != req.Source {
			targets++
		}
	}

	if targets == 0 {
		c.engine.Schedule(req.Latency,
			newCompletionEvent(c, req, false, false))
		return
	}

	id := c.nextReqID
	c.nextReqID++
	c.inflight[id] = &broadcast{
		req:       req,
		remaining: targets,
	}

	for _, cache := range c.caches {
		if cache == req.Source {
			continue
		}

		c.engine.Schedule(req.Latency,
			newSnoopResponseEvent(c, id, cache))
	}
}

// collectSnoopResponse runs one responder's snoop and, on the final
// responder, fires the requestor's callback with the aggregate and restarts
// the queue.
func (c *Comp) collectSnoopResponse(e *snoopResponseEvent) {
	b, found := c.inflight[e.reqID]
	if !found {
		log.Panicf("no in-flight broadcast %d", e.reqID)
	}

	now := c.engine.CurrentTime()

	switch b.req.Kind {
	case ReqSnoopRead:
		hit := e.responder.SnoopRead(b.req.Addr)
		b.anyHit = b.anyHit || hit
		c.InvokeHook(sim.HookCtx{
			Domain: c,
			Item: Trace{
				Time:    now,
				Kind:    TraceSnooped,
				ReqKind: b.req.Kind,
				Source:  b.req.Source.Name(),
				Peer:    e.responder.Name(),
				Addr:    b.req.Addr,
				Hit:     hit,
			},
		})
	case ReqSnoopWrite:
		hit := e.responder.SnoopWrite(b.req.Addr)
		b.anyHit = b.anyHit || hit
		c.InvokeHook(sim.HookCtx{
			Domain: c,
			Item: Trace{
				Time:    now,
				Kind:    TraceSnooped,
				ReqKind: b.req.Kind,
				Source:  b.req.Source.Name(),
				Peer:    e.responder.Name(),
				Addr:    b.req.Addr,
				Hit:     hit,
			},
		})
	case ReqInvalidate:
		e.responder.SnoopWrite(b.req.Addr)
		c.InvokeHook(sim.HookCtx{
			Domain: c,
			Item: Trace{
				Time:    now,
				Kind:    TraceInvalidated,
				ReqKind: b.req.Kind,
				Source:  b.req.Source.Name(),
				Peer:    e.responder.Name(),
				Addr:    b.req.Addr,
			},
		})
	}

	b.remaining--
	if b.remaining > 0 {
		return
	}

	delete(c.inflight, e.reqID)

	result := b.anyHit
	if b.req.Kind == ReqInvalidate {
		// success tells that all invalidations were delivered
		result = true
	}

	if b.req.Callback != nil {
		b.req.Callback(result)
	}

	c.engine.Schedule(0, newProcessNextEvent(c))
}

// complete finishes a request that did not fan out: a data service or a
// broadcast with no target.
func (c *Comp) complete(e *completionEvent) {
	if e.isService {
		c.InvokeHook(sim.HookCtx{
			Domain: c,
			Item: Trace{
				Time:    c.engine.CurrentTime(),
				Kind:    TraceServiceDone,
				ReqKind: e.req.Kind,
				Source:  e.req.Source.Name(),
				Addr:    e.req.Addr,
			},
		})
	}

	if e.req.Callback != nil {
		e.req.Callback(e.result)
	}

	c.engine.Schedule(0, newProcessNextEvent(c))
}
