package sim

import (
	"sync"
)

// A SerialEngine dispatches scheduled events one at a time, in virtual
// time order. Same-time events dispatch in the order they were scheduled,
// so a zero-delay continuation always runs behind the work that is already
// queued at the current instant.
//
// The caches and the bus suspend by scheduling a continuation and
// returning; the engine is the only place where control transfers between
// them.
type SerialEngine struct {
	HookableBase

	queueLock sync.Mutex
	queue     *eventQueue

	timeLock sync.RWMutex
	now      VTime

	pauseLock sync.Mutex
	paused    bool

	// gate is held for the duration of each dispatch; Pause blocks the
	// next dispatch by acquiring it.
	gate sync.Mutex
}

// NewSerialEngine creates a SerialEngine with an empty schedule.
func NewSerialEngine() *SerialEngine {
	return &SerialEngine{
		queue: newEventQueue(),
	}
}

// Schedule enqueues evt to dispatch delay time units after the current
// instant.
func (e *SerialEngine) Schedule(delay VTime, evt Event) {
	t := e.CurrentTime() + delay

	e.queueLock.Lock()
	e.queue.push(t, evt)
	e.queueLock.Unlock()
}

// Run dispatches events until the schedule is empty. The clock jumps to
// each event's time before its handler runs; it never moves backward
// because delays are unsigned and the queue is time-ordered.
func (e *SerialEngine) Run() error {
	for {
		e.queueLock.Lock()
		if e.queue.len() == 0 {
			e.queueLock.Unlock()
			return nil
		}
		t, evt := e.queue.pop()
		e.queueLock.Unlock()

		e.gate.Lock()

		e.timeLock.Lock()
		e.now = t
		e.timeLock.Unlock()

		e.InvokeHook(HookCtx{
			Domain: e,
			Item:   EventDispatch{Time: t, Evt: evt},
		})

		err := evt.Handler().Handle(evt)

		e.gate.Unlock()

		if err != nil {
			return err
		}
	}
}

// CurrentTime returns the time of the event being dispatched, or the time
// of the last dispatched event between dispatches.
func (e *SerialEngine) CurrentTime() VTime {
	e.timeLock.RLock()
	t := e.now
	e.timeLock.RUnlock()
	return t
}

// Pause blocks the engine before its next dispatch. The monitor uses this
// to freeze a running simulation.
func (e *SerialEngine) Pause() {
	e.pauseLock.Lock()
	defer e.pauseLock.Unlock()

	if e.paused {
		return
	}

	e.gate.Lock()
	e.paused = true
}

// Continue lets a paused engine dispatch again.
func (e *SerialEngine) Continue() {
	e.pauseLock.Lock()
	defer e.pauseLock.Unlock()

	if !e.paused {
		return
	}

	e.gate.Unlock()
	e.paused = false
}
