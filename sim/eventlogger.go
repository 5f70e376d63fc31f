package sim

import (
	"log"
	"reflect"
)

// EventDispatch is the payload the engine hands to its hooks for every
// event it dispatches.
type EventDispatch struct {
	Time VTime
	Evt  Event
}

// EventLogger prints every dispatched event with its time, its type, and
// the component that handles it. It is the firehose below the cache and
// bus trace logs, for debugging the event flow itself.
type EventLogger struct {
	logger *log.Logger
}

// NewEventLogger creates an EventLogger that writes into logger.
func NewEventLogger(logger *log.Logger) *EventLogger {
	return &EventLogger{logger: logger}
}

// Func prints the dispatched event.
func (h *EventLogger) Func(ctx HookCtx) {
	dispatch, ok := ctx.Item.(EventDispatch)
	if !ok {
		return
	}

	evt := dispatch.Evt
	if comp, ok := evt.Handler().(Named); ok {
		h.logger.Printf("%d, %s -> %s",
			dispatch.Time, reflect.TypeOf(evt), comp.Name())
		return
	}

	h.logger.Printf("%d, %s", dispatch.Time, reflect.TypeOf(evt))
}
