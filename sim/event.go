package sim

// VTime is the virtual time of the simulation, counted in abstract time
// units. It only moves forward, one dispatched event at a time.
type VTime uint64

// An Event is a deferred action of this model: a hit completion, a
// miss-service install, a snoop response, or the grant of the next bus
// request. An event does not carry its dispatch time; the engine tracks it
// in the schedule, so a scheduled event can never be replayed at another
// instant.
type Event interface {
	// Handler returns the component that owns and handles the event.
	Handler() Handler
}

// A Handler consumes the events it scheduled for itself. Components never
// handle each other's events; cross-component work goes through the bus
// and the snoop entrypoints.
type Handler interface {
	Handle(e Event) error
}

// EventBase is embedded by the concrete event types to carry their owner.
type EventBase struct {
	handler Handler
}

// MakeEventBase creates an EventBase owned by handler.
func MakeEventBase(handler Handler) EventBase {
	return EventBase{handler: handler}
}

// Handler returns the component that handles the event.
func (e EventBase) Handler() Handler {
	return e.handler
}
