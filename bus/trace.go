package bus

import (
	"github.com/sarchlab/snoopsim/sim"
)

// TraceKind classifies the bus trace payloads. The payload type itself
// routes it to the hooks that understand it.
type TraceKind string

// The bus trace kinds.
const (
	TraceProcessing  TraceKind = "PROCESSING"
	TraceSnooped     TraceKind = "SNOOPED"
	TraceInvalidated TraceKind = "INVALIDATED"
	TraceServiceDone TraceKind = "SERVICE_DONE"
)

// Trace is the hook payload the bus emits for every observable action.
type Trace struct {
	Time    sim.VTime
	Kind    TraceKind
	ReqKind ReqKind
	Source  string
	Peer    string
	Addr    uint64
	Hit     bool
}
