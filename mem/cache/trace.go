package cache

import (
	"github.com/sarchlab/snoopsim/mem/coherence"
	"github.com/sarchlab/snoopsim/sim"
)

// TraceKind classifies the cache trace payloads. The payload type itself
// routes it to the hooks that understand it.
type TraceKind string

// The cache trace kinds.
const (
	TraceReadRequest    TraceKind = "READ_REQUEST"
	TraceWriteRequest   TraceKind = "WRITE_REQUEST"
	TraceReadHit        TraceKind = "READ_HIT"
	TraceWriteHit       TraceKind = "WRITE_HIT"
	TraceReadMiss       TraceKind = "READ_MISS"
	TraceWriteMiss      TraceKind = "WRITE_MISS"
	TraceMSHRAlloc      TraceKind = "MSHR_ALLOC"
	TraceMSHRCoalesce   TraceKind = "MSHR_COALESCE"
	TraceMSHRStall      TraceKind = "MSHR_STALL"
	TraceLineReturned   TraceKind = "LINE_RETURNED"
	TraceLineWritten    TraceKind = "LINE_WRITTEN"
	TraceAddrOutOfRange TraceKind = "ADDR_OUT_OF_RANGE"
)

// Trace is the hook payload a cache emits for every observable action.
type Trace struct {
	Time  sim.VTime
	Kind  TraceKind
	Addr  uint64
	SetID int
	Tag   uint64

	// From and To carry the state transition of LINE_WRITTEN payloads.
	From coherence.State
	To   coherence.State
}
