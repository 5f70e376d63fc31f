package bus

import (
	"github.com/sarchlab/snoopsim/sim"
)

// ReqKind tells what a bus request asks the bus to do.
type ReqKind int

// The request kinds the bus can serve. Cache controllers submit the snoop
// kinds and Invalidate; the miss-service kinds simulate a data source and
// are kept for components that model memory traffic explicitly.
const (
	ReqSnoopRead ReqKind = iota
	ReqSnoopWrite
	ReqReadMissService
	ReqWriteMissService
	ReqInvalidate
)

func (k ReqKind) String() string {
	switch k {
	case ReqSnoopRead:
		return "SNOOP_READ"
	case ReqSnoopWrite:
		return "SNOOP_WRITE"
	case ReqReadMissService:
		return "READ_MISS_SERVICE"
	case ReqWriteMissService:
		return "WRITE_MISS_SERVICE"
	case ReqInvalidate:
		return "INVALIDATE"
	}
	return "Unknown"
}

// A Snooper is a cache that the bus can probe on behalf of a requestor.
// The snoop entrypoints are synchronous and only touch local coherence
// state; they report whether the block was present.
type Snooper interface {
	sim.Named

	SnoopRead(addr uint64) bool
	SnoopWrite(addr uint64) bool
}

// A Req asks the bus for one serialized transaction. The callback is
// invoked exactly once, when the transaction completes.
type Req struct {
	Kind     ReqKind
	Source   Snooper
	Addr     uint64
	Latency  sim.VTime
	Callback func(snoopHit bool)
}
