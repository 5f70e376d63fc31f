package logging

import (
	"github.com/sarchlab/snoopsim/bus"
	"github.com/sarchlab/snoopsim/datarecording"
	"github.com/sarchlab/snoopsim/mem/cache"
	"github.com/sarchlab/snoopsim/sim"
)

// CacheTraceEntry is one cache trace row in the database.
type CacheTraceEntry struct {
	Time  uint64
	Cache string
	Kind  string
	Addr  uint64
	SetID int
	Tag   uint64
}

// BusTraceEntry is one bus trace row in the database.
type BusTraceEntry struct {
	Time    uint64
	Kind    string
	ReqKind string
	Source  string
	Peer    string
	Addr    uint64
	Hit     bool
}

// DBTracer is a hook that records every cache and bus trace payload with a
// DataRecorder.
type DBTracer struct {
	recorder datarecording.DataRecorder
}

// NewDBTracer creates a DBTracer and its tables.
func NewDBTracer(recorder datarecording.DataRecorder) *DBTracer {
	t := &DBTracer{recorder: recorder}

	recorder.CreateTable("cache_trace", CacheTraceEntry{})
	recorder.CreateTable("bus_trace", BusTraceEntry{})

	return t
}

// Func records the trace payload.
func (t *DBTracer) Func(ctx sim.HookCtx) {
	switch item := ctx.Item.(type) {
	case cache.Trace:
		t.recorder.InsertData("cache_trace", CacheTraceEntry{
			Time:  uint64(item.Time),
			Cache: ctx.Domain.(sim.Named).Name(),
			Kind:  string(item.Kind),
			Addr:  item.Addr,
			SetID: item.SetID,
			Tag:   item.Tag,
		})
	case bus.Trace:
		t.recorder.InsertData("bus_trace", BusTraceEntry{
			Time:    uint64(item.Time),
			Kind:    string(item.Kind),
			ReqKind: item.ReqKind.String(),
			Source:  item.Source,
			Peer:    item.Peer,
			Addr:    item.Addr,
			Hit:     item.Hit,
		})
	}
}
