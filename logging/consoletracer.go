// Package logging provides the log hooks that observe caches and buses.
package logging

import (
	"fmt"
	"log"

	"github.com/sarchlab/snoopsim/bus"
	"github.com/sarchlab/snoopsim/mem/cache"
	"github.com/sarchlab/snoopsim/sim"
)

// ConsoleTracer renders cache and bus trace payloads, one line per event,
// with the virtual time in a fixed-width column.
type ConsoleTracer struct {
	logger *log.Logger
}

// NewConsoleTracer returns a ConsoleTracer that writes into the logger.
func NewConsoleTracer(logger *log.Logger) *ConsoleTracer {
	return &ConsoleTracer{logger: logger}
}

// Func renders the trace payload.
func (t *ConsoleTracer) Func(ctx sim.HookCtx) {
	switch item := ctx.Item.(type) {
	case cache.Trace:
		name := ctx.Domain.(sim.Named).Name()
		t.logAt(item.Time, t.cacheMsg(name, item))
	case bus.Trace:
		t.logAt(item.Time, t.busMsg(item))
	}
}

func (t *ConsoleTracer) logAt(time sim.VTime, msg string) {
	t.logger.Printf("@ %-7d %s", time, msg)
}

func (t *ConsoleTracer) cacheMsg(name string, item cache.Trace) string {
	switch item.Kind {
	case cache.TraceReadRequest, cache.TraceWriteRequest:
		return fmt.Sprintf(
			"Cache_%s :: %s for addr(%d) --> on SET[%d] with TAG[%d]",
			name, item.Kind, item.Addr, item.SetID, item.Tag)
	case cache.TraceReadHit, cache.TraceWriteHit,
		cache.TraceReadMiss, cache.TraceWriteMiss:
		return fmt.Sprintf("Cache_%s ::  --> %s for addr(%d)",
			name, item.Kind, item.Addr)
	case cache.TraceMSHRAlloc:
		return fmt.Sprintf("Cache_%s :: MSHR_ALLOC for addr(%d) on TAG[%d]",
			name, item.Addr, item.Tag)
	case cache.TraceMSHRCoalesce:
		return fmt.Sprintf(
			"Cache_%s :: MSHR_COALESCE for addr(%d) exists in MSHR",
			name, item.Addr)
	case cache.TraceMSHRStall:
		return fmt.Sprintf(
			"Cache_%s :: MSHR_STALL for addr(%d) --> retrying",
			name, item.Addr)
	case cache.TraceLineReturned:
		return fmt.Sprintf("Cache_%s :: LINE RETURNED for addr(%d)",
			name, item.Addr)
	case cache.TraceLineWritten:
		return fmt.Sprintf(
			"Cache_%s :: LINE WRITTEN for addr(%d) -- (state:%s --> %s)",
			name, item.Addr, item.From, item.To)
	case cache.TraceAddrOutOfRange:
		return fmt.Sprintf("Cache_%s :: address out of range addr(%d)",
			name, item.Addr)
	}

	return fmt.Sprintf("Cache_%s :: %s addr(%d)", name, item.Kind, item.Addr)
}

func (t *ConsoleTracer) busMsg(item bus.Trace) string {
	switch item.Kind {
	case bus.TraceProcessing:
		return fmt.Sprintf("Bus :: Processing %s from Cache_%s addr(0x%x)",
			item.ReqKind, item.Source, item.Addr)
	case bus.TraceSnooped:
		result := "SNOOP_MISS"
		if item.Hit {
			result = "SNOOP_HIT"
		}
		return fmt.Sprintf(
			"Bus :: Cache_%s snooped Cache_%s addr(0x%x) --> %s",
			item.Source, item.Peer, item.Addr, result)
	case bus.TraceInvalidated:
		return fmt.Sprintf("Bus :: Cache_%s invalidated Cache_%s addr(0x%x)",
			item.Source, item.Peer, item.Addr)
	case bus.TraceServiceDone:
		return fmt.Sprintf(
			"Bus :: Data service completed for Cache_%s addr(0x%x)",
			item.Source, item.Addr)
	}

	return fmt.Sprintf("Bus :: %s addr(0x%x)", item.Kind, item.Addr)
}
