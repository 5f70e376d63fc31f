// Package simulation owns the lifetime of one experiment: the engine, the
// snoop bus, the caches, and the observers attached to them.
package simulation

import (
	"io"

	"github.com/sarchlab/snoopsim/bus"
	"github.com/sarchlab/snoopsim/datarecording"
	"github.com/sarchlab/snoopsim/logging"
	"github.com/sarchlab/snoopsim/mem/cache"
	"github.com/sarchlab/snoopsim/monitoring"
	"github.com/sarchlab/snoopsim/sim"
	"github.com/sarchlab/snoopsim/trace"
)

// A Simulation provides the service requires to define a simulation.
type Simulation struct {
	id string

	engine sim.Engine
	bus    *bus.Comp

	caches         []*cache.Comp
	cacheNameIndex map[string]int

	stats        *logging.StatsCollector
	dataRecorder datarecording.DataRecorder
	monitor      *monitoring.Monitor
}

// ID returns the simulation ID.
func (s *Simulation) ID() string {
	return s.id
}

// Engine returns the engine used in the simulation.
func (s *Simulation) Engine() sim.Engine {
	return s.engine
}

// Bus returns the snoop bus.
func (s *Simulation) Bus() *bus.Comp {
	return s.bus
}

// Caches returns all the caches of the simulation.
func (s *Simulation) Caches() []*cache.Comp {
	return s.caches
}

// Cache returns the cache with the given name.
func (s *Simulation) Cache(name string) *cache.Comp {
	return s.caches[s.cacheNameIndex[name]]
}

// Stats returns the per-cache access counters.
func (s *Simulation) Stats() *logging.StatsCollector {
	return s.stats
}

// DataRecorder returns the data recorder, or nil if recording is off.
func (s *Simulation) DataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// Monitor returns the monitor, or nil if monitoring is off.
func (s *Simulation) Monitor() *monitoring.Monitor {
	return s.monitor
}

// ScheduleTrace replays a trace onto the caches of this simulation.
func (s *Simulation) ScheduleTrace(accesses []trace.Access) error {
	byName := make(map[string]*cache.Comp)
	for _, c := range s.caches {
		byName[c.Name()] = c
	}

	return trace.Schedule(accesses, byName)
}

// Run processes all the scheduled events until none is left.
func (s *Simulation) Run() error {
	return s.engine.Run()
}

// WriteSummary prints the per-cache counters.
func (s *Simulation) WriteSummary(w io.Writer) {
	s.stats.WriteSummary(w)
}

// Terminate releases the resources of the simulation.
func (s *Simulation) Terminate() {
	if s.dataRecorder != nil {
		s.dataRecorder.Close()
	}

	if s.monitor != nil {
		s.monitor.StopServer()
	}
}
