package simulation

import (
	"fmt"
	"io"
	"log"

	"github.com/rs/xid"

	"github.com/sarchlab/snoopsim/bus"
	"github.com/sarchlab/snoopsim/datarecording"
	"github.com/sarchlab/snoopsim/logging"
	"github.com/sarchlab/snoopsim/mem/cache"
	"github.com/sarchlab/snoopsim/monitoring"
	"github.com/sarchlab/snoopsim/sim"
)

// Builder can be used to build a simulation.
type Builder struct {
	numCaches    int
	cacheBuilder cache.Builder

	logWriter      io.Writer
	eventLogWriter io.Writer
	recordingPath  string
	recordingOn    bool
	monitorOn      bool
	monitorPort    int
	monitorBrowser bool
}

// MakeBuilder creates a builder with two caches and default cache
// parameters.
func MakeBuilder() Builder {
	return Builder{
		numCaches:    2,
		cacheBuilder: cache.MakeBuilder(),
	}
}

// WithNumCaches sets how many caches share the bus. Caches are named L1A,
// L1B, and so on.
func (b Builder) WithNumCaches(n int) Builder {
	b.numCaches = n
	return b
}

// WithCacheBuilder sets the builder used for every cache. Its engine and
// bus are overridden by the simulation's own.
func (b Builder) WithCacheBuilder(cb cache.Builder) Builder {
	b.cacheBuilder = cb
	return b
}

// WithConsoleLog attaches a console tracer that writes into w.
func (b Builder) WithConsoleLog(w io.Writer) Builder {
	b.logWriter = w
	return b
}

// WithEventLog prints every dispatched event into w. This is the firehose
// below the trace log; useful when debugging the event flow itself.
func (b Builder) WithEventLog(w io.Writer) Builder {
	b.eventLogWriter = w
	return b
}

// WithDataRecording stores every trace payload into a SQLite database. The
// database file is the given path with ".sqlite3" appended.
func (b Builder) WithDataRecording(path string) Builder {
	b.recordingOn = true
	b.recordingPath = path
	return b
}

// WithMonitoring starts the monitoring server on the given port. Port 0
// picks a random port.
func (b Builder) WithMonitoring(port int, openBrowser bool) Builder {
	b.monitorOn = true
	b.monitorPort = port
	b.monitorBrowser = openBrowser
	return b
}

// Validate reports whether the configuration can build a simulation.
func (b Builder) Validate() error {
	if b.numCaches < 1 || b.numCaches > 26 {
		return fmt.Errorf("num caches %d is not in [1, 26]", b.numCaches)
	}

	engine := sim.NewSerialEngine()
	snoopBus := bus.MakeBuilder().WithEngine(engine).Build("Bus")

	return b.cacheBuilder.
		WithEngine(engine).
		WithBus(snoopBus).
		Validate()
}

// Build builds the simulation.
func (b Builder) Build() *Simulation {
	s := &Simulation{
		id:             xid.New().String(),
		cacheNameIndex: make(map[string]int),
		stats:          logging.NewStatsCollector(),
	}

	s.engine = sim.NewSerialEngine()
	s.bus = bus.MakeBuilder().
		WithEngine(s.engine).
		Build("Bus")

	cb := b.cacheBuilder.
		WithEngine(s.engine).
		WithBus(s.bus)

	for i := 0; i < b.numCaches; i++ {
		name := cacheName(i)
		c := cb.Build(name)

		c.AcceptHook(s.stats)
		// an idle cache still gets a row in the summary
		s.stats.Stats(name)

		s.caches = append(s.caches, c)
		s.cacheNameIndex[name] = i
	}

	if b.logWriter != nil {
		logger := log.New(b.logWriter, "", 0)
		tracer := logging.NewConsoleTracer(logger)
		for _, c := range s.caches {
			c.AcceptHook(tracer)
		}
		s.bus.AcceptHook(tracer)
	}

	if b.eventLogWriter != nil {
		logger := log.New(b.eventLogWriter, "", 0)
		s.engine.AcceptHook(sim.NewEventLogger(logger))
	}

	if b.recordingOn {
		s.dataRecorder = datarecording.New(b.recordingPath)
		dbTracer := logging.NewDBTracer(s.dataRecorder)
		for _, c := range s.caches {
			c.AcceptHook(dbTracer)
		}
		s.bus.AcceptHook(dbTracer)
	}

	if b.monitorOn {
		s.monitor = monitoring.NewMonitor().
			WithPortNumber(b.monitorPort)
		if b.monitorBrowser {
			s.monitor = s.monitor.WithBrowser()
		}

		s.monitor.RegisterEngine(s.engine)
		for _, c := range s.caches {
			s.monitor.RegisterComponent(c)
		}
		s.monitor.RegisterComponent(s.bus)

		s.monitor.StartServer()
	}

	return s
}

// cacheName names the i-th cache L1A, L1B, ...
func cacheName(i int) string {
	return fmt.Sprintf("L1%c", 'A'+i)
}
