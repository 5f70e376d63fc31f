package bus

import (
	"github.com/sarchlab/snoopsim/sim"
)

// Builder can build snoop buses.
type Builder struct {
	engine sim.Engine
}

// MakeBuilder creates a Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{}
}

// WithEngine sets the engine that drives the bus.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// Build creates a bus with the given name.
func (b Builder) Build(name string) *Comp {
	if b.engine == nil {
		panic("bus requires an engine")
	}

	c := &Comp{
		ComponentBase: sim.NewComponentBase(name),
		engine:        b.engine,
		inflight:      make(map[uint64]*broadcast),
	}

	return c
}
