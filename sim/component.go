package sim

// A Named object can report its name. Cache names come from the driver;
// the bus and the engine are singletons per simulation.
type Named interface {
	Name() string
}

// A Component is a simulated element of the memory hierarchy: a cache or
// the snoop bus. It handles the events it scheduled for itself and accepts
// observation hooks.
type Component interface {
	Named
	Handler
	Hookable
}

// ComponentBase carries the name and the hooks of a component.
type ComponentBase struct {
	HookableBase
	name string
}

// NewComponentBase creates a new ComponentBase
func NewComponentBase(name string) *ComponentBase {
	c := new(ComponentBase)
	c.name = name
	return c
}

// Name returns the name of the component
func (c *ComponentBase) Name() string {
	return c.name
}
