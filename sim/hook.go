package sim

// A Hook observes the simulation without being part of it. Components
// invoke their hooks with typed payloads: cache traces, bus traces, and
// the engine's event dispatches. The payload type tells what happened, so
// hooks dispatch on it. Hooks must not mutate simulation state.
type Hook interface {
	Func(ctx HookCtx)
}

// HookCtx carries one observation to the hooks.
type HookCtx struct {
	// Domain is the component that invoked the hook.
	Domain Hookable

	// Item is the payload; its type identifies the observation.
	Item interface{}
}

// Hookable is a component that accepts hooks.
type Hookable interface {
	AcceptHook(hook Hook)
}

// HookableBase implements Hookable for the components that embed it.
type HookableBase struct {
	hooks []Hook
}

// AcceptHook registers a hook.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.hooks = append(h.hooks, hook)
}

// InvokeHook delivers ctx to every registered hook, in registration
// order.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hooks {
		hook.Func(ctx)
	}
}
