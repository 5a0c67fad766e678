// Package registry maps provider identifiers to adapter instances, with a
// guaranteed fallback so lookups never come back empty-handed.
package registry

import (
	"fmt"

	"github.com/modelgate/modelgate/providers/observability"
)

// Constructor builds an adapter instance from its per-provider configuration.
// It is invoked once, at registry construction.
type Constructor[A any] func() (A, error)

// Registry holds one adapter instance per provider id. Population happens in
// two phases: custom pre-registered instances first (never overwritten), then
// a declarative constructor table for any provider not already covered. A
// constructor failure is logged and that provider silently serves the shared
// fallback adapter; startup never fails because one backend cannot be built.
//
// Get always returns something, so callers never branch on "adapter missing".
// Register is administrative and not safe to interleave with in-flight Gets.
type Registry[P comparable, A any] struct {
	adapters map[P]A
	fallback A
	logger   observability.Logger
}

// New creates a registry around the shared fallback adapter.
func New[P comparable, A any](fallback A, logger observability.Logger) *Registry[P, A] {
	return &Registry[P, A]{
		adapters: make(map[P]A),
		fallback: fallback,
		logger:   observability.OrNop(logger),
	}
}

// Register installs a custom adapter instance for the given provider id.
// Later Install calls will not overwrite it.
func (r *Registry[P, A]) Register(id P, adapter A) {
	r.adapters[id] = adapter
}

// Install instantiates the declarative constructor table for every provider
// id not already covered by Register. Construction failures are logged and
// skipped; the provider falls back to the shared fallback adapter.
func (r *Registry[P, A]) Install(table map[P]Constructor[A]) {
	for id, construct := range table {
		if _, exists := r.adapters[id]; exists {
			continue
		}
		adapter, err := construct()
		if err != nil {
			r.logger.Warn("adapter construction failed, provider will use the fallback adapter",
				observability.String("provider", fmt.Sprintf("%v", id)),
				observability.Error(err))
			continue
		}
		r.adapters[id] = adapter
	}
}

// Get returns the adapter registered for id, or the shared fallback when none
// is registered. The result is never the zero value.
func (r *Registry[P, A]) Get(id P) A {
	if adapter, ok := r.adapters[id]; ok {
		return adapter
	}
	return r.fallback
}

// Fallback returns the shared fallback adapter.
func (r *Registry[P, A]) Fallback() A {
	return r.fallback
}

// IDs returns the provider ids with a real (non-fallback) adapter.
func (r *Registry[P, A]) IDs() []P {
	out := make([]P, 0, len(r.adapters))
	for id := range r.adapters {
		out = append(out, id)
	}
	return out
}
