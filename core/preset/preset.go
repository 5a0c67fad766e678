// Package preset provides a generic keyed store of named configuration
// presets with two load modes, plus the concrete Preset record used by the
// model resolver.
package preset

import (
	"github.com/modelgate/modelgate/providers/ai"
)

// Keyed is the constraint for entries stored in a Manager: anything that can
// name itself.
type Keyed interface {
	Key() string
}

// Mode selects how custom entries combine with defaults at load time.
type Mode string

const (
	// ModeExtend loads defaults first, then custom entries overwrite
	// same-id defaults or add new ones.
	ModeExtend Mode = "extend"
	// ModeReplace ignores defaults entirely and loads only custom entries.
	ModeReplace Mode = "replace"
)

// Manager is an id-keyed store of presets. Duplicate ids follow map
// semantics: the most recently registered entry wins, silently. Lookups are
// O(1). A Manager is populated at construction and read-only afterwards
// aside from administrative Register calls.
type Manager[T Keyed] struct {
	byID  map[string]T
	order []string
}

// NewManager builds a Manager from defaults and custom entries according to
// mode. An unrecognized mode behaves like ModeExtend.
func NewManager[T Keyed](defaults []T, custom []T, mode Mode) *Manager[T] {
	m := &Manager[T]{byID: make(map[string]T)}
	if mode != ModeReplace {
		for _, entry := range defaults {
			m.Register(entry)
		}
	}
	for _, entry := range custom {
		m.Register(entry)
	}
	return m
}

// Register inserts or overwrites the entry under its own key. Administrative:
// not safe to interleave with in-flight lookups.
func (m *Manager[T]) Register(entry T) {
	key := entry.Key()
	if _, exists := m.byID[key]; !exists {
		m.order = append(m.order, key)
	}
	m.byID[key] = entry
}

// Presets returns a defensive copy of all entries in first-registration
// order.
func (m *Manager[T]) Presets() []T {
	out := make([]T, 0, len(m.order))
	for _, key := range m.order {
		out = append(out, m.byID[key])
	}
	return out
}

// Resolve looks up an entry by id.
func (m *Manager[T]) Resolve(id string) (T, bool) {
	entry, ok := m.byID[id]
	return entry, ok
}

// Len returns the number of distinct entries.
func (m *Manager[T]) Len() int {
	return len(m.byID)
}

// Preset is a named bundle of (provider, model, settings overlay) usable in
// place of specifying provider and model directly.
type Preset struct {
	ID       string        `json:"id" yaml:"id"`
	Name     string        `json:"name" yaml:"name"`
	Provider ai.ProviderID `json:"provider" yaml:"provider"`
	// Model may be empty for image presets whose provider is model-agnostic.
	Model    string       `json:"model,omitempty" yaml:"model"`
	Settings *ai.Settings `json:"settings,omitempty" yaml:"settings"`
}

// Key implements Keyed.
func (p Preset) Key() string { return p.ID }
