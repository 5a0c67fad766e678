// Package catalog holds the read-only provider and model descriptors the
// resolver consults. A Catalog is built once at construction time from static
// records (built-in defaults, optionally overridden by configuration) and is
// never mutated afterwards.
package catalog

import (
	"github.com/modelgate/modelgate/providers/ai"
)

// ReasoningSupport describes a model's extended-reasoning capability.
type ReasoningSupport struct {
	Supported        bool `json:"supported" yaml:"supported"`
	EnabledByDefault bool `json:"enabled_by_default" yaml:"enabled_by_default"`
	CanDisable       bool `json:"can_disable" yaml:"can_disable"`
	MinBudget        int  `json:"min_budget,omitempty" yaml:"min_budget"`
	MaxBudget        int  `json:"max_budget,omitempty" yaml:"max_budget"`
}

// ProviderInfo describes one backend provider.
type ProviderInfo struct {
	ID          ai.ProviderID `json:"id" yaml:"id"`
	DisplayName string        `json:"display_name" yaml:"display_name"`

	// UnsupportedParams lists settings keys the provider rejects globally,
	// e.g. "frequency_penalty" for providers without penalty support.
	UnsupportedParams []string `json:"unsupported_params,omitempty" yaml:"unsupported_params"`

	// AllowsUnknownModels marks local/self-hosted backends that load
	// arbitrary models; unknown model ids get a synthesized descriptor
	// without a warning.
	AllowsUnknownModels bool `json:"allows_unknown_models,omitempty" yaml:"allows_unknown_models"`
}

// ModelInfo describes one model of one provider. A model always belongs to
// exactly one provider.
type ModelInfo struct {
	ID       string        `json:"id" yaml:"id"`
	Provider ai.ProviderID `json:"provider" yaml:"provider"`

	ContextWindow   int `json:"context_window" yaml:"context_window"`
	MaxOutputTokens int `json:"max_output_tokens" yaml:"max_output_tokens"`

	SupportsImageInput    bool `json:"supports_image_input,omitempty" yaml:"supports_image_input"`
	SupportsPromptCaching bool `json:"supports_prompt_caching,omitempty" yaml:"supports_prompt_caching"`

	Reasoning ReasoningSupport `json:"reasoning" yaml:"reasoning"`

	// UnsupportedParams lists settings keys this specific model rejects, in
	// addition to the provider-level set.
	UnsupportedParams []string `json:"unsupported_params,omitempty" yaml:"unsupported_params"`

	// Overrides is the model-level settings layer applied during resolution.
	Overrides *ai.Settings `json:"overrides,omitempty" yaml:"overrides"`

	// Synthesized marks descriptors invented for unknown models; they carry
	// inferred capabilities, not authoritative ones.
	Synthesized bool `json:"-" yaml:"-"`
}

// providerEntry pairs a provider with its settings layer.
type providerEntry struct {
	info      ProviderInfo
	overrides *ai.Settings
}

// Catalog is the immutable provider/model lookup used by the resolver.
type Catalog struct {
	providers map[ai.ProviderID]providerEntry
	order     []ai.ProviderID
	models    map[ai.ProviderID]map[string]ModelInfo
}

// New builds a Catalog from static records. Duplicate ids follow map
// semantics: the last record wins. Models referencing an unregistered
// provider are dropped rather than creating an orphan entry.
func New(providers []ProviderInfo, models []ModelInfo) *Catalog {
	c := &Catalog{
		providers: make(map[ai.ProviderID]providerEntry, len(providers)),
		models:    make(map[ai.ProviderID]map[string]ModelInfo),
	}
	for _, p := range providers {
		if _, seen := c.providers[p.ID]; !seen {
			c.order = append(c.order, p.ID)
		}
		c.providers[p.ID] = providerEntry{info: p}
	}
	for _, m := range models {
		if _, ok := c.providers[m.Provider]; !ok {
			continue
		}
		byID := c.models[m.Provider]
		if byID == nil {
			byID = make(map[string]ModelInfo)
			c.models[m.Provider] = byID
		}
		byID[m.ID] = m
	}
	return c
}

// WithProviderOverrides attaches a provider-level settings layer. Intended
// for construction time only, before the catalog is shared.
func (c *Catalog) WithProviderOverrides(id ai.ProviderID, overrides *ai.Settings) *Catalog {
	if entry, ok := c.providers[id]; ok {
		entry.overrides = overrides
		c.providers[id] = entry
	}
	return c
}

// Provider returns the descriptor for the given provider id.
func (c *Catalog) Provider(id ai.ProviderID) (ProviderInfo, bool) {
	entry, ok := c.providers[id]
	return entry.info, ok
}

// ProviderOverrides returns the provider-level settings layer, or nil.
func (c *Catalog) ProviderOverrides(id ai.ProviderID) *ai.Settings {
	return c.providers[id].overrides.Clone()
}

// ProviderIDs returns the recognized provider ids in registration order.
func (c *Catalog) ProviderIDs() []ai.ProviderID {
	return append([]ai.ProviderID(nil), c.order...)
}

// Model returns the descriptor for (provider, model).
func (c *Catalog) Model(provider ai.ProviderID, model string) (ModelInfo, bool) {
	info, ok := c.models[provider][model]
	return info, ok
}

// Models returns all models registered for the provider.
func (c *Catalog) Models(provider ai.ProviderID) []ModelInfo {
	byID := c.models[provider]
	out := make([]ModelInfo, 0, len(byID))
	for _, m := range byID {
		out = append(out, m)
	}
	return out
}
