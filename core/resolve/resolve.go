// Package resolve maps a request's target (preset id, or provider+model
// pair) to concrete catalog descriptors, synthesizing a best-effort
// descriptor for unknown models where the provider permits it.
package resolve

import (
	"fmt"
	"strings"

	"github.com/modelgate/modelgate/aierrors"
	"github.com/modelgate/modelgate/core/preset"
	"github.com/modelgate/modelgate/providers/ai"
	"github.com/modelgate/modelgate/providers/ai/catalog"
	"github.com/modelgate/modelgate/providers/observability"
)

// Options names the resolution target. Either PresetID or both Provider and
// Model must be set.
type Options struct {
	PresetID string
	Provider ai.ProviderID
	Model    string
	// Settings is the caller-supplied overlay; it takes precedence over the
	// preset's overlay, shallow per key.
	Settings *ai.Settings
}

// Resolution is the outcome of a successful resolve.
type Resolution struct {
	Provider catalog.ProviderInfo
	Model    catalog.ModelInfo
	// PresetSettings is the preset's overlay, nil when resolution was
	// direct. It sits below Settings in merge precedence.
	PresetSettings *ai.Settings
	// Settings is the caller's overlay, passed through unchanged.
	Settings *ai.Settings
}

// Resolver resolves requests against the catalog and preset store.
type Resolver struct {
	catalog *catalog.Catalog
	presets *preset.Manager[preset.Preset]
	logger  observability.Logger
}

// NewResolver creates a model resolver.
func NewResolver(cat *catalog.Catalog, presets *preset.Manager[preset.Preset], logger observability.Logger) *Resolver {
	return &Resolver{catalog: cat, presets: presets, logger: observability.OrNop(logger)}
}

// Resolve resolves the target (provider, model) pair and settings layers for
// one request. It fails with PRESET_NOT_FOUND, UNSUPPORTED_PROVIDER,
// INVALID_MODEL_SELECTION, or MODEL_NOT_FOUND; it never silently picks a
// default target.
func (r *Resolver) Resolve(opts Options) (*Resolution, *aierrors.Envelope) {
	if opts.PresetID != "" {
		return r.resolvePreset(opts)
	}
	return r.resolveDirect(opts)
}

func (r *Resolver) resolvePreset(opts Options) (*Resolution, *aierrors.Envelope) {
	p, ok := r.presets.Resolve(opts.PresetID)
	if !ok {
		return nil, aierrors.Newf(aierrors.CodePresetNotFound, aierrors.TypeInvalidRequest,
			"preset %q not found", opts.PresetID)
	}

	provider, ok := r.catalog.Provider(p.Provider)
	if !ok {
		// A preset referencing an unregistered provider is a broken preset,
		// not a caller mistake; surface it as a missing model target.
		return nil, aierrors.Newf(aierrors.CodeModelNotFound, aierrors.TypeInvalidRequest,
			"preset %q references unknown provider %q", p.ID, p.Provider)
	}

	model := r.lookupModel(provider, p.Model)
	return &Resolution{
		Provider:       provider,
		Model:          model,
		PresetSettings: p.Settings.Clone(),
		Settings:       opts.Settings,
	}, nil
}

func (r *Resolver) resolveDirect(opts Options) (*Resolution, *aierrors.Envelope) {
	if opts.Provider == "" || opts.Model == "" {
		return nil, aierrors.New(aierrors.CodeInvalidModelSelection, aierrors.TypeInvalidRequest,
			"request must specify either a preset id or both provider and model")
	}

	provider, ok := r.catalog.Provider(opts.Provider)
	if !ok {
		return nil, aierrors.Newf(aierrors.CodeUnsupportedProvider, aierrors.TypeInvalidRequest,
			"unsupported provider %q (recognized: %s)", opts.Provider, r.recognizedProviders())
	}

	model := r.lookupModel(provider, opts.Model)
	return &Resolution{
		Provider: provider,
		Model:    model,
		Settings: opts.Settings,
	}, nil
}

// lookupModel returns the catalog descriptor for (provider, model), or a
// synthesized fallback when the pair is unknown. Providers that load
// arbitrary models synthesize silently; for the rest the request may still
// fail downstream at the real provider, so a warning is logged.
func (r *Resolver) lookupModel(provider catalog.ProviderInfo, model string) catalog.ModelInfo {
	if info, ok := r.catalog.Model(provider.ID, model); ok {
		return info
	}

	inferred := catalog.InferModelInfo(provider.ID, model)
	if !provider.AllowsUnknownModels {
		r.logger.Warn("unknown model for provider, synthesizing capabilities",
			observability.String("provider", string(provider.ID)),
			observability.String("model", model))
	}
	return inferred
}

func (r *Resolver) recognizedProviders() string {
	ids := r.catalog.ProviderIDs()
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = fmt.Sprintf("%q", string(id))
	}
	return strings.Join(names, ", ")
}
