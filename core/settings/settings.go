// Package settings merges configuration overlays from five precedence layers
// into one fully-populated ResolvedSettings and filters out parameters the
// resolved provider/model does not support.
//
// Precedence, lowest to highest:
//
//	global defaults < provider overrides < model overrides < preset < request
//
// Scalar keys are shallow-overwritten; the reasoning, diffusion, and thinking
// sub-objects are deep-merged key by key at each layer, so a preset that sets
// diffusion.steps does not erase a model-level diffusion.sampler.
package settings

import (
	"github.com/modelgate/modelgate/providers/ai"
	"github.com/modelgate/modelgate/providers/ai/catalog"
	"github.com/modelgate/modelgate/providers/observability"
)

// Settings keys recognized by the unsupported-parameter filter.
const (
	KeyTemperature      = "temperature"
	KeyTopP             = "top_p"
	KeyMaxTokens        = "max_tokens"
	KeyFrequencyPenalty = "frequency_penalty"
	KeyPresencePenalty  = "presence_penalty"
	KeyStopSequences    = "stop_sequences"
	KeyReasoning        = "reasoning"
	KeyDiffusion        = "diffusion"
)

// Materialization defaults for fields no layer provides.
const (
	defaultTemperature    = 1.0
	defaultTopP           = 1.0
	defaultMaxTokens      = 4096
	defaultReasoningMin   = 1024
	defaultDiffusionSteps = 20
	defaultCFGScale       = 7.5
	defaultSampler        = "euler"
	defaultImageSize      = 1024
	defaultImageCount     = 1
	defaultThinkingTag    = "thinking"
)

// Resolver produces ResolvedSettings for one request.
type Resolver struct {
	catalog  *catalog.Catalog
	defaults *ai.Settings
	logger   observability.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithGlobalDefaults replaces the built-in lowest-precedence layer.
func WithGlobalDefaults(defaults *ai.Settings) Option {
	return func(r *Resolver) { r.defaults = defaults }
}

// WithLogger injects the logging capability.
func WithLogger(logger observability.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// NewResolver creates a settings resolver over the given catalog.
func NewResolver(cat *catalog.Catalog, opts ...Option) *Resolver {
	r := &Resolver{catalog: cat, logger: observability.NopLogger{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve merges all layers for the given request and filters the result
// against the provider's and model's unsupported-parameter sets. The returned
// value is request-scoped and never shared.
func (r *Resolver) Resolve(kind ai.RequestKind, provider catalog.ProviderInfo, model catalog.ModelInfo, presetSettings, requestSettings *ai.Settings) ai.ResolvedSettings {
	merged := &ai.Settings{}
	merge(merged, r.defaults)
	merge(merged, r.catalog.ProviderOverrides(provider.ID))
	merge(merged, model.Overrides)

	// Explicit reasoning opt-in/out only counts when it comes from the
	// caller-facing layers (preset or request), not from catalog defaults.
	explicitReasoning := hasReasoningEnabled(presetSettings) || hasReasoningEnabled(requestSettings)

	merge(merged, presetSettings)
	merge(merged, requestSettings)

	resolved := r.materialize(kind, model, merged, explicitReasoning)
	r.filter(&resolved, provider, model)
	return resolved
}

// merge applies the src overlay on top of dst: scalars overwrite, nested
// blocks merge key by key.
func merge(dst, src *ai.Settings) {
	if src == nil {
		return
	}
	if src.Temperature != nil {
		dst.Temperature = src.Temperature
	}
	if src.TopP != nil {
		dst.TopP = src.TopP
	}
	if src.MaxTokens != nil {
		dst.MaxTokens = src.MaxTokens
	}
	if src.FrequencyPenalty != nil {
		dst.FrequencyPenalty = src.FrequencyPenalty
	}
	if src.PresencePenalty != nil {
		dst.PresencePenalty = src.PresencePenalty
	}
	if src.StopSequences != nil {
		dst.StopSequences = append([]string(nil), src.StopSequences...)
	}
	if src.Reasoning != nil {
		if dst.Reasoning == nil {
			dst.Reasoning = &ai.ReasoningConfig{}
		}
		if src.Reasoning.Enabled != nil {
			dst.Reasoning.Enabled = src.Reasoning.Enabled
		}
		if src.Reasoning.BudgetTokens != nil {
			dst.Reasoning.BudgetTokens = src.Reasoning.BudgetTokens
		}
	}
	if src.Diffusion != nil {
		if dst.Diffusion == nil {
			dst.Diffusion = &ai.DiffusionConfig{}
		}
		mergeDiffusion(dst.Diffusion, src.Diffusion)
	}
	if src.Thinking != nil {
		if dst.Thinking == nil {
			dst.Thinking = &ai.ThinkingConfig{}
		}
		if src.Thinking.Enabled != nil {
			dst.Thinking.Enabled = src.Thinking.Enabled
		}
		if src.Thinking.TagName != nil {
			dst.Thinking.TagName = src.Thinking.TagName
		}
		if src.Thinking.OnMissingTag != nil {
			dst.Thinking.OnMissingTag = src.Thinking.OnMissingTag
		}
	}
}

func mergeDiffusion(dst, src *ai.DiffusionConfig) {
	if src.Steps != nil {
		dst.Steps = src.Steps
	}
	if src.CFGScale != nil {
		dst.CFGScale = src.CFGScale
	}
	if src.Sampler != nil {
		dst.Sampler = src.Sampler
	}
	if src.Seed != nil {
		dst.Seed = src.Seed
	}
	if src.Width != nil {
		dst.Width = src.Width
	}
	if src.Height != nil {
		dst.Height = src.Height
	}
	if src.Count != nil {
		dst.Count = src.Count
	}
	if src.NegativePrompt != nil {
		dst.NegativePrompt = src.NegativePrompt
	}
}

func hasReasoningEnabled(s *ai.Settings) bool {
	return s != nil && s.Reasoning != nil && s.Reasoning.Enabled != nil
}

// materialize turns the merged partial overlay into a fully-populated
// ResolvedSettings, filling every gap with a default.
func (r *Resolver) materialize(kind ai.RequestKind, model catalog.ModelInfo, merged *ai.Settings, explicitReasoning bool) ai.ResolvedSettings {
	resolved := ai.ResolvedSettings{
		Temperature:      valueOr(merged.Temperature, defaultTemperature),
		TopP:             valueOr(merged.TopP, defaultTopP),
		MaxTokens:        valueOr(merged.MaxTokens, maxTokensDefault(model)),
		FrequencyPenalty: valueOr(merged.FrequencyPenalty, 0),
		PresencePenalty:  valueOr(merged.PresencePenalty, 0),
		StopSequences:    merged.StopSequences,
		Thinking: ai.ResolvedThinking{
			TagName:      defaultThinkingTag,
			OnMissingTag: ai.MissingTagAuto,
		},
	}

	if merged.Thinking != nil {
		if merged.Thinking.Enabled != nil {
			resolved.Thinking.Enabled = *merged.Thinking.Enabled
		}
		if merged.Thinking.TagName != nil && *merged.Thinking.TagName != "" {
			resolved.Thinking.TagName = *merged.Thinking.TagName
		}
		if merged.Thinking.OnMissingTag != nil {
			resolved.Thinking.OnMissingTag = *merged.Thinking.OnMissingTag
		}
	}

	resolved.Reasoning = materializeReasoning(model, merged.Reasoning, explicitReasoning)

	if kind == ai.KindImage {
		resolved.Diffusion = materializeDiffusion(merged.Diffusion)
	}

	return resolved
}

func materializeReasoning(model catalog.ModelInfo, merged *ai.ReasoningConfig, explicit bool) *ai.ResolvedReasoning {
	support := model.Reasoning
	enabled := support.EnabledByDefault
	budget := support.MinBudget
	if budget <= 0 {
		budget = defaultReasoningMin
	}
	if merged != nil {
		if merged.Enabled != nil {
			enabled = *merged.Enabled
		}
		if merged.BudgetTokens != nil {
			budget = *merged.BudgetTokens
		}
	}
	// Models that cannot turn reasoning off ignore a disable request.
	if support.Supported && !support.CanDisable && support.EnabledByDefault {
		enabled = true
	}
	budget = clampInt(budget, support.MinBudget, support.MaxBudget)
	return &ai.ResolvedReasoning{Enabled: enabled, BudgetTokens: budget, ExplicitlySet: explicit}
}

func materializeDiffusion(merged *ai.DiffusionConfig) *ai.ResolvedDiffusion {
	resolved := &ai.ResolvedDiffusion{
		Steps:    defaultDiffusionSteps,
		CFGScale: defaultCFGScale,
		Sampler:  defaultSampler,
		Seed:     -1, // backend picks a random seed
		Width:    defaultImageSize,
		Height:   defaultImageSize,
		Count:    defaultImageCount,
	}
	if merged == nil {
		return resolved
	}
	if merged.Steps != nil {
		resolved.Steps = *merged.Steps
	}
	if merged.CFGScale != nil {
		resolved.CFGScale = *merged.CFGScale
	}
	if merged.Sampler != nil {
		resolved.Sampler = *merged.Sampler
	}
	if merged.Seed != nil {
		resolved.Seed = *merged.Seed
	}
	if merged.Width != nil {
		resolved.Width = *merged.Width
	}
	if merged.Height != nil {
		resolved.Height = *merged.Height
	}
	if merged.Count != nil {
		resolved.Count = *merged.Count
	}
	if merged.NegativePrompt != nil {
		resolved.NegativePrompt = *merged.NegativePrompt
	}
	return resolved
}

// filter drops keys the resolved provider/model does not accept. Dropped
// fields become absent (nil), not defaulted: adapters must not see them at
// all.
func (r *Resolver) filter(resolved *ai.ResolvedSettings, provider catalog.ProviderInfo, model catalog.ModelInfo) {
	unsupported := make(map[string]bool, len(provider.UnsupportedParams)+len(model.UnsupportedParams))
	for _, key := range provider.UnsupportedParams {
		unsupported[key] = true
	}
	for _, key := range model.UnsupportedParams {
		unsupported[key] = true
	}

	if unsupported[KeyTemperature] {
		resolved.Temperature = nil
	}
	if unsupported[KeyTopP] {
		resolved.TopP = nil
	}
	if unsupported[KeyMaxTokens] {
		resolved.MaxTokens = nil
	}
	if unsupported[KeyFrequencyPenalty] {
		resolved.FrequencyPenalty = nil
	}
	if unsupported[KeyPresencePenalty] {
		resolved.PresencePenalty = nil
	}
	if unsupported[KeyStopSequences] {
		resolved.StopSequences = nil
	}
	if unsupported[KeyDiffusion] {
		resolved.Diffusion = nil
	}

	// A model without reasoning support never exposes a reasoning block,
	// even when the caller explicitly asked for one. Explicit opt-in on such
	// a model is rejected earlier by validation; inherited defaults are
	// stripped silently here.
	if unsupported[KeyReasoning] || !model.Reasoning.Supported {
		if resolved.Reasoning != nil && resolved.Reasoning.Enabled {
			r.logger.Debug("dropping reasoning settings for non-reasoning model",
				observability.String("model", model.ID))
		}
		resolved.Reasoning = nil
	}
}

func valueOr[T any](p *T, fallback T) *T {
	if p != nil {
		v := *p
		return &v
	}
	return &fallback
}

func maxTokensDefault(model catalog.ModelInfo) int {
	if model.MaxOutputTokens > 0 {
		return model.MaxOutputTokens
	}
	return defaultMaxTokens
}

func clampInt(v, lo, hi int) int {
	if lo > 0 && v < lo {
		v = lo
	}
	if hi > 0 && v > hi {
		v = hi
	}
	return v
}
