package ai

// Settings is a partial configuration overlay. Every field is optional; nil
// means "not specified at this layer". Overlays are merged in precedence
// order by core/settings: global defaults < provider < model < preset <
// request. Scalars are shallow-overwritten, the nested blocks are deep-merged
// key by key.
type Settings struct {
	Temperature      *float64 `json:"temperature,omitempty" yaml:"temperature" toml:"temperature"`                   // Sampling temperature [0..2]
	TopP             *float64 `json:"top_p,omitempty" yaml:"top_p" toml:"top_p"`                                     // Nucleus sampling [0..1]
	MaxTokens        *int     `json:"max_tokens,omitempty" yaml:"max_tokens" toml:"max_tokens"`                      // Max tokens for the response
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty" yaml:"frequency_penalty" toml:"frequency_penalty"` // Penalty [-2..2]
	PresencePenalty  *float64 `json:"presence_penalty,omitempty" yaml:"presence_penalty" toml:"presence_penalty"`    // Penalty [-2..2]
	StopSequences    []string `json:"stop_sequences,omitempty" yaml:"stop_sequences" toml:"stop_sequences"`          // Up to 4 stop sequences

	Reasoning *ReasoningConfig `json:"reasoning,omitempty" yaml:"reasoning" toml:"reasoning"`
	Diffusion *DiffusionConfig `json:"diffusion,omitempty" yaml:"diffusion" toml:"diffusion"`
	Thinking  *ThinkingConfig  `json:"thinking,omitempty" yaml:"thinking" toml:"thinking"`
}

// ReasoningConfig controls extended-reasoning behaviour for models that
// support it.
type ReasoningConfig struct {
	Enabled      *bool `json:"enabled,omitempty" yaml:"enabled" toml:"enabled"`
	BudgetTokens *int  `json:"budget_tokens,omitempty" yaml:"budget_tokens" toml:"budget_tokens"`
}

// DiffusionConfig carries image-generation parameters for diffusion backends.
type DiffusionConfig struct {
	Steps          *int     `json:"steps,omitempty" yaml:"steps" toml:"steps"`             // [1..150]
	CFGScale       *float64 `json:"cfg_scale,omitempty" yaml:"cfg_scale" toml:"cfg_scale"` // [0.1..30]
	Sampler        *string  `json:"sampler,omitempty" yaml:"sampler" toml:"sampler"`
	Seed           *int64   `json:"seed,omitempty" yaml:"seed" toml:"seed"`
	Width          *int     `json:"width,omitempty" yaml:"width" toml:"width"`    // [64..2048]
	Height         *int     `json:"height,omitempty" yaml:"height" toml:"height"` // [64..2048]
	Count          *int     `json:"count,omitempty" yaml:"count" toml:"count"`    // [1..10]
	NegativePrompt *string  `json:"negative_prompt,omitempty" yaml:"negative_prompt" toml:"negative_prompt"`
}

// MissingTagPolicy governs what happens when thinking extraction is enabled
// but the response carries no leading tagged block.
type MissingTagPolicy string

const (
	// MissingTagAuto resolves to ignore when native reasoning was active for
	// the request, and to error otherwise.
	MissingTagAuto   MissingTagPolicy = "auto"
	MissingTagError  MissingTagPolicy = "error"
	MissingTagWarn   MissingTagPolicy = "warn"
	MissingTagIgnore MissingTagPolicy = "ignore"
)

// ThinkingConfig controls post-hoc extraction of a leading tagged thinking
// block from plain-text completions.
type ThinkingConfig struct {
	Enabled      *bool             `json:"enabled,omitempty" yaml:"enabled" toml:"enabled"`
	TagName      *string           `json:"tag_name,omitempty" yaml:"tag_name" toml:"tag_name"` // default "thinking"
	OnMissingTag *MissingTagPolicy `json:"on_missing_tag,omitempty" yaml:"on_missing_tag" toml:"on_missing_tag"`
}

/*
	##### RESOLVED FORM #####
*/

// ResolvedSettings is the fully-populated, request-scoped configuration
// handed to an adapter. After resolution every field the execution step needs
// is present; a nil pointer means the parameter is unsupported by the
// resolved provider/model and was filtered out, not merely left at a default.
type ResolvedSettings struct {
	Temperature      *float64 `json:"temperature,omitempty"`
	TopP             *float64 `json:"top_p,omitempty"`
	MaxTokens        *int     `json:"max_tokens,omitempty"`
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64 `json:"presence_penalty,omitempty"`
	StopSequences    []string `json:"stop_sequences,omitempty"`

	// Reasoning is nil when the resolved model does not support reasoning,
	// regardless of what the caller asked for.
	Reasoning *ResolvedReasoning `json:"reasoning,omitempty"`
	// Diffusion is nil for chat requests and for providers that do not
	// accept diffusion parameters.
	Diffusion *ResolvedDiffusion `json:"diffusion,omitempty"`
	// Thinking is always present; extraction defaults to disabled.
	Thinking ResolvedThinking `json:"thinking"`
}

// ResolvedReasoning is the materialized reasoning policy for one request.
type ResolvedReasoning struct {
	Enabled      bool `json:"enabled"`
	BudgetTokens int  `json:"budget_tokens"`
	// ExplicitlySet records whether the caller (request or preset layer)
	// set Enabled, as opposed to inheriting a model default. Diagnostic only:
	// it distinguishes a caller's choice from an inherited one when
	// inspecting a resolved request.
	ExplicitlySet bool `json:"-"`
}

// ResolvedDiffusion is the materialized diffusion configuration.
type ResolvedDiffusion struct {
	Steps          int     `json:"steps"`
	CFGScale       float64 `json:"cfg_scale"`
	Sampler        string  `json:"sampler"`
	Seed           int64   `json:"seed"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	Count          int     `json:"count"`
	NegativePrompt string  `json:"negative_prompt,omitempty"`
}

// ResolvedThinking is the materialized thinking-extraction policy.
type ResolvedThinking struct {
	Enabled      bool             `json:"enabled"`
	TagName      string           `json:"tag_name"`
	OnMissingTag MissingTagPolicy `json:"on_missing_tag"`
}

// Clone returns a deep copy of the overlay so layers can be merged without
// aliasing the source catalogs.
func (s *Settings) Clone() *Settings {
	if s == nil {
		return nil
	}
	out := &Settings{
		Temperature:      clonePtr(s.Temperature),
		TopP:             clonePtr(s.TopP),
		MaxTokens:        clonePtr(s.MaxTokens),
		FrequencyPenalty: clonePtr(s.FrequencyPenalty),
		PresencePenalty:  clonePtr(s.PresencePenalty),
	}
	if s.StopSequences != nil {
		out.StopSequences = append([]string(nil), s.StopSequences...)
	}
	if s.Reasoning != nil {
		out.Reasoning = &ReasoningConfig{
			Enabled:      clonePtr(s.Reasoning.Enabled),
			BudgetTokens: clonePtr(s.Reasoning.BudgetTokens),
		}
	}
	if s.Diffusion != nil {
		out.Diffusion = &DiffusionConfig{
			Steps:          clonePtr(s.Diffusion.Steps),
			CFGScale:       clonePtr(s.Diffusion.CFGScale),
			Sampler:        clonePtr(s.Diffusion.Sampler),
			Seed:           clonePtr(s.Diffusion.Seed),
			Width:          clonePtr(s.Diffusion.Width),
			Height:         clonePtr(s.Diffusion.Height),
			Count:          clonePtr(s.Diffusion.Count),
			NegativePrompt: clonePtr(s.Diffusion.NegativePrompt),
		}
	}
	if s.Thinking != nil {
		out.Thinking = &ThinkingConfig{
			Enabled:      clonePtr(s.Thinking.Enabled),
			TagName:      clonePtr(s.Thinking.TagName),
			OnMissingTag: clonePtr(s.Thinking.OnMissingTag),
		}
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
