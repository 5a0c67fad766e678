// Package validate performs structural and numeric-range validation of
// inbound requests. Validation is pure: no I/O, no mutation, and a nil
// return means the request is valid.
package validate

import (
	"fmt"

	"github.com/modelgate/modelgate/aierrors"
	"github.com/modelgate/modelgate/providers/ai"
	"github.com/modelgate/modelgate/providers/ai/catalog"
)

// Inclusive bounds for numeric settings.
const (
	TemperatureMin = 0.0
	TemperatureMax = 2.0
	TopPMin        = 0.0
	TopPMax        = 1.0
	PenaltyMin     = -2.0
	PenaltyMax     = 2.0

	MaxTokensMin     = 1
	ChatMaxTokensMax = 100000

	StopSequencesMax = 4

	ImageCountMin = 1
	ImageCountMax = 10
	ImageSizeMin  = 64
	ImageSizeMax  = 2048

	DiffusionStepsMin = 1
	DiffusionStepsMax = 150
	CFGScaleMin       = 0.1
	CFGScaleMax       = 30.0
)

// Request checks the structural shape and numeric ranges of a request before
// any resolution or network call. It returns nil when the request is valid,
// otherwise a validation_error envelope naming the offending field.
func Request(req ai.GenerationRequest) *aierrors.Envelope {
	if req.Kind != ai.KindChat && req.Kind != ai.KindImage {
		return aierrors.Validation("kind", fmt.Sprintf("kind must be %q or %q", ai.KindChat, ai.KindImage))
	}

	if req.PresetID == "" && (req.Provider == "" || req.Model == "") {
		return aierrors.Validation("provider", "request must carry a preset id, or both a provider id and a model id")
	}

	switch req.Kind {
	case ai.KindChat:
		if envelope := chatShape(req); envelope != nil {
			return envelope
		}
	case ai.KindImage:
		if req.Prompt == "" {
			return aierrors.Validation("prompt", "image requests require a non-empty prompt")
		}
	}

	return settingsRanges(req.Kind, req.Settings)
}

// Reasoning rejects an explicit attempt to enable reasoning on a model whose
// descriptor marks reasoning unsupported. Inherited defaults are not an
// error; they are stripped silently during settings resolution instead.
func Reasoning(model catalog.ModelInfo, presetSettings, requestSettings *ai.Settings) *aierrors.Envelope {
	if model.Reasoning.Supported {
		return nil
	}
	if explicitlyEnabled(requestSettings) || explicitlyEnabled(presetSettings) {
		return &aierrors.Envelope{
			Code:    aierrors.CodeValidationError,
			Type:    aierrors.TypeValidation,
			Message: fmt.Sprintf("reasoning_not_supported: model %q does not support reasoning", model.ID),
			Param:   "reasoning.enabled",
		}
	}
	return nil
}

func explicitlyEnabled(s *ai.Settings) bool {
	return s != nil && s.Reasoning != nil && s.Reasoning.Enabled != nil && *s.Reasoning.Enabled
}

func chatShape(req ai.GenerationRequest) *aierrors.Envelope {
	if len(req.Messages) == 0 {
		return aierrors.Validation("messages", "chat requests require at least one message")
	}
	for i, msg := range req.Messages {
		switch msg.Role {
		case ai.RoleUser, ai.RoleAssistant, ai.RoleSystem:
		default:
			return aierrors.Validation(fmt.Sprintf("messages[%d].role", i),
				fmt.Sprintf("invalid role %q: must be user, assistant, or system", msg.Role))
		}
		if msg.Content == "" {
			return aierrors.Validation(fmt.Sprintf("messages[%d].content", i), "message content must be non-empty")
		}
	}
	return nil
}

func settingsRanges(kind ai.RequestKind, s *ai.Settings) *aierrors.Envelope {
	if s == nil {
		return nil
	}

	if s.Temperature != nil && (*s.Temperature < TemperatureMin || *s.Temperature > TemperatureMax) {
		return aierrors.Validation("temperature",
			fmt.Sprintf("temperature must be between %g and %g, got %g", TemperatureMin, TemperatureMax, *s.Temperature))
	}
	if s.TopP != nil && (*s.TopP < TopPMin || *s.TopP > TopPMax) {
		return aierrors.Validation("top_p",
			fmt.Sprintf("top_p must be between %g and %g, got %g", TopPMin, TopPMax, *s.TopP))
	}
	if s.MaxTokens != nil {
		if *s.MaxTokens < MaxTokensMin {
			return aierrors.Validation("max_tokens",
				fmt.Sprintf("max_tokens must be at least %d, got %d", MaxTokensMin, *s.MaxTokens))
		}
		if kind == ai.KindChat && *s.MaxTokens > ChatMaxTokensMax {
			return aierrors.Validation("max_tokens",
				fmt.Sprintf("max_tokens must be at most %d for chat, got %d", ChatMaxTokensMax, *s.MaxTokens))
		}
	}
	if s.FrequencyPenalty != nil && (*s.FrequencyPenalty < PenaltyMin || *s.FrequencyPenalty > PenaltyMax) {
		return aierrors.Validation("frequency_penalty",
			fmt.Sprintf("frequency_penalty must be between %g and %g, got %g", PenaltyMin, PenaltyMax, *s.FrequencyPenalty))
	}
	if s.PresencePenalty != nil && (*s.PresencePenalty < PenaltyMin || *s.PresencePenalty > PenaltyMax) {
		return aierrors.Validation("presence_penalty",
			fmt.Sprintf("presence_penalty must be between %g and %g, got %g", PenaltyMin, PenaltyMax, *s.PresencePenalty))
	}
	if len(s.StopSequences) > StopSequencesMax {
		return aierrors.Validation("stop_sequences",
			fmt.Sprintf("at most %d stop sequences are allowed, got %d", StopSequencesMax, len(s.StopSequences)))
	}
	for i, stop := range s.StopSequences {
		if stop == "" {
			return aierrors.Validation(fmt.Sprintf("stop_sequences[%d]", i), "stop sequences must be non-empty strings")
		}
	}

	return diffusionRanges(s.Diffusion)
}

func diffusionRanges(d *ai.DiffusionConfig) *aierrors.Envelope {
	if d == nil {
		return nil
	}

	if d.Count != nil && (*d.Count < ImageCountMin || *d.Count > ImageCountMax) {
		return aierrors.Validation("diffusion.count",
			fmt.Sprintf("image count must be an integer between %d and %d, got %d", ImageCountMin, ImageCountMax, *d.Count))
	}
	if d.Width != nil && (*d.Width < ImageSizeMin || *d.Width > ImageSizeMax) {
		return aierrors.Validation("diffusion.width",
			fmt.Sprintf("image width must be between %d and %d, got %d", ImageSizeMin, ImageSizeMax, *d.Width))
	}
	if d.Height != nil && (*d.Height < ImageSizeMin || *d.Height > ImageSizeMax) {
		return aierrors.Validation("diffusion.height",
			fmt.Sprintf("image height must be between %d and %d, got %d", ImageSizeMin, ImageSizeMax, *d.Height))
	}
	if d.Steps != nil && (*d.Steps < DiffusionStepsMin || *d.Steps > DiffusionStepsMax) {
		return aierrors.Validation("diffusion.steps",
			fmt.Sprintf("diffusion steps must be between %d and %d, got %d", DiffusionStepsMin, DiffusionStepsMax, *d.Steps))
	}
	if d.CFGScale != nil && (*d.CFGScale < CFGScaleMin || *d.CFGScale > CFGScaleMax) {
		return aierrors.Validation("diffusion.cfg_scale",
			fmt.Sprintf("cfg_scale must be between %g and %g, got %g", CFGScaleMin, CFGScaleMax, *d.CFGScale))
	}

	return nil
}
