package catalog

import (
	"github.com/modelgate/modelgate/internal/utils"
	"github.com/modelgate/modelgate/providers/ai"
)

// Well-known provider ids served by the built-in adapters.
const (
	ProviderOpenAI    ai.ProviderID = "openai"
	ProviderAnthropic ai.ProviderID = "anthropic"
	ProviderGemini    ai.ProviderID = "gemini"
	ProviderLocalDiff ai.ProviderID = "localdiff"
	ProviderMock      ai.ProviderID = "mock"
)

// DefaultProviders returns the built-in provider records. Callers may extend
// or replace them via configuration before building the catalog.
func DefaultProviders() []ProviderInfo {
	return []ProviderInfo{
		{
			ID:          ProviderOpenAI,
			DisplayName: "OpenAI (and compatible endpoints)",
		},
		{
			ID:                ProviderAnthropic,
			DisplayName:       "Anthropic",
			UnsupportedParams: []string{"frequency_penalty", "presence_penalty"},
		},
		{
			ID:                ProviderGemini,
			DisplayName:       "Google Gemini",
			UnsupportedParams: []string{"frequency_penalty", "presence_penalty"},
		},
		{
			ID:                  ProviderLocalDiff,
			DisplayName:         "Local diffusion server",
			AllowsUnknownModels: true,
			UnsupportedParams:   []string{"top_p", "frequency_penalty", "presence_penalty", "stop_sequences"},
		},
		{
			ID:          ProviderMock,
			DisplayName: "Mock provider",
		},
	}
}

// DefaultModels returns the built-in model records.
func DefaultModels() []ModelInfo {
	return []ModelInfo{
		{
			ID: "gpt-4o", Provider: ProviderOpenAI,
			ContextWindow: 128000, MaxOutputTokens: 16384,
			SupportsImageInput: true, SupportsPromptCaching: true,
		},
		{
			ID: "gpt-4o-mini", Provider: ProviderOpenAI,
			ContextWindow: 128000, MaxOutputTokens: 16384,
			SupportsImageInput: true, SupportsPromptCaching: true,
		},
		{
			ID: "o3-mini", Provider: ProviderOpenAI,
			ContextWindow: 200000, MaxOutputTokens: 100000,
			Reasoning: ReasoningSupport{Supported: true, EnabledByDefault: true, CanDisable: false, MinBudget: 1024, MaxBudget: 100000},
			// Reasoning models reject sampling parameters.
			UnsupportedParams: []string{"temperature", "top_p"},
		},
		{
			ID: "claude-sonnet-4-20250514", Provider: ProviderAnthropic,
			ContextWindow: 200000, MaxOutputTokens: 64000,
			SupportsImageInput: true, SupportsPromptCaching: true,
			Reasoning: ReasoningSupport{Supported: true, EnabledByDefault: false, CanDisable: true, MinBudget: 1024, MaxBudget: 64000},
		},
		{
			ID: "claude-3-5-haiku-20241022", Provider: ProviderAnthropic,
			ContextWindow: 200000, MaxOutputTokens: 8192,
			SupportsImageInput: true, SupportsPromptCaching: true,
		},
		{
			ID: "gemini-2.0-flash", Provider: ProviderGemini,
			ContextWindow: 1048576, MaxOutputTokens: 8192,
			SupportsImageInput: true,
		},
		{
			ID: "gemini-2.5-pro", Provider: ProviderGemini,
			ContextWindow: 1048576, MaxOutputTokens: 65536,
			SupportsImageInput: true,
			Reasoning:          ReasoningSupport{Supported: true, EnabledByDefault: true, CanDisable: false, MinBudget: 128, MaxBudget: 32768},
		},
		{
			ID: "sd-xl-base-1.0", Provider: ProviderLocalDiff,
			ContextWindow: 77, MaxOutputTokens: 0,
			Overrides: &ai.Settings{
				Diffusion: &ai.DiffusionConfig{
					Steps:    utils.Ptr(30),
					CFGScale: utils.Ptr(7.0),
					Sampler:  utils.Ptr("euler_a"),
				},
			},
		},
		{
			ID: "mock-chat", Provider: ProviderMock,
			ContextWindow: 8192, MaxOutputTokens: 4096,
		},
	}
}

// DefaultCatalog builds a Catalog from the built-in records.
func DefaultCatalog() *Catalog {
	return New(DefaultProviders(), DefaultModels())
}
