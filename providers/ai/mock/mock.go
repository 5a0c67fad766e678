// Package mock provides a no-op adapter. It serves two roles: the shared
// fallback the registry hands out when no real adapter exists for a
// provider, and a deterministic backend for tests and demos.
package mock

import (
	"context"
	"fmt"
	"time"

	"github.com/modelgate/modelgate/providers/ai"
)

// Adapter is an in-process backend that never performs I/O and never fails.
type Adapter struct {
	id ai.ProviderID

	// ChatContent overrides the canned chat completion content.
	ChatContent string
	// GenerateFunc, when set, replaces the canned behaviour entirely.
	// Useful in tests.
	GenerateFunc func(ctx context.Context, request ai.GenerationRequest, prompt string, settings ai.ResolvedSettings, credential string) (*ai.GenerationResult, error)
}

var _ ai.Adapter = (*Adapter)(nil)

// New creates a mock adapter for the given provider id.
func New(id ai.ProviderID) *Adapter {
	return &Adapter{id: id}
}

func (a *Adapter) ID() ai.ProviderID { return a.id }

func (a *Adapter) Capabilities() ai.Capabilities {
	return ai.Capabilities{
		SupportsMultipleOutputs: true,
	}
}

// Generate returns a canned result shaped like the request kind.
func (a *Adapter) Generate(ctx context.Context, request ai.GenerationRequest, prompt string, settings ai.ResolvedSettings, credential string) (*ai.GenerationResult, error) {
	if a.GenerateFunc != nil {
		return a.GenerateFunc(ctx, request, prompt, settings, credential)
	}

	result := &ai.GenerationResult{
		ID:       fmt.Sprintf("mock-%d", time.Now().UnixNano()),
		Provider: a.id,
		Model:    request.Model,
		Created:  time.Now().Unix(),
	}

	switch request.Kind {
	case ai.KindImage:
		result.Object = ai.ObjectImageResult
		count := 1
		if settings.Diffusion != nil {
			count = settings.Diffusion.Count
		}
		for i := 0; i < count; i++ {
			result.Data = append(result.Data, ai.ImageData{
				URL:  fmt.Sprintf("mock://image/%d", i),
				Seed: int64(i),
			})
		}
	default:
		content := a.ChatContent
		if content == "" {
			content = "mock response for: " + prompt
		}
		result.Object = ai.ObjectChatCompletion
		result.Choices = []ai.Choice{{
			Index:        0,
			Message:      ai.Message{Role: ai.RoleAssistant, Content: content},
			FinishReason: "stop",
		}}
		result.Usage = &ai.Usage{PromptTokens: len(prompt) / 4, CompletionTokens: len(content) / 4, TotalTokens: (len(prompt) + len(content)) / 4}
	}

	return result, nil
}
