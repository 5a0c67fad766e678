// Package gemini implements the Adapter contract for Google's Gemini models
// via the official generative-ai-go SDK. It is a synchronous adapter.
package gemini

import (
	"context"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/modelgate/modelgate/providers/ai"
)

// Adapter implements ai.Adapter for Gemini. A fresh SDK client is created
// per request because the credential arrives per call, not at construction.
type Adapter struct {
	id ai.ProviderID

	// clientOptions are appended to the per-request SDK options; tests use
	// this to point the SDK at a fake endpoint.
	clientOptions []option.ClientOption
}

var (
	_ ai.Adapter      = (*Adapter)(nil)
	_ ai.KeyValidator = (*Adapter)(nil)
)

// New creates a Gemini adapter.
func New(id ai.ProviderID, opts ...option.ClientOption) *Adapter {
	return &Adapter{id: id, clientOptions: opts}
}

func (a *Adapter) ID() ai.ProviderID { return a.id }

func (a *Adapter) Capabilities() ai.Capabilities {
	return ai.Capabilities{
		SupportsImageInput: true,
	}
}

// ValidateKey checks the credential's surface format before any network I/O.
func (a *Adapter) ValidateKey(credential string) error {
	if credential == "" {
		return fmt.Errorf("Gemini API key is empty")
	}
	return nil
}

// Generate sends one chat request and converts the response into the uniform
// envelope.
func (a *Adapter) Generate(ctx context.Context, request ai.GenerationRequest, prompt string, settings ai.ResolvedSettings, credential string) (*ai.GenerationResult, error) {
	if credential == "" {
		return nil, fmt.Errorf("Gemini API key is not set")
	}

	opts := append([]option.ClientOption{option.WithAPIKey(credential)}, a.clientOptions...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	defer func() { _ = client.Close() }()

	model := client.GenerativeModel(request.Model)
	applySettings(model, settings)

	system, history, last := splitMessages(request.Messages, prompt)
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}

	session := model.StartChat()
	session.History = history

	resp, err := session.SendMessage(ctx, genai.Text(last))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content from Gemini: %w", err)
	}

	return responseToGeneric(a.id, request.Model, resp)
}

func applySettings(model *genai.GenerativeModel, settings ai.ResolvedSettings) {
	if settings.Temperature != nil {
		model.SetTemperature(float32(*settings.Temperature))
	}
	if settings.TopP != nil {
		model.SetTopP(float32(*settings.TopP))
	}
	if settings.MaxTokens != nil {
		model.SetMaxOutputTokens(int32(*settings.MaxTokens))
	}
	if len(settings.StopSequences) > 0 {
		model.StopSequences = settings.StopSequences
	}
}

// splitMessages separates the system prompt, prior turns, and the final user
// message the chat session will send.
func splitMessages(messages []ai.Message, prompt string) (system string, history []*genai.Content, last string) {
	var turns []ai.Message
	for _, msg := range messages {
		if msg.Role == ai.RoleSystem {
			if system != "" {
				system += "\n"
			}
			system += msg.Content
			continue
		}
		turns = append(turns, msg)
	}

	if len(turns) == 0 {
		return system, nil, prompt
	}

	last = turns[len(turns)-1].Content
	for _, msg := range turns[:len(turns)-1] {
		role := "user"
		if msg.Role == ai.RoleAssistant {
			role = "model"
		}
		history = append(history, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}
	return system, history, last
}

func responseToGeneric(provider ai.ProviderID, model string, resp *genai.GenerateContentResponse) (*ai.GenerationResult, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
			return nil, fmt.Errorf("Gemini prompt blocked: %s", resp.PromptFeedback.BlockReason.String())
		}
		return nil, fmt.Errorf("Gemini response was empty or malformed")
	}

	result := &ai.GenerationResult{
		Object:   ai.ObjectChatCompletion,
		ID:       fmt.Sprintf("gemini-%d", time.Now().UnixNano()),
		Provider: provider,
		Model:    model,
		Created:  time.Now().Unix(),
	}

	for i, candidate := range resp.Candidates {
		var content string
		for _, part := range candidate.Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				content += string(txt)
			}
		}
		result.Choices = append(result.Choices, ai.Choice{
			Index:        i,
			Message:      ai.Message{Role: ai.RoleAssistant, Content: content},
			FinishReason: candidate.FinishReason.String(),
		})
	}

	if resp.UsageMetadata != nil {
		result.Usage = &ai.Usage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}

	return result, nil
}
