package openaicompat

// Conversion between the uniform pipeline types and the OpenAI-compatible
// wire format. Filtered-out settings (nil pointers) are simply omitted from
// the wire request; the adapter never re-defaults them.

import (
	"github.com/modelgate/modelgate/providers/ai"
)

type request struct {
	Model            string        `json:"model"`
	Messages         []wireMessage `json:"messages"`
	Temperature      *float64      `json:"temperature,omitempty"`
	TopP             *float64      `json:"top_p,omitempty"`
	MaxTokens        *int          `json:"max_tokens,omitempty"`
	FrequencyPenalty *float64      `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64      `json:"presence_penalty,omitempty"`
	Stop             []string      `json:"stop,omitempty"`
	// Reasoning follows the OpenRouter extension; endpoints that do not
	// understand it ignore the field.
	Reasoning *wireReasoning `json:"reasoning,omitempty"`
}

type wireReasoning struct {
	MaxTokens int  `json:"max_tokens,omitempty"`
	Enabled   bool `json:"enabled"`
}

type wireMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Reasoning string `json:"reasoning,omitempty"`
}

type response struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []wireChoice `json:"choices"`
	Usage   *wireUsage   `json:"usage,omitempty"`
}

type wireChoice struct {
	Index        int         `json:"index"`
	Message      wireMessage `json:"message"`
	FinishReason string      `json:"finish_reason,omitempty"`
}

type wireUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type modelList struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

func requestFromGeneric(generic ai.GenerationRequest, prompt string, settings ai.ResolvedSettings) request {
	wireReq := request{
		Model:            generic.Model,
		Temperature:      settings.Temperature,
		TopP:             settings.TopP,
		MaxTokens:        settings.MaxTokens,
		FrequencyPenalty: settings.FrequencyPenalty,
		PresencePenalty:  settings.PresencePenalty,
		Stop:             settings.StopSequences,
	}

	for _, msg := range generic.Messages {
		wireReq.Messages = append(wireReq.Messages, wireMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}
	if len(wireReq.Messages) == 0 && prompt != "" {
		wireReq.Messages = []wireMessage{{Role: string(ai.RoleUser), Content: prompt}}
	}

	if settings.Reasoning != nil && settings.Reasoning.Enabled {
		wireReq.Reasoning = &wireReasoning{
			Enabled:   true,
			MaxTokens: settings.Reasoning.BudgetTokens,
		}
	}

	return wireReq
}

func responseToGeneric(provider ai.ProviderID, resp response) *ai.GenerationResult {
	result := &ai.GenerationResult{
		Object:   ai.ObjectChatCompletion,
		ID:       resp.ID,
		Provider: provider,
		Model:    resp.Model,
		Created:  resp.Created,
	}

	for _, choice := range resp.Choices {
		result.Choices = append(result.Choices, ai.Choice{
			Index: choice.Index,
			Message: ai.Message{
				Role:      ai.MessageRole(choice.Message.Role),
				Content:   choice.Message.Content,
				Reasoning: choice.Message.Reasoning,
			},
			FinishReason: choice.FinishReason,
		})
	}

	if resp.Usage != nil {
		result.Usage = &ai.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}

	return result
}
