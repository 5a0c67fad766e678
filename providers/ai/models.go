package ai

import (
	"github.com/modelgate/modelgate/aierrors"
)

/*
	##### REQUEST #####
*/

// ProviderID identifies a backend provider (e.g. "openai", "gemini").
type ProviderID string

// RequestKind discriminates the two request variants.
type RequestKind string

const (
	KindChat  RequestKind = "chat"
	KindImage RequestKind = "image"
)

// GenerationRequest is the normalized inbound request. It always carries
// either (Provider, Model) or PresetID, never neither.
type GenerationRequest struct {
	Kind     RequestKind `json:"kind"`
	Provider ProviderID  `json:"provider,omitempty"`
	Model    string      `json:"model,omitempty"`
	PresetID string      `json:"preset_id,omitempty"`

	// Messages carries the conversation for chat requests.
	Messages []Message `json:"messages,omitempty"`
	// Prompt carries the text prompt for image requests.
	Prompt string `json:"prompt,omitempty"`

	// Settings is the caller's partial overlay; it is the highest-precedence
	// layer of the settings merge.
	Settings *Settings `json:"settings,omitempty"`

	// OnProgress, if set, is invoked once per poll for job-based backends
	// that report progress. Invocation is synchronous and ordered.
	OnProgress func(JobProgress) `json:"-"`
}

// Message represents a single message in a conversation
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content,omitempty"`

	// Reasoning holds chain-of-thought content, either native from the
	// provider or relocated from the visible content by thinking extraction.
	Reasoning string `json:"reasoning,omitempty"`
}

// MessageRole represents the role of a message; compatible with string
type MessageRole string

const (
	RoleSystem    MessageRole = "system"    // System instructions/configuration
	RoleUser      MessageRole = "user"      // End-user message
	RoleAssistant MessageRole = "assistant" // Model response
)

/*
	##### RESULT #####
*/

// Object discriminators for the uniform envelopes.
const (
	ObjectChatCompletion = "chat.completion"
	ObjectImageResult    = "image.result"
	ObjectError          = "error"
)

// GenerationResult is the uniform success envelope shared by all providers.
// Chat results populate Choices; image results populate Data.
type GenerationResult struct {
	Object   string      `json:"object"`
	ID       string      `json:"id"`
	Provider ProviderID  `json:"provider"`
	Model    string      `json:"model"`
	Created  int64       `json:"created"`
	Choices  []Choice    `json:"choices,omitempty"`
	Data     []ImageData `json:"data,omitempty"`
	Usage    *Usage      `json:"usage,omitempty"`
}

// Choice is a single chat completion alternative.
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason,omitempty"`
}

// ImageData is a single generated image, delivered by URL or inline base64.
type ImageData struct {
	URL  string `json:"url,omitempty"`
	B64  string `json:"b64_json,omitempty"`
	Seed int64  `json:"seed,omitempty"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`

	// Extended token metrics
	ReasoningTokens int `json:"reasoning_tokens,omitempty"`
	CachedTokens    int `json:"cached_tokens,omitempty"`
}

// Failure is the uniform failure envelope. Callers branch on Object rather
// than on Go error types.
type Failure struct {
	Object   string             `json:"object"` // always "error"
	Provider ProviderID         `json:"provider,omitempty"`
	Model    string             `json:"model,omitempty"`
	Err      *aierrors.Envelope `json:"error"`
	// PartialResponse carries whatever the backend produced before the
	// failure, attached for diagnostics (e.g. missing-tag errors).
	PartialResponse *GenerationResult `json:"partial_response,omitempty"`
}

// NewFailure builds a failure envelope around the given error envelope.
func NewFailure(provider ProviderID, model string, envelope *aierrors.Envelope) *Failure {
	return &Failure{Object: ObjectError, Provider: provider, Model: model, Err: envelope}
}
