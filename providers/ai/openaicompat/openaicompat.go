// Package openaicompat implements the Adapter contract for OpenAI-compatible
// chat-completion endpoints (OpenAI itself, OpenRouter, local servers that
// speak the same wire format). It is a synchronous adapter: one POST, one
// complete response.
package openaicompat

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/modelgate/modelgate/internal/utils"
	"github.com/modelgate/modelgate/providers/ai"
)

const (
	defaultBaseURL          = "https://api.openai.com/v1"
	chatCompletionsEndpoint = "/chat/completions"
	modelsEndpoint          = "/models"
)

// Adapter implements ai.Adapter for OpenAI-compatible endpoints.
type Adapter struct {
	id      ai.ProviderID
	baseURL string
	client  *http.Client
}

var (
	_ ai.Adapter      = (*Adapter)(nil)
	_ ai.ModelLister  = (*Adapter)(nil)
	_ ai.KeyValidator = (*Adapter)(nil)
)

// New creates an adapter for the given provider id with default endpoint
// configuration.
func New(id ai.ProviderID) *Adapter {
	return &Adapter{
		id:      id,
		baseURL: defaultBaseURL,
		client:  &http.Client{},
	}
}

// WithBaseURL overrides the default base URL for API requests.
func (a *Adapter) WithBaseURL(baseURL string) *Adapter {
	a.baseURL = strings.TrimRight(baseURL, "/")
	return a
}

// WithHTTPClient sets the HTTP client used for outbound requests.
func (a *Adapter) WithHTTPClient(client *http.Client) *Adapter {
	a.client = client
	return a
}

func (a *Adapter) ID() ai.ProviderID { return a.id }

func (a *Adapter) Capabilities() ai.Capabilities {
	return ai.Capabilities{
		SupportsMultipleOutputs: true,
		SupportsImageInput:      true,
	}
}

// Generate sends one chat completion request and converts the response into
// the uniform envelope.
func (a *Adapter) Generate(ctx context.Context, request ai.GenerationRequest, prompt string, settings ai.ResolvedSettings, credential string) (*ai.GenerationResult, error) {
	if credential == "" {
		return nil, fmt.Errorf("API key is not set for provider %q", a.id)
	}

	wireReq := requestFromGeneric(request, prompt, settings)
	resp, err := utils.DoPostSync[response](ctx, a.client, a.baseURL+chatCompletionsEndpoint, credential, wireReq)
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response from %s", a.baseURL)
	}

	return responseToGeneric(a.id, *resp), nil
}

// ListModels returns the model ids the endpoint currently serves.
func (a *Adapter) ListModels(ctx context.Context, credential string) ([]string, error) {
	resp, err := utils.DoGetSync[modelList](ctx, a.client, a.baseURL+modelsEndpoint, credential)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(resp.Data))
	for _, m := range resp.Data {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

// ValidateKey checks the credential's surface format before any network I/O.
func (a *Adapter) ValidateKey(credential string) error {
	if credential == "" {
		return fmt.Errorf("API key is empty")
	}
	if strings.ContainsAny(credential, " \t\r\n") {
		return fmt.Errorf("API key contains whitespace")
	}
	return nil
}
