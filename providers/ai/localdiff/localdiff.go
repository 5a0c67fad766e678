// Package localdiff implements the Adapter contract for a local diffusion
// server with a job-based API: image generation is submitted, the server
// returns a job id, and the adapter polls the job until it reaches a
// terminal state. The embedded poller is an implementation detail; callers
// of Generate only ever see a terminal result.
package localdiff

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/modelgate/modelgate/core/poll"
	"github.com/modelgate/modelgate/internal/utils"
	"github.com/modelgate/modelgate/providers/ai"
	"github.com/modelgate/modelgate/providers/observability"
)

const (
	defaultBaseURL = "http://127.0.0.1:7860"
	jobsEndpoint   = "/v1/images/jobs"
)

// Adapter implements ai.Adapter for a job-based local diffusion backend.
type Adapter struct {
	id      ai.ProviderID
	baseURL string
	client  *http.Client
	poller  *poll.Poller
	logger  observability.Logger
}

var _ ai.Adapter = (*Adapter)(nil)

// Option configures the adapter.
type Option func(*Adapter)

// WithBaseURL overrides the default server address.
func WithBaseURL(baseURL string) Option {
	return func(a *Adapter) { a.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithHTTPClient sets the HTTP client used for outbound requests.
func WithHTTPClient(client *http.Client) Option {
	return func(a *Adapter) { a.client = client }
}

// WithPollConfig tunes the embedded poller.
func WithPollConfig(cfg poll.Config) Option {
	return func(a *Adapter) { a.poller = poll.New(cfg, a.logger) }
}

// WithLogger injects the logging capability.
func WithLogger(logger observability.Logger) Option {
	return func(a *Adapter) {
		a.logger = observability.OrNop(logger)
		a.poller = poll.New(poll.Config{}, a.logger)
	}
}

// New creates a local diffusion adapter. Options are applied in order, so
// WithLogger should come before WithPollConfig when both are used.
func New(id ai.ProviderID, opts ...Option) *Adapter {
	a := &Adapter{
		id:      id,
		baseURL: defaultBaseURL,
		client:  &http.Client{},
		logger:  observability.NopLogger{},
	}
	a.poller = poll.New(poll.Config{}, a.logger)
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Adapter) ID() ai.ProviderID { return a.id }

func (a *Adapter) Capabilities() ai.Capabilities {
	return ai.Capabilities{
		JobBased:                true,
		SupportsMultipleOutputs: true,
		SupportsProgressEvents:  true,
		SupportsNegativePrompt:  true,
	}
}

// Generate submits the image job and polls it to completion.
func (a *Adapter) Generate(ctx context.Context, request ai.GenerationRequest, prompt string, settings ai.ResolvedSettings, credential string) (*ai.GenerationResult, error) {
	if request.Kind != ai.KindImage {
		return nil, fmt.Errorf("local diffusion backend only serves image requests, got %q", request.Kind)
	}
	if settings.Diffusion == nil {
		return nil, fmt.Errorf("diffusion settings are absent after resolution")
	}

	submitted, err := utils.DoPostSync[submitResponse](ctx, a.client, a.baseURL+jobsEndpoint, credential,
		submitRequestFrom(request.Model, prompt, *settings.Diffusion))
	if err != nil {
		return nil, err
	}
	if submitted.ID == "" {
		return nil, fmt.Errorf("diffusion server accepted the job but returned no job id")
	}

	a.logger.Debug("image job submitted",
		observability.String("job_id", submitted.ID),
		observability.String("model", request.Model))

	result, err := a.poller.Wait(ctx, submitted.ID, a.statusFunc(credential), request.OnProgress)
	if err != nil {
		return nil, err
	}

	// The server does not know our provider id; stamp the envelope here.
	result.Provider = a.id
	if result.Model == "" {
		result.Model = request.Model
	}
	return result, nil
}

func (a *Adapter) statusFunc(credential string) poll.StatusFunc {
	return func(ctx context.Context, jobID string) (*ai.Job, error) {
		raw, err := utils.DoGetRaw(ctx, a.client, a.baseURL+jobsEndpoint+"/"+jobID, credential)
		if err != nil {
			return nil, err
		}
		return decodeJob(raw)
	}
}
