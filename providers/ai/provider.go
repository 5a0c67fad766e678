package ai

import (
	"context"
)

// Capabilities describes what a provider adapter can do. The orchestrator and
// the settings filter consult it instead of branching on concrete types.
type Capabilities struct {
	// JobBased marks adapters whose backend returns a job handle instead of
	// a synchronous result; such adapters drive their embedded poller inside
	// Generate and still return a terminal result.
	JobBased bool

	SupportsMultipleOutputs bool // more than one choice/image per request
	SupportsProgressEvents  bool // emits per-poll progress payloads
	SupportsNegativePrompt  bool // honours diffusion negative prompts
	SupportsImageInput      bool // accepts image inputs
}

// Adapter is the core interface every provider backend implements. It covers
// one generation request end to end; wire-format concerns stay inside the
// implementation. Use [ModelLister] and [KeyValidator] in addition when the
// backend supports them.
type Adapter interface {
	// ID returns the provider identifier this adapter serves.
	ID() ProviderID

	// Capabilities returns the static capability descriptor.
	Capabilities() Capabilities

	// Generate executes one generation request and returns the terminal
	// result. For job-based backends this includes submission and polling;
	// the caller never sees intermediate job states. Returns an error if the
	// backend call fails, the context is cancelled, or the response cannot
	// be decoded.
	Generate(ctx context.Context, request GenerationRequest, prompt string, settings ResolvedSettings, credential string) (*GenerationResult, error)
}

// ModelLister is an optional interface for adapters whose backend can
// enumerate available models. Callers detect support via type assertion:
// adapter.(ModelLister).
type ModelLister interface {
	Adapter
	// ListModels returns the model identifiers the backend currently serves.
	ListModels(ctx context.Context, credential string) ([]string, error)
}

// KeyValidator is an optional interface for adapters that can check a
// credential's surface format before any network I/O, used as a fast-fail.
// Callers detect support via type assertion: adapter.(KeyValidator).
type KeyValidator interface {
	Adapter
	// ValidateKey reports whether the credential is structurally plausible.
	// A nil return does not guarantee the key is accepted by the backend.
	ValidateKey(credential string) error
}
