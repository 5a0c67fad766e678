// Package client composes the whole pipeline: validation, model resolution,
// settings resolution, adapter dispatch, post-processing, and error mapping.
//
// The public boundary never leaks an error or a panic: every failure path is
// converted into the uniform failure envelope, so callers branch on one
// discriminator field.
package client

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/modelgate/modelgate/aierrors"
	"github.com/modelgate/modelgate/core/poll"
	"github.com/modelgate/modelgate/core/postprocess"
	"github.com/modelgate/modelgate/core/preset"
	"github.com/modelgate/modelgate/core/registry"
	"github.com/modelgate/modelgate/core/resolve"
	"github.com/modelgate/modelgate/core/settings"
	"github.com/modelgate/modelgate/core/validate"
	"github.com/modelgate/modelgate/providers/ai"
	"github.com/modelgate/modelgate/providers/ai/catalog"
	"github.com/modelgate/modelgate/providers/ai/gemini"
	"github.com/modelgate/modelgate/providers/ai/localdiff"
	"github.com/modelgate/modelgate/providers/ai/mock"
	"github.com/modelgate/modelgate/providers/ai/openaicompat"
	"github.com/modelgate/modelgate/providers/observability"
)

// CredentialFunc looks up the caller's credential for a provider. The
// pipeline never reads the environment itself; the demo binary builds this
// from env vars, servers typically build it from a secret store.
type CredentialFunc func(ai.ProviderID) string

// Outcome is what every Generate call returns: exactly one of Result or
// Failure is set, discriminated by Object.
type Outcome struct {
	Object  string               `json:"object"`
	Result  *ai.GenerationResult `json:"result,omitempty"`
	Failure *ai.Failure          `json:"failure,omitempty"`
}

// Success reports whether the outcome carries a result.
func (o *Outcome) Success() bool { return o.Failure == nil }

// Client is the per-process orchestrator. The catalogs, preset store, and
// adapter registry are populated at construction and read-only afterwards;
// concurrent Generate calls share no other state.
type Client struct {
	catalog     *catalog.Catalog
	presets     *preset.Manager[preset.Preset]
	registry    *registry.Registry[ai.ProviderID, ai.Adapter]
	resolver    *resolve.Resolver
	settings    *settings.Resolver
	postproc    *postprocess.Processor
	credentials CredentialFunc
	logger      observability.Logger

	pollConfig     poll.Config
	baseURLs       func(ai.ProviderID) string
	globalDefaults *ai.Settings
	customAdapters map[ai.ProviderID]ai.Adapter
	adapterTable   map[ai.ProviderID]registry.Constructor[ai.Adapter]
	presetDefaults []preset.Preset
	presetCustom   []preset.Preset
	presetMode     preset.Mode
}

// Option configures a Client at construction.
type Option func(*Client)

// WithCatalog replaces the built-in provider/model catalog.
func WithCatalog(cat *catalog.Catalog) Option {
	return func(c *Client) { c.catalog = cat }
}

// WithLogger injects the logging capability used by all components.
func WithLogger(logger observability.Logger) Option {
	return func(c *Client) { c.logger = observability.OrNop(logger) }
}

// WithPresets loads presets: defaults plus custom entries combined per mode.
func WithPresets(defaults, custom []preset.Preset, mode preset.Mode) Option {
	return func(c *Client) {
		c.presetDefaults = defaults
		c.presetCustom = custom
		c.presetMode = mode
	}
}

// WithAdapter pre-registers a custom adapter instance. Pre-registered
// adapters are never overwritten by the declarative table.
func WithAdapter(adapter ai.Adapter) Option {
	return func(c *Client) { c.customAdapters[adapter.ID()] = adapter }
}

// WithAdapterTable replaces the built-in declarative constructor table.
func WithAdapterTable(table map[ai.ProviderID]registry.Constructor[ai.Adapter]) Option {
	return func(c *Client) { c.adapterTable = table }
}

// WithPollConfig tunes the poller embedded in job-based adapters built from
// the default table.
func WithPollConfig(cfg poll.Config) Option {
	return func(c *Client) { c.pollConfig = cfg }
}

// WithBaseURLs supplies per-provider endpoint overrides for the adapters
// built from the default table. An empty return keeps the adapter's built-in
// endpoint. Adapters registered via [WithAdapter] or a custom table are not
// affected.
func WithBaseURLs(lookup func(ai.ProviderID) string) Option {
	return func(c *Client) { c.baseURLs = lookup }
}

// WithGlobalDefaults sets the lowest-precedence settings layer.
func WithGlobalDefaults(defaults *ai.Settings) Option {
	return func(c *Client) { c.globalDefaults = defaults }
}

// New builds the orchestrator. Construction never fails because of a
// misbehaving backend: adapter construction failures are logged and those
// providers serve the shared fallback adapter instead.
func New(credentials CredentialFunc, opts ...Option) *Client {
	c := &Client{
		credentials:    credentials,
		logger:         observability.NopLogger{},
		customAdapters: make(map[ai.ProviderID]ai.Adapter),
		presetMode:     preset.ModeExtend,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.credentials == nil {
		c.credentials = func(ai.ProviderID) string { return "" }
	}
	if c.catalog == nil {
		c.catalog = catalog.DefaultCatalog()
	}

	c.presets = preset.NewManager(c.presetDefaults, c.presetCustom, c.presetMode)

	c.registry = registry.New[ai.ProviderID, ai.Adapter](mock.New(catalog.ProviderMock), c.logger)
	for id, adapter := range c.customAdapters {
		c.registry.Register(id, adapter)
	}
	table := c.adapterTable
	if table == nil {
		table = c.defaultAdapterTable()
	}
	c.registry.Install(table)

	c.resolver = resolve.NewResolver(c.catalog, c.presets, c.logger)
	c.settings = settings.NewResolver(c.catalog,
		settings.WithLogger(c.logger),
		settings.WithGlobalDefaults(c.globalDefaults))
	c.postproc = postprocess.New(c.logger)

	return c
}

// defaultAdapterTable wires the built-in adapters to the built-in provider
// ids. Providers present in the catalog but absent here (e.g. anthropic
// until a native adapter lands) serve the fallback adapter.
func (c *Client) defaultAdapterTable() map[ai.ProviderID]registry.Constructor[ai.Adapter] {
	return map[ai.ProviderID]registry.Constructor[ai.Adapter]{
		catalog.ProviderOpenAI: func() (ai.Adapter, error) {
			a := openaicompat.New(catalog.ProviderOpenAI)
			if u := c.baseURL(catalog.ProviderOpenAI); u != "" {
				a = a.WithBaseURL(u)
			}
			return a, nil
		},
		catalog.ProviderGemini: func() (ai.Adapter, error) {
			return gemini.New(catalog.ProviderGemini), nil
		},
		catalog.ProviderLocalDiff: func() (ai.Adapter, error) {
			opts := []localdiff.Option{
				localdiff.WithLogger(c.logger),
				localdiff.WithPollConfig(c.pollConfig),
			}
			if u := c.baseURL(catalog.ProviderLocalDiff); u != "" {
				opts = append(opts, localdiff.WithBaseURL(u))
			}
			return localdiff.New(catalog.ProviderLocalDiff, opts...), nil
		},
		catalog.ProviderMock: func() (ai.Adapter, error) {
			return mock.New(catalog.ProviderMock), nil
		},
	}
}

// baseURL resolves the configured endpoint override for a provider, or empty
// when no lookup was injected.
func (c *Client) baseURL(id ai.ProviderID) string {
	if c.baseURLs == nil {
		return ""
	}
	return c.baseURLs(id)
}

// RegisterAdapter installs an adapter after construction. Administrative:
// not safe to interleave with in-flight Generate calls.
func (c *Client) RegisterAdapter(adapter ai.Adapter) {
	c.registry.Register(adapter.ID(), adapter)
}

// RegisterPreset installs or overwrites a preset after construction.
// Administrative, like RegisterAdapter.
func (c *Client) RegisterPreset(p preset.Preset) {
	c.presets.Register(p)
}

// Presets returns a defensive copy of the loaded presets.
func (c *Client) Presets() []preset.Preset {
	return c.presets.Presets()
}

// Generate runs one request through the full pipeline. It never panics and
// never returns nil; inspect Outcome.Object (or Success) to branch.
func (c *Client) Generate(ctx context.Context, req ai.GenerationRequest) (outcome *Outcome) {
	defer func() {
		if recovered := recover(); recovered != nil {
			c.logger.Error("panic recovered in generate",
				observability.String("provider", string(req.Provider)))
			outcome = failure(req.Provider, req.Model, aierrors.MapRecovered(recovered), nil)
		}
	}()

	// Fail fast before any resolution or network call.
	if envelope := validate.Request(req); envelope != nil {
		return failure(req.Provider, req.Model, envelope, nil)
	}

	resolution, envelope := c.resolver.Resolve(resolve.Options{
		PresetID: req.PresetID,
		Provider: req.Provider,
		Model:    req.Model,
		Settings: req.Settings,
	})
	if envelope != nil {
		return failure(req.Provider, req.Model, envelope, nil)
	}

	providerID := resolution.Provider.ID
	modelID := resolution.Model.ID
	req.Provider = providerID
	req.Model = modelID

	// Explicit reasoning opt-in on a non-reasoning model is a hard error;
	// inherited defaults are silently stripped by settings resolution.
	if envelope := validate.Reasoning(resolution.Model, resolution.PresetSettings, req.Settings); envelope != nil {
		return failure(providerID, modelID, envelope, nil)
	}

	resolved := c.settings.Resolve(req.Kind, resolution.Provider, resolution.Model,
		resolution.PresetSettings, req.Settings)

	adapter := c.registry.Get(providerID)
	credential := c.credentials(providerID)
	if keyValidator, ok := adapter.(ai.KeyValidator); ok {
		if err := keyValidator.ValidateKey(credential); err != nil {
			return failure(providerID, modelID,
				aierrors.Newf(aierrors.CodeInvalidAPIKey, aierrors.TypeAuthentication,
					"invalid credential for provider %q: %v", providerID, err), nil)
		}
	}

	c.logger.Debug("dispatching generation request",
		observability.String("provider", string(providerID)),
		observability.String("model", modelID),
		observability.String("kind", string(req.Kind)))

	result, err := adapter.Generate(ctx, req, c.resolvedPrompt(req), resolved, credential)
	if err != nil {
		return failure(providerID, modelID, aierrors.Map(err), nil)
	}

	result, envelope = c.postproc.Apply(result, resolved)
	if envelope != nil {
		// Attach whatever the backend produced for diagnostics.
		return failure(providerID, modelID, envelope, result)
	}

	return &Outcome{Object: result.Object, Result: result}
}

// GenerateBatch runs requests concurrently. Outcomes are positionally
// aligned with the input; a failed request yields its failure outcome, it
// does not abort the batch. Safe because all shared state is read-only.
func (c *Client) GenerateBatch(ctx context.Context, reqs []ai.GenerationRequest) []*Outcome {
	outcomes := make([]*Outcome, len(reqs))
	group, ctx := errgroup.WithContext(ctx)
	for i, req := range reqs {
		group.Go(func() error {
			outcomes[i] = c.Generate(ctx, req)
			return nil
		})
	}
	_ = group.Wait() // Generate never returns an error
	return outcomes
}

// resolvedPrompt is the single prompt string handed to adapters alongside
// the request: the image prompt for image requests, the request prompt (if
// any) for chat.
func (c *Client) resolvedPrompt(req ai.GenerationRequest) string {
	return req.Prompt
}

func failure(provider ai.ProviderID, model string, envelope *aierrors.Envelope, partial *ai.GenerationResult) *Outcome {
	f := ai.NewFailure(provider, model, envelope)
	f.PartialResponse = partial
	return &Outcome{Object: ai.ObjectError, Failure: f}
}
