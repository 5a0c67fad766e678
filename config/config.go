// Package config loads the gateway's file-based configuration: a TOML
// runtime file for operational knobs and YAML files for catalog and preset
// data. Credentials never live in these files; the runtime config only names
// the environment variables that hold them.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/modelgate/modelgate/core/poll"
	"github.com/modelgate/modelgate/providers/ai"
)

// ProviderRuntime holds the per-provider operational settings.
type ProviderRuntime struct {
	// BaseURL overrides the adapter's default endpoint. Empty keeps the
	// built-in default.
	BaseURL string `toml:"base_url"`
	// APIKeyEnv names the environment variable holding the credential.
	APIKeyEnv string `toml:"api_key_env"`
}

// Runtime is the top-level TOML runtime configuration.
type Runtime struct {
	LogLevel string `toml:"log_level"`

	// PollIntervalSeconds and PollTimeoutSeconds tune job polling; zero
	// keeps the built-in defaults.
	PollIntervalSeconds int `toml:"poll_interval_seconds"`
	PollTimeoutSeconds  int `toml:"poll_timeout_seconds"`

	// CatalogFile and PresetFile point at optional YAML overlay files.
	CatalogFile string `toml:"catalog_file"`
	PresetFile  string `toml:"preset_file"`

	// Defaults is the lowest-precedence settings layer, applied before any
	// provider or model defaults.
	Defaults *ai.Settings `toml:"defaults"`

	Providers map[string]ProviderRuntime `toml:"providers"`
}

// LoadRuntime reads and decodes a TOML runtime file.
func LoadRuntime(path string) (*Runtime, error) {
	var rt Runtime
	meta, err := toml.DecodeFile(path, &rt)
	if err != nil {
		return nil, fmt.Errorf("error decoding runtime config %q: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %q in runtime config %q", undecoded[0].String(), path)
	}
	return &rt, nil
}

// PollConfig converts the runtime knobs into a poller configuration. Zero
// values fall through to the poller's own defaults.
func (rt *Runtime) PollConfig() poll.Config {
	return poll.Config{
		Interval: time.Duration(rt.PollIntervalSeconds) * time.Second,
		Timeout:  time.Duration(rt.PollTimeoutSeconds) * time.Second,
	}
}

// Credentials builds a credential lookup from the configured environment
// variable names. Providers without an entry resolve to an empty credential.
func (rt *Runtime) Credentials() func(ai.ProviderID) string {
	return func(id ai.ProviderID) string {
		pr, ok := rt.Providers[string(id)]
		if !ok || pr.APIKeyEnv == "" {
			return ""
		}
		return os.Getenv(pr.APIKeyEnv)
	}
}

// BaseURL returns the configured endpoint override for a provider, or empty.
func (rt *Runtime) BaseURL(id ai.ProviderID) string {
	return rt.Providers[string(id)].BaseURL
}
