package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/modelgate/modelgate/core/preset"
	"github.com/modelgate/modelgate/providers/ai/catalog"
)

// CatalogFile is the YAML shape for catalog overlays. Entries extend the
// built-in catalog: a provider or model with a known id overwrites the
// built-in one.
type CatalogFile struct {
	Providers []catalog.ProviderInfo `yaml:"providers"`
	Models    []catalog.ModelInfo    `yaml:"models"`
}

// PresetFile is the YAML shape for preset files.
type PresetFile struct {
	// Mode selects how these presets combine with the built-in defaults;
	// empty means extend.
	Mode    preset.Mode     `yaml:"mode"`
	Presets []preset.Preset `yaml:"presets"`
}

// LoadCatalogFile reads a YAML catalog overlay.
func LoadCatalogFile(path string) (*CatalogFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading catalog file %q: %w", path, err)
	}
	var cf CatalogFile
	if err := yaml.Unmarshal(raw, &cf); err != nil {
		return nil, fmt.Errorf("error decoding catalog file %q: %w", path, err)
	}
	for i, p := range cf.Providers {
		if p.ID == "" {
			return nil, fmt.Errorf("catalog file %q: provider entry %d has no id", path, i)
		}
	}
	for i, m := range cf.Models {
		if m.ID == "" || m.Provider == "" {
			return nil, fmt.Errorf("catalog file %q: model entry %d needs both id and provider", path, i)
		}
	}
	return &cf, nil
}

// Catalog merges the overlay onto the built-in defaults and returns the
// resulting immutable catalog.
func (cf *CatalogFile) Catalog() *catalog.Catalog {
	providers := append(append([]catalog.ProviderInfo(nil), catalog.DefaultProviders()...), cf.Providers...)
	models := append(append([]catalog.ModelInfo(nil), catalog.DefaultModels()...), cf.Models...)
	return catalog.New(providers, models)
}

// LoadPresetFile reads a YAML preset file.
func LoadPresetFile(path string) (*PresetFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading preset file %q: %w", path, err)
	}
	var pf PresetFile
	if err := yaml.Unmarshal(raw, &pf); err != nil {
		return nil, fmt.Errorf("error decoding preset file %q: %w", path, err)
	}
	for i, p := range pf.Presets {
		if p.ID == "" {
			return nil, fmt.Errorf("preset file %q: entry %d has no id", path, i)
		}
		if p.Provider == "" {
			return nil, fmt.Errorf("preset file %q: preset %q names no provider", path, p.ID)
		}
	}
	return &pf, nil
}
