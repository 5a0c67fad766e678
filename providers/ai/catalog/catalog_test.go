package catalog

import (
	"testing"

	"github.com/modelgate/modelgate/internal/utils"
	"github.com/modelgate/modelgate/providers/ai"
)

func TestNewLastRecordWins(t *testing.T) {
	cat := New(
		[]ProviderInfo{
			{ID: "openai", DisplayName: "built-in"},
			{ID: "openai", DisplayName: "override"},
		},
		[]ModelInfo{
			{ID: "gpt-4o", Provider: "openai", ContextWindow: 1},
			{ID: "gpt-4o", Provider: "openai", ContextWindow: 2},
		},
	)

	p, ok := cat.Provider("openai")
	if !ok || p.DisplayName != "override" {
		t.Errorf("Provider: got %+v, want the later record", p)
	}
	m, ok := cat.Model("openai", "gpt-4o")
	if !ok || m.ContextWindow != 2 {
		t.Errorf("Model: got %+v, want the later record", m)
	}
	if ids := cat.ProviderIDs(); len(ids) != 1 {
		t.Errorf("ProviderIDs: got %v, duplicate ids must not repeat", ids)
	}
}

func TestNewDropsOrphanModels(t *testing.T) {
	cat := New(
		[]ProviderInfo{{ID: "openai"}},
		[]ModelInfo{{ID: "claude", Provider: "anthropic"}},
	)
	if _, ok := cat.Model("anthropic", "claude"); ok {
		t.Error("a model referencing an unregistered provider must be dropped")
	}
}

func TestProviderIDsOrder(t *testing.T) {
	cat := New([]ProviderInfo{{ID: "b"}, {ID: "a"}, {ID: "c"}}, nil)
	ids := cat.ProviderIDs()
	want := []ai.ProviderID{"b", "a", "c"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ProviderIDs: got %v, want registration order %v", ids, want)
		}
	}
}

func TestProviderOverridesClone(t *testing.T) {
	cat := New([]ProviderInfo{{ID: "openai"}}, nil).
		WithProviderOverrides("openai", &ai.Settings{Temperature: utils.Ptr(0.5)})

	first := cat.ProviderOverrides("openai")
	if first == nil || *first.Temperature != 0.5 {
		t.Fatalf("ProviderOverrides: got %+v", first)
	}
	*first.Temperature = 99

	second := cat.ProviderOverrides("openai")
	if *second.Temperature != 0.5 {
		t.Error("ProviderOverrides must return a clone, not the shared layer")
	}

	if cat.ProviderOverrides("unknown") != nil {
		t.Error("unknown provider has no overrides")
	}
}

func TestModelsAccessor(t *testing.T) {
	cat := New(
		[]ProviderInfo{{ID: "openai"}},
		[]ModelInfo{
			{ID: "a", Provider: "openai"},
			{ID: "b", Provider: "openai"},
		},
	)
	if got := cat.Models("openai"); len(got) != 2 {
		t.Errorf("Models: got %d entries, want 2", len(got))
	}
	if got := cat.Models("unknown"); len(got) != 0 {
		t.Errorf("Models(unknown): got %d entries, want 0", len(got))
	}
}

func TestDefaultCatalogConsistency(t *testing.T) {
	cat := DefaultCatalog()

	for _, m := range DefaultModels() {
		if _, ok := cat.Model(m.Provider, m.ID); !ok {
			t.Errorf("default model %s/%s did not survive catalog construction", m.Provider, m.ID)
		}
	}
	for _, id := range []ai.ProviderID{ProviderOpenAI, ProviderAnthropic, ProviderGemini, ProviderLocalDiff, ProviderMock} {
		if _, ok := cat.Provider(id); !ok {
			t.Errorf("built-in provider %q missing from default catalog", id)
		}
	}
}
