package catalog

import (
	"strings"

	"github.com/modelgate/modelgate/providers/ai"
)

// fingerprint is one entry of the model-family inference table. A model id or
// filename is matched case-insensitively against Substring; the first match
// in table order wins.
type fingerprint struct {
	Substring     string
	ContextWindow int
	MaxOutput     int
	Reasoning     ReasoningSupport
	ImageInput    bool
}

// fingerprints is priority-ordered: more specific families first. The table
// is best-effort; a wrong guess only affects the synthesized descriptor, the
// real provider still has the final say.
var fingerprints = []fingerprint{
	{Substring: "deepseek-r1", ContextWindow: 131072, MaxOutput: 32768,
		Reasoning: ReasoningSupport{Supported: true, EnabledByDefault: true, CanDisable: false, MinBudget: 1024, MaxBudget: 32768}},
	{Substring: "qwq", ContextWindow: 32768, MaxOutput: 16384,
		Reasoning: ReasoningSupport{Supported: true, EnabledByDefault: true, CanDisable: false, MinBudget: 1024, MaxBudget: 16384}},
	{Substring: "deepseek", ContextWindow: 65536, MaxOutput: 8192},
	{Substring: "qwen3", ContextWindow: 131072, MaxOutput: 16384,
		Reasoning: ReasoningSupport{Supported: true, EnabledByDefault: false, CanDisable: true, MinBudget: 1024, MaxBudget: 16384}},
	{Substring: "qwen", ContextWindow: 32768, MaxOutput: 8192},
	{Substring: "llama-3", ContextWindow: 131072, MaxOutput: 8192},
	{Substring: "llama3", ContextWindow: 131072, MaxOutput: 8192},
	{Substring: "llama", ContextWindow: 8192, MaxOutput: 4096},
	{Substring: "mistral", ContextWindow: 32768, MaxOutput: 8192},
	{Substring: "mixtral", ContextWindow: 32768, MaxOutput: 8192},
	{Substring: "gemma", ContextWindow: 8192, MaxOutput: 4096},
	{Substring: "phi-4", ContextWindow: 16384, MaxOutput: 8192},
	{Substring: "phi", ContextWindow: 4096, MaxOutput: 2048},
	{Substring: "gpt-4o", ContextWindow: 128000, MaxOutput: 16384, ImageInput: true},
	{Substring: "claude", ContextWindow: 200000, MaxOutput: 8192, ImageInput: true,
		Reasoning: ReasoningSupport{Supported: true, EnabledByDefault: false, CanDisable: true, MinBudget: 1024, MaxBudget: 64000}},
}

// conservative defaults when no family fingerprint matches.
const (
	fallbackContextWindow = 4096
	fallbackMaxOutput     = 2048
)

// InferModelInfo synthesizes a descriptor for a model id that is not in the
// catalog, matching the id against the family fingerprint table. The result
// is always marked Synthesized.
func InferModelInfo(provider ai.ProviderID, model string) ModelInfo {
	info := ModelInfo{
		ID:              model,
		Provider:        provider,
		ContextWindow:   fallbackContextWindow,
		MaxOutputTokens: fallbackMaxOutput,
		Synthesized:     true,
	}

	needle := strings.ToLower(model)
	for _, fp := range fingerprints {
		if strings.Contains(needle, fp.Substring) {
			info.ContextWindow = fp.ContextWindow
			info.MaxOutputTokens = fp.MaxOutput
			info.Reasoning = fp.Reasoning
			info.SupportsImageInput = fp.ImageInput
			break
		}
	}
	return info
}
