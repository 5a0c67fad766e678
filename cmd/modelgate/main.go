// Command modelgate is a small demo driver for the pipeline: it loads the
// runtime config, builds a client, sends one generation request, and prints
// the outcome.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/modelgate/modelgate/config"
	"github.com/modelgate/modelgate/core/client"
	"github.com/modelgate/modelgate/internal/utils"
	"github.com/modelgate/modelgate/providers/ai"
	"github.com/modelgate/modelgate/providers/ai/catalog"
	"github.com/modelgate/modelgate/providers/observability/slogobs"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a TOML runtime config (optional)")
		presetID   = flag.String("preset", "", "preset id to resolve the target from")
		provider   = flag.String("provider", string(catalog.ProviderMock), "provider id for direct selection")
		model      = flag.String("model", "mock-chat", "model id for direct selection")
		kind       = flag.String("kind", string(ai.KindChat), "request kind: chat or image")
		prompt     = flag.String("prompt", "What is the capital of France?", "prompt text")
	)
	flag.Parse()

	logger := slogobs.New(slogobs.WithOutput(os.Stderr))

	opts := []client.Option{client.WithLogger(logger)}
	credentials := func(ai.ProviderID) string { return "" }

	if *configPath != "" {
		rt, err := config.LoadRuntime(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		credentials = rt.Credentials()
		opts = append(opts,
			client.WithPollConfig(rt.PollConfig()),
			client.WithBaseURLs(rt.BaseURL))
		if rt.Defaults != nil {
			opts = append(opts, client.WithGlobalDefaults(rt.Defaults))
		}
		if rt.CatalogFile != "" {
			cf, err := config.LoadCatalogFile(rt.CatalogFile)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			opts = append(opts, client.WithCatalog(cf.Catalog()))
		}
		if rt.PresetFile != "" {
			pf, err := config.LoadPresetFile(rt.PresetFile)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			opts = append(opts, client.WithPresets(nil, pf.Presets, pf.Mode))
		}
	}

	c := client.New(credentials, opts...)

	req := ai.GenerationRequest{
		Kind:     ai.RequestKind(*kind),
		PresetID: *presetID,
		Prompt:   *prompt,
	}
	if *presetID == "" {
		req.Provider = ai.ProviderID(*provider)
		req.Model = *model
	}
	if req.Kind == ai.KindImage {
		req.OnProgress = func(p ai.JobProgress) {
			fmt.Fprintf(os.Stderr, "progress: %s %d/%d (%.0f%%)\n",
				p.Stage, p.CurrentStep, p.TotalSteps, p.Percentage)
		}
	} else {
		req.Messages = []ai.Message{{Role: ai.RoleUser, Content: *prompt}}
	}

	outcome := c.Generate(context.Background(), req)

	fmt.Println(utils.JSONToString(outcome, true))
	if !outcome.Success() {
		os.Exit(1)
	}
}
