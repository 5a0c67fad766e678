package localdiff

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/modelgate/modelgate/aierrors"
	"github.com/modelgate/modelgate/core/poll"
	"github.com/modelgate/modelgate/providers/ai"
)

// jobServer is a scripted diffusion backend: one submit endpoint plus a
// status endpoint that serves the given payloads in order, repeating the
// last one.
type jobServer struct {
	mu       sync.Mutex
	payloads []string
	queries  int
	submits  int
}

func (s *jobServer) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		switch {
		case r.Method == http.MethodPost && r.URL.Path == jobsEndpoint:
			s.submits++
			var req submitRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("decoding submit request: %v", err)
			}
			if req.Prompt == "" {
				t.Error("submit request carried no prompt")
			}
			fmt.Fprint(w, `{"id":"job-7","status":"pending"}`)

		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, jobsEndpoint+"/"):
			i := s.queries
			s.queries++
			if i >= len(s.payloads) {
				i = len(s.payloads) - 1
			}
			fmt.Fprint(w, s.payloads[i])

		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func testAdapter(t *testing.T, s *jobServer) *Adapter {
	t.Helper()
	server := httptest.NewServer(s.handler(t))
	t.Cleanup(server.Close)
	return New("localdiff",
		WithBaseURL(server.URL),
		WithPollConfig(poll.Config{Interval: time.Millisecond, Timeout: time.Second}))
}

func imageRequest() ai.GenerationRequest {
	return ai.GenerationRequest{
		Kind:   ai.KindImage,
		Model:  "sd-xl-base-1.0",
		Prompt: "a lighthouse at dusk",
	}
}

func diffusionSettings() ai.ResolvedSettings {
	return ai.ResolvedSettings{
		Diffusion: &ai.ResolvedDiffusion{
			Steps: 20, CFGScale: 7.5, Sampler: "euler", Seed: -1,
			Width: 1024, Height: 1024, Count: 1,
		},
	}
}

func TestGenerateSubmitsAndPolls(t *testing.T) {
	s := &jobServer{payloads: []string{
		`{"id":"job-7","status":"pending"}`,
		`{"id":"job-7","status":"in_progress","progress":{"stage":"diffusion","current_step":10,"total_steps":20,"percentage":50}}`,
		`{"id":"job-7","status":"complete","result":{"images":[{"url":"http://x/0.png","seed":42}]}}`,
	}}
	adapter := testAdapter(t, s)

	var steps []int
	req := imageRequest()
	req.OnProgress = func(p ai.JobProgress) { steps = append(steps, p.CurrentStep) }

	result, err := adapter.Generate(context.Background(), req, req.Prompt, diffusionSettings(), "")
	if err != nil {
		t.Fatal(err)
	}
	if result.Object != ai.ObjectImageResult || len(result.Data) != 1 {
		t.Fatalf("result: got %+v", result)
	}
	if result.Provider != "localdiff" {
		t.Errorf("Provider: got %q, the adapter must stamp its own id", result.Provider)
	}
	if result.Model != "sd-xl-base-1.0" {
		t.Errorf("Model: got %q", result.Model)
	}
	if len(steps) != 1 || steps[0] != 10 {
		t.Errorf("progress steps: got %v, want [10]", steps)
	}
	if s.queries != 3 {
		t.Errorf("status queries: got %d, want 3 (no polling past the terminal state)", s.queries)
	}
}

func TestGenerateSloppyStatusPayload(t *testing.T) {
	s := &jobServer{payloads: []string{
		`{'id': 'job-7', 'status': 'complete', 'result': {'images': [{'url': 'http://x/0.png'}]},}`,
	}}
	adapter := testAdapter(t, s)

	req := imageRequest()
	result, err := adapter.Generate(context.Background(), req, req.Prompt, diffusionSettings(), "")
	if err != nil {
		t.Fatalf("expected the sloppy payload to be repaired, got %v", err)
	}
	if len(result.Data) != 1 {
		t.Errorf("Data: got %+v", result.Data)
	}
}

func TestGenerateJobFailure(t *testing.T) {
	s := &jobServer{payloads: []string{
		`{"id":"job-7","status":"failed","error":{"message":"CUDA out of memory","code":"oom"}}`,
	}}
	adapter := testAdapter(t, s)

	req := imageRequest()
	_, err := adapter.Generate(context.Background(), req, req.Prompt, diffusionSettings(), "")
	var envelope *aierrors.Envelope
	if !errors.As(err, &envelope) {
		t.Fatalf("expected an envelope, got %v", err)
	}
	if envelope.Code != aierrors.CodeProviderError || envelope.ProviderError != "oom" {
		t.Errorf("envelope: got %+v", envelope)
	}
}

func TestGenerateRejectsChatRequests(t *testing.T) {
	adapter := New("localdiff")
	_, err := adapter.Generate(context.Background(), ai.GenerationRequest{Kind: ai.KindChat, Model: "x"},
		"", diffusionSettings(), "")
	if err == nil {
		t.Fatal("expected an error for a chat request")
	}
}

func TestGenerateRequiresDiffusionSettings(t *testing.T) {
	adapter := New("localdiff")
	req := imageRequest()
	_, err := adapter.Generate(context.Background(), req, req.Prompt, ai.ResolvedSettings{}, "")
	if err == nil {
		t.Fatal("expected an error without diffusion settings")
	}
}

func TestGenerateSubmitRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, `{"error":"model not loaded"}`)
	}))
	t.Cleanup(server.Close)
	adapter := New("localdiff", WithBaseURL(server.URL))

	req := imageRequest()
	_, err := adapter.Generate(context.Background(), req, req.Prompt, diffusionSettings(), "")
	if err == nil {
		t.Fatal("expected an error")
	}
	if envelope := aierrors.Map(err); envelope.Code != aierrors.CodeProviderError || envelope.Status != http.StatusServiceUnavailable {
		t.Errorf("mapped envelope: got %+v", envelope)
	}
}

func TestGenerateMissingJobID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"pending"}`)
	}))
	t.Cleanup(server.Close)
	adapter := New("localdiff", WithBaseURL(server.URL))

	req := imageRequest()
	_, err := adapter.Generate(context.Background(), req, req.Prompt, diffusionSettings(), "")
	if err == nil {
		t.Fatal("expected an error when the server returns no job id")
	}
}
