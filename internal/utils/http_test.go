package utils

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type echoPayload struct {
	Message string `json:"message"`
}

func TestDoPostSync(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method: got %s", r.Method)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type: got %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer key" {
			t.Errorf("Authorization: got %q", got)
		}
		_, _ = w.Write([]byte(`{"message":"pong"}`))
	}))
	defer server.Close()

	out, err := DoPostSync[echoPayload](context.Background(), server.Client(), server.URL, "key", echoPayload{Message: "ping"})
	if err != nil {
		t.Fatal(err)
	}
	if out.Message != "pong" {
		t.Errorf("Message: got %q", out.Message)
	}
}

func TestDoPostSyncOmitsEmptyAuthorization(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Header["Authorization"]; ok {
			t.Error("Authorization header must be absent without a key")
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	if _, err := DoPostSync[echoPayload](context.Background(), nil, server.URL, "", nil); err != nil {
		t.Fatal(err)
	}
}

func TestDoGetSyncNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"slow down"}`))
	}))
	defer server.Close()

	_, err := DoGetSync[echoPayload](context.Background(), server.Client(), server.URL, "key")
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *HTTPError, got %v", err)
	}
	if httpErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("StatusCode: got %d", httpErr.StatusCode)
	}
	if httpErr.Body != `{"error":"slow down"}` {
		t.Errorf("Body: got %q", httpErr.Body)
	}
}

func TestDoPostSyncDecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json at all`))
	}))
	defer server.Close()

	if _, err := DoPostSync[echoPayload](context.Background(), nil, server.URL, "", nil); err == nil {
		t.Fatal("expected a decode error")
	}
}

func TestDoGetRaw(t *testing.T) {
	sloppy := `{'status': 'running',}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sloppy))
	}))
	defer server.Close()

	raw, err := DoGetRaw(context.Background(), nil, server.URL, "")
	if err != nil {
		t.Fatal(err)
	}
	// Raw bytes pass through untouched so the caller can repair them.
	if string(raw) != sloppy {
		t.Errorf("raw: got %q", raw)
	}
}

func TestDoPostSyncContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	if _, err := DoPostSync[echoPayload](ctx, nil, server.URL, "", nil); err == nil {
		t.Fatal("expected an error for a cancelled context")
	}
}
