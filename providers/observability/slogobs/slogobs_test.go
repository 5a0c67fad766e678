package slogobs

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/modelgate/modelgate/providers/observability"
)

func TestNewWritesStructuredAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := New(WithOutput(&buf))

	logger.Info("request dispatched",
		observability.String("provider", "openai"),
		observability.Int("choices", 2))

	line := buf.String()
	for _, want := range []string{"request dispatched", "provider=openai", "choices=2"} {
		if !strings.Contains(line, want) {
			t.Errorf("log line missing %q: %s", want, line)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(WithOutput(&buf), WithLevel(slog.LevelWarn))

	logger.Debug("too quiet")
	logger.Info("still too quiet")
	logger.Warn("loud enough")

	line := buf.String()
	if strings.Contains(line, "too quiet") {
		t.Errorf("below-level events must be dropped: %s", line)
	}
	if !strings.Contains(line, "loud enough") {
		t.Errorf("warn event missing: %s", line)
	}
}

func TestWithLoggerWins(t *testing.T) {
	var buf bytes.Buffer
	custom := slog.New(slog.NewJSONHandler(&buf, nil))
	logger := New(WithLogger(custom))

	logger.Error("boom", observability.Error(nil))
	if !strings.Contains(buf.String(), `"msg":"boom"`) {
		t.Errorf("expected output on the injected logger: %s", buf.String())
	}
}
