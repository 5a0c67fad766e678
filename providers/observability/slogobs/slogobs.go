// Package slogobs implements observability.Logger on top of log/slog.
package slogobs

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/modelgate/modelgate/providers/observability"
)

// Logger routes structured log events through a slog.Logger.
type Logger struct {
	logger *slog.Logger
}

var _ observability.Logger = (*Logger)(nil)

// Option is a functional option for configuring the Logger.
type Option func(*config)

type config struct {
	level  slog.Level
	output io.Writer
	logger *slog.Logger // if provided, used directly and the other options are ignored
}

// WithLevel sets the minimum log level.
func WithLevel(level slog.Level) Option {
	return func(c *config) { c.level = level }
}

// WithOutput sets the output writer for logs.
func WithOutput(output io.Writer) Option {
	return func(c *config) { c.output = output }
}

// WithLogger uses an existing slog.Logger instead of creating one.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// New creates a slog-backed logger. Defaults to INFO level text output on stderr.
func New(opts ...Option) *Logger {
	cfg := &config{
		level:  slog.LevelInfo,
		output: os.Stderr,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(cfg.output, &slog.HandlerOptions{Level: cfg.level}))
	}
	return &Logger{logger: logger}
}

func (l *Logger) Debug(msg string, attrs ...observability.Attribute) {
	l.log(slog.LevelDebug, msg, attrs)
}

func (l *Logger) Info(msg string, attrs ...observability.Attribute) {
	l.log(slog.LevelInfo, msg, attrs)
}

func (l *Logger) Warn(msg string, attrs ...observability.Attribute) {
	l.log(slog.LevelWarn, msg, attrs)
}

func (l *Logger) Error(msg string, attrs ...observability.Attribute) {
	l.log(slog.LevelError, msg, attrs)
}

func (l *Logger) log(level slog.Level, msg string, attrs []observability.Attribute) {
	logAttrs := make([]slog.Attr, 0, len(attrs))
	for _, attr := range attrs {
		logAttrs = append(logAttrs, slog.Any(attr.Key, attr.Value))
	}
	l.logger.LogAttrs(context.Background(), level, msg, logAttrs...)
}
