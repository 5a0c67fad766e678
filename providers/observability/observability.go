package observability

import (
	"time"
)

// Logger is the logging capability injected into every pipeline component.
// Implementations must be safe for concurrent use and must apply their own
// level filtering: a call below the configured level is a no-op.
type Logger interface {
	Debug(msg string, attrs ...Attribute)
	Info(msg string, attrs ...Attribute)
	Warn(msg string, attrs ...Attribute)
	Error(msg string, attrs ...Attribute)
}

// Attribute represents a key-value pair for structured log metadata.
type Attribute struct {
	Key   string
	Value interface{}
}

// String creates a string attribute
func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int creates an integer attribute
func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: value}
}

// Float64 creates a float64 attribute
func Float64(key string, value float64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Bool creates a boolean attribute
func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value}
}

// Error creates an error attribute
func Error(err error) Attribute {
	if err == nil {
		return Attribute{Key: "error", Value: ""}
	}
	return Attribute{Key: "error", Value: err.Error()}
}

// NopLogger discards everything. It is the default when no logger is injected,
// so components never need a nil check before logging.
type NopLogger struct{}

func (NopLogger) Debug(string, ...Attribute) {}
func (NopLogger) Info(string, ...Attribute)  {}
func (NopLogger) Warn(string, ...Attribute)  {}
func (NopLogger) Error(string, ...Attribute) {}

// OrNop returns logger if non-nil, otherwise a NopLogger.
func OrNop(logger Logger) Logger {
	if logger == nil {
		return NopLogger{}
	}
	return logger
}
