// Package aierrors defines the error taxonomy shared by every component of
// the pipeline. Raw transport and provider failures are converted into an
// Envelope by Map, so callers branch on one Code/Type pair regardless of
// which backend produced the failure.
package aierrors

import (
	"fmt"
)

// Code identifies the failure category independent of the origin provider.
type Code string

const (
	CodeInvalidAPIKey         Code = "INVALID_API_KEY"
	CodeInsufficientCredits   Code = "INSUFFICIENT_CREDITS"
	CodeModelNotFound         Code = "MODEL_NOT_FOUND"
	CodePresetNotFound        Code = "PRESET_NOT_FOUND"
	CodeUnsupportedProvider   Code = "UNSUPPORTED_PROVIDER"
	CodeInvalidModelSelection Code = "INVALID_MODEL_SELECTION"
	CodeRateLimitExceeded     Code = "RATE_LIMIT_EXCEEDED"
	CodeProviderError         Code = "PROVIDER_ERROR"
	CodeNetworkError          Code = "NETWORK_ERROR"
	CodeTimeout               Code = "TIMEOUT"
	CodeValidationError       Code = "VALIDATION_ERROR"
	CodeMissingExpectedTag    Code = "MISSING_EXPECTED_TAG"
	CodeUnknownError          Code = "UNKNOWN_ERROR"
)

// Type mirrors the coarse error classes exposed by OpenAI-style APIs.
type Type string

const (
	TypeAuthentication Type = "authentication_error"
	TypeRateLimit      Type = "rate_limit_error"
	TypeInvalidRequest Type = "invalid_request_error"
	TypeServer         Type = "server_error"
	TypeConnection     Type = "connection_error"
	TypeClient         Type = "client_error"
	TypeValidation     Type = "validation_error"
	TypeTimeout        Type = "timeout_error"
)

// Envelope is the uniform failure shape produced by the pipeline. It is both
// a Go error and the wire-level error object embedded in failure responses.
type Envelope struct {
	Code    Code   `json:"code"`
	Type    Type   `json:"type"`
	Message string `json:"message"`
	// Status is the HTTP-like status reported by the provider, when known.
	Status int `json:"status,omitempty"`
	// Param names the offending request field for validation failures.
	Param string `json:"param,omitempty"`
	// ProviderError preserves the raw upstream error text for diagnostics.
	ProviderError string `json:"provider_error,omitempty"`
}

func (e *Envelope) Error() string {
	return fmt.Sprintf("[%s/%s] %s", e.Code, e.Type, e.Message)
}

// New creates an Envelope with the given code, type, and message.
func New(code Code, typ Type, message string) *Envelope {
	return &Envelope{Code: code, Type: typ, Message: message}
}

// Newf creates an Envelope with a formatted message.
func Newf(code Code, typ Type, format string, args ...any) *Envelope {
	return &Envelope{Code: code, Type: typ, Message: fmt.Sprintf(format, args...)}
}

// Validation creates a validation_error Envelope for the given request field.
func Validation(param, message string) *Envelope {
	return &Envelope{Code: CodeValidationError, Type: TypeValidation, Message: message, Param: param}
}
