package aierrors

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/modelgate/modelgate/internal/utils"
)

// unknownValueMessage is the fixed message used when something that is not an
// error reaches the boundary (a recovered panic value, typically).
const unknownValueMessage = "an unexpected error occurred"

// Map converts any error into a complete Envelope. The mapping is
// deterministic and provider-independent:
//
//	401            -> INVALID_API_KEY / authentication_error
//	402            -> INSUFFICIENT_CREDITS / rate_limit_error
//	404            -> MODEL_NOT_FOUND / invalid_request_error
//	429            -> RATE_LIMIT_EXCEEDED / rate_limit_error
//	other 4xx      -> PROVIDER_ERROR / invalid_request_error
//	5xx            -> PROVIDER_ERROR / server_error
//	DNS failure, connection refused, transport timeout
//	               -> NETWORK_ERROR / connection_error
//	context deadline/cancel
//	               -> TIMEOUT / timeout_error
//	anything else  -> UNKNOWN_ERROR / client_error
//
// An error that is already an Envelope passes through unchanged. Map never
// returns nil and never panics.
func Map(err error) *Envelope {
	if err == nil {
		return New(CodeUnknownError, TypeClient, unknownValueMessage)
	}

	var envelope *Envelope
	if errors.As(err, &envelope) {
		return envelope
	}

	var httpErr *utils.HTTPError
	if errors.As(err, &httpErr) {
		return mapStatus(httpErr.StatusCode, err.Error())
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &Envelope{Code: CodeTimeout, Type: TypeTimeout, Message: err.Error(), ProviderError: err.Error()}
	}

	if isNetworkError(err) {
		return &Envelope{Code: CodeNetworkError, Type: TypeConnection, Message: err.Error(), ProviderError: err.Error()}
	}

	return &Envelope{Code: CodeUnknownError, Type: TypeClient, Message: err.Error(), ProviderError: err.Error()}
}

// MapStatus builds an Envelope directly from an HTTP-like status code
// reported by a provider, for adapters that surface status out of band.
func MapStatus(status int, message string) *Envelope {
	return mapStatus(status, message)
}

// MapRecovered converts a value recovered from a panic into an Envelope.
// Error values go through Map; anything else becomes UNKNOWN_ERROR with a
// fixed generic message, since arbitrary panic payloads are not trustworthy.
func MapRecovered(recovered any) *Envelope {
	if err, ok := recovered.(error); ok {
		return Map(err)
	}
	return New(CodeUnknownError, TypeServer, unknownValueMessage)
}

func mapStatus(status int, message string) *Envelope {
	e := &Envelope{Status: status, Message: message, ProviderError: message}
	switch {
	case status == 401:
		e.Code, e.Type = CodeInvalidAPIKey, TypeAuthentication
	case status == 402:
		e.Code, e.Type = CodeInsufficientCredits, TypeRateLimit
	case status == 404:
		e.Code, e.Type = CodeModelNotFound, TypeInvalidRequest
	case status == 429:
		e.Code, e.Type = CodeRateLimitExceeded, TypeRateLimit
	case status >= 400 && status < 500:
		e.Code, e.Type = CodeProviderError, TypeInvalidRequest
	case status >= 500:
		e.Code, e.Type = CodeProviderError, TypeServer
	default:
		e.Code, e.Type = CodeUnknownError, TypeClient
	}
	return e
}

func isNetworkError(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	// Transport errors wrapped beyond recognition by intermediate layers.
	msg := err.Error()
	for _, signature := range []string{"connection refused", "no such host", "i/o timeout", "connection reset"} {
		if strings.Contains(msg, signature) {
			return true
		}
	}
	return false
}
