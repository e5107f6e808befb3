package resilience

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
)

// TransportError marks a failed model or network call that is safe to retry
// (timeouts, 429/5xx, connection drops). Provider names the API that failed.
type TransportError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.Provider == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Err.Error())
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError wraps an error as a retryable transport failure with an
// optional HTTP status code.
func NewTransportError(provider string, statusCode int, err error) *TransportError {
	return &TransportError{Provider: provider, StatusCode: statusCode, Err: err}
}

// IsTransient returns true if the error (or any error in its chain) is a
// TransportError, a per-call deadline expiry, or matches common transient
// network patterns. Run cancellation is never transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	// Cancellation means the caller gave up; retrying fights the caller.
	if errors.Is(err, context.Canceled) {
		return false
	}

	// A timed-out model call counts as a transport failure.
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	// Check for explicit TransportError in chain.
	var te *TransportError
	if errors.As(err, &te) {
		return true
	}

	// Check for network-level transient errors.
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	// Connection reset / refused / aborted.
	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return true
	}

	// String-based heuristics for wrapped errors from SDK HTTP clients.
	msg := strings.ToLower(err.Error())
	transientPatterns := []string{
		"connection reset by peer",
		"broken pipe",
		"temporary failure in name resolution",
		"no such host",
		"tls handshake timeout",
		"i/o timeout",
		"server closed idle connection",
		"transport connection broken",
		"overloaded",
		"rate limit",
	}
	for _, p := range transientPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}

	return false
}

// IsTransientHTTPStatus returns true if the HTTP status code indicates a
// transient server-side issue that is safe to retry.
func IsTransientHTTPStatus(statusCode int) bool {
	switch statusCode {
	case 408, // Request Timeout
		429, // Too Many Requests
		500, // Internal Server Error
		502, // Bad Gateway
		503, // Service Unavailable
		504, // Gateway Timeout
		529: // Overloaded (Anthropic)
		return true
	default:
		return false
	}
}
