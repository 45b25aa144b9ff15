package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured is returned by Generate when the client has no
	// usable credential. No network attempt is made.
	ErrNotConfigured = errors.New("llm: client is not configured")

	// ErrEmptyResponse is returned when the provider answered with no
	// text. Not retried: an empty body is a content problem, not a
	// transport problem.
	ErrEmptyResponse = errors.New("llm: provider returned an empty response")
)

// ErrAuth indicates the credential was rejected (401/403). Terminal.
type ErrAuth struct {
	Err error
}

func (e *ErrAuth) Error() string {
	return fmt.Sprintf("llm: credential rejected: %v", e.Err)
}

func (e *ErrAuth) Unwrap() error { return e.Err }

// ErrRateLimit indicates the provider returned a rate/quota error (429).
// Retryable with backoff.
type ErrRateLimit struct {
	Err error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("llm: rate limited: %v", e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrModelNotFound indicates the configured model does not exist or is
// not supported (404). Terminal.
type ErrModelNotFound struct {
	Err error
}

func (e *ErrModelNotFound) Error() string {
	return fmt.Sprintf("llm: model not found: %v", e.Err)
}

func (e *ErrModelNotFound) Unwrap() error { return e.Err }

// ErrUnavailable indicates the provider is down, unreachable, or failed
// in an unclassified way. Retryable with a short wait.
type ErrUnavailable struct {
	Err error
}

func (e *ErrUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("llm: provider unavailable: %v", e.Err)
	}
	return "llm: provider unavailable"
}

func (e *ErrUnavailable) Unwrap() error { return e.Err }
