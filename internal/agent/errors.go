package agent

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrEmptyResponse is the cause recorded when a backend answers with no text.
var ErrEmptyResponse = errors.New("empty response")

// GenerationError is returned by every backend when a request does not
// produce text.
type GenerationError struct {
	Backend    string
	StatusCode int // 0 when no HTTP response was received
	Cause      error
}

func (e *GenerationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s generation failed (status %d): %v", e.Backend, e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("%s generation failed: %v", e.Backend, e.Cause)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Temporary reports whether repeating the same request could succeed.
// Transport failures, throttling, server errors and empty bodies qualify.
func (e *GenerationError) Temporary() bool {
	switch {
	case errors.Is(e.Cause, ErrEmptyResponse):
		return true
	case errors.Is(e.Cause, context.Canceled), errors.Is(e.Cause, context.DeadlineExceeded):
		return false
	case e.StatusCode == 0:
		return !errors.Is(e.Cause, errNotRetryable)
	case e.StatusCode == http.StatusTooManyRequests:
		return true
	case e.StatusCode >= 500:
		return true
	}
	return false
}

// errNotRetryable marks local failures (bad request encoding, undecodable
// body) that carry no status code but will not improve on repeat.
var errNotRetryable = errors.New("not retryable")

// IsGenerationError reports whether err is or wraps a *GenerationError.
func IsGenerationError(err error) bool {
	var ge *GenerationError
	return errors.As(err, &ge)
}

// IsTemporary reports whether err wraps a temporary GenerationError.
func IsTemporary(err error) bool {
	var ge *GenerationError
	if errors.As(err, &ge) {
		return ge.Temporary()
	}
	return false
}

func permanent(err error) error {
	return fmt.Errorf("%w: %w", errNotRetryable, err)
}
