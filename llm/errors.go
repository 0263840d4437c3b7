package llm

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey indicates the completion service credential is absent from
// configuration. Surfaced to the user as a message, never as a crash.
var ErrMissingAPIKey = errors.New("completion API key is not configured")

// AuthError represents an authentication failure (401/403 or missing
// credentials). Never retried: a new attempt cannot succeed without new
// credentials.
type AuthError struct {
	StatusCode int
	err        error
}

func (e *AuthError) Error() string {
	return e.err.Error()
}

func (e *AuthError) Unwrap() error {
	return e.err
}

// NewAuthError wraps an error as an authentication failure.
func NewAuthError(statusCode int, err error) error {
	return &AuthError{StatusCode: statusCode, err: err}
}

// RateLimitError represents a 429 from the completion service. Retried with
// exponential backoff up to the attempt ceiling.
type RateLimitError struct {
	err error
}

func (e *RateLimitError) Error() string {
	return e.err.Error()
}

func (e *RateLimitError) Unwrap() error {
	return e.err
}

// NewRateLimitError wraps an error as a rate-limit signal.
func NewRateLimitError(err error) error {
	return &RateLimitError{err: err}
}

// TransientError represents a temporary failure (network error, 5xx) that may
// succeed on retry.
type TransientError struct {
	err error
}

func (e *TransientError) Error() string {
	return e.err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.err
}

// NewTransientError wraps an error as transient (retryable).
func NewTransientError(err error) error {
	return &TransientError{err: err}
}

// FatalError represents a permanent failure (bad request, unknown provider
// error) that should not be retried.
type FatalError struct {
	err error
}

func (e *FatalError) Error() string {
	return e.err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.err
}

// NewFatalError wraps an error as fatal (non-retryable).
func NewFatalError(err error) error {
	return &FatalError{err: err}
}

// IsAuth returns true if the error is an authentication failure.
func IsAuth(err error) bool {
	var auth *AuthError
	return errors.As(err, &auth)
}

// IsRateLimit returns true if the error is a rate-limit signal.
func IsRateLimit(err error) bool {
	var rl *RateLimitError
	return errors.As(err, &rl)
}

// IsRetryable returns true if the error may succeed on retry.
func IsRetryable(err error) bool {
	var transient *TransientError
	var rl *RateLimitError
	return errors.As(err, &transient) || errors.As(err, &rl)
}

// IsFatal returns true if the error should not be retried.
func IsFatal(err error) bool {
	var fatal *FatalError
	var auth *AuthError
	return errors.As(err, &fatal) || errors.As(err, &auth)
}

// classifyHTTPError maps a non-2xx completion service response onto the error
// taxonomy.
func classifyHTTPError(statusCode int, body []byte) error {
	bodyStr := string(body)
	if len(bodyStr) > 200 {
		bodyStr = bodyStr[:200] + "..."
	}

	err := fmt.Errorf("completion API error (status %d): %s", statusCode, bodyStr)

	switch {
	case statusCode == 429:
		return NewRateLimitError(err)
	case statusCode == 401, statusCode == 403:
		return NewAuthError(statusCode, err)
	case statusCode >= 500:
		return NewTransientError(err)
	default:
		// 400 and other client errors indicate a bad request; retrying the
		// same payload cannot help.
		return NewFatalError(err)
	}
}
