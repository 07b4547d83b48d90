package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// Kind classifies a failed generation call for retry decisions.
type Kind int8

const (
	// KindRateLimited represents rate limiting (HTTP 429, quota exhausted).
	KindRateLimited Kind = iota
	// KindServerError represents server-side faults (5xx, timeouts,
	// transport failures).
	KindServerError
	// KindTerminal represents any other non-success response; never retried.
	KindTerminal
	// KindCancelled represents a caller-initiated abort; never retried.
	KindCancelled
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	case KindServerError:
		return "server_error"
	case KindTerminal:
		return "terminal"
	case KindCancelled:
		return "cancelled"
	default:
		return "invalid"
	}
}

// Retryable reports whether calls failing with this kind should be retried.
func (k Kind) Retryable() bool {
	return k == KindRateLimited || k == KindServerError
}

// Error is a classified generation failure with retry metadata.
type Error struct {
	Err        error  // wrapped underlying error
	Message    string // human-readable message, provider-supplied when available
	StatusCode int    // HTTP status code if applicable
	Kind       Kind   // classified error kind
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("llm error (%s): %s", e.Kind, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("llm error (%s): %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("llm error (%s): status %d", e.Kind, e.StatusCode)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether this error should be retried.
func (e *Error) Retryable() bool {
	return e.Kind.Retryable()
}

// NewError creates a classified error.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// NewStatusError creates a classified error carrying an HTTP status.
func NewStatusError(kind Kind, statusCode int, message string) *Error {
	return &Error{Kind: kind, StatusCode: statusCode, Message: message}
}

// WrapError creates a classified error wrapping another error.
func WrapError(kind Kind, cause error, message string) *Error {
	return &Error{Kind: kind, Err: cause, Message: message}
}

// ErrRetryExhausted is returned when every retry attempt has been consumed.
var ErrRetryExhausted = errors.New("retry attempts exhausted")

// ErrNoContent is returned by an agent whose response carried no usable text
// or parseable structured data.
var ErrNoContent = errors.New("no usable content in response")

// Classify maps an error from the provider boundary to a classified *Error.
// Returns nil for a nil error; already-classified errors pass through.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr
	}

	// Caller aborts dominate any other signal.
	if errors.Is(err, context.Canceled) {
		return WrapError(KindCancelled, err, "call cancelled")
	}
	// A per-attempt deadline is a transient server-side fault; the retry
	// loop separately checks whether the run itself is still alive.
	if errors.Is(err, context.DeadlineExceeded) {
		return WrapError(KindServerError, err, "call timed out")
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			return &Error{Kind: KindRateLimited, StatusCode: apiErr.Code, Message: apiErr.Message, Err: err}
		case apiErr.Code >= http.StatusInternalServerError:
			return &Error{Kind: KindServerError, StatusCode: apiErr.Code, Message: apiErr.Message, Err: err}
		default:
			msg := apiErr.Message
			if msg == "" {
				msg = fmt.Sprintf("request rejected with status %d", apiErr.Code)
			}
			return &Error{Kind: KindTerminal, StatusCode: apiErr.Code, Message: msg, Err: err}
		}
	}

	// Anything else is a transport-level fault (connection reset, EOF, DNS)
	// and worth retrying.
	return WrapError(KindServerError, err, "transport failure")
}

// KindOf returns the classified kind of err, classifying on the fly when it
// has not been through Classify yet.
func KindOf(err error) Kind {
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr.Kind
	}
	return Classify(err).Kind
}
