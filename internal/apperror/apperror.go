// Package apperror defines the caller-visible failure taxonomy of the service
// and its mapping onto HTTP status codes.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an Error.
type Kind string

const (
	// KindInput means the request must be corrected by the caller.
	KindInput Kind = "INPUT_ERROR"
	// KindUnavailable means a required model is not initialized or unreachable.
	KindUnavailable Kind = "UNAVAILABLE"
	// KindProcessing means a model call failed while handling the request.
	KindProcessing Kind = "PROCESSING_ERROR"
)

// Error is a classified failure with a message that is safe to return to callers.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// HTTPStatus is the response status for the error kind.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Input creates an input error.
func Input(message string) *Error {
	return &Error{Kind: KindInput, Message: message}
}

// Unavailable creates an unavailable error.
func Unavailable(message string) *Error {
	return &Error{Kind: KindUnavailable, Message: message}
}

// Processing creates a processing error. The cause's message is appended to
// prefix, so it reaches the caller.
func Processing(prefix string, cause error) *Error {
	msg := prefix
	if cause != nil {
		msg = fmt.Sprintf("%s: %v", prefix, cause)
	}
	return &Error{Kind: KindProcessing, Message: msg, Cause: cause}
}

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether err carries an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind == kind
}
