package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so the HTTP boundary can pick a status code
// without inspecting messages.
type Kind string

// Error kinds carried by *Error.
const (
	KindValidation     Kind = "validation"
	KindNotFound       Kind = "not_found"
	KindAuthentication Kind = "authentication"
	KindForbidden      Kind = "forbidden"
	KindConflict       Kind = "conflict"
	KindInternal       Kind = "internal"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidCredentials is returned by login for both an unknown email and
	// a wrong password, so callers cannot learn which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken covers a missing, malformed, forged or expired bearer token.
	ErrInvalidToken = errors.New("invalid or missing authentication token")

	// ErrUnauthorized is returned when an authenticated caller may not act on a resource.
	ErrUnauthorized = errors.New("unauthorized operation")
)

// Error is the structured failure passed from any layer up to the HTTP boundary.
// Message is safe to show to clients; Err holds the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds an *Error of the given kind.
func NewError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// NewValidationError reports malformed or missing input.
func NewValidationError(message string, err error) *Error {
	if err == nil {
		err = ErrValidation
	}
	return NewError(KindValidation, message, err)
}

// NewNotFoundError reports a missing entity.
func NewNotFoundError(message string, err error) *Error {
	return NewError(KindNotFound, message, err)
}

// NewAuthenticationError reports a failed credential or token check.
func NewAuthenticationError(message string, err error) *Error {
	return NewError(KindAuthentication, message, err)
}

// NewForbiddenError reports an authenticated caller acting on someone else's resource.
func NewForbiddenError(message string, err error) *Error {
	if err == nil {
		err = ErrUnauthorized
	}
	return NewError(KindForbidden, message, err)
}

// NewConflictError reports a uniqueness violation such as a duplicate email.
func NewConflictError(message string, err error) *Error {
	return NewError(KindConflict, message, err)
}

// NewInternalError reports a storage, crypto or signing failure. The message is
// generic; details stay in err and only reach the logs.
func NewInternalError(message string, err error) *Error {
	return NewError(KindInternal, message, err)
}

// KindOf returns the kind of the outermost *Error in err's chain.
// Errors that were never classified are internal.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// MessageOf returns the client-safe message of the outermost *Error in err's chain,
// or fallback when err carries none.
func MessageOf(err error, fallback string) string {
	var de *Error
	if errors.As(err, &de) && de.Message != "" {
		return de.Message
	}
	return fallback
}
