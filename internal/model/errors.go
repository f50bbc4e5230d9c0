package model

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package and by the layers above
// it wraps exactly one of these, so callers can branch with errors.Is.
var (
	// ErrValidation marks malformed or out-of-range input.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidState marks an operation the entity's current state forbids.
	ErrInvalidState = errors.New("invalid state")
	// ErrNotFound marks a reference to an entity that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a uniqueness or concurrency collision.
	ErrConflict = errors.New("conflict")
	// ErrForbidden marks an actor that may not perform the operation.
	ErrForbidden = errors.New("forbidden")
)

var (
	ErrOfferClosed           = fmt.Errorf("%w: offer is not accepting applications", ErrInvalidState)
	ErrCarUnavailable        = fmt.Errorf("%w: car is not available", ErrInvalidState)
	ErrApplicationNotPending = fmt.Errorf("%w: only pending applications can change status", ErrInvalidState)

	ErrAlreadyApplied    = fmt.Errorf("%w: user already applied to this offer", ErrConflict)
	ErrVINTaken          = fmt.Errorf("%w: a car with this VIN already exists", ErrConflict)
	ErrEmailTaken        = fmt.Errorf("%w: email is already registered", ErrConflict)
	ErrUserAlreadyLinked = fmt.Errorf("%w: user is already linked to a sales agent", ErrConflict)
	// ErrConcurrentUpdate is the only conflict worth retrying: the
	// transaction lost a serialization race and may succeed on a second try.
	ErrConcurrentUpdate = fmt.Errorf("%w: concurrent update, retry", ErrConflict)

	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError reports the offending field of a rejected input.
type ValidationError struct {
	Field   string
	Message string
}

// Error renders "field: message".
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// FieldOf returns the field carried by a ValidationError anywhere in err's
// chain, or "" when there is none.
func FieldOf(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Field
	}
	return ""
}
