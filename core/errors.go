package core

import "github.com/pkg/errors"

// FieldError ties a validation failure to the offending field, named by its
// JSON tag.
type FieldError struct {
	Field string
	Error string
}

// ValidationError carries per-field failures so the HTTP layer can answer
// with a field to message map instead of one opaque string.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, fields ...FieldError) error {
	return &ValidationError{Err: err, Fields: fields}
}

func (e ValidationError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// shutdown marks an unrecoverable condition; the HTTP error handler detects
// it through IsShutdown and asks the server to stop gracefully.
type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

// IsShutdown reports whether err, at its cause, requests a shutdown.
func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
