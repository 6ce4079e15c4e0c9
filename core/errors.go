package core

import "github.com/pkg/errors"

// FieldError pins a validation failure to a single struct field, e.g. an
// unknown competency level on a new assessment.
type FieldError struct {
	Field string
	Error string
}

// ValidationError carries field-level failures from the domain services
// (recording an assessment, mailing a report summary with no recipients) up
// to the API error handler, which renders them as a 400 field map.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// shutdown flags an integrity issue the server cannot serve through; the API
// error handler responds 500 and then signals a graceful shutdown.
type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
