package shipping

import "fmt"

// ValidationError aborts a pipeline run before anything is persisted.
// The message names the offending packages, items or fields so the caller
// can present a precise remediation message.
type ValidationError struct {
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err is a ValidationError
func IsValidationError(err error) bool {
	_, ok := err.(*ValidationError)
	return ok
}

// PersistenceError is a failed store call during pipeline steps 2-4.
// It triggers rollback of everything created in the current invocation.
type PersistenceError struct {
	Step string
	Err  error
}

// Error implements the error interface
func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

// Unwrap returns the underlying store error
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func newPersistenceError(step string, err error) *PersistenceError {
	return &PersistenceError{Step: step, Err: err}
}
