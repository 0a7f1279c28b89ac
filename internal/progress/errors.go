package progress

import (
	"errors"
	"fmt"
)

// ErrUserNotFound is returned when an operation references a username with no
// existing record.
var ErrUserNotFound = errors.New("user not found")

// InvalidInputError reports a malformed or out-of-range input. It is always a
// caller error and never retried.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return e.Reason
}

func invalidInputf(format string, args ...any) *InvalidInputError {
	return &InvalidInputError{Reason: fmt.Sprintf(format, args...)}
}

// PersistenceError reports a store write that failed after the in-memory
// mutation already succeeded. The mutation is not rolled back; memory and the
// durable copy diverge until the next successful write.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist progress: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
