package store

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by every store backend. Callers classify with
// errors.Is; backends wrap them with a StoreError carrying the operation.
var (
	ErrNotFound          = errors.New("entity not found")
	ErrDuplicate         = errors.New("entity already exists")
	ErrInvalidEntity     = errors.New("invalid entity")
	ErrTransactionFailed = errors.New("transaction failed")

	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrTaskNotFound covers both a missing task and a task owned by another
	// user. Callers cannot tell the two apart.
	ErrTaskNotFound = fmt.Errorf("%w: task", ErrNotFound)

	ErrUsernameExists = fmt.Errorf("%w: username", ErrDuplicate)
	ErrEmailExists    = fmt.Errorf("%w: email", ErrDuplicate)
)

// IsNotFoundError reports whether err is any flavour of ErrNotFound.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError reports whether err is any flavour of ErrDuplicate.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError records which entity and operation a backend failure belongs to.
type StoreError struct {
	Entity    string
	Operation string
	Message   string
	Err       error
}

func (e *StoreError) Error() string {
	msg := e.Entity + " " + e.Operation + ": " + e.Message
	if e.Err == nil {
		return msg
	}
	return msg + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError wraps err for the given entity and operation.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{Entity: entity, Operation: operation, Message: message, Err: err}
}
