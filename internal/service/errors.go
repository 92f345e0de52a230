package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/taskboard-api/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in service-specific error types
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrTaskNotFound indicates the task does not exist or belongs to another user.
	// The two cases are deliberately indistinguishable.
	// API layer should map this to HTTP 404 Not Found.
	ErrTaskNotFound = fmt.Errorf("task service: %w", store.ErrTaskNotFound)

	// ErrInvalidCredentials is returned for any failed login, whatever the cause.
	// API layer should map this to HTTP 401 Unauthorized.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrPasswordMismatch indicates the registration password and its
	// confirmation differ. API layer should map this to HTTP 400 Bad Request.
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// TaskServiceError is a custom error type for unexpected task service failures.
type TaskServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// NewTaskServiceError creates a new TaskServiceError.
func NewTaskServiceError(operation, message string, err error) *TaskServiceError {
	return &TaskServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
