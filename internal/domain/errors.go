// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// ValidationError unwraps to it, so callers can test with errors.Is.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidStatus is returned when a task status is not recognized.
	ErrInvalidStatus = errors.New("invalid task status")

	// ErrInvalidPriority is returned when a task priority is not recognized.
	ErrInvalidPriority = errors.New("invalid task priority")

	// ErrInvalidRole is returned when a user role is not recognized.
	ErrInvalidRole = errors.New("invalid user role")
)
