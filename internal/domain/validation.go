package domain

import (
	"strings"
)

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every field-level problem found while validating
// an input. It unwraps to ErrValidation.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError creates a ValidationError holding a single field problem.
func NewValidationError(field, message string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, message)
	return v
}

// Add records a problem for the given field.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// HasErrors reports whether any field problem has been recorded.
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// Err returns e as an error when problems were recorded, or nil otherwise.
// It avoids the typed-nil interface trap at call sites.
func (e *ValidationError) Err() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if !e.HasErrors() {
		return ErrValidation.Error()
	}

	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

// Unwrap returns ErrValidation so errors.Is(err, ErrValidation) holds.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// FieldMap returns the recorded problems keyed by field name. When a field has
// several problems, the first one wins.
func (e *ValidationError) FieldMap() map[string]string {
	out := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		if _, exists := out[f.Field]; !exists {
			out[f.Field] = f.Message
		}
	}
	return out
}
