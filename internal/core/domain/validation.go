package domain

import (
	"fmt"
	"strings"
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects per-field failures of user input.
// It unwraps to ErrInvalidInput.
type ValidationErrors []FieldError

// Error implements the error interface with a summary of all fields.
func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// Unwrap allows errors.Is(err, ErrInvalidInput).
func (v ValidationErrors) Unwrap() error {
	return ErrInvalidInput
}

// Field returns the message for field, or empty string.
func (v ValidationErrors) Field(field string) string {
	for _, fe := range v {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}
