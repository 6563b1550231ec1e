package entity

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain layer operations.
var (
	// ErrNotFound indicates that a requested entity was not found
	ErrNotFound = errors.New("entity not found")

	// ErrValidationFailed indicates that validation checks have failed
	ErrValidationFailed = errors.New("validation failed")
)

// FormField is the pseudo field used for errors that belong to the whole form
// rather than to a single input.
const FormField = "_form"

// ValidationError represents a validation error with detailed field information.
// It implements the error interface and provides context about which field failed validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// ValidationErrors collects every violation found on a submitted form.
// It unwraps to ErrValidationFailed.
type ValidationErrors []*ValidationError

// Error joins all field messages.
func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, ve := range e {
		msgs = append(msgs, ve.Error())
	}
	return strings.Join(msgs, "; ")
}

// Unwrap allows errors.Is(err, ErrValidationFailed).
func (e ValidationErrors) Unwrap() error {
	return ErrValidationFailed
}

// For returns the messages attached to field, in declaration order.
func (e ValidationErrors) For(field string) []string {
	var out []string
	for _, ve := range e {
		if ve.Field == field {
			out = append(out, ve.Message)
		}
	}
	return out
}

// Fields returns field → messages, the shape the form templates consume.
func (e ValidationErrors) Fields() map[string][]string {
	out := make(map[string][]string, len(e))
	for _, ve := range e {
		out[ve.Field] = append(out[ve.Field], ve.Message)
	}
	return out
}

// AsValidationErrors extracts ValidationErrors from err, if any.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var ves ValidationErrors
	if errors.As(err, &ves) {
		return ves, true
	}
	return nil, false
}
