// Package errors provides the error taxonomy for pybake.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for known conditions.
var (
	// ErrInvalidOption indicates an override names an unknown option or a value
	// outside the option's allowed set.
	ErrInvalidOption = errors.New("invalid option")

	// ErrRender indicates a template defect: an undefined placeholder, a guard on
	// an unknown field, or rendered output that does not parse.
	ErrRender = errors.New("render error")

	// ErrIO indicates a filesystem failure while materializing a project.
	ErrIO = errors.New("io error")

	// ErrValidation indicates a configuration file or target failed validation.
	ErrValidation = errors.New("validation error")

	// ErrNotFound indicates a file, template, or replay record was not found.
	ErrNotFound = errors.New("not found")
)

// DetailError captures structured error information for display.
type DetailError struct {
	// Type is the error category (required).
	Type string

	// Message is the specific description (required).
	Message string

	// Location is the file or template path (optional).
	Location string

	// Field is the option or config field name (optional).
	Field string

	// Context contains additional key-value context (optional).
	Context map[string]string

	// Hint provides actionable guidance (optional).
	Hint string

	// Cause is the underlying error (optional).
	Cause error
}

// Error implements the error interface.
func (e *DetailError) Error() string {
	var b strings.Builder

	b.WriteString("Error: ")
	b.WriteString(e.Type)
	b.WriteString("\n")

	if e.Location != "" {
		b.WriteString("  Location: ")
		b.WriteString(e.Location)
		b.WriteString("\n")
	}
	if e.Field != "" {
		b.WriteString("  Field: ")
		b.WriteString(e.Field)
		b.WriteString("\n")
	}

	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString("  ")
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(e.Context[k])
		b.WriteString("\n")
	}

	b.WriteString("\n  ")
	b.WriteString(e.Message)
	b.WriteString("\n")

	if e.Hint != "" {
		b.WriteString("\nHint: ")
		b.WriteString(e.Hint)
		b.WriteString("\n")
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *DetailError) Unwrap() error {
	return e.Cause
}

// NewInvalidOptionError reports an override that is not accepted by the schema.
// allowed may be nil for free-form options.
func NewInvalidOptionError(option, value, reason string, allowed []string) error {
	d := &DetailError{
		Type:    "invalid option",
		Message: reason,
		Field:   option,
		Context: map[string]string{"Value": value},
		Cause:   ErrInvalidOption,
	}
	if len(allowed) > 0 {
		d.Hint = fmt.Sprintf("Allowed values: %s", strings.Join(allowed, ", "))
	}
	return d
}

// NewRenderError reports a template-authoring defect found while rendering location.
func NewRenderError(location string, cause error) error {
	msg := "template could not be rendered"
	if cause != nil {
		msg = cause.Error()
	}
	return &DetailError{
		Type:     "render failed",
		Message:  msg,
		Location: location,
		Cause:    join(ErrRender, cause),
	}
}

// NewIOError reports a filesystem failure at path. The OS error stays reachable
// through errors.Is and errors.As.
func NewIOError(path string, cause error) error {
	msg := "filesystem operation failed"
	if cause != nil {
		msg = cause.Error()
	}
	return &DetailError{
		Type:     "write failed",
		Message:  msg,
		Location: path,
		Cause:    join(ErrIO, cause),
	}
}

// NewValidationError creates a validation error with details.
func NewValidationError(message, location, field, hint string) error {
	return &DetailError{
		Type:     "validation failed",
		Message:  message,
		Location: location,
		Field:    field,
		Hint:     hint,
		Cause:    ErrValidation,
	}
}

// NewNotFoundError creates a not found error with details.
func NewNotFoundError(message, location, hint string) error {
	return &DetailError{
		Type:     "not found",
		Message:  message,
		Location: location,
		Hint:     hint,
		Cause:    ErrNotFound,
	}
}

// Wrap wraps an error with a sentinel error type.
func Wrap(sentinel error, message string) error {
	return fmt.Errorf("%s: %w", message, sentinel)
}

func join(sentinel, cause error) error {
	if cause == nil {
		return sentinel
	}
	return fmt.Errorf("%w: %w", sentinel, cause)
}
