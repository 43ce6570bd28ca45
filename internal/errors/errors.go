// Package errors defines the error categories surfaced by calcifer.
package errors

import (
	"errors"
	"strings"
)

// Sentinel errors for known conditions.
var (
	// ErrConfiguration indicates an invalid feature registration, prompt
	// predicate or project option. Raised before any file is written.
	ErrConfiguration = errors.New("configuration error")

	// ErrParse indicates malformed text handed to a config transform.
	ErrParse = errors.New("parse error")

	// ErrExternalCommand indicates a failing git or package manager run.
	ErrExternalCommand = errors.New("external command failed")

	// ErrNetwork indicates a failed registry lookup.
	ErrNetwork = errors.New("network error")

	// ErrCancelled indicates the user backed out of an interactive choice.
	ErrCancelled = errors.New("cancelled")
)

// DetailError captures structured error information.
type DetailError struct {
	// Type is the error category (required).
	Type string

	// Message is the specific description (required).
	Message string

	// Location is a file path, prompt or feature name (optional).
	Location string

	// Hint provides actionable guidance (optional).
	Hint string

	// Kind is the sentinel the error matches with errors.Is.
	Kind error

	// Cause is the underlying error (optional).
	Cause error
}

// Error implements the error interface.
func (e *DetailError) Error() string {
	var b strings.Builder

	b.WriteString(e.Type)
	if e.Location != "" {
		b.WriteString(" (")
		b.WriteString(e.Location)
		b.WriteString(")")
	}
	b.WriteString(": ")
	b.WriteString(e.Message)

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}

	if e.Hint != "" {
		b.WriteString("\nHint: ")
		b.WriteString(e.Hint)
	}

	return b.String()
}

// Unwrap returns the category sentinel and the underlying error.
func (e *DetailError) Unwrap() []error {
	var errs []error
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// NewConfigurationError creates a configuration error.
func NewConfigurationError(message, location string, cause error) error {
	return &DetailError{
		Type:     "invalid configuration",
		Message:  message,
		Location: location,
		Kind:     ErrConfiguration,
		Cause:    cause,
	}
}

// NewExternalCommandError creates an error for a failed git or package manager command.
func NewExternalCommandError(command string, cause error, hint string) error {
	return &DetailError{
		Type:     "command failed",
		Message:  "exited with an error",
		Location: command,
		Hint:     hint,
		Kind:     ErrExternalCommand,
		Cause:    cause,
	}
}

// NewNetworkError creates a registry lookup error.
func NewNetworkError(message, location string, cause error) error {
	return &DetailError{
		Type:     "registry request failed",
		Message:  message,
		Location: location,
		Kind:     ErrNetwork,
		Cause:    cause,
	}
}

// Is reports whether err is or wraps target. Re-exported so callers need
// only one errors import.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
