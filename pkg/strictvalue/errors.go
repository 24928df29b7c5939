package strictvalue

import (
	"errors"
	"fmt"
	"strings"
)

// Common sentinel errors
var (
	// ErrInvalidSelector indicates the primary option is not a property name,
	// pattern, or list of them.
	ErrInvalidSelector = errors.New("invalid property selector")

	// ErrInvalidOptions indicates the secondary options object failed schema
	// validation.
	ErrInvalidOptions = errors.New("invalid rule options")

	// ErrModuleNotFound indicates an auto-fix reference could not be resolved.
	ErrModuleNotFound = errors.New("auto-fix module not found")

	// ErrFixNotRegistered indicates a registry has no fix under a name.
	ErrFixNotRegistered = errors.New("auto-fix not registered")
)

// PatternError indicates a /…/ selector or ignoreValues entry is not a valid
// regular expression.
type PatternError struct {
	Pattern string
	Cause   error
}

// Error returns the error message.
func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %v", e.Pattern, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *PatternError) Unwrap() error {
	return e.Cause
}

// ModuleNotFoundError is returned by ResolveFix when a named fix could not be
// loaded directly nor relative to the working directory.
type ModuleNotFoundError struct {
	// Ref is the configured autoFixFunc reference.
	Ref string

	// Attempts lists every reference that was tried, in order.
	Attempts []string

	// Cause holds the loader errors.
	Cause error
}

// Error returns the error message.
func (e *ModuleNotFoundError) Error() string {
	msg := fmt.Sprintf("cannot find auto-fix %q", e.Ref)
	if len(e.Attempts) > 0 {
		msg += fmt.Sprintf(" (tried %s)", strings.Join(e.Attempts, ", "))
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ModuleNotFoundError) Unwrap() error {
	return e.Cause
}

// Is makes errors.Is(err, ErrModuleNotFound) hold.
func (e *ModuleNotFoundError) Is(target error) bool {
	return target == ErrModuleNotFound
}

// FixError indicates an auto-fix returned an error for a declaration.
type FixError struct {
	Source   string
	Property string
	Value    string
	Cause    error
}

// Error returns the error message.
func (e *FixError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("auto-fix failed for %s %q: %q: %v", e.Source, e.Property, e.Value, e.Cause)
	}
	return fmt.Sprintf("auto-fix failed for %q: %q: %v", e.Property, e.Value, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *FixError) Unwrap() error {
	return e.Cause
}
