package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors distinguished by callers with errors.Is/errors.As rather
// than by matching on error text.
var (
	// ErrEmptyItems indicates Sort was called with no items.
	ErrEmptyItems = errors.New("items must not be empty")

	// ErrDuplicateItem indicates two items compared equal by exact text.
	ErrDuplicateItem = errors.New("items must be pairwise distinct")

	// ErrInvalidConfig indicates a configuration value outside its
	// documented bounds (elimination_count, comparison_rounds,
	// max_concurrent_requests).
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrDeadlock indicates the tournament engine could not legally form
	// any pair while more than one active participant remained. This is
	// not fatal; it is only ever surfaced through Statistics.Deadlocked,
	// never returned directly from Sort.
	ErrDeadlock = errors.New("tournament deadlocked: no legal pairing remains")

	// ErrInvariantViolation indicates a breach of one of the engine's core
	// invariants (pair uniqueness, known participants, draw accounting).
	// It signals a bug in the engine, not a caller mistake.
	ErrInvariantViolation = errors.New("internal invariant violation")
)

// ValidationError aggregates every precondition failure found while
// validating Sort's input and configuration, so a caller gets a single
// error describing everything wrong rather than the first violation only.
type ValidationError struct {
	Errors []string
	causes []error
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation error: %s", e.Errors[0])
	}
	return fmt.Sprintf("validation errors: %v", e.Errors)
}

// Is reports whether any accumulated cause matches target, so
// errors.Is(validationErr, ErrEmptyItems) works even though the violations
// were merged into one aggregate error.
func (e *ValidationError) Is(target error) bool {
	for _, cause := range e.causes {
		if errors.Is(cause, target) {
			return true
		}
	}
	return false
}

// Add appends a new violation message with no underlying sentinel cause.
func (e *ValidationError) Add(msg string) { e.Errors = append(e.Errors, msg) }

// AddCause appends a violation carrying an underlying sentinel error, so
// errors.Is against that sentinel still succeeds after aggregation.
func (e *ValidationError) AddCause(err error) {
	e.Errors = append(e.Errors, err.Error())
	e.causes = append(e.causes, err)
}

// HasErrors reports whether any violation was recorded.
func (e *ValidationError) HasErrors() bool { return len(e.Errors) > 0 }

// NewValidationError creates an empty ValidationError ready to accumulate
// violations.
func NewValidationError() *ValidationError {
	return &ValidationError{Errors: make([]string, 0)}
}
