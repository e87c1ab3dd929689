package model

import "fmt"

// ValidationError reports an entity that failed its construction invariants.
// Constructors return it wrapped, so callers can match with errors.As.
type ValidationError struct {
	Entity string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Entity, e.Reason)
}

func newValidationError(entity, format string, args ...any) *ValidationError {
	return &ValidationError{
		Entity: entity,
		Reason: fmt.Sprintf(format, args...),
	}
}
