// Package common provides shared utilities and types used across the application.
package common

import "errors"

// Common application errors.
var (
	// ErrNotFound indicates a point lookup matched no record.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEntry indicates a uniqueness constraint was violated.
	ErrDuplicateEntry = errors.New("duplicate entry")
)
