/*
errors.go - Centralized error types for the generic primitives

PURPOSE:
  Sentinel errors shared by every layer. Domain packages wrap these with
  their own context (employee id, year) and callers test with errors.Is.

ERROR CATEGORIES:
  1. Lookup errors - a referenced record does not exist
  2. Input errors - a caller passed something malformed
  3. Wiring errors - a required collaborator was not provided

SEE ALSO:
  - bonus/errors.go: domain errors that unwrap to these
*/
package generic

import (
	"errors"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEntityNotFound is returned when a referenced entity doesn't exist.
	ErrEntityNotFound = errors.New("entity not found")

	// ErrInvalidInput is returned when a caller-supplied value cannot be used.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSourceRequired is returned when an operation needs a data source that was not wired.
	ErrSourceRequired = errors.New("operation requires a data source")
)

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEntityNotFound)
}
