/*
errors.go - Centralized error types for the roster engine

PURPOSE:
  All engine error types in one place. Callers branch with errors.Is/As;
  the API layer maps these onto HTTP status codes via the helpers below.

ERROR CATEGORIES:
  1. Validation errors - caught before any store call
  2. Not-found errors  - missing group/promoter/record
  3. Store errors      - surfaced from the persistence layer

SEE ALSO:
  - session: wraps these with the failing operation's name
  - api:     IsClientError / IsNotFound drive status mapping
*/
package roster

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNoMonthSelected is returned when an operation requires a selected
	// (year, month) and none is set. No write is performed.
	ErrNoMonthSelected = errors.New("no year/month selected")

	// ErrInvalidMonth is returned for month values outside 1..12.
	ErrInvalidMonth = errors.New("invalid month")

	// ErrToggleInFlight is returned when a payment toggle is already in
	// flight for the same member. First request wins; no queuing.
	ErrToggleInFlight = errors.New("payment toggle already in flight")

	// ErrStaleLoad is returned when a roster load completes after a newer
	// load was issued for the same session. The stale result is discarded.
	ErrStaleLoad = errors.New("roster load superseded by newer request")

	// ErrGroupNotFound is returned when a referenced group doesn't exist.
	ErrGroupNotFound = errors.New("group not found")

	// ErrPromoterNotFound is returned when a referenced promoter doesn't exist.
	ErrPromoterNotFound = errors.New("promoter not found")

	// ErrRecordNotFound is returned when a referenced monthly record doesn't exist.
	ErrRecordNotFound = errors.New("monthly record not found")

	// ErrDuplicateRecord is returned when an insert collides with the
	// (promoter_id, year, month) uniqueness constraint. Upserts resolve
	// this at the store; plain inserts surface it.
	ErrDuplicateRecord = errors.New("monthly record already exists for this month")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// RequiredFieldError is a validation failure for a missing required field.
type RequiredFieldError struct {
	Field string
}

func (e *RequiredFieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input
// or a client-visible conflict, rather than a store failure.
func IsClientError(err error) bool {
	var reqErr *RequiredFieldError
	return errors.Is(err, ErrNoMonthSelected) ||
		errors.Is(err, ErrInvalidMonth) ||
		errors.Is(err, ErrToggleInFlight) ||
		errors.Is(err, ErrDuplicateRecord) ||
		errors.As(err, &reqErr)
}

// IsNotFound returns true if the error indicates a missing row.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrGroupNotFound) ||
		errors.Is(err, ErrPromoterNotFound) ||
		errors.Is(err, ErrRecordNotFound)
}
