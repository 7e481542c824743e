package billing

import (
	"errors"
	"fmt"
)

// Common billing pipeline errors
var (
	// ErrMissingColumn is returned when the source CSV lacks a required
	// column. Reading aborts; no rows are produced.
	ErrMissingColumn = errors.New("required column missing from CSV")

	// ErrEmptyCSV is returned when the source file has no header row.
	ErrEmptyCSV = errors.New("CSV file is empty")

	// ErrBadDate is returned when a row's service date cannot be parsed
	// as DD/MM/YYYY. Any unparseable date fails the whole run.
	ErrBadDate = errors.New("unparseable service date")
)

// BillingError wraps errors with additional context about where in the
// pipeline the failure occurred.
type BillingError struct {
	// Op is the operation that failed (e.g., "ReadCSV", "GroupByPatientMonth").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *BillingError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("billing: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("billing: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *BillingError) Unwrap() error {
	return e.Err
}

// Is implements error matching for errors.Is.
func (e *BillingError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewBillingError creates a new BillingError with the specified operation and underlying error.
func NewBillingError(op string, err error, details string) *BillingError {
	return &BillingError{
		Op:      op,
		Err:     err,
		Details: details,
	}
}
