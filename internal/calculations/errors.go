package calculations

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLoanParameters is returned when a loan cannot produce a schedule.
	ErrInvalidLoanParameters = errors.New("invalid loan parameters")
	// ErrRateNotFound is returned when no nominal rate in the search bracket matches the target.
	ErrRateNotFound = errors.New("no matching nominal rate")
)

// LoanError describes which loan field breaks a precondition.
type LoanError struct {
	Field  string
	Reason string
}

func (e *LoanError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidLoanParameters, e.Field, e.Reason)
}

func (e *LoanError) Unwrap() error { return ErrInvalidLoanParameters }

func invalid(field, format string, args ...any) error {
	return &LoanError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
