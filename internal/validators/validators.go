package validators

import (
	"errors"
	"fmt"

	"github.com/cloud-ru/loanfolio-go/internal/calculations"
	"github.com/cloud-ru/loanfolio-go/internal/config"
	"github.com/cloud-ru/loanfolio-go/pkg/utils"
)

// ValidatePositiveNumber checks that value is finite and within [minInclusive, maxInclusive].
func ValidatePositiveNumber(name string, value float64, minInclusive, maxInclusive float64) error {
	if !utils.IsFinite(value) {
		return fieldError(name, "value is not a finite number")
	}
	if value < minInclusive {
		return fieldError(name, fmt.Sprintf("value must be ≥ %g", minInclusive))
	}
	if value > maxInclusive {
		return fieldError(name, fmt.Sprintf("value is too large (>%g)", maxInclusive))
	}
	return nil
}

// ValidateIntRange checks that value is within [minInclusive, maxInclusive].
func ValidateIntRange(name string, value int, minInclusive, maxInclusive int) error {
	if value < minInclusive || value > maxInclusive {
		return fieldError(name, fmt.Sprintf("value must be in [%d; %d]", minInclusive, maxInclusive))
	}
	return nil
}

// CheckPrincipal validates the disbursed amount.
func CheckPrincipal(cfg *config.Config, principal float64) error {
	if principal <= 0 {
		return fieldError("principal", "value must be positive")
	}
	return ValidatePositiveNumber("principal", principal, 0, cfg.MaxPrincipal)
}

// CheckRate validates the nominal annual rate in percent.
func CheckRate(cfg *config.Config, rate float64) error {
	return ValidatePositiveNumber("annualRate", rate, 0.0, cfg.MaxRate)
}

// CheckMonths validates the loan duration.
func CheckMonths(cfg *config.Config, months int) error {
	return ValidateIntRange("totalMonths", months, 1, cfg.MaxMonths)
}

// CheckFrequency validates the months between payments.
func CheckFrequency(frequency int) error {
	if !calculations.ValidFrequency(frequency) {
		return fieldError("paymentFrequency", fmt.Sprintf("must be one of 1, 3, 6 or 12, got %d", frequency))
	}
	return nil
}

// CheckGrace validates the grace period against the loan duration.
func CheckGrace(loanType calculations.LoanType, graceMonths, totalMonths int) error {
	if graceMonths < 0 {
		return fieldError("graceMonths", "value must not be negative")
	}
	if loanType == calculations.Amortizing && graceMonths >= totalMonths {
		return fieldError("graceMonths", fmt.Sprintf("must be shorter than the loan (%d months)", totalMonths))
	}
	return nil
}

// CheckLoanType validates the repayment variant.
func CheckLoanType(loanType calculations.LoanType) error {
	switch loanType {
	case calculations.Amortizing, calculations.Bullet:
		return nil
	}
	return fieldError("loanType", fmt.Sprintf("unknown loan type %q", loanType))
}

// CheckLoan runs every check on a loan and joins the failures.
func CheckLoan(cfg *config.Config, loan calculations.Loan) error {
	return errors.Join(
		CheckPrincipal(cfg, loan.Principal),
		CheckRate(cfg, loan.AnnualRate),
		CheckMonths(cfg, loan.TotalMonths),
		CheckFrequency(loan.PaymentFrequency),
		CheckGrace(loan.LoanType, loan.GraceMonths, loan.TotalMonths),
		CheckLoanType(loan.LoanType),
	)
}

func fieldError(field, reason string) error {
	return &calculations.LoanError{Field: field, Reason: reason}
}
