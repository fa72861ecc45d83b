package calculations

import (
	"math"

	"github.com/cloud-ru/loanfolio-go/pkg/utils"
)

const (
	rateSearchLow        = 0.0
	rateSearchHigh       = 50.0
	rateSearchTolerance  = 0.01
	rateSearchIterations = 100
)

// RateQuery describes an amortizing loan whose total interest is known but
// whose nominal rate is not.
type RateQuery struct {
	Principal        float64 `json:"principal"`
	TotalMonths      int     `json:"totalMonths"`
	GraceMonths      int     `json:"graceMonths"`
	PaymentFrequency int     `json:"paymentFrequency"`
	TargetInterest   float64 `json:"targetInterest"`
}

// RateSolution is the nominal rate reproducing the target interest.
type RateSolution struct {
	AnnualRate           float64 `json:"annual_rate"`
	EffectiveRate        float64 `json:"effective_rate"`
	GraceInterest        float64 `json:"grace_interest"`
	AmortizationInterest float64 `json:"amortization_interest"`
	Iterations           int     `json:"iterations"`
}

// SolveNominalRate bisects the nominal annual rate in [0, 50] percent until
// the loan's total interest is within a cent of the target.
func SolveNominalRate(q RateQuery) (RateSolution, error) {
	base := Loan{
		Principal:        q.Principal,
		TotalMonths:      q.TotalMonths,
		GraceMonths:      q.GraceMonths,
		PaymentFrequency: q.PaymentFrequency,
		LoanType:         Amortizing,
	}
	if _, err := planPeriods(base); err != nil {
		return RateSolution{}, err
	}
	if !utils.IsFinite(q.TargetInterest) || q.TargetInterest < 0 {
		return RateSolution{}, invalid("targetInterest", "must be a non-negative amount, got %v", q.TargetInterest)
	}

	low, high := rateSearchLow, rateSearchHigh
	for i := 1; i <= rateSearchIterations; i++ {
		rate := (low + high) / 2
		loan := base
		loan.AnnualRate = rate
		var stats LoanStats
		if _, err := sumInterest(loan, &stats); err != nil {
			return RateSolution{}, err
		}
		diff := stats.Interest - q.TargetInterest
		if math.Abs(diff) < rateSearchTolerance {
			return RateSolution{
				AnnualRate:           rate,
				EffectiveRate:        (q.TargetInterest / q.Principal) / (float64(q.TotalMonths) / 12) * 100,
				GraceInterest:        stats.GraceInterest,
				AmortizationInterest: stats.AmortizationInterest,
				Iterations:           i,
			}, nil
		}
		if diff < 0 {
			low = rate
		} else {
			high = rate
		}
	}
	return RateSolution{}, ErrRateNotFound
}
