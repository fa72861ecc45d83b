package calculations

import "github.com/cloud-ru/loanfolio-go/pkg/utils"

// CompareLoanTypes summarizes the same loan as amortizing and as bullet.
func CompareLoanTypes(loan Loan) (*Comparison, error) {
	amortizing := loan
	amortizing.LoanType = Amortizing
	bullet := loan
	bullet.LoanType = Bullet

	amortizingStats, err := SummarizeLoan(amortizing)
	if err != nil {
		return nil, err
	}
	bulletStats, err := SummarizeLoan(bullet)
	if err != nil {
		return nil, err
	}

	// positive diffs mean the bullet variant costs more
	interestDiff := utils.Round2(bulletStats.Interest - amortizingStats.Interest)
	totalPaidDiff := utils.Round2(bulletStats.Paid - amortizingStats.Paid)

	var cheaperType string
	var savings float64
	switch {
	case totalPaidDiff > 0:
		cheaperType = string(Amortizing)
		savings = totalPaidDiff
	case totalPaidDiff < 0:
		cheaperType = string(Bullet)
		savings = -totalPaidDiff
	default:
		cheaperType = "equal"
	}

	return &Comparison{
		Amortizing:    amortizingStats,
		Bullet:        bulletStats,
		InterestDiff:  interestDiff,
		TotalPaidDiff: totalPaidDiff,
		CheaperType:   cheaperType,
		Savings:       savings,
	}, nil
}
