package calculations

import "fmt"

// SummarizeLoan computes the final statistics of a loan without building its schedule.
func SummarizeLoan(loan Loan) (LoanStats, error) {
	var stats LoanStats
	plan, err := sumInterest(loan, &stats)
	if err != nil {
		return LoanStats{}, err
	}

	years := float64(loan.TotalMonths) / 12
	stats.Periods = plan.totalPeriods
	stats.Paid = loan.Principal + stats.Interest
	stats.EffectiveRate = (stats.Interest / loan.Principal) / years * 100

	flows, err := BuildCashflows(loan)
	if err != nil {
		return LoanStats{}, err
	}
	stats.IRR = SolveIRR(loan.Principal, flows)
	stats.IRRRate = stats.IRR.AnnualPercent
	return stats, nil
}

// sumInterest fills the interest fields of stats. Interest paid outside the
// grace phase, bullet coupons included, counts as amortization interest.
func sumInterest(loan Loan, stats *LoanStats) (layout, error) {
	return walkPeriods(loan, func(f periodFigures) {
		stats.Interest += f.interest
		if f.phase == PhaseGrace {
			stats.GraceInterest += f.interest
		} else {
			stats.AmortizationInterest += f.interest
		}
	})
}

// Aggregate sums principal and interest over the loans and averages their
// effective and IRR rates weighted by principal.
func Aggregate(loans []Loan) (PortfolioStats, error) {
	var total PortfolioStats
	if len(loans) == 0 {
		return total, nil
	}

	var weightedEffective, weightedIRR float64
	for _, loan := range loans {
		stats, err := SummarizeLoan(loan)
		if err != nil {
			return PortfolioStats{}, fmt.Errorf("loan %d: %w", loan.ID, err)
		}
		total.TotalPrincipal += loan.Principal
		total.TotalInterest += stats.Interest
		weightedEffective += stats.EffectiveRate * loan.Principal
		weightedIRR += stats.IRRRate * loan.Principal
	}

	if total.TotalPrincipal > 0 {
		total.EffectiveRate = weightedEffective / total.TotalPrincipal
		total.IRRRate = weightedIRR / total.TotalPrincipal
	}
	return total, nil
}
