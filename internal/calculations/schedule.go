package calculations

import "fmt"

// GenerateSchedule builds the period-by-period payment table of a loan.
func GenerateSchedule(loan Loan) ([]Period, error) {
	var schedule []Period
	cumI := 0.0
	_, err := walkPeriods(loan, func(f periodFigures) {
		cumI += f.interest
		schedule = append(schedule, Period{
			Label:              fmt.Sprintf("P%d", f.index),
			Month:              f.months,
			Phase:              f.phase,
			OpeningBalance:     displayBalance(f.opening, loan.Principal),
			RemainingBalance:   displayBalance(f.balance, loan.Principal),
			InterestPayment:    f.interest,
			PrincipalPayment:   f.principal,
			TotalPayment:       f.payment(),
			CumulativeInterest: cumI,
		})
	})
	if err != nil {
		return nil, err
	}
	return schedule, nil
}
