package calculations

// BuildCashflows flattens the loan schedule into the payments an IRR needs.
func BuildCashflows(loan Loan) ([]Cashflow, error) {
	var flows []Cashflow
	_, err := walkPeriods(loan, func(f periodFigures) {
		flows = append(flows, Cashflow{Payment: f.payment(), Months: f.months})
	})
	if err != nil {
		return nil, err
	}
	return flows, nil
}
