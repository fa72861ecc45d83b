package renderer

import (
	"fmt"
	"strings"

	"github.com/cloud-ru/loanfolio-go/internal/calculations"
	"github.com/cloud-ru/loanfolio-go/pkg/utils"
)

// ScheduleMarkdown renders the payment table of a loan.
func ScheduleMarkdown(loan calculations.Loan, periods []calculations.Period, currency string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Schedule: %s\n\n", loan.Name)
	fmt.Fprintf(&b, "%s.\n\n", loanTerms(loan, currency))

	fmt.Fprintln(&b, "| Period | Month | Phase | Interest | Principal | Payment | Balance | Cumulative Interest |")
	fmt.Fprintln(&b, "|:---|---:|:---|---:|---:|---:|---:|---:|")
	for _, p := range periods {
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %s | %s | %s | %s |\n",
			p.Label,
			p.Month,
			p.Phase,
			Amount(p.InterestPayment, currency),
			Amount(p.PrincipalPayment, currency),
			Amount(p.TotalPayment, currency),
			Amount(p.RemainingBalance, currency),
			Amount(p.CumulativeInterest, currency),
		)
	}

	var interest, paid float64
	for _, p := range periods {
		interest += p.InterestPayment
		paid += p.TotalPayment
	}
	fmt.Fprintf(&b, "| **Total** | | | **%s** | **%s** | **%s** | | |\n",
		Amount(interest, currency),
		Amount(paid-interest, currency),
		Amount(paid, currency),
	)

	return b.String()
}

// DetailMarkdown walks through the first n repayment periods step by step.
// It renders nothing when n is not positive.
func DetailMarkdown(loan calculations.Loan, periods []calculations.Period, currency string, n int) string {
	if n <= 0 {
		return ""
	}
	var b strings.Builder

	periodRate := loan.AnnualRate / float64(12/loan.PaymentFrequency)
	fmt.Fprint(&b, "## Repayment Detail\n\n")
	fmt.Fprintf(&b, "Period rate: %s\n\n", utils.Percent(periodRate))

	shown := 0
	for _, p := range periods {
		if p.Phase == calculations.PhaseGrace {
			continue
		}
		if shown == n {
			break
		}
		shown++
		fmt.Fprintf(&b, "### %s (month %d)\n\n", p.Label, p.Month)
		fmt.Fprintf(&b, "- Balance at start: %s\n", Amount(p.OpeningBalance, currency))
		fmt.Fprintf(&b, "- Interest: %s\n", Amount(p.InterestPayment, currency))
		fmt.Fprintf(&b, "- Principal: %s\n", Amount(p.PrincipalPayment, currency))
		fmt.Fprintf(&b, "- Total payment: %s\n", Amount(p.TotalPayment, currency))
		fmt.Fprintf(&b, "- Balance at end: %s\n\n", Amount(p.RemainingBalance, currency))
	}
	return b.String()
}
