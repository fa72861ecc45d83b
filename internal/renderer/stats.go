package renderer

import (
	"fmt"
	"strings"

	"github.com/cloud-ru/loanfolio-go/internal/calculations"
	"github.com/cloud-ru/loanfolio-go/internal/tools"
	"github.com/cloud-ru/loanfolio-go/pkg/utils"
)

// LoanStatsMarkdown renders the final statistics of one loan.
func LoanStatsMarkdown(loan calculations.Loan, stats calculations.LoanStats, currency string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Statistics: %s\n\n", loan.Name)
	fmt.Fprintf(&b, "%s.\n\n", loanTerms(loan, currency))

	fmt.Fprintln(&b, "| Figure | Value |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Periods | %d |\n", stats.Periods)
	fmt.Fprintf(&b, "| Grace Interest | %s |\n", Amount(stats.GraceInterest, currency))
	fmt.Fprintf(&b, "| Amortization Interest | %s |\n", Amount(stats.AmortizationInterest, currency))
	fmt.Fprintf(&b, "| Total Interest | %s |\n", Amount(stats.Interest, currency))
	fmt.Fprintf(&b, "| Total Paid | %s |\n", Amount(stats.Paid, currency))
	fmt.Fprintf(&b, "| Effective Rate | %s |\n", utils.Percent(stats.EffectiveRate))
	fmt.Fprintf(&b, "| IRR | %s |\n", utils.Percent(stats.IRRRate))

	if !stats.IRR.Converged {
		fmt.Fprintf(&b, "\n> The IRR solver did not converge after %d iterations, the rate is its last estimate.\n", stats.IRR.Iterations)
	}
	return b.String()
}

// PortfolioMarkdown renders every loan with the principal-weighted totals.
func PortfolioMarkdown(report *tools.PortfolioReport, currency string) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Portfolio Summary\n\n")
	fmt.Fprintln(&b, "| Loan | Type | Principal | Interest | Effective Rate | IRR |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|")
	for _, r := range report.Loans {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			cell(r.Loan.Name),
			r.Loan.LoanType,
			Amount(r.Loan.Principal, currency),
			Amount(r.Stats.Interest, currency),
			utils.Percent(r.Stats.EffectiveRate),
			utils.Percent(r.Stats.IRRRate),
		)
	}
	t := report.Totals
	fmt.Fprintf(&b, "| **Total** | | **%s** | **%s** | **%s** | **%s** |\n",
		Amount(t.TotalPrincipal, currency),
		Amount(t.TotalInterest, currency),
		utils.Percent(t.EffectiveRate),
		utils.Percent(t.IRRRate),
	)
	return b.String()
}

// ComparisonMarkdown puts the amortizing and bullet variants of a loan side by side.
func ComparisonMarkdown(loan calculations.Loan, c *calculations.Comparison, currency string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Comparison: %s\n\n", loan.Name)
	fmt.Fprintln(&b, "| Figure | Amortizing | Bullet |")
	fmt.Fprintln(&b, "|:---|---:|---:|")
	fmt.Fprintf(&b, "| Total Interest | %s | %s |\n", Amount(c.Amortizing.Interest, currency), Amount(c.Bullet.Interest, currency))
	fmt.Fprintf(&b, "| Total Paid | %s | %s |\n", Amount(c.Amortizing.Paid, currency), Amount(c.Bullet.Paid, currency))
	fmt.Fprintf(&b, "| Effective Rate | %s | %s |\n", utils.Percent(c.Amortizing.EffectiveRate), utils.Percent(c.Bullet.EffectiveRate))
	fmt.Fprintf(&b, "| IRR | %s | %s |\n", utils.Percent(c.Amortizing.IRRRate), utils.Percent(c.Bullet.IRRRate))
	fmt.Fprintln(&b)

	switch c.CheaperType {
	case string(calculations.Amortizing), string(calculations.Bullet):
		fmt.Fprintf(&b, "The %s variant is cheaper by %s.\n", c.CheaperType, Amount(c.Savings, currency))
	default:
		fmt.Fprintln(&b, "Both variants cost the same.")
	}
	return b.String()
}

// RateMarkdown renders the outcome of a nominal rate search.
func RateMarkdown(q calculations.RateQuery, s calculations.RateSolution, currency string) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Nominal Rate\n\n")
	fmt.Fprintf(&b, "%s of interest on %s over %d months.\n\n",
		Amount(q.TargetInterest, currency), Amount(q.Principal, currency), q.TotalMonths)

	fmt.Fprintln(&b, "| Figure | Value |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Nominal Rate | %s |\n", utils.Percent(s.AnnualRate))
	fmt.Fprintf(&b, "| Effective Rate | %s |\n", utils.Percent(s.EffectiveRate))
	fmt.Fprintf(&b, "| Grace Interest | %s |\n", Amount(s.GraceInterest, currency))
	fmt.Fprintf(&b, "| Amortization Interest | %s |\n", Amount(s.AmortizationInterest, currency))
	fmt.Fprintf(&b, "| Iterations | %d |\n", s.Iterations)
	return b.String()
}
