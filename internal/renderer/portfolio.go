package renderer

import (
	"fmt"
	"strings"

	"github.com/cloud-ru/loanfolio-go/internal/portfolio"
	"github.com/cloud-ru/loanfolio-go/pkg/utils"
)

// LoansMarkdown lists the loans of the portfolio, the active one marked.
func LoansMarkdown(s portfolio.State, currency string) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Loans\n\n")
	fmt.Fprintln(&b, "| Active | ID | Name | Type | Principal | Months | Rate | Grace | Frequency |")
	fmt.Fprintln(&b, "|:---:|---:|:---|:---|---:|---:|---:|---:|:---|")
	for _, l := range s.Loans {
		active := " "
		if l.ID == s.ActiveID {
			active = "X"
		}
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %s | %d | %s | %d | %s |\n",
			active,
			l.ID,
			cell(l.Name),
			l.LoanType,
			Amount(l.Principal, currency),
			l.TotalMonths,
			utils.Percent(l.AnnualRate),
			l.GraceMonths,
			frequencyLabel(l.PaymentFrequency),
		)
	}
	return b.String()
}
