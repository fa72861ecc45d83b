// Package renderer turns schedules, statistics and portfolios into markdown.
package renderer

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/cloud-ru/loanfolio-go/internal/calculations"
	"github.com/cloud-ru/loanfolio-go/pkg/utils"
)

// Amount formats value in the given ISO 4217 currency, rounded to the
// currency's minor unit.
func Amount(value float64, currency string) string {
	if !utils.IsFinite(value) {
		return "n/a"
	}
	cur := money.GetCurrency(currency)
	if cur == nil {
		return decimal.NewFromFloat(value).StringFixed(2) + " " + currency
	}
	minor := decimal.NewFromFloat(value).Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}

func frequencyLabel(months int) string {
	switch months {
	case 1:
		return "monthly"
	case 3:
		return "quarterly"
	case 6:
		return "semi-annual"
	case 12:
		return "annual"
	}
	return fmt.Sprintf("every %d months", months)
}

func loanTerms(loan calculations.Loan, currency string) string {
	terms := fmt.Sprintf("%s %s over %d months at %s, %s payments",
		Amount(loan.Principal, currency),
		loan.LoanType,
		loan.TotalMonths,
		utils.Percent(loan.AnnualRate),
		frequencyLabel(loan.PaymentFrequency),
	)
	if loan.LoanType == calculations.Amortizing && loan.GraceMonths > 0 {
		terms += fmt.Sprintf(", %d months of grace", loan.GraceMonths)
	}
	return terms
}

// cell escapes text for a table cell.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
