package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/cloud-ru/loanfolio-go/internal/calculations"
	"github.com/cloud-ru/loanfolio-go/internal/portfolio"
	"github.com/cloud-ru/loanfolio-go/internal/tools"
)

const currency = "USD"

func testLoan(loanType calculations.LoanType) calculations.Loan {
	return calculations.Loan{
		ID:               1,
		Name:             "Loan 1",
		Principal:        1000,
		TotalMonths:      60,
		AnnualRate:       10,
		GraceMonths:      12,
		PaymentFrequency: 3,
		LoanType:         loanType,
	}
}

// tableRows parses md and returns the number of body rows of every table.
func tableRows(t *testing.T, md string) []int {
	t.Helper()
	source := []byte(md)
	root := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser().Parse(text.NewReader(source))

	var rows []int
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if _, ok := n.(*east.Table); ok {
			count := 0
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				if _, ok := c.(*east.TableRow); ok {
					count++
				}
			}
			rows = append(rows, count)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	require.NoError(t, err)
	return rows
}

func TestAmount(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		currency string
		want     string
	}{
		{"thousands", 1025, "USD", "$1,025.00"},
		{"half cent rounds up", 23.4375, "USD", "$23.44"},
		{"zero", 0, "USD", "$0.00"},
		{"unknown currency", 12.5, "XXQ", "12.50 XXQ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Amount(tt.value, tt.currency))
		})
	}
}

func TestScheduleMarkdown(t *testing.T) {
	loan := testLoan(calculations.Amortizing)
	periods, err := calculations.GenerateSchedule(loan)
	require.NoError(t, err)

	md := ScheduleMarkdown(loan, periods, currency)
	assert.Contains(t, md, "# Schedule: Loan 1")
	assert.Contains(t, md, "12 months of grace")
	assert.Equal(t, []int{len(periods) + 1}, tableRows(t, md), "one row per period plus the total")
	assert.Contains(t, md, "**$312.50**")
}

func TestScheduleMarkdownBullet(t *testing.T) {
	loan := testLoan(calculations.Bullet)
	periods, err := calculations.GenerateSchedule(loan)
	require.NoError(t, err)

	md := ScheduleMarkdown(loan, periods, currency)
	assert.NotContains(t, md, "grace")
	assert.Contains(t, md, "$1,025.00")
}

func TestDetailMarkdown(t *testing.T) {
	loan := testLoan(calculations.Amortizing)
	periods, err := calculations.GenerateSchedule(loan)
	require.NoError(t, err)

	assert.Empty(t, DetailMarkdown(loan, periods, currency, 0))

	md := DetailMarkdown(loan, periods, currency, 2)
	assert.Contains(t, md, "Period rate: 2.50%")
	assert.Contains(t, md, "### P5 (month 15)")
	assert.Contains(t, md, "### P6 (month 18)")
	assert.NotContains(t, md, "### P4")
	assert.NotContains(t, md, "### P7")
	assert.Contains(t, md, "Balance at end: $875.00")
}

func TestLoanStatsMarkdown(t *testing.T) {
	loan := testLoan(calculations.Amortizing)
	stats, err := calculations.SummarizeLoan(loan)
	require.NoError(t, err)

	md := LoanStatsMarkdown(loan, stats, currency)
	assert.Equal(t, []int{7}, tableRows(t, md))
	assert.Contains(t, md, "| Effective Rate | 6.25% |")
	assert.Contains(t, md, "| Total Interest | $312.50 |")
	assert.NotContains(t, md, "did not converge")

	stats.IRR.Converged = false
	assert.Contains(t, LoanStatsMarkdown(loan, stats, currency), "did not converge")
}

func TestPortfolioMarkdown(t *testing.T) {
	amortizing := testLoan(calculations.Amortizing)
	bullet := testLoan(calculations.Bullet)
	bullet.ID = 2
	bullet.Name = "Bridge | short"

	report := &tools.PortfolioReport{}
	for _, loan := range []calculations.Loan{amortizing, bullet} {
		stats, err := calculations.SummarizeLoan(loan)
		require.NoError(t, err)
		report.Loans = append(report.Loans, tools.LoanReport{Loan: loan, Stats: stats})
	}
	totals, err := calculations.Aggregate([]calculations.Loan{amortizing, bullet})
	require.NoError(t, err)
	report.Totals = totals

	md := PortfolioMarkdown(report, currency)
	assert.Equal(t, []int{3}, tableRows(t, md), "the pipe in a name must not break the table")
	assert.Contains(t, md, "**$2,000.00**")
	assert.Contains(t, md, "**$812.50**")
}

func TestComparisonMarkdown(t *testing.T) {
	loan := testLoan(calculations.Amortizing)
	c, err := calculations.CompareLoanTypes(loan)
	require.NoError(t, err)

	md := ComparisonMarkdown(loan, c, currency)
	assert.Equal(t, []int{4}, tableRows(t, md))
	assert.Contains(t, md, "The amortizing variant is cheaper by $187.50.")

	assert.Contains(t, ComparisonMarkdown(loan, &calculations.Comparison{CheaperType: "equal"}, currency), "Both variants cost the same.")
}

func TestRateMarkdown(t *testing.T) {
	q := calculations.RateQuery{Principal: 1000, TotalMonths: 60, GraceMonths: 12, PaymentFrequency: 3, TargetInterest: 312.5}
	s := calculations.RateSolution{AnnualRate: 10, EffectiveRate: 6.25, GraceInterest: 100, AmortizationInterest: 212.5, Iterations: 7}

	md := RateMarkdown(q, s, currency)
	assert.Equal(t, []int{5}, tableRows(t, md))
	assert.Contains(t, md, "| Nominal Rate | 10.00% |")
	assert.Contains(t, md, "| Iterations | 7 |")
}

func TestLoansMarkdown(t *testing.T) {
	s := portfolio.New().AddLoan()

	md := LoansMarkdown(s, currency)
	assert.Equal(t, []int{2}, tableRows(t, md))
	assert.Contains(t, md, "| X | 2 | Loan 2 |")
	assert.Contains(t, md, "|   | 1 | Loan 1 |")
	assert.Contains(t, md, "quarterly")
}
