package cli

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/cloud-ru/loanfolio-go/internal/calculations"
	"github.com/cloud-ru/loanfolio-go/internal/renderer"
)

type scheduleCmd struct {
	app    *App
	id     int
	detail int
}

func (*scheduleCmd) Name() string     { return "schedule" }
func (*scheduleCmd) Synopsis() string { return "display the payment schedule of a loan" }
func (*scheduleCmd) Usage() string {
	return `loanfolio schedule [-id <id>] [-detail <n>]

  Displays the period by period payment table of a loan, the active loan by
  default. With -detail, the first n repayment periods are also broken down.
`
}

func (c *scheduleCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.id, "id", 0, "id of the loan, defaults to the active loan")
	f.IntVar(&c.detail, "detail", 0, "number of repayment periods to break down")
}

func (c *scheduleCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.detail < 0 {
		return c.app.usage("-detail must not be negative")
	}
	s, err := c.app.LoadPortfolio()
	if err != nil {
		return c.app.fail("%v", err)
	}
	loan, err := loanOrActive(s, c.id)
	if err != nil {
		return c.app.fail("%v", err)
	}
	periods, err := c.app.Tools.Schedule(ctx, loan)
	if err != nil {
		return c.app.fail("%v", err)
	}
	cur := c.app.Config.Currency
	md := renderer.ScheduleMarkdown(loan, periods, cur)
	if d := renderer.DetailMarkdown(loan, periods, cur, c.detail); d != "" {
		md += "\n" + d
	}
	c.app.printMarkdown(md)
	return subcommands.ExitSuccess
}

type statsCmd struct {
	app *App
	id  int
}

func (*statsCmd) Name() string     { return "stats" }
func (*statsCmd) Synopsis() string { return "display the interest, effective rate and IRR of a loan" }
func (*statsCmd) Usage() string {
	return `loanfolio stats [-id <id>]

  Displays the final statistics of a loan, the active loan by default.
`
}

func (c *statsCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.id, "id", 0, "id of the loan, defaults to the active loan")
}

func (c *statsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := c.app.LoadPortfolio()
	if err != nil {
		return c.app.fail("%v", err)
	}
	loan, err := loanOrActive(s, c.id)
	if err != nil {
		return c.app.fail("%v", err)
	}
	stats, err := c.app.Tools.LoanStats(ctx, loan)
	if err != nil {
		return c.app.fail("%v", err)
	}
	c.app.printMarkdown(renderer.LoanStatsMarkdown(loan, stats, c.app.Config.Currency))
	return subcommands.ExitSuccess
}

type summaryCmd struct {
	app *App
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the portfolio summary" }
func (*summaryCmd) Usage() string {
	return `loanfolio summary

  Displays every loan with the portfolio totals. Rates are weighted by principal.
`
}

func (*summaryCmd) SetFlags(*flag.FlagSet) {}

func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := c.app.LoadPortfolio()
	if err != nil {
		return c.app.fail("%v", err)
	}
	report, err := c.app.Tools.Portfolio(ctx, s.Loans)
	if err != nil {
		return c.app.fail("%v", err)
	}
	c.app.printMarkdown(renderer.PortfolioMarkdown(report, c.app.Config.Currency))
	return subcommands.ExitSuccess
}

type compareCmd struct {
	app *App
	id  int
}

func (*compareCmd) Name() string     { return "compare" }
func (*compareCmd) Synopsis() string { return "compare a loan as amortizing and as bullet" }
func (*compareCmd) Usage() string {
	return `loanfolio compare [-id <id>]

  Computes the same loan with both repayment types and tells which one costs less.
`
}

func (c *compareCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.id, "id", 0, "id of the loan, defaults to the active loan")
}

func (c *compareCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := c.app.LoadPortfolio()
	if err != nil {
		return c.app.fail("%v", err)
	}
	loan, err := loanOrActive(s, c.id)
	if err != nil {
		return c.app.fail("%v", err)
	}
	result, err := c.app.Tools.Compare(ctx, loan)
	if err != nil {
		return c.app.fail("%v", err)
	}
	c.app.printMarkdown(renderer.ComparisonMarkdown(loan, result, c.app.Config.Currency))
	return subcommands.ExitSuccess
}

type solveRateCmd struct {
	app   *App
	query calculations.RateQuery
}

func (*solveRateCmd) Name() string     { return "solve-rate" }
func (*solveRateCmd) Synopsis() string { return "find the nominal rate behind a total interest" }
func (*solveRateCmd) Usage() string {
	return `loanfolio solve-rate -principal <amount> -months <n> -interest <amount>
                    [-grace <months>] [-frequency <months>]

  Searches the nominal annual rate of an amortizing loan that produces the
  given total interest. The search covers 0% to 50%.
`
}

func (c *solveRateCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.query.Principal, "principal", 0, "disbursed amount")
	f.IntVar(&c.query.TotalMonths, "months", 0, "loan duration in months")
	f.IntVar(&c.query.GraceMonths, "grace", 0, "interest-only months at the start")
	f.IntVar(&c.query.PaymentFrequency, "frequency", 3, "months between payments: 1, 3, 6 or 12")
	f.Float64Var(&c.query.TargetInterest, "interest", 0, "total interest paid over the loan")
}

func (c *solveRateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.query.Principal == 0 || c.query.TotalMonths == 0 {
		return c.app.usage("-principal and -months are required")
	}
	solution, err := c.app.Tools.SolveRate(ctx, c.query)
	if err != nil {
		return c.app.fail("%v", err)
	}
	c.app.printMarkdown(renderer.RateMarkdown(c.query, solution, c.app.Config.Currency))
	return subcommands.ExitSuccess
}
