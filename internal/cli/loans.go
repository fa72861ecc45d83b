package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/cloud-ru/loanfolio-go/internal/calculations"
	"github.com/cloud-ru/loanfolio-go/internal/portfolio"
	"github.com/cloud-ru/loanfolio-go/internal/renderer"
	"github.com/cloud-ru/loanfolio-go/internal/validators"
)

type listCmd struct {
	app *App
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list the loans of the portfolio" }
func (*listCmd) Usage() string {
	return `loanfolio list

  Lists every loan, the active one marked with an X.
`
}

func (*listCmd) SetFlags(*flag.FlagSet) {}

func (c *listCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := c.app.LoadPortfolio()
	if err != nil {
		return c.app.fail("%v", err)
	}
	c.app.printMarkdown(renderer.LoansMarkdown(s, c.app.Config.Currency))
	return subcommands.ExitSuccess
}

type addCmd struct {
	app *App
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add a default loan and select it" }
func (*addCmd) Usage() string {
	return `loanfolio add

  Appends a loan with default terms and makes it the active loan.
  Change its terms with 'loanfolio set'.
`
}

func (*addCmd) SetFlags(*flag.FlagSet) {}

func (c *addCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := c.app.LoadPortfolio()
	if err != nil {
		return c.app.fail("%v", err)
	}
	s = s.AddLoan()
	if err := c.app.SavePortfolio(s); err != nil {
		return c.app.fail("saving portfolio: %v", err)
	}
	fmt.Fprintf(c.app.Out, "Added loan %d\n", s.ActiveID)
	return subcommands.ExitSuccess
}

type removeCmd struct {
	app *App
	id  int
}

func (*removeCmd) Name() string     { return "remove" }
func (*removeCmd) Synopsis() string { return "remove a loan" }
func (*removeCmd) Usage() string {
	return `loanfolio remove -id <id>

  Removes a loan. The last loan cannot be removed. When the active loan is
  removed the first remaining loan becomes active.
`
}

func (c *removeCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.id, "id", 0, "id of the loan to remove")
}

func (c *removeCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == 0 {
		return c.app.usage("-id is required")
	}
	s, err := c.app.LoadPortfolio()
	if err != nil {
		return c.app.fail("%v", err)
	}
	s, err = s.RemoveLoan(c.id)
	if err != nil {
		return c.app.fail("%v", err)
	}
	if err := c.app.SavePortfolio(s); err != nil {
		return c.app.fail("saving portfolio: %v", err)
	}
	fmt.Fprintf(c.app.Out, "Removed loan %d, active loan is %d\n", c.id, s.ActiveID)
	return subcommands.ExitSuccess
}

type selectCmd struct {
	app *App
	id  int
}

func (*selectCmd) Name() string     { return "select" }
func (*selectCmd) Synopsis() string { return "make a loan the active loan" }
func (*selectCmd) Usage() string {
	return `loanfolio select -id <id>

  Makes the loan the default target of set, schedule, stats and compare.
`
}

func (c *selectCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.id, "id", 0, "id of the loan to select")
}

func (c *selectCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == 0 {
		return c.app.usage("-id is required")
	}
	s, err := c.app.LoadPortfolio()
	if err != nil {
		return c.app.fail("%v", err)
	}
	s, err = s.SelectLoan(c.id)
	if err != nil {
		return c.app.fail("%v", err)
	}
	if err := c.app.SavePortfolio(s); err != nil {
		return c.app.fail("saving portfolio: %v", err)
	}
	fmt.Fprintf(c.app.Out, "Active loan is %d\n", s.ActiveID)
	return subcommands.ExitSuccess
}

type setCmd struct {
	app *App
	id  int

	name      string
	principal float64
	months    int
	rate      float64
	grace     int
	frequency int
	loanType  string
}

func (*setCmd) Name() string     { return "set" }
func (*setCmd) Synopsis() string { return "change the terms of a loan" }
func (*setCmd) Usage() string {
	return `loanfolio set [-id <id>] [-name <name>] [-principal <amount>] [-months <n>]
              [-rate <percent>] [-grace <months>] [-frequency <months>] [-type amortizing|bullet]

  Changes the given fields of a loan, the active loan by default. Fields that
  are not given keep their value. An empty -name restores the default name.
`
}

func (c *setCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.id, "id", 0, "id of the loan, defaults to the active loan")
	f.StringVar(&c.name, "name", "", "display name")
	f.Float64Var(&c.principal, "principal", 0, "disbursed amount")
	f.IntVar(&c.months, "months", 0, "loan duration in months")
	f.Float64Var(&c.rate, "rate", 0, "nominal annual rate in percent")
	f.IntVar(&c.grace, "grace", 0, "interest-only months at the start (amortizing loans)")
	f.IntVar(&c.frequency, "frequency", 0, "months between payments: 1, 3, 6 or 12")
	f.StringVar(&c.loanType, "type", "", "amortizing or bullet")
}

func (c *setCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	u, err := c.update(f)
	if err != nil {
		return c.app.usage("%v", err)
	}
	if u.IsZero() {
		return c.app.usage("nothing to change, see 'loanfolio help set'")
	}

	s, err := c.app.LoadPortfolio()
	if err != nil {
		return c.app.fail("%v", err)
	}
	loan, err := loanOrActive(s, c.id)
	if err != nil {
		return c.app.fail("%v", err)
	}
	if err := validators.CheckLoan(c.app.Config, u.Apply(loan)); err != nil {
		return c.app.usage("%v", err)
	}

	s, err = s.UpdateLoan(loan.ID, u)
	if err != nil {
		return c.app.fail("%v", err)
	}
	if err := c.app.SavePortfolio(s); err != nil {
		return c.app.fail("saving portfolio: %v", err)
	}
	c.app.printMarkdown(renderer.LoansMarkdown(s, c.app.Config.Currency))
	return subcommands.ExitSuccess
}

// update maps the flags given on the command line to a LoanUpdate.
func (c *setCmd) update(f *flag.FlagSet) (portfolio.LoanUpdate, error) {
	var u portfolio.LoanUpdate
	var err error
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "name":
			u.Name = &c.name
		case "principal":
			u.Principal = &c.principal
		case "months":
			u.TotalMonths = &c.months
		case "rate":
			u.AnnualRate = &c.rate
		case "grace":
			u.GraceMonths = &c.grace
		case "frequency":
			u.PaymentFrequency = &c.frequency
		case "type":
			var t calculations.LoanType
			if t, err = parseLoanType(c.loanType); err == nil {
				u.LoanType = &t
			}
		}
	})
	return u, err
}
