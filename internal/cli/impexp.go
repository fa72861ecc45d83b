package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/cloud-ru/loanfolio-go/internal/metrics"
	"github.com/cloud-ru/loanfolio-go/internal/portfolio"
	"github.com/cloud-ru/loanfolio-go/internal/renderer"
)

type exportCmd struct {
	app    *App
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the portfolio as JSON" }
func (*exportCmd) Usage() string {
	return `loanfolio export [-o <file>]

  Writes the portfolio in the import/export format, to stdout by default.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "output file")
}

func (c *exportCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := c.app.LoadPortfolio()
	if err != nil {
		return c.app.fail("%v", err)
	}
	if c.output == "" {
		if err := portfolio.Export(c.app.Out, s, c.app.Now()); err != nil {
			return c.app.fail("%v", err)
		}
		return subcommands.ExitSuccess
	}

	f, err := os.Create(c.output)
	if err != nil {
		return c.app.fail("creating %q: %v", c.output, err)
	}
	defer f.Close()
	if err := portfolio.Export(f, s, c.app.Now()); err != nil {
		return c.app.fail("writing %q: %v", c.output, err)
	}
	fmt.Fprintf(c.app.Out, "Exported %d loans to %s\n", len(s.Loans), c.output)
	return subcommands.ExitSuccess
}

type importCmd struct {
	app *App
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "replace the portfolio with an exported file" }
func (*importCmd) Usage() string {
	return `loanfolio import <file>

  Replaces every loan with the loans of an exported file and selects the first
  one. Nothing changes when the file is invalid.
`
}

func (*importCmd) SetFlags(*flag.FlagSet) {}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return c.app.usage("import takes exactly one file")
	}
	name := f.Arg(0)

	s, err := c.app.LoadPortfolio()
	if err != nil {
		return c.app.fail("%v", err)
	}

	in, err := os.Open(name)
	if err != nil {
		return c.app.fail("opening %q: %v", name, err)
	}
	defer in.Close()

	next, err := s.ImportPortfolio(in, c.app.Now(), c.app.Config.ImportNoticeTTL)
	if err != nil {
		status := "error"
		var ie *portfolio.ImportError
		if errors.As(err, &ie) {
			status = string(ie.Kind) + "_error"
		}
		metrics.ImportResults.WithLabelValues(status).Inc()
		c.app.Logger.Debug("import rejected", zap.String("op", "cli.import"), zap.String("file", name), zap.Error(err))
		return c.app.fail("%s", next.Notice.Message)
	}
	metrics.ImportResults.WithLabelValues("success").Inc()

	if err := c.app.SavePortfolio(next); err != nil {
		return c.app.fail("saving portfolio: %v", err)
	}
	fmt.Fprintln(c.app.Out, next.Notice.Message)
	c.app.printMarkdown(renderer.LoansMarkdown(next, c.app.Config.Currency))
	return subcommands.ExitSuccess
}
