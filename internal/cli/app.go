// Package cli implements the loanfolio subcommands.
package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/cloud-ru/loanfolio-go/internal/calculations"
	"github.com/cloud-ru/loanfolio-go/internal/config"
	"github.com/cloud-ru/loanfolio-go/internal/metrics"
	"github.com/cloud-ru/loanfolio-go/internal/portfolio"
	"github.com/cloud-ru/loanfolio-go/internal/tools"
)

// App is what every subcommand shares: settings, the tools and the
// workspace file.
type App struct {
	Config *config.Config
	Logger *zap.Logger
	Tools  *tools.Tools
	Out    io.Writer
	Err    io.Writer
	Now    func() time.Time
	// Render turns markdown into terminal output.
	Render func(md string) (string, error)
}

// NewApp returns an App printing to stdout and stderr through glamour.
func NewApp(cfg *config.Config, logger *zap.Logger, t *tools.Tools) *App {
	return &App{
		Config: cfg,
		Logger: logger,
		Tools:  t,
		Out:    os.Stdout,
		Err:    os.Stderr,
		Now:    time.Now,
		Render: func(md string) (string, error) { return glamour.Render(md, "auto") },
	}
}

// Register adds every subcommand to c.
func Register(c *subcommands.Commander, app *App) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")

	c.Register(&listCmd{app: app}, "portfolio")
	c.Register(&addCmd{app: app}, "portfolio")
	c.Register(&removeCmd{app: app}, "portfolio")
	c.Register(&selectCmd{app: app}, "portfolio")
	c.Register(&setCmd{app: app}, "portfolio")
	c.Register(&exportCmd{app: app}, "portfolio")
	c.Register(&importCmd{app: app}, "portfolio")

	c.Register(&scheduleCmd{app: app}, "reports")
	c.Register(&statsCmd{app: app}, "reports")
	c.Register(&summaryCmd{app: app}, "reports")
	c.Register(&compareCmd{app: app}, "reports")
	c.Register(&solveRateCmd{app: app}, "reports")
}

// LoadPortfolio reads the workspace file. A missing file gives a fresh portfolio.
func (a *App) LoadPortfolio() (portfolio.State, error) {
	f, err := os.Open(a.Config.PortfolioFile)
	if errors.Is(err, fs.ErrNotExist) {
		a.Logger.Warn("portfolio file does not exist, starting a new portfolio",
			zap.String("op", "cli.LoadPortfolio"), zap.String("file", a.Config.PortfolioFile))
		return portfolio.New(), nil
	}
	if err != nil {
		return portfolio.State{}, err
	}
	defer f.Close()

	s, err := portfolio.Load(f)
	if err != nil {
		return portfolio.State{}, fmt.Errorf("reading %s: %w", a.Config.PortfolioFile, err)
	}
	return s, nil
}

// SavePortfolio replaces the workspace file.
func (a *App) SavePortfolio(s portfolio.State) error {
	name := a.Config.PortfolioFile
	tmp, err := os.CreateTemp(filepath.Dir(name), filepath.Base(name)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := portfolio.Export(tmp, s, a.Now()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), name); err != nil {
		return err
	}
	a.Logger.Debug("portfolio saved", zap.String("op", "cli.SavePortfolio"), zap.String("file", name), zap.Int("loans", len(s.Loans)))
	return nil
}

// WriteMetrics dumps the counters when a metrics file is configured.
func (a *App) WriteMetrics() {
	if a.Config.MetricsFile == "" {
		return
	}
	if err := metrics.WriteTextfile(a.Config.MetricsFile); err != nil {
		a.Logger.Warn("failed to write metrics", zap.String("op", "cli.WriteMetrics"), zap.String("file", a.Config.MetricsFile), zap.Error(err))
	}
}

func (a *App) printMarkdown(md string) {
	out, err := a.Render(md)
	if err != nil {
		a.Logger.Debug("markdown rendering failed, printing raw", zap.String("op", "cli.printMarkdown"), zap.Error(err))
		out = md
	}
	fmt.Fprint(a.Out, out)
}

func (a *App) fail(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(a.Err, "Error: "+format+"\n", args...)
	return subcommands.ExitFailure
}

func (a *App) usage(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(a.Err, "Error: "+format+"\n", args...)
	return subcommands.ExitUsageError
}

// loanOrActive returns the loan with the given id, the active one when id is 0.
func loanOrActive(s portfolio.State, id int) (calculations.Loan, error) {
	if id == 0 {
		id = s.ActiveID
	}
	loan, ok := s.Loan(id)
	if !ok {
		return calculations.Loan{}, fmt.Errorf("%w: %d", portfolio.ErrLoanNotFound, id)
	}
	return loan, nil
}

func parseLoanType(s string) (calculations.LoanType, error) {
	switch t := calculations.LoanType(strings.ToLower(strings.TrimSpace(s))); t {
	case calculations.Amortizing, calculations.Bullet:
		return t, nil
	}
	return "", fmt.Errorf("unknown loan type %q, want %s or %s", s, calculations.Amortizing, calculations.Bullet)
}
