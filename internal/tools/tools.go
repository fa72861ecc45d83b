package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/cloud-ru/loanfolio-go/internal/cache"
	"github.com/cloud-ru/loanfolio-go/internal/calculations"
	"github.com/cloud-ru/loanfolio-go/internal/config"
	"github.com/cloud-ru/loanfolio-go/internal/metrics"
	"github.com/cloud-ru/loanfolio-go/internal/validators"
)

// Tools wraps the calculations with validation, tracing, metrics and the
// schedule memo.
type Tools struct {
	cfg    *config.Config
	tracer trace.Tracer
	logger *zap.Logger
	cache  cache.Repository
}

// New returns the tools. A nil memo disables caching.
func New(cfg *config.Config, tracer trace.Tracer, logger *zap.Logger, memo cache.Repository) *Tools {
	if memo == nil {
		memo = noCache{}
	}
	return &Tools{cfg: cfg, tracer: tracer, logger: logger, cache: memo}
}

// LoanReport pairs a loan with its statistics.
type LoanReport struct {
	Loan  calculations.Loan      `json:"loan"`
	Stats calculations.LoanStats `json:"stats"`
}

// PortfolioReport holds per-loan statistics and the portfolio totals.
type PortfolioReport struct {
	Loans  []LoanReport                `json:"loans"`
	Totals calculations.PortfolioStats `json:"totals"`
}

// Schedule returns the payment table of a loan, from the memo when the
// parameters did not change.
func (t *Tools) Schedule(ctx context.Context, loan calculations.Loan) ([]calculations.Period, error) {
	const toolName = "loan_schedule"

	ctx, span := t.tracer.Start(ctx, toolName)
	defer span.End()
	span.SetAttributes(loanAttributes(loan)...)

	if err := validators.CheckLoan(t.cfg, loan); err != nil {
		return nil, t.fail(span, toolName, "validation", err)
	}

	key := cache.Key(loan)
	if data, ok := t.cache.Get(ctx, key); ok {
		var periods []calculations.Period
		if err := json.Unmarshal(data, &periods); err == nil {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			span.SetAttributes(attribute.Bool("cache_hit", true), attribute.Int("periods", len(periods)))
			t.succeed(span, toolName)
			return periods, nil
		}
		t.logger.Warn("discarding unreadable memo entry", zap.String("op", "tools.Schedule"), zap.String("key", key))
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	periods, err := calculations.GenerateSchedule(loan)
	if err != nil {
		return nil, t.fail(span, toolName, "calculation", err)
	}

	if data, err := json.Marshal(periods); err == nil {
		if err := t.cache.Set(ctx, key, data); err != nil {
			t.logger.Warn("schedule memo write failed", zap.String("op", "tools.Schedule"), zap.Error(err))
		}
	}

	span.SetAttributes(attribute.Bool("cache_hit", false), attribute.Int("periods", len(periods)))
	t.succeed(span, toolName)
	return periods, nil
}

// LoanStats returns the final statistics of a loan.
func (t *Tools) LoanStats(ctx context.Context, loan calculations.Loan) (calculations.LoanStats, error) {
	const toolName = "loan_stats"

	ctx, span := t.tracer.Start(ctx, toolName)
	defer span.End()
	span.SetAttributes(loanAttributes(loan)...)

	stats, err := t.loanStats(ctx, toolName, loan)
	if err != nil {
		return calculations.LoanStats{}, t.fail(span, toolName, errorType(err), err)
	}

	span.SetAttributes(
		attribute.Float64("interest", stats.Interest),
		attribute.Float64("effective_rate", stats.EffectiveRate),
		attribute.Float64("irr_rate", stats.IRRRate),
	)
	t.succeed(span, toolName)
	return stats, nil
}

// Portfolio computes every loan's statistics and the principal-weighted totals.
func (t *Tools) Portfolio(ctx context.Context, loans []calculations.Loan) (*PortfolioReport, error) {
	const toolName = "portfolio_stats"

	ctx, span := t.tracer.Start(ctx, toolName)
	defer span.End()
	span.SetAttributes(attribute.Int("loans", len(loans)))

	report := &PortfolioReport{Loans: make([]LoanReport, 0, len(loans))}
	for _, loan := range loans {
		stats, err := t.loanStats(ctx, toolName, loan)
		if err != nil {
			err = fmt.Errorf("loan %d (%s): %w", loan.ID, loan.Name, err)
			return nil, t.fail(span, toolName, errorType(err), err)
		}
		report.Loans = append(report.Loans, LoanReport{Loan: loan, Stats: stats})
	}

	totals, err := calculations.Aggregate(loans)
	if err != nil {
		return nil, t.fail(span, toolName, "calculation", err)
	}
	report.Totals = totals

	span.SetAttributes(
		attribute.Float64("total_principal", totals.TotalPrincipal),
		attribute.Float64("irr_rate", totals.IRRRate),
	)
	t.succeed(span, toolName)
	return report, nil
}

// Compare puts the amortizing and bullet variants of a loan side by side.
func (t *Tools) Compare(ctx context.Context, loan calculations.Loan) (*calculations.Comparison, error) {
	const toolName = "loan_compare"

	_, span := t.tracer.Start(ctx, toolName)
	defer span.End()
	span.SetAttributes(loanAttributes(loan)...)

	amortizing := loan
	amortizing.LoanType = calculations.Amortizing
	if err := validators.CheckLoan(t.cfg, amortizing); err != nil {
		return nil, t.fail(span, toolName, "validation", err)
	}

	result, err := calculations.CompareLoanTypes(loan)
	if err != nil {
		return nil, t.fail(span, toolName, "calculation", err)
	}

	span.SetAttributes(
		attribute.String("cheaper_type", result.CheaperType),
		attribute.Float64("savings", result.Savings),
	)
	t.succeed(span, toolName)
	return result, nil
}

// SolveRate finds the nominal rate that produces a known total interest.
func (t *Tools) SolveRate(ctx context.Context, q calculations.RateQuery) (calculations.RateSolution, error) {
	const toolName = "solve_rate"

	_, span := t.tracer.Start(ctx, toolName)
	defer span.End()
	span.SetAttributes(
		attribute.Float64("principal", q.Principal),
		attribute.Int("total_months", q.TotalMonths),
		attribute.Float64("target_interest", q.TargetInterest),
	)

	err := errors.Join(
		validators.CheckPrincipal(t.cfg, q.Principal),
		validators.CheckMonths(t.cfg, q.TotalMonths),
		validators.CheckFrequency(q.PaymentFrequency),
		validators.CheckGrace(calculations.Amortizing, q.GraceMonths, q.TotalMonths),
	)
	if err != nil {
		return calculations.RateSolution{}, t.fail(span, toolName, "validation", err)
	}

	solution, err := calculations.SolveNominalRate(q)
	if err != nil {
		kind := "calculation"
		if errors.Is(err, calculations.ErrRateNotFound) {
			kind = "not_found"
		}
		return calculations.RateSolution{}, t.fail(span, toolName, kind, err)
	}

	span.SetAttributes(attribute.Float64("annual_rate", solution.AnnualRate))
	t.succeed(span, toolName)
	return solution, nil
}

func (t *Tools) loanStats(_ context.Context, toolName string, loan calculations.Loan) (calculations.LoanStats, error) {
	if err := validators.CheckLoan(t.cfg, loan); err != nil {
		return calculations.LoanStats{}, &stageError{stage: "validation", err: err}
	}
	stats, err := calculations.SummarizeLoan(loan)
	if err != nil {
		return calculations.LoanStats{}, &stageError{stage: "calculation", err: err}
	}

	irr := stats.IRR
	metrics.SolverIterations.WithLabelValues(string(irr.Method)).Observe(float64(irr.Iterations))
	metrics.SolverOutcomes.WithLabelValues(string(irr.Method), strconv.FormatBool(irr.Converged)).Inc()
	if !irr.Converged {
		t.logger.Warn("IRR solver did not converge, reporting its last estimate",
			zap.String("op", "tools."+toolName),
			zap.Int("loan_id", loan.ID),
			zap.String("method", string(irr.Method)),
			zap.Int("iterations", irr.Iterations),
			zap.Float64("irr_rate", irr.AnnualPercent),
		)
	}
	return stats, nil
}

func (t *Tools) fail(span trace.Span, toolName, kind string, err error) error {
	span.SetAttributes(attribute.String("error", kind+"_error"))
	span.SetStatus(codes.Error, err.Error())
	metrics.ToolCalls.WithLabelValues(toolName, kind+"_error").Inc()
	metrics.CalculationErrors.WithLabelValues(toolName, kind).Inc()
	t.logger.Debug("tool failed", zap.String("op", "tools."+toolName), zap.String("error_type", kind), zap.Error(err))

	if kind == "validation" {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	return fmt.Errorf("calculation failed: %w", err)
}

func (t *Tools) succeed(span trace.Span, toolName string) {
	span.SetAttributes(attribute.Bool("success", true))
	metrics.ToolCalls.WithLabelValues(toolName, "success").Inc()
}

// stageError remembers whether validation or the calculation failed.
type stageError struct {
	stage string
	err   error
}

func (e *stageError) Error() string { return e.err.Error() }

func (e *stageError) Unwrap() error { return e.err }

func errorType(err error) string {
	var se *stageError
	if errors.As(err, &se) {
		return se.stage
	}
	return "calculation"
}

func loanAttributes(loan calculations.Loan) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int("loan_id", loan.ID),
		attribute.Float64("principal", loan.Principal),
		attribute.Int("total_months", loan.TotalMonths),
		attribute.Float64("annual_rate", loan.AnnualRate),
		attribute.Int("grace_months", loan.GraceMonths),
		attribute.Int("payment_frequency", loan.PaymentFrequency),
		attribute.String("loan_type", string(loan.LoanType)),
	}
}

type noCache struct{}

func (noCache) Get(context.Context, string) ([]byte, bool) { return nil, false }

func (noCache) Set(context.Context, string, []byte) error { return nil }
