package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ToolCalls counts calculator invocations by outcome.
	ToolCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loanfolio_tool_calls_total",
			Help: "Calculator invocations by tool and status",
		},
		[]string{"tool_name", "status"},
	)

	// CalculationErrors counts failed calculations by cause.
	CalculationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loanfolio_calculation_errors_total",
			Help: "Failed calculations by tool and error type",
		},
		[]string{"tool_name", "error_type"},
	)

	// SolverIterations observes how many iterations the IRR solver needed.
	SolverIterations = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "loanfolio_irr_solver_iterations",
			Help:    "Iterations spent by the IRR solver, by method",
			Buckets: []float64{1, 2, 4, 8, 16, 32, 64, 100, 200, 300},
		},
		[]string{"method"},
	)

	// SolverOutcomes counts IRR results by method and convergence.
	SolverOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loanfolio_irr_solver_outcomes_total",
			Help: "IRR solver results by method and convergence",
		},
		[]string{"method", "converged"},
	)

	// ImportResults counts portfolio imports by status.
	ImportResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loanfolio_imports_total",
			Help: "Portfolio imports by status",
		},
		[]string{"status"},
	)

	// CacheLookups counts schedule memo lookups.
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loanfolio_cache_lookups_total",
			Help: "Schedule memo lookups by result",
		},
		[]string{"result"},
	)
)

// WriteTextfile dumps the default registry to path in the text exposition
// format, for a node exporter textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
