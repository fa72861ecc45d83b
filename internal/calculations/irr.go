package calculations

import (
	"math"

	"github.com/cloud-ru/loanfolio-go/pkg/utils"
)

const (
	// irrSeed is a monthly rate of roughly 10% a year.
	irrSeed             = 0.008
	irrMaxIterations    = 100
	irrDerivativeEps    = 1e-12
	irrTolerance        = 1e-10
	irrResetRate        = 0.0001
	bisectLow           = -0.5
	bisectHigh          = 10.0
	bisectMaxIterations = 200
)

// SolverMethod names the algorithm that produced an IRR.
type SolverMethod string

const (
	MethodNewton    SolverMethod = "newton"
	MethodBisection SolverMethod = "bisection"
	MethodNone      SolverMethod = "none"
)

// IRRResult is the outcome of an IRR search. Converged is false when the
// reported rate is only the best estimate left after the iteration cap.
type IRRResult struct {
	MonthlyRate   float64      `json:"monthly_rate"`
	AnnualPercent float64      `json:"annual_percent"`
	Iterations    int          `json:"iterations"`
	Method        SolverMethod `json:"method"`
	Converged     bool         `json:"converged"`
}

// ComputeIRR returns the annualized internal rate of return, in percent, of
// lending principal and receiving cashflows. It returns 0 when there is
// nothing to solve or the solver ends on a non-finite value.
func ComputeIRR(principal float64, cashflows []Cashflow) float64 {
	return SolveIRR(principal, cashflows).AnnualPercent
}

// SolveIRR runs Newton-Raphson on the monthly rate and falls back to
// bisection when Newton stalls, runs out of iterations or diverges.
func SolveIRR(principal float64, cashflows []Cashflow) IRRResult {
	if len(cashflows) == 0 || principal <= 0 {
		return IRRResult{Method: MethodNone}
	}

	r, iterations, converged := newtonRaphson(principal, cashflows)
	result := IRRResult{
		MonthlyRate: r,
		Iterations:  iterations,
		Method:      MethodNewton,
		Converged:   converged && utils.IsFinite(r),
	}
	if !result.Converged {
		if br, n, ok := bisect(principal, cashflows); ok {
			result = IRRResult{
				MonthlyRate: br,
				Iterations:  iterations + n,
				Method:      MethodBisection,
				Converged:   true,
			}
		}
	}

	annual := annualize(result.MonthlyRate)
	if !utils.IsFinite(annual) {
		return IRRResult{Iterations: result.Iterations, Method: MethodNone}
	}
	result.AnnualPercent = annual
	return result
}

func newtonRaphson(principal float64, cashflows []Cashflow) (float64, int, bool) {
	r := irrSeed
	for i := 1; i <= irrMaxIterations; i++ {
		value, derivative := npv(principal, cashflows, r)
		if math.Abs(derivative) < irrDerivativeEps {
			return r, i, false
		}
		next := r - value/derivative
		if next <= -1 {
			// (1+r)^m is undefined for a negative base, restart near zero
			r = irrResetRate
			continue
		}
		if math.Abs(next-r) < irrTolerance {
			return next, i, true
		}
		r = next
	}
	return r, irrMaxIterations, false
}

// bisect needs a sign change of the NPV over [bisectLow, bisectHigh].
func bisect(principal float64, cashflows []Cashflow) (float64, int, bool) {
	lo, hi := bisectLow, bisectHigh
	fLo, _ := npv(principal, cashflows, lo)
	fHi, _ := npv(principal, cashflows, hi)
	if math.IsNaN(fLo) || math.IsNaN(fHi) || (fLo > 0) == (fHi > 0) {
		return 0, 0, false
	}
	for i := 1; i <= bisectMaxIterations; i++ {
		mid := (lo + hi) / 2
		fMid, _ := npv(principal, cashflows, mid)
		if math.IsNaN(fMid) {
			return 0, i, false
		}
		if fMid == 0 || hi-lo < irrTolerance {
			return mid, i, true
		}
		if (fMid > 0) == (fLo > 0) {
			lo, fLo = mid, fMid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2, bisectMaxIterations, true
}

// npv returns the net present value at monthly rate r and its derivative.
func npv(principal float64, cashflows []Cashflow, r float64) (value, derivative float64) {
	value = -principal
	base := 1 + r
	for _, cf := range cashflows {
		m := float64(cf.Months)
		discount := math.Pow(base, m)
		value += cf.Payment / discount
		derivative -= m * cf.Payment / (discount * base)
	}
	return value, derivative
}

func annualize(monthly float64) float64 {
	return (math.Pow(1+monthly, 12) - 1) * 100
}
