package calculations

import "github.com/cloud-ru/loanfolio-go/pkg/utils"

// balanceEpsilon is the share of the principal under which a balance is shown as zero.
const balanceEpsilon = 1e-9

// periodFigures are the raw numbers of one period. Schedules, cashflows and
// totals are all derived from the same walk.
type periodFigures struct {
	index     int
	months    int
	phase     Phase
	opening   float64
	interest  float64
	principal float64
	balance   float64
}

func (p periodFigures) payment() float64 { return p.interest + p.principal }

// layout is the period structure of a loan.
type layout struct {
	periodRate   float64
	gracePeriods int
	amortPeriods int
	totalPeriods int
}

// ValidFrequency reports whether months is a supported payment frequency.
func ValidFrequency(months int) bool {
	switch months {
	case 1, 3, 6, 12:
		return true
	}
	return false
}

// PeriodCount returns how many payment periods the loan has.
func PeriodCount(loan Loan) (int, error) {
	plan, err := planPeriods(loan)
	if err != nil {
		return 0, err
	}
	return plan.totalPeriods, nil
}

// planPeriods checks the arithmetic preconditions and derives the period counts.
// Grace periods are truncated, amortization and bullet periods are rounded up,
// so a trailing partial period is still paid.
func planPeriods(loan Loan) (layout, error) {
	if !utils.IsFinite(loan.Principal) || loan.Principal <= 0 {
		return layout{}, invalid("principal", "must be a positive amount, got %v", loan.Principal)
	}
	if !utils.IsFinite(loan.AnnualRate) || loan.AnnualRate < 0 {
		return layout{}, invalid("annualRate", "must be a non-negative percentage, got %v", loan.AnnualRate)
	}
	if !ValidFrequency(loan.PaymentFrequency) {
		return layout{}, invalid("paymentFrequency", "must be one of 1, 3, 6 or 12 months, got %d", loan.PaymentFrequency)
	}
	if loan.TotalMonths <= 0 {
		return layout{}, invalid("totalMonths", "must be positive, got %d", loan.TotalMonths)
	}

	freq := loan.PaymentFrequency
	periodsPerYear := float64(12 / freq)
	plan := layout{periodRate: loan.AnnualRate / 100 / periodsPerYear}

	switch loan.LoanType {
	case Bullet:
		plan.totalPeriods = ceilDiv(loan.TotalMonths, freq)
	case Amortizing:
		if loan.GraceMonths < 0 {
			return layout{}, invalid("graceMonths", "must not be negative, got %d", loan.GraceMonths)
		}
		remaining := loan.TotalMonths - loan.GraceMonths
		if remaining <= 0 {
			return layout{}, invalid("graceMonths", "totalMonths (%d) must exceed graceMonths (%d)", loan.TotalMonths, loan.GraceMonths)
		}
		plan.gracePeriods = loan.GraceMonths / freq
		plan.amortPeriods = ceilDiv(remaining, freq)
		plan.totalPeriods = plan.gracePeriods + plan.amortPeriods
	default:
		return layout{}, invalid("loanType", "unknown loan type %q", loan.LoanType)
	}
	return plan, nil
}

// walkPeriods calls visit for every period of the loan, in order.
func walkPeriods(loan Loan, visit func(periodFigures)) (layout, error) {
	plan, err := planPeriods(loan)
	if err != nil {
		return layout{}, err
	}
	freq := loan.PaymentFrequency

	if loan.LoanType == Bullet {
		interest := loan.Principal * (loan.AnnualRate / 100) * (float64(freq) / 12)
		for i := 1; i <= plan.totalPeriods; i++ {
			f := periodFigures{
				index:    i,
				months:   i * freq,
				phase:    PhaseBullet,
				opening:  loan.Principal,
				interest: interest,
				balance:  loan.Principal,
			}
			if i == plan.totalPeriods {
				f.principal = loan.Principal
				f.balance = 0
			}
			visit(f)
		}
		return plan, nil
	}

	balance := loan.Principal
	for i := 1; i <= plan.gracePeriods; i++ {
		visit(periodFigures{
			index:    i,
			months:   i * freq,
			phase:    PhaseGrace,
			opening:  balance,
			interest: balance * plan.periodRate,
			balance:  balance,
		})
	}

	perPeriod := loan.Principal / float64(plan.amortPeriods)
	for k := 1; k <= plan.amortPeriods; k++ {
		i := plan.gracePeriods + k
		opening := balance
		balance -= perPeriod
		visit(periodFigures{
			index:     i,
			months:    i * freq,
			phase:     PhaseAmortization,
			opening:   opening,
			interest:  opening * plan.periodRate,
			principal: perPeriod,
			balance:   balance,
		})
	}
	return plan, nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// displayBalance floors residues of floating point subtraction to zero.
func displayBalance(raw, principal float64) float64 {
	if raw <= principal*balanceEpsilon {
		return 0
	}
	return raw
}
