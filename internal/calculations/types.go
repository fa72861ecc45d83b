package calculations

// LoanType selects how the principal is repaid.
type LoanType string

const (
	// Amortizing repays principal in equal installments after the grace phase.
	Amortizing LoanType = "amortizing"
	// Bullet pays interest only and repays the whole principal in the last period.
	Bullet LoanType = "bullet"
)

// Phase tells which part of the schedule a period belongs to.
type Phase string

const (
	PhaseGrace        Phase = "grace"
	PhaseAmortization Phase = "amortization"
	PhaseBullet       Phase = "bullet"
)

// Loan holds the parameters of one credit.
type Loan struct {
	ID               int      `json:"id"`
	Name             string   `json:"name"`
	Principal        float64  `json:"principal"`
	TotalMonths      int      `json:"totalMonths"`
	AnnualRate       float64  `json:"annualRate"`
	GraceMonths      int      `json:"graceMonths"`
	PaymentFrequency int      `json:"paymentFrequency"`
	LoanType         LoanType `json:"loanType"`
}

// Period is one scheduled payment date.
type Period struct {
	Label              string  `json:"period_label"`
	Month              int     `json:"month"`
	Phase              Phase   `json:"phase"`
	OpeningBalance     float64 `json:"opening_balance"`
	RemainingBalance   float64 `json:"remaining_balance"`
	InterestPayment    float64 `json:"interest_payment"`
	PrincipalPayment   float64 `json:"principal_payment"`
	TotalPayment       float64 `json:"total_payment"`
	CumulativeInterest float64 `json:"cumulative_interest"`
}

// Cashflow is a payment received Months after disbursement.
type Cashflow struct {
	Payment float64 `json:"payment"`
	Months  int     `json:"months"`
}

// LoanStats is the final summary of one loan.
type LoanStats struct {
	Interest             float64   `json:"interest"`
	Paid                 float64   `json:"paid"`
	EffectiveRate        float64   `json:"effective_rate"`
	IRRRate              float64   `json:"irr_rate"`
	GraceInterest        float64   `json:"grace_interest"`
	AmortizationInterest float64   `json:"amortization_interest"`
	Periods              int       `json:"periods"`
	IRR                  IRRResult `json:"irr"`
}

// PortfolioStats aggregates LoanStats over a set of loans.
type PortfolioStats struct {
	TotalPrincipal float64 `json:"total_principal"`
	TotalInterest  float64 `json:"total_interest"`
	EffectiveRate  float64 `json:"effective_rate"`
	IRRRate        float64 `json:"irr_rate"`
}

// Comparison puts the amortizing and bullet variants of the same loan side by side.
type Comparison struct {
	Amortizing    LoanStats `json:"amortizing"`
	Bullet        LoanStats `json:"bullet"`
	InterestDiff  float64   `json:"interest_diff"`
	TotalPaidDiff float64   `json:"total_paid_diff"`
	CheaperType   string    `json:"cheaper_type"`
	Savings       float64   `json:"savings"`
}
