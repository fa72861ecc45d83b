// Package portfolio holds the ordered set of loans being edited and its
// JSON import/export format. State values are never modified in place: every
// transition returns a new State.
package portfolio

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/cloud-ru/loanfolio-go/internal/calculations"
)

var (
	ErrLoanNotFound = errors.New("loan not found")
	ErrLastLoan     = errors.New("cannot remove the last loan")
)

// NoticeKind tells success feedback from failure feedback.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is user feedback that disappears after ExpiresAt.
type Notice struct {
	Kind      NoticeKind
	Message   string
	ExpiresAt time.Time
}

// State is the portfolio with its active loan selection.
type State struct {
	Loans    []calculations.Loan
	ActiveID int
	Notice   *Notice
}

// DefaultName is the label of a loan whose name was cleared.
func DefaultName(id int) string {
	return fmt.Sprintf("Loan %d", id)
}

// DefaultLoan is the loan a new portfolio entry starts from.
func DefaultLoan(id int) calculations.Loan {
	return calculations.Loan{
		ID:               id,
		Name:             DefaultName(id),
		Principal:        100000,
		TotalMonths:      60,
		AnnualRate:       5,
		GraceMonths:      12,
		PaymentFrequency: 3,
		LoanType:         calculations.Amortizing,
	}
}

// New returns a portfolio holding one default loan.
func New() State {
	return State{Loans: []calculations.Loan{DefaultLoan(1)}, ActiveID: 1}
}

// Active returns the selected loan.
func (s State) Active() (calculations.Loan, bool) {
	return s.Loan(s.ActiveID)
}

// Loan returns the loan with the given id.
func (s State) Loan(id int) (calculations.Loan, bool) {
	if i := s.index(id); i >= 0 {
		return s.Loans[i], true
	}
	return calculations.Loan{}, false
}

// AddLoan appends a default loan with a fresh id and selects it.
func (s State) AddLoan() State {
	next := s.clone()
	id := s.nextID()
	next.Loans = append(next.Loans, DefaultLoan(id))
	next.ActiveID = id
	return next
}

// RemoveLoan drops a loan. Removing the active loan selects the first remaining one.
func (s State) RemoveLoan(id int) (State, error) {
	i := s.index(id)
	if i < 0 {
		return s, fmt.Errorf("%w: %d", ErrLoanNotFound, id)
	}
	if len(s.Loans) == 1 {
		return s, ErrLastLoan
	}
	next := s.clone()
	next.Loans = slices.Delete(next.Loans, i, i+1)
	if next.ActiveID == id {
		next.ActiveID = next.Loans[0].ID
	}
	return next, nil
}

// SelectLoan makes id the active loan.
func (s State) SelectLoan(id int) (State, error) {
	if s.index(id) < 0 {
		return s, fmt.Errorf("%w: %d", ErrLoanNotFound, id)
	}
	next := s.clone()
	next.ActiveID = id
	return next, nil
}

// UpdateLoan applies u to the loan with the given id.
func (s State) UpdateLoan(id int, u LoanUpdate) (State, error) {
	i := s.index(id)
	if i < 0 {
		return s, fmt.Errorf("%w: %d", ErrLoanNotFound, id)
	}
	next := s.clone()
	next.Loans[i] = u.Apply(next.Loans[i])
	return next, nil
}

// ImportPortfolio replaces every loan with the content of r and selects the
// first one. On failure the loans are left untouched and only the notice
// changes.
func (s State) ImportPortfolio(r io.Reader, now time.Time, ttl time.Duration) (State, error) {
	doc, err := decode(r)
	if err != nil {
		next := s.clone()
		next.Notice = &Notice{Kind: NoticeError, Message: err.Error(), ExpiresAt: now.Add(ttl)}
		return next, err
	}
	return State{
		Loans:    doc.loans,
		ActiveID: doc.loans[0].ID,
		Notice: &Notice{
			Kind:      NoticeSuccess,
			Message:   fmt.Sprintf("Imported %d loans", len(doc.loans)),
			ExpiresAt: now.Add(ttl),
		},
	}, nil
}

// DismissNotice clears the notice once it has expired.
func (s State) DismissNotice(now time.Time) State {
	if s.Notice == nil || now.Before(s.Notice.ExpiresAt) {
		return s
	}
	next := s.clone()
	next.Notice = nil
	return next
}

func (s State) index(id int) int {
	return slices.IndexFunc(s.Loans, func(l calculations.Loan) bool { return l.ID == id })
}

func (s State) nextID() int {
	id := 0
	for _, l := range s.Loans {
		id = max(id, l.ID)
	}
	return id + 1
}

func (s State) clone() State {
	next := s
	next.Loans = slices.Clone(s.Loans)
	if s.Notice != nil {
		n := *s.Notice
		next.Notice = &n
	}
	return next
}

// LoanUpdate changes the fields that are set and leaves the others alone.
type LoanUpdate struct {
	Name             *string
	Principal        *float64
	TotalMonths      *int
	AnnualRate       *float64
	GraceMonths      *int
	PaymentFrequency *int
	LoanType         *calculations.LoanType
}

// Apply returns loan with the update applied. A blank name becomes the default name.
func (u LoanUpdate) Apply(loan calculations.Loan) calculations.Loan {
	if u.Name != nil {
		loan.Name = strings.TrimSpace(*u.Name)
		if loan.Name == "" {
			loan.Name = DefaultName(loan.ID)
		}
	}
	if u.Principal != nil {
		loan.Principal = *u.Principal
	}
	if u.TotalMonths != nil {
		loan.TotalMonths = *u.TotalMonths
	}
	if u.AnnualRate != nil {
		loan.AnnualRate = *u.AnnualRate
	}
	if u.GraceMonths != nil {
		loan.GraceMonths = *u.GraceMonths
	}
	if u.PaymentFrequency != nil {
		loan.PaymentFrequency = *u.PaymentFrequency
	}
	if u.LoanType != nil {
		loan.LoanType = *u.LoanType
	}
	return loan
}

// IsZero reports whether the update changes nothing.
func (u LoanUpdate) IsZero() bool {
	return u == LoanUpdate{}
}
