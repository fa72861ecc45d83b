package portfolio

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloud-ru/loanfolio-go/internal/calculations"
)

func ids(s State) []int {
	out := make([]int, len(s.Loans))
	for i, l := range s.Loans {
		out[i] = l.ID
	}
	return out
}

func TestNew(t *testing.T) {
	s := New()
	require.Len(t, s.Loans, 1)
	active, ok := s.Active()
	require.True(t, ok)
	assert.Equal(t, 1, active.ID)
	assert.Equal(t, "Loan 1", active.Name)

	_, err := calculations.GenerateSchedule(active)
	assert.NoError(t, err, "the default loan must be computable")
}

func TestAddLoan(t *testing.T) {
	s := New()
	next := s.AddLoan().AddLoan()

	assert.Equal(t, []int{1, 2, 3}, ids(next))
	assert.Equal(t, 3, next.ActiveID)
	assert.Equal(t, "Loan 3", next.Loans[2].Name)
	assert.Equal(t, []int{1}, ids(s), "original state is untouched")
}

func TestAddLoanAfterRemovalKeepsIDsUnique(t *testing.T) {
	s := New().AddLoan().AddLoan()
	s, err := s.RemoveLoan(2)
	require.NoError(t, err)

	s = s.AddLoan()
	assert.Equal(t, []int{1, 3, 4}, ids(s))
}

func TestRemoveLoan(t *testing.T) {
	s := New().AddLoan().AddLoan()
	s, err := s.SelectLoan(2)
	require.NoError(t, err)

	tests := []struct {
		name       string
		remove     int
		wantIDs    []int
		wantActive int
	}{
		{"active loan moves selection to first", 2, []int{1, 3}, 1},
		{"other loan keeps selection", 3, []int{1, 2}, 2},
		{"first loan", 1, []int{2, 3}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := s.RemoveLoan(tt.remove)
			require.NoError(t, err)
			assert.Equal(t, tt.wantIDs, ids(next))
			assert.Equal(t, tt.wantActive, next.ActiveID)
			assert.Equal(t, []int{1, 2, 3}, ids(s))
		})
	}
}

func TestRemoveActiveFirstLoan(t *testing.T) {
	s := New().AddLoan()
	s, err := s.SelectLoan(1)
	require.NoError(t, err)

	s, err = s.RemoveLoan(1)
	require.NoError(t, err)
	assert.Equal(t, 2, s.ActiveID)
}

func TestRemoveLastLoan(t *testing.T) {
	s := New()
	next, err := s.RemoveLoan(1)
	assert.ErrorIs(t, err, ErrLastLoan)
	assert.Equal(t, s, next)
}

func TestUnknownLoan(t *testing.T) {
	s := New()

	_, err := s.RemoveLoan(42)
	assert.ErrorIs(t, err, ErrLoanNotFound)
	_, err = s.SelectLoan(42)
	assert.ErrorIs(t, err, ErrLoanNotFound)
	_, err = s.UpdateLoan(42, LoanUpdate{})
	assert.ErrorIs(t, err, ErrLoanNotFound)
}

func TestUpdateLoan(t *testing.T) {
	s := New()
	principal := 2500.0
	months := 24
	bullet := calculations.Bullet

	next, err := s.UpdateLoan(1, LoanUpdate{Principal: &principal, TotalMonths: &months, LoanType: &bullet})
	require.NoError(t, err)

	got, _ := next.Active()
	assert.Equal(t, 2500.0, got.Principal)
	assert.Equal(t, 24, got.TotalMonths)
	assert.Equal(t, calculations.Bullet, got.LoanType)
	assert.Equal(t, 5.0, got.AnnualRate, "unset fields are kept")

	orig, _ := s.Active()
	assert.Equal(t, 100000.0, orig.Principal)
}

func TestUpdateLoanClearedName(t *testing.T) {
	s := New().AddLoan()
	blank := "   "
	next, err := s.UpdateLoan(2, LoanUpdate{Name: &blank})
	require.NoError(t, err)

	got, _ := next.Loan(2)
	assert.Equal(t, "Loan 2", got.Name)

	name := " Bridge loan "
	next, err = next.UpdateLoan(2, LoanUpdate{Name: &name})
	require.NoError(t, err)
	got, _ = next.Loan(2)
	assert.Equal(t, "Bridge loan", got.Name)
}

func TestLoanUpdateIsZero(t *testing.T) {
	assert.True(t, LoanUpdate{}.IsZero())
	rate := 3.0
	assert.False(t, LoanUpdate{AnnualRate: &rate}.IsZero())
}

func TestImportPortfolio(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	file := `{"version":"1.0","exportedAt":"2026-10-01T08:00:00Z","loans":[
		{"id":7,"name":"Seven","principal":1000,"totalMonths":60,"annualRate":10,"graceMonths":12,"paymentFrequency":3,"loanType":"amortizing"},
		{"id":9,"name":"Nine","principal":500,"totalMonths":24,"annualRate":4,"graceMonths":0,"paymentFrequency":1,"loanType":"bullet"}]}`

	s := New().AddLoan()
	next, err := s.ImportPortfolio(strings.NewReader(file), now, 5*time.Second)
	require.NoError(t, err)

	assert.Equal(t, []int{7, 9}, ids(next))
	assert.Equal(t, 7, next.ActiveID)
	require.NotNil(t, next.Notice)
	assert.Equal(t, NoticeSuccess, next.Notice.Kind)
	assert.Equal(t, now.Add(5*time.Second), next.Notice.ExpiresAt)
	assert.Equal(t, []int{1, 2}, ids(s))
}

func TestImportPortfolioFailureKeepsLoans(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	file := `{"loans":[{"id":1,"name":"One","principal":1000,"totalMonths":60,"graceMonths":12,"paymentFrequency":3,"loanType":"amortizing"}]}`

	s := New().AddLoan()
	next, err := s.ImportPortfolio(strings.NewReader(file), now, time.Second)
	require.Error(t, err)

	assert.Equal(t, s.Loans, next.Loans)
	assert.Equal(t, s.ActiveID, next.ActiveID)
	require.NotNil(t, next.Notice)
	assert.Equal(t, NoticeError, next.Notice.Kind)
	assert.Equal(t, `Loan 1 is missing field "annualRate"`, next.Notice.Message)
	assert.Nil(t, s.Notice)
}

func TestDismissNotice(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	s := New()
	s.Notice = &Notice{Kind: NoticeError, Message: "boom", ExpiresAt: now.Add(time.Second)}

	assert.NotNil(t, s.DismissNotice(now).Notice, "not expired yet")
	assert.Nil(t, s.DismissNotice(now.Add(time.Second)).Notice)
	assert.NotNil(t, s.Notice)
	assert.Nil(t, New().DismissNotice(now).Notice)
}
