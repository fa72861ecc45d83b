package calculations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareLoanTypes(t *testing.T) {
	result, err := CompareLoanTypes(quarterlyLoan(Bullet))
	require.NoError(t, err)

	assert.InDelta(t, 312.5, result.Amortizing.Interest, 1e-9)
	assert.InDelta(t, 500, result.Bullet.Interest, 1e-9)
	assert.Equal(t, 187.5, result.InterestDiff)
	assert.Equal(t, 187.5, result.TotalPaidDiff)
	assert.Equal(t, "amortizing", result.CheaperType)
	assert.Equal(t, 187.5, result.Savings)
}

func TestCompareLoanTypesZeroRate(t *testing.T) {
	loan := quarterlyLoan(Amortizing)
	loan.AnnualRate = 0

	result, err := CompareLoanTypes(loan)
	require.NoError(t, err)
	assert.Equal(t, "equal", result.CheaperType)
	assert.Zero(t, result.Savings)
}

func TestCompareLoanTypesInvalid(t *testing.T) {
	loan := quarterlyLoan(Bullet)
	loan.GraceMonths = 60

	// valid as a bullet, but the amortizing variant has no amortization periods
	_, err := CompareLoanTypes(loan)
	assert.ErrorIs(t, err, ErrInvalidLoanParameters)
}
