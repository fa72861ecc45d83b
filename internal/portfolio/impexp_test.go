package portfolio

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloud-ru/loanfolio-go/internal/calculations"
)

func TestExportImport(t *testing.T) {
	now := time.Date(2026, 10, 14, 9, 30, 0, 0, time.FixedZone("CEST", 2*3600))
	s := New().AddLoan()
	rate := 7.25
	s, err := s.UpdateLoan(2, LoanUpdate{AnnualRate: &rate})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, s, now))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	assert.Equal(t, "1.0", raw["version"])
	assert.Equal(t, "2026-10-14T07:30:00Z", raw["exportedAt"])
	loans := raw["loans"].([]any)
	require.Len(t, loans, 2)
	first := loans[0].(map[string]any)
	for _, field := range requiredFields {
		assert.Contains(t, first, field)
	}
	assert.Equal(t, "amortizing", first["loanType"])

	got, err := Import(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, s.Loans, got)
}

func TestLoadKeepsActiveLoan(t *testing.T) {
	s := New().AddLoan().AddLoan()
	s, err := s.SelectLoan(2)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, s, time.Now()))

	loaded, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.ActiveID)
	assert.Equal(t, s.Loans, loaded.Loans)
}

func TestLoadUnknownActiveFallsBackToFirst(t *testing.T) {
	file := `{"loans":[{"id":4,"name":"","principal":1,"totalMonths":12,"annualRate":1,"graceMonths":0,"paymentFrequency":1,"loanType":"bullet"}],"activeId":99}`

	loaded, err := Load(strings.NewReader(file))
	require.NoError(t, err)
	assert.Equal(t, 4, loaded.ActiveID)
	assert.Equal(t, "Loan 4", loaded.Loans[0].Name)
}

func TestImportErrors(t *testing.T) {
	const valid = `"id":1,"name":"One","principal":1000,"totalMonths":60,"annualRate":10,"graceMonths":12,"paymentFrequency":3,"loanType":"amortizing"`

	tests := []struct {
		name    string
		file    string
		kind    ImportErrorKind
		index   int
		field   string
		message string
	}{
		{
			name:    "not json",
			file:    `{"loans": [`,
			kind:    ParseFailure,
			message: parseFailureMessage,
		},
		{
			name:    "missing loans",
			file:    `{"version":"1.0"}`,
			kind:    ParseFailure,
			message: parseFailureMessage,
		},
		{
			name:    "loans not an array",
			file:    `{"loans":{"id":1}}`,
			kind:    ParseFailure,
			message: parseFailureMessage,
		},
		{
			name:    "loan not an object",
			file:    `{"loans":[42]}`,
			kind:    ParseFailure,
			message: parseFailureMessage,
		},
		{
			name:    "missing annualRate",
			file:    `{"loans":[{"id":1,"name":"One","principal":1000,"totalMonths":60,"graceMonths":12,"paymentFrequency":3,"loanType":"amortizing"}]}`,
			kind:    ValidationFailure,
			index:   1,
			field:   "annualRate",
			message: `Loan 1 is missing field "annualRate"`,
		},
		{
			name:    "first missing field is reported",
			file:    `{"loans":[{` + valid + `},{"name":"Two"}]}`,
			kind:    ValidationFailure,
			index:   2,
			field:   "id",
			message: `Loan 2 is missing field "id"`,
		},
		{
			name:    "null counts as missing",
			file:    `{"loans":[{"id":1,"name":"One","principal":null,"totalMonths":60,"annualRate":10,"graceMonths":12,"paymentFrequency":3,"loanType":"amortizing"}]}`,
			kind:    ValidationFailure,
			index:   1,
			field:   "principal",
			message: `Loan 1 is missing field "principal"`,
		},
		{
			name:    "wrong type",
			file:    `{"loans":[{"id":1,"name":"One","principal":"lots","totalMonths":60,"annualRate":10,"graceMonths":12,"paymentFrequency":3,"loanType":"amortizing"}]}`,
			kind:    ValidationFailure,
			index:   1,
			field:   "principal",
			message: `Loan 1 has invalid field "principal"`,
		},
		{
			name:    "unknown loan type",
			file:    `{"loans":[{"id":1,"name":"One","principal":1000,"totalMonths":60,"annualRate":10,"graceMonths":12,"paymentFrequency":3,"loanType":"balloon"}]}`,
			kind:    ValidationFailure,
			index:   1,
			field:   "loanType",
			message: `Loan 1 has invalid field "loanType"`,
		},
		{
			name:    "duplicate ids",
			file:    `{"loans":[{` + valid + `},{` + valid + `}]}`,
			kind:    ValidationFailure,
			index:   2,
			field:   "id",
			message: `Loan 2 has the same id 1 as loan 1`,
		},
		{
			name:    "empty",
			file:    `{"loans":[]}`,
			kind:    ValidationFailure,
			field:   "loans",
			message: "portfolio file contains no loans",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loans, err := Import(strings.NewReader(tt.file))
			require.Error(t, err)
			assert.Nil(t, loans)

			var importErr *ImportError
			require.True(t, errors.As(err, &importErr))
			assert.Equal(t, tt.kind, importErr.Kind)
			assert.Equal(t, tt.index, importErr.Index)
			assert.Equal(t, tt.field, importErr.Field)
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestImportedLoansAreComputable(t *testing.T) {
	file := `{"loans":[{"id":1,"name":"One","principal":1000,"totalMonths":60,"annualRate":10,"graceMonths":12,"paymentFrequency":3,"loanType":"bullet"}]}`

	loans, err := Import(strings.NewReader(file))
	require.NoError(t, err)
	schedule, err := calculations.GenerateSchedule(loans[0])
	require.NoError(t, err)
	assert.InDelta(t, 1025.0, schedule[len(schedule)-1].TotalPayment, 1e-9)
}
