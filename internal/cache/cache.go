// Package cache memoizes computed schedules keyed on the loan parameters.
package cache

import (
	"context"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/cloud-ru/loanfolio-go/internal/calculations"
)

// KeyPrefix namespaces schedule entries.
const KeyPrefix = "loanfolio:schedule:"

// Repository stores encoded results. A failed Set never fails a computation.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte) error
}

// Key hashes the parameters that determine a schedule. ID and name are left
// out: two loans with the same terms share an entry.
func Key(loan calculations.Loan) string {
	d := xxhash.New()
	buf := make([]byte, 0, 96)
	buf = strconv.AppendFloat(buf, loan.Principal, 'g', -1, 64)
	buf = append(buf, '|')
	buf = strconv.AppendInt(buf, int64(loan.TotalMonths), 10)
	buf = append(buf, '|')
	buf = strconv.AppendFloat(buf, loan.AnnualRate, 'g', -1, 64)
	buf = append(buf, '|')
	buf = strconv.AppendInt(buf, int64(loan.GraceMonths), 10)
	buf = append(buf, '|')
	buf = strconv.AppendInt(buf, int64(loan.PaymentFrequency), 10)
	buf = append(buf, '|')
	buf = append(buf, string(loan.LoanType)...)
	_, _ = d.Write(buf)
	return KeyPrefix + strconv.FormatUint(d.Sum64(), 16)
}

// Memo keeps the last computed value only.
type Memo struct {
	mu    sync.Mutex
	key   string
	value []byte
}

// NewMemo returns an empty single-entry memo.
func NewMemo() *Memo {
	return &Memo{}
}

func (m *Memo) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.value == nil || m.key != key {
		return nil, false
	}
	return m.value, true
}

func (m *Memo) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.key = key
	m.value = append([]byte(nil), value...)
	return nil
}
