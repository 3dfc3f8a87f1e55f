package ledger

import (
	"fmt"
	"testing"

	"econsim/internal/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDepositLedger(t *testing.T) (*DepositLedger, *schedule.Calendar) {
	t.Helper()
	cal := schedule.NewCalendar(21)
	return NewDepositLedger(cal), cal
}

func TestDepositLedger_CreditAndDebit(t *testing.T) {
	l, _ := newDepositLedger(t)
	bank, holder := party(1), party(2)

	id, err := l.Open(bank, holder, 100, 0, 0)
	require.NoError(t, err)

	require.NoError(t, l.Credit(id, 50))
	balance, err := l.Balance(id)
	require.NoError(t, err)
	assert.Equal(t, 150.0, balance)

	require.NoError(t, l.Debit(id, 200))
	balance, _ = l.Balance(id)
	assert.Equal(t, -50.0, balance, "debit is unconditional arithmetic; overdraft policy sits with the issuer")
}

func TestDepositLedger_CreditMissingAccount(t *testing.T) {
	l, _ := newDepositLedger(t)
	assert.ErrorIs(t, l.Credit(3, 10), ErrNotFound)
	assert.ErrorIs(t, l.Debit(3, 10), ErrNotFound)
}

func TestDepositLedger_TransferConservesTotal(t *testing.T) {
	l, _ := newDepositLedger(t)
	bank := party(1)

	from, _ := l.Open(bank, party(2), 100, 0, 0)
	to, _ := l.Open(bank, party(3), 40, 0, 0)

	require.NoError(t, l.Transfer(from, to, 30))

	a, _ := l.Balance(from)
	b, _ := l.Balance(to)
	assert.Equal(t, 70.0, a)
	assert.Equal(t, 70.0, b)
	assert.Equal(t, 140.0, a+b)
}

func TestDepositLedger_TransferReportsAllInvalidIDs(t *testing.T) {
	l, _ := newDepositLedger(t)
	id, _ := l.Open(party(1), party(2), 100, 0, 0)

	err := l.Transfer(id, 77, 10)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "77")

	err = l.Transfer(88, 99, 10)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "88")
	assert.Contains(t, err.Error(), "99")

	balance, _ := l.Balance(id)
	assert.Equal(t, 100.0, balance, "failed transfer must not touch balances")
}

func TestDepositLedger_AvailableFunds(t *testing.T) {
	l, _ := newDepositLedger(t)
	id, _ := l.Open(party(1), party(2), 20, 0, 50)

	funds, err := l.AvailableFunds(id)
	require.NoError(t, err)
	assert.Equal(t, 70.0, funds)

	require.NoError(t, l.Debit(id, 60))
	funds, _ = l.AvailableFunds(id)
	assert.Equal(t, 10.0, funds)
}

func TestDepositLedger_DailyInterestCompounding(t *testing.T) {
	for _, daysInMonth := range []int{21, 20, 8} {
		t.Run(fmt.Sprintf("days_in_month_%d", daysInMonth), func(t *testing.T) {
			cal := schedule.NewCalendar(daysInMonth)
			l := NewDepositLedger(cal)
			id, _ := l.Open(party(1), party(2), 1000, 5, 0)

			l.ApplyDailyInterest(nil)

			want := 1000 * (1 + (5.0/100.0)/float64(cal.DaysInYear()))
			balance, _ := l.Balance(id)
			assert.InDelta(t, want, balance, 1e-12)
		})
	}
}

func TestDepositLedger_InterestScopedByIssuer(t *testing.T) {
	l, _ := newDepositLedger(t)
	bankA, bankB := party(1), party(2)

	a, _ := l.Open(bankA, party(3), 1000, 10, 0)
	b, _ := l.Open(bankB, party(4), 1000, 10, 0)

	l.ApplyDailyInterest(bankA)

	balA, _ := l.Balance(a)
	balB, _ := l.Balance(b)
	assert.Greater(t, balA, 1000.0)
	assert.Equal(t, 1000.0, balB)
}

func TestDepositLedger_UpdateRateByIssuer(t *testing.T) {
	l, _ := newDepositLedger(t)
	bank := party(1)

	a, _ := l.Open(bank, party(2), 0, 1, 0)
	b, _ := l.Open(bank, party(3), 0, 1, 0)

	assert.True(t, l.UpdateRateByIssuer(bank, 4))
	recA, _ := l.Get(a)
	recB, _ := l.Get(b)
	assert.Equal(t, 4.0, recA.InterestRate)
	assert.Equal(t, 4.0, recB.InterestRate)

	assert.False(t, l.UpdateRateByIssuer(party(9), 4))
}
