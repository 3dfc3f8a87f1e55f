package ledger

import (
	"testing"

	"econsim/internal/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPricer struct{ price float64 }

func (p stubPricer) YieldToPrice(settlementDate, maturityDate int, desiredYield, couponRate, faceValue float64, couponFrequency, daysInYear int) float64 {
	return p.price
}

type stubRates struct{ rate float64 }

func (r stubRates) DepositRate() float64 { return r.rate }

func newBondLedger(daysInMonth int) (*BondLedger, *schedule.Calendar) {
	cal := schedule.NewCalendar(daysInMonth)
	return NewBondLedger(cal, stubPricer{price: BondFaceValue}, stubRates{rate: 2}, 2), cal
}

func TestBondLedger_BillValidation(t *testing.T) {
	l, _ := newBondLedger(21)
	gov := party(1)

	_, err := l.Create(gov, 0, 1.0/5.0)
	assert.ErrorIs(t, err, ErrValidation)

	for _, years := range []float64{1.0 / 12.0, 0.25, 0.5} {
		id, err := l.Create(gov, 3, years)
		require.NoError(t, err)
		bond, _ := l.Get(id)
		assert.Equal(t, 0.0, bond.InterestRate, "bills always carry a zero rate")
		assert.Equal(t, 0, bond.OutstandingCoupons)
		assert.Equal(t, NoCouponDate, bond.NextCouponDate)
	}
}

func TestBondLedger_BillDatesPinnedToMonthStart(t *testing.T) {
	l, cal := newBondLedger(21)
	advance(cal, 30) // second month

	id, err := l.Create(party(1), 0, 1.0/12.0)
	require.NoError(t, err)

	bond, _ := l.Get(id)
	assert.Equal(t, 21, bond.IssueDate)
	assert.Equal(t, 21, bond.MaturityDays)
	assert.Equal(t, 42, bond.MaturityDate)
	assert.Equal(t, 12, bond.DaysToMaturity)
}

func TestBondLedger_LongMaturityRoundsUpToYearBoundary(t *testing.T) {
	l, cal := newBondLedger(21)
	advance(cal, 300) // second year

	id, err := l.Create(party(1), 2, 1.5)
	require.NoError(t, err)

	bond, _ := l.Get(id)
	assert.Equal(t, 252, bond.IssueDate)
	assert.Equal(t, 504, bond.MaturityDays)
	assert.Equal(t, 756, bond.MaturityDate)
}

func TestBondLedger_MaturityDatesConverge(t *testing.T) {
	l, cal := newBondLedger(21)
	gov := party(1)

	seen := map[int]bool{}
	for day := 0; day < 1000; day++ {
		for _, years := range []float64{1, 2, 5} {
			id, err := l.Create(gov, 2, years)
			require.NoError(t, err)
			bond, _ := l.Get(id)
			seen[bond.MaturityDate] = true
		}
		cal.Advance()
	}

	for maturity := range seen {
		assert.Zero(t, maturity%252, "maturity %d not on a year boundary", maturity)
		assert.LessOrEqual(t, maturity, 2016)
		assert.GreaterOrEqual(t, maturity, 252)
	}
}

func TestBondLedger_CouponSchedule(t *testing.T) {
	l, _ := newBondLedger(21)

	id, err := l.Create(party(1), 5, 2)
	require.NoError(t, err)

	bond, _ := l.Get(id)
	assert.Equal(t, 504, bond.MaturityDate)
	assert.Equal(t, 4, bond.OutstandingCoupons)
	assert.Equal(t, 126, bond.NextCouponDate)
	assert.InDelta(t, 110.0, bond.HoldToMaturityValue, 1e-9)
}

func TestBondLedger_RecalculateRefreshesSchedule(t *testing.T) {
	l, cal := newBondLedger(21)

	id, err := l.Create(party(1), 5, 2)
	require.NoError(t, err)

	advance(cal, 130)
	l.Recalculate()

	bond, _ := l.Get(id)
	assert.Equal(t, 374, bond.DaysToMaturity)
	assert.Equal(t, 3, bond.OutstandingCoupons)
	assert.Equal(t, 252, bond.NextCouponDate)
	assert.InDelta(t, 107.5, bond.HoldToMaturityValue, 1e-9)
}

func TestBondLedger_CreateBulkValue(t *testing.T) {
	l, _ := newBondLedger(21)

	ids, err := l.CreateBulkValue(party(1), 250, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, ids)
	assert.Equal(t, 3, l.Len())
}

func TestBondLedger_TransferRejectsCurrentHolder(t *testing.T) {
	l, _ := newBondLedger(21)
	gov, bank := party(1), party(2)

	id, _ := l.Create(gov, 2, 1)
	require.NoError(t, l.Transfer(id, bank))

	bond, _ := l.Get(id)
	assert.Equal(t, bank.AgentID(), bond.Holder.AgentID())
	assert.Equal(t, gov.AgentID(), bond.Issuer.AgentID(), "issuer keeps the liability after sale")

	assert.ErrorIs(t, l.Transfer(id, bank), ErrValidation)
	assert.ErrorIs(t, l.Transfer(42, bank), ErrNotFound)
}

func TestBondLedger_CloseOnlyWhenSelfOwned(t *testing.T) {
	l, _ := newBondLedger(21)
	gov, bank := party(1), party(2)

	id, _ := l.Create(gov, 2, 1)
	require.NoError(t, l.Transfer(id, bank))

	assert.False(t, l.Close(id), "partial ownership blocks closure")
	assert.True(t, l.Exists(id))

	require.NoError(t, l.Transfer(id, gov))
	assert.True(t, l.Close(id))
	assert.False(t, l.Exists(id))
	assert.False(t, l.Close(id))
}

func TestBondLedger_CouponDueUniformCalendar(t *testing.T) {
	l, cal := newBondLedger(21)

	assert.False(t, l.CouponDue(126), "no coupons due on an empty ledger")

	_, err := l.Create(party(1), 5, 2)
	require.NoError(t, err)

	assert.True(t, l.CouponDue(0))
	assert.True(t, l.CouponDue(126))
	assert.True(t, l.CouponDue(252))
	assert.False(t, l.CouponDue(125))
	_ = cal
}

func TestBondLedger_HeldBonds(t *testing.T) {
	l, _ := newBondLedger(21)
	gov, bank := party(1), party(2)

	a, _ := l.Create(gov, 2, 1)
	b, _ := l.Create(gov, 2, 1)
	_, _ = l.Create(gov, 3, 1) // different coupon, same maturity

	require.NoError(t, l.Transfer(a, bank))
	require.NoError(t, l.Transfer(b, bank))

	held := l.HeldBonds(bank.AgentID(), 252, 2)
	assert.Equal(t, []int{a, b}, held)
	assert.Empty(t, l.HeldBonds(bank.AgentID(), 252, 3))
}
