package ledger

import (
	"testing"

	"econsim/internal/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type party int

func (p party) AgentID() int { return int(p) }

func newTestTable() *Table[Claim] {
	return NewTable(func(c *Claim) *Claim { return c })
}

func TestTable_NextIDMonotonic(t *testing.T) {
	tbl := newTestTable()
	for want := 0; want < 5; want++ {
		assert.Equal(t, want, tbl.NextID())
	}
}

func TestTable_CreateAssignsSequentialIDs(t *testing.T) {
	tbl := newTestTable()
	neil, andy, rich := party(1), party(2), party(3)

	id, err := tbl.Create(&Claim{Issuer: neil, Holder: andy, Value: 100})
	require.NoError(t, err)
	assert.Equal(t, 0, id)

	id, err = tbl.Create(&Claim{Issuer: andy, Holder: rich, Value: 50})
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	id, err = tbl.Create(&Claim{Issuer: rich, Holder: andy, Value: 20})
	require.NoError(t, err)
	assert.Equal(t, 2, id)
	assert.Equal(t, 3, tbl.Len())
}

func TestTable_IDsNeverReusedAfterDrop(t *testing.T) {
	tbl := newTestTable()
	a, b := party(1), party(2)

	for i := 0; i < 3; i++ {
		_, err := tbl.Create(&Claim{Issuer: a, Holder: b, Value: 1})
		require.NoError(t, err)
	}
	require.True(t, tbl.Drop(1))
	assert.Equal(t, []int{0, 2}, tbl.IDs())

	id, err := tbl.Create(&Claim{Issuer: a, Holder: b, Value: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, id)
	assert.Equal(t, []int{0, 2, 3}, tbl.IDs())
}

func TestTable_CreateRequiresIssuerAndHolder(t *testing.T) {
	tbl := newTestTable()

	_, err := tbl.Create(&Claim{Holder: party(1), Value: 5})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = tbl.Create(&Claim{Issuer: party(1), Value: 5})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTable_GetMissingID(t *testing.T) {
	tbl := newTestTable()
	_, err := tbl.Get(10)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTable_DropMissingIDIsFalse(t *testing.T) {
	tbl := newTestTable()
	_, err := tbl.Create(&Claim{Issuer: party(1), Holder: party(2), Value: 1})
	require.NoError(t, err)

	assert.False(t, tbl.Drop(10))
	assert.Equal(t, 1, tbl.Len())
}

func TestTable_RecordsByIssuerAndHolder(t *testing.T) {
	tbl := newTestTable()
	neil, andy, rich := party(1), party(2), party(3)

	_, _ = tbl.Create(&Claim{Issuer: neil, Holder: andy, Value: 100})
	_, _ = tbl.Create(&Claim{Issuer: andy, Holder: rich, Value: 50})
	_, _ = tbl.Create(&Claim{Issuer: neil, Holder: rich, Value: 20})

	assert.Equal(t, []int{0, 2}, tbl.ByIssuer(neil))
	assert.Equal(t, []int{1, 2}, tbl.ByHolder(rich))
	assert.Empty(t, tbl.ByIssuer(rich))
}

func advance(cal *schedule.Calendar, days int) {
	for i := 0; i < days; i++ {
		cal.Advance()
	}
}
