package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGini(t *testing.T) {
	cfg := testConfig()
	cfg.NumHouseholds = 4
	m := newTestModel(t, cfg)
	for _, h := range m.Households {
		require.NoError(t, m.RandomlyAllocateBanks(h))
	}

	// No money yet: coefficient defined as zero.
	assert.Equal(t, 0.0, Gini(m))

	// Perfect equality.
	for _, h := range m.Households {
		require.NoError(t, m.Banks[0].Credit(h.DepositAccountNumber(), 100))
	}
	assert.InDelta(t, 0.0, Gini(m), 1e-9)

	// Concentrate everything in one household.
	for _, h := range m.Households[1:] {
		require.NoError(t, m.Banks[0].Debit(h.DepositAccountNumber(), 100))
	}
	require.NoError(t, m.Banks[0].Credit(m.Households[0].DepositAccountNumber(), 300))
	assert.InDelta(t, 0.75, Gini(m), 1e-9)
}

func TestCollectorSeries(t *testing.T) {
	m := newTestModel(t, testConfig())
	c := NewDataCollector([]NamedReporter{
		{Name: "money_supply", Fn: (*Model).MoneySupply},
		{Name: "employed", Fn: CountEmployed},
	})

	c.Collect(m)
	c.Collect(m)

	assert.Equal(t, []string{"money_supply", "employed"}, c.Names())
	assert.Len(t, c.Series("money_supply"), 2)
	assert.Equal(t, []int{0, 0}, c.Days())
	assert.Nil(t, c.Series("unknown"))
}
