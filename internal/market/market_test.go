package market

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type trader int

func (t trader) AgentID() int { return int(t) }

func TestMarket_BookOrdering(t *testing.T) {
	m := NewMarket(nil, DefaultPriceWindow, true)

	m.RegisterOffer(trader(1), 10, 5)
	m.RegisterOffer(trader(2), 10, 3)
	m.RegisterOffer(trader(3), 10, 4)

	offers := m.Offers()
	require.Len(t, offers, 3)
	assert.Equal(t, []float64{3, 4, 5}, []float64{offers[0].Price, offers[1].Price, offers[2].Price})

	m.RegisterInterest(trader(4), 10, 5)
	m.RegisterInterest(trader(5), 10, 7)
	m.RegisterInterest(trader(6), 10, 6)

	seeks := m.Interests()
	require.Len(t, seeks, 3)
	assert.Equal(t, []float64{7, 6, 5}, []float64{seeks[0].Price, seeks[1].Price, seeks[2].Price})
}

func TestMarket_EqualPricesKeepArrivalOrder(t *testing.T) {
	m := NewMarket(nil, DefaultPriceWindow, true)

	m.RegisterOffer(trader(1), 10, 5)
	m.RegisterOffer(trader(2), 10, 5)
	m.RegisterOffer(trader(3), 10, 5)

	offers := m.Offers()
	assert.Equal(t, 1, offers[0].Trader.AgentID())
	assert.Equal(t, 2, offers[1].Trader.AgentID())
	assert.Equal(t, 3, offers[2].Trader.AgentID())
}

func TestMarket_MatchAtOfferersPrice(t *testing.T) {
	var gotPrice, gotQuantity float64
	exec := func(offerer, seeker Trader, quantity, price float64) error {
		gotPrice, gotQuantity = price, quantity
		return nil
	}
	m := NewMarket(exec, DefaultPriceWindow, true)

	m.RegisterOffer(trader(1), 10, 5)
	m.RegisterInterest(trader(2), 8, 7)

	matched, err := m.MatchNext()
	require.NoError(t, err)
	assert.True(t, matched)
	assert.Equal(t, 5.0, gotPrice)
	assert.Equal(t, 8.0, gotQuantity)

	// the seek filled exactly, the offer keeps its remainder
	assert.Empty(t, m.Interests())
	require.Len(t, m.Offers(), 1)
	assert.Equal(t, 2.0, m.Offers()[0].Quantity)
}

func TestMarket_SeekersPriceWhenConfigured(t *testing.T) {
	var gotPrice float64
	exec := func(offerer, seeker Trader, quantity, price float64) error {
		gotPrice = price
		return nil
	}
	m := NewMarket(exec, DefaultPriceWindow, false)

	m.RegisterOffer(trader(1), 10, 5)
	m.RegisterInterest(trader(2), 10, 7)

	matched, err := m.MatchNext()
	require.NoError(t, err)
	assert.True(t, matched)
	assert.Equal(t, 7.0, gotPrice)
}

func TestMarket_NoMatchWhenUncrossed(t *testing.T) {
	m := NewMarket(nil, DefaultPriceWindow, true)

	m.RegisterOffer(trader(1), 10, 7)
	m.RegisterInterest(trader(2), 10, 5)

	matched, err := m.MatchNext()
	require.NoError(t, err)
	assert.False(t, matched)
	assert.Len(t, m.Offers(), 1)
	assert.Len(t, m.Interests(), 1)
}

func TestMarket_ClearMarketDrainsCrossableOrders(t *testing.T) {
	m := NewMarket(nil, DefaultPriceWindow, true)

	m.RegisterOffer(trader(1), 10, 5)
	m.RegisterInterest(trader(2), 4, 6)
	m.RegisterInterest(trader(3), 4, 6)
	m.RegisterInterest(trader(4), 4, 4) // never crosses

	require.NoError(t, m.ClearMarket())

	require.Len(t, m.Offers(), 1)
	assert.Equal(t, 2.0, m.Offers()[0].Quantity)
	require.Len(t, m.Interests(), 1)
	assert.Equal(t, 4.0, m.Interests()[0].Price)
	assert.Equal(t, 2, m.Trades())
}

func TestMarket_FailedSettlementLeavesBooksUntouched(t *testing.T) {
	boom := errors.New("settlement failed")
	m := NewMarket(func(Trader, Trader, float64, float64) error { return boom }, DefaultPriceWindow, true)

	m.RegisterOffer(trader(1), 10, 5)
	m.RegisterInterest(trader(2), 10, 7)

	matched, err := m.MatchNext()
	assert.ErrorIs(t, err, boom)
	assert.False(t, matched)
	assert.Equal(t, 10.0, m.Offers()[0].Quantity)
	assert.Equal(t, 10.0, m.Interests()[0].Quantity)
	assert.Equal(t, 0, m.Trades())
}

func TestMarket_CloseMarketWipesBooks(t *testing.T) {
	m := NewMarket(nil, DefaultPriceWindow, true)

	m.RegisterOffer(trader(1), 10, 5)
	m.RegisterInterest(trader(2), 10, 4)

	m.CloseMarket()

	assert.Empty(t, m.Offers())
	assert.Empty(t, m.Interests())
}

func TestMarket_MarketPriceVolumeWeighted(t *testing.T) {
	m := NewMarket(nil, DefaultPriceWindow, true)
	assert.Equal(t, 0.0, m.MarketPrice(), "no trades yet")

	m.RegisterOffer(trader(1), 10, 5)
	m.RegisterInterest(trader(2), 10, 5)
	require.NoError(t, m.ClearMarket())

	m.RegisterOffer(trader(1), 30, 7)
	m.RegisterInterest(trader(2), 30, 7)
	require.NoError(t, m.ClearMarket())

	assert.InDelta(t, 6.5, m.MarketPrice(), 1e-12)
}

func TestMarket_PriceWindowRollsOff(t *testing.T) {
	m := NewMarket(nil, 2, true)

	for _, price := range []float64{3, 5, 9} {
		m.RegisterOffer(trader(1), 10, price)
		m.RegisterInterest(trader(2), 10, price)
		require.NoError(t, m.ClearMarket())
	}

	// only the trades at 5 and 9 remain in the window
	assert.InDelta(t, 7.0, m.MarketPrice(), 1e-12)
}
