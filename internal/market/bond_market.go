package market

import "fmt"

// BondHoldings resolves which discrete bond units a holder owns within one
// series. Implemented by the bond ledger.
type BondHoldings interface {
	HeldBonds(holderID, maturityDate int, couponRate float64) []int
}

// BondSeller hands over individual bond units against payment.
type BondSeller interface {
	Trader
	SellBond(buyer Trader, price float64, bondID int) error
}

// BondMarket trades one bond series, identified by maturity date and coupon.
// Quantity is the money amount to invest and price is per unit of face value,
// so a match moves floor(quantity/price) whole units, capped by what the
// offerer actually holds.
type BondMarket struct {
	*Market

	maturityDate int
	couponRate   float64
	holdings     BondHoldings
}

func NewBondMarket(holdings BondHoldings, maturityDate int, couponRate float64, priceWindow int) *BondMarket {
	m := &BondMarket{
		maturityDate: maturityDate,
		couponRate:   couponRate,
		holdings:     holdings,
	}
	m.Market = NewMarket(m.deliver, priceWindow, true)
	return m
}

func (m *BondMarket) MaturityDate() int { return m.maturityDate }

func (m *BondMarket) CouponRate() float64 { return m.couponRate }

func (m *BondMarket) deliver(offerer, seeker Trader, quantity, price float64) error {
	seller, ok := offerer.(BondSeller)
	if !ok {
		return fmt.Errorf("bond offerer %d cannot deliver bonds", offerer.AgentID())
	}

	held := m.holdings.HeldBonds(offerer.AgentID(), m.maturityDate, m.couponRate)
	n := int(quantity / price)
	if len(held) < n {
		n = len(held)
	}

	for _, id := range held[:n] {
		if err := seller.SellBond(seeker, price, id); err != nil {
			return err
		}
	}
	return nil
}
