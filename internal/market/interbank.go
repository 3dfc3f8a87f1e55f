package market

import "fmt"

// OvernightLender can extend one-day credit to a counterparty, opening a
// lending account first if none exists.
type OvernightLender interface {
	Trader
	GrantOvernight(borrower Trader, amount, rate float64) error
}

// InterBankMarket trades end-of-day reserves. Quantity is the reserve amount
// and price is the annual rate; each match becomes a one-day loan from the
// offerer to the seeker.
type InterBankMarket struct {
	*Market
}

func NewInterBankMarket(priceWindow int) *InterBankMarket {
	m := &InterBankMarket{}
	m.Market = NewMarket(m.lend, priceWindow, true)
	return m
}

func (m *InterBankMarket) lend(offerer, seeker Trader, quantity, price float64) error {
	lender, ok := offerer.(OvernightLender)
	if !ok {
		return fmt.Errorf("interbank offerer %d cannot extend overnight credit", offerer.AgentID())
	}
	return lender.GrantOvernight(seeker, quantity, price)
}
