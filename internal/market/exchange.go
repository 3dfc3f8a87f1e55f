package market

import "sync"

// BondIssue identifies one listed bond series.
type BondIssue struct {
	MaturityDate int
	CouponRate   float64
}

// BondExchange manages one BondMarket per outstanding bond series. Markets
// are created lazily when an issue is first registered. The exchange also
// exposes the pricing function used by the bond ledger for mark-to-market
// revaluation.
type BondExchange struct {
	mu          sync.Mutex
	holdings    BondHoldings
	priceWindow int
	markets     []*BondMarket
}

func NewBondExchange(priceWindow int) *BondExchange {
	return &BondExchange{priceWindow: priceWindow}
}

// SetHoldings wires in the bond ledger. The exchange and the ledger refer to
// each other, so the ledger is attached after both are constructed and before
// any market is registered.
func (e *BondExchange) SetHoldings(holdings BondHoldings) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.holdings = holdings
}

// RegisterBondIssue returns the market for the series, creating it if the
// series has not traded before.
func (e *BondExchange) RegisterBondIssue(maturityDate int, couponRate float64) *BondMarket {
	e.mu.Lock()
	defer e.mu.Unlock()
	if m := e.lookup(maturityDate, couponRate); m != nil {
		return m
	}
	m := NewBondMarket(e.holdings, maturityDate, couponRate, e.priceWindow)
	e.markets = append(e.markets, m)
	return m
}

// Market returns the market for the series, or nil when none is listed.
func (e *BondExchange) Market(maturityDate int, couponRate float64) *BondMarket {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lookup(maturityDate, couponRate)
}

func (e *BondExchange) MarketExists(maturityDate int, couponRate float64) bool {
	return e.Market(maturityDate, couponRate) != nil
}

// ListBondIssues returns the listed series in registration order.
func (e *BondExchange) ListBondIssues() []BondIssue {
	e.mu.Lock()
	defer e.mu.Unlock()
	issues := make([]BondIssue, len(e.markets))
	for i, m := range e.markets {
		issues[i] = BondIssue{MaturityDate: m.maturityDate, CouponRate: m.couponRate}
	}
	return issues
}

// YieldToPrice implements the bond ledger's pricer.
func (e *BondExchange) YieldToPrice(settlementDate, maturityDate int, desiredYield, couponRate, faceValue float64, couponFrequency, daysInYear int) float64 {
	return YieldToPrice(settlementDate, maturityDate, desiredYield, couponRate, faceValue, couponFrequency, daysInYear)
}

func (e *BondExchange) lookup(maturityDate int, couponRate float64) *BondMarket {
	for _, m := range e.markets {
		if m.maturityDate == maturityDate && m.couponRate == couponRate {
			return m
		}
	}
	return nil
}
