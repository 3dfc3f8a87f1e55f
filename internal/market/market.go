// Package market implements price discovery: a generic continuous double
// auction plus the interbank and bond specialisations built on it, and the
// bond exchange registry that manages one market per bond series.
package market

import (
	"sort"
	"sync"
)

// DefaultPriceWindow is the number of recent trades the rolling market price
// is computed over.
const DefaultPriceWindow = 50

// Trader is any party that can stand on either side of a market.
type Trader interface {
	AgentID() int
}

// Order is one resting entry in a book. Quantity counts down as the order is
// filled and the entry is removed when it reaches exactly zero.
type Order struct {
	Trader   Trader
	Quantity float64
	Price    float64
}

// Execution settles one matched trade. Implementations move the actual money
// or instruments; the market itself only maintains the books. A nil Execution
// matches without settling, which the base market uses in tests.
type Execution func(offerer, seeker Trader, quantity, price float64) error

// Market is a continuous double auction over a single instrument. Offers are
// kept ascending by price and interests descending, both stable in arrival
// order at equal prices, so the head of each book is the best price. Matching
// is greedy price-time pairing at the offerer's price, not a uniform-price
// call auction.
type Market struct {
	mu sync.Mutex

	offers []Order
	seeks  []Order

	execute         Execution
	useOfferedPrice bool

	recentPrices     []float64
	recentQuantities []float64
	recorded         int
	trades           int
}

func NewMarket(execute Execution, priceWindow int, useOfferedPrice bool) *Market {
	if priceWindow < 1 {
		priceWindow = DefaultPriceWindow
	}
	return &Market{
		execute:          execute,
		useOfferedPrice:  useOfferedPrice,
		recentPrices:     make([]float64, priceWindow),
		recentQuantities: make([]float64, priceWindow),
	}
}

// RegisterOffer inserts a sell order, keeping the book ascending by price.
func (m *Market) RegisterOffer(seller Trader, quantity, price float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := sort.Search(len(m.offers), func(i int) bool { return m.offers[i].Price > price })
	m.offers = append(m.offers, Order{})
	copy(m.offers[i+1:], m.offers[i:])
	m.offers[i] = Order{Trader: seller, Quantity: quantity, Price: price}
}

// RegisterInterest inserts a buy order, keeping the book descending by price.
func (m *Market) RegisterInterest(buyer Trader, quantity, price float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := sort.Search(len(m.seeks), func(i int) bool { return m.seeks[i].Price < price })
	m.seeks = append(m.seeks, Order{})
	copy(m.seeks[i+1:], m.seeks[i:])
	m.seeks[i] = Order{Trader: buyer, Quantity: quantity, Price: price}
}

// MatchNext pairs the best offer with the best interest if they cross,
// settles min quantity at the offerer's price, and reports whether a trade
// happened. A failed settlement leaves both books untouched.
func (m *Market) MatchNext() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.offers) == 0 || len(m.seeks) == 0 {
		return false, nil
	}
	offer, seek := &m.offers[0], &m.seeks[0]
	if offer.Price > seek.Price {
		return false, nil
	}

	quantity := offer.Quantity
	if seek.Quantity < quantity {
		quantity = seek.Quantity
	}
	price := offer.Price
	if !m.useOfferedPrice {
		price = seek.Price
	}

	if m.execute != nil {
		if err := m.execute(offer.Trader, seek.Trader, quantity, price); err != nil {
			return false, err
		}
	}

	offer.Quantity -= quantity
	seek.Quantity -= quantity
	if offer.Quantity == 0 {
		m.offers = m.offers[1:]
	}
	if seek.Quantity == 0 {
		m.seeks = m.seeks[1:]
	}

	m.trackPrice(price, quantity)
	m.trades++
	return true, nil
}

// ClearMarket matches repeatedly until no crossable orders remain.
func (m *Market) ClearMarket() error {
	for {
		matched, err := m.MatchNext()
		if err != nil {
			return err
		}
		if !matched {
			return nil
		}
	}
}

// CloseMarket wipes both books. Unmatched orders lapse rather than carrying
// over to the next session.
func (m *Market) CloseMarket() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.offers = nil
	m.seeks = nil
}

// MarketPrice is the volume-weighted mean over the recent trade window, or 0
// before any trade.
func (m *Market) MarketPrice() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	var volume float64
	for i := 0; i < m.recorded; i++ {
		volume += m.recentQuantities[i]
	}
	if volume == 0 {
		return 0
	}
	var price float64
	for i := 0; i < m.recorded; i++ {
		price += m.recentPrices[i] * (m.recentQuantities[i] / volume)
	}
	return price
}

// Trades is the lifetime count of matched trades.
func (m *Market) Trades() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.trades
}

// Offers returns a snapshot of the sell book, best price first.
func (m *Market) Offers() []Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Order(nil), m.offers...)
}

// Interests returns a snapshot of the buy book, best price first.
func (m *Market) Interests() []Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Order(nil), m.seeks...)
}

// trackPrice records into the fixed window, most recent first.
func (m *Market) trackPrice(price, quantity float64) {
	copy(m.recentPrices[1:], m.recentPrices)
	copy(m.recentQuantities[1:], m.recentQuantities)
	m.recentPrices[0] = price
	m.recentQuantities[0] = quantity
	if m.recorded < len(m.recentPrices) {
		m.recorded++
	}
}
