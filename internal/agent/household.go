package agent

// Merchant is where a household shops.
type Merchant interface {
	DepositAccountNumber() int
	GoodsPrice() float64
	SellGoods(quantity, totalPrice float64)
}

// householdSpendShare is the fraction of the month-start balance a household
// plans to consume over the month.
const householdSpendShare = 0.9

// Household earns wages, spends a planned share of its balance on goods, and
// can hold bonds or lend its deposits on.
type Household struct {
	Base
	DepositHolding
	Borrowing
	Lending
	BondHolding

	employer *Firm
	shop     Merchant

	plannedDailySpend float64
}

func NewHousehold(world *World, id int) *Household {
	h := &Household{Base: NewBase(world, id, KindHousehold)}
	h.initDepositHolding(&h.Base, "deposit")
	h.initBorrowing(&h.Base, h, &h.DepositHolding)
	h.initLending(&h.Base, h, nil, &h.DepositHolding)
	h.initBondHolding(&h.Base, h, &h.DepositHolding)
	return h
}

func (h *Household) Employer() *Firm { return h.employer }

func (h *Household) Employed() bool { return h.employer != nil }

func (h *Household) SetShop(shop Merchant) { h.shop = shop }

// MonthStart spreads the consumption budget evenly over the month.
func (h *Household) MonthStart() {
	balance := h.DepositBalance()
	if balance < 0 {
		balance = 0
	}
	days := h.world.Calendar.DaysInMonth()
	h.plannedDailySpend = balance * householdSpendShare / float64(days)
}

// Day buys goods for the planned spend, skipping when there is nowhere to
// shop or nothing to spend with.
func (h *Household) Day() error {
	if h.shop == nil || h.plannedDailySpend <= 0 {
		return nil
	}
	price := h.shop.GoodsPrice()
	if price <= 0 || !h.HasAvailableFunds(h.plannedDailySpend) {
		return nil
	}
	quantity := h.plannedDailySpend / price
	if err := h.Pay(h.shop.DepositAccountNumber(), h.plannedDailySpend); err != nil {
		return err
	}
	h.shop.SellGoods(quantity, h.plannedDailySpend)
	return nil
}

func (h *Household) MonthEnd() {}
