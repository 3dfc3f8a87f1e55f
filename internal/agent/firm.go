package agent

import (
	"math"
	"math/rand"
)

// Firm behavioral parameters, after Lengnick (2013).
const (
	firmProductivity    = 3.0   // goods per worker per day
	firmWageDelta       = 0.019 // monthly wage drift band
	firmPriceUpsilon    = 0.02  // price adjustment band
	firmPriceChangeProb = 0.75  // chance of moving the price at all
	firmBufferShare     = 0.1   // wage bill share retained before dividends
)

// Shareholding is one household's stake in a firm.
type Shareholding struct {
	Holder *Household
	Amount float64
}

// Firm employs households, produces goods daily, sells them at a posted
// price, and pays wages and dividends at month end.
type Firm struct {
	Base
	DepositHolding
	Borrowing

	goodsPrice    float64
	wageRate      float64
	inventory     float64
	currentDemand float64
	workers       []*Household
	rng           *rand.Rand
}

func NewFirm(world *World, id int, goodsPrice, wageRate float64, rng *rand.Rand) *Firm {
	f := &Firm{
		Base:       NewBase(world, id, KindFirm),
		goodsPrice: goodsPrice,
		wageRate:   wageRate,
		rng:        rng,
	}
	f.initDepositHolding(&f.Base, "deposit")
	f.initBorrowing(&f.Base, f, &f.DepositHolding)
	return f
}

func (f *Firm) GoodsPrice() float64 { return f.goodsPrice }

func (f *Firm) WageRate() float64 { return f.wageRate }

func (f *Firm) Inventory() float64 { return f.inventory }

func (f *Firm) Workers() []*Household { return f.workers }

// Hire takes a household onto the payroll.
func (f *Firm) Hire(h *Household) {
	f.workers = append(f.workers, h)
	h.employer = f
}

// MonthStart adjusts the posted price toward demand and drifts the wage,
// then resets the demand tally.
func (f *Firm) MonthStart() {
	if f.rng.Float64() < firmPriceChangeProb {
		adjustment := f.rng.Float64() * firmPriceUpsilon
		if f.inventory < f.currentDemand {
			f.goodsPrice *= 1 + adjustment
		} else if f.inventory > f.currentDemand {
			f.goodsPrice *= 1 - adjustment
		}
	}
	f.wageRate *= 1 + (f.rng.Float64()*2-1)*firmWageDelta
	f.currentDemand = 0
}

// Day produces goods with the current workforce.
func (f *Firm) Day() {
	f.inventory += firmProductivity * float64(len(f.workers))
}

// SellGoods records a sale. Demand is tallied even when inventory runs
// short, so pricing sees unmet demand.
func (f *Firm) SellGoods(quantity, totalPrice float64) {
	f.currentDemand += quantity
	f.inventory -= quantity
	if f.inventory < 0 {
		f.inventory = 0
	}
}

// MonthEnd pays wages. When the balance cannot cover the full wage bill the
// wage is cut to what the balance allows, down to nothing.
func (f *Firm) MonthEnd() error {
	n := len(f.workers)
	if n == 0 {
		return nil
	}
	wage := f.wageRate
	balance := f.DepositBalance()
	if balance < float64(n) {
		wage = 0
	} else if balance < float64(n)*wage {
		wage = math.Floor(balance / float64(n))
	}
	if wage == 0 {
		return nil
	}
	for _, worker := range f.workers {
		if !worker.HasDepositAccount() {
			continue
		}
		if err := f.Pay(worker.DepositAccountNumber(), wage); err != nil {
			return err
		}
	}
	return nil
}

// DistributeProfits pays out the balance above a retained wage buffer as
// dividends, floored per holding, via the stock registrar.
func (f *Firm) DistributeProfits(holdings []Shareholding, totalShares float64, registrar *StockRegistrar) error {
	if totalShares <= 0 || !registrar.HasDepositAccount() {
		return nil
	}
	buffer := math.Ceil(firmBufferShare * f.wageRate * float64(len(f.workers)))
	profit := f.DepositBalance() - buffer
	if profit <= 0 {
		return nil
	}
	var total float64
	for _, holding := range holdings {
		dividend := math.Floor(profit * holding.Amount / totalShares)
		if dividend <= 0 {
			continue
		}
		registrar.Accrue(holding.Holder, dividend)
		total += dividend
	}
	if total == 0 {
		return nil
	}
	return f.Pay(registrar.DepositAccountNumber(), total)
}
