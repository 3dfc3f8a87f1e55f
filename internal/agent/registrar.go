package agent

// StockRegistrar collects the dividends firms declare and pays them out to
// households at month end.
type StockRegistrar struct {
	Base
	DepositHolding

	households []*Household
	owed       map[int]float64
}

func NewStockRegistrar(world *World, id int, households []*Household) *StockRegistrar {
	r := &StockRegistrar{
		Base:       NewBase(world, id, KindRegistrar),
		households: households,
		owed:       make(map[int]float64, len(households)),
	}
	r.initDepositHolding(&r.Base, "deposit")
	return r
}

// Accrue records a dividend owed to the holder. Firms pay the registrar in
// one transfer; the registrar fans the money out later.
func (r *StockRegistrar) Accrue(holder *Household, amount float64) {
	r.owed[holder.AgentID()] += amount
}

// Owed is the dividend currently accrued to the household.
func (r *StockRegistrar) Owed(holder *Household) float64 {
	return r.owed[holder.AgentID()]
}

// PayDividends pays each household its accrued dividend in registration
// order and resets the tally.
func (r *StockRegistrar) PayDividends() error {
	for _, h := range r.households {
		amount := r.owed[h.AgentID()]
		if amount <= 0 || !h.HasDepositAccount() {
			continue
		}
		if err := r.Pay(h.DepositAccountNumber(), amount); err != nil {
			return err
		}
		r.owed[h.AgentID()] = 0
	}
	return nil
}
