package agent

import "math"

// Government banks at the central bank with an unlimited overdraft and funds
// itself by borrowing there and by issuing bonds.
type Government struct {
	Base
	DepositHolding
	Borrowing
	BondIssuing
}

func NewGovernment(world *World, id int) *Government {
	g := &Government{Base: NewBase(world, id, KindGovernment)}
	g.initDepositHolding(&g.Base, "reserves")
	g.initBorrowing(&g.Base, g, &g.DepositHolding)
	g.initBondIssuing(&g.Base, g, &g.DepositHolding)
	return g
}

// OpenAccountAtCentralBank opens the treasury account with an unlimited
// overdraft.
func (g *Government) OpenAccountAtCentralBank(cb *CentralBank) error {
	_, err := cb.OpenAccount(g, math.Inf(1))
	return err
}
