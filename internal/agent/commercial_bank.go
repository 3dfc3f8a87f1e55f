package agent

import (
	"fmt"
	"math"
)

// CommercialBank issues deposit accounts to the non-bank public, lends by
// deposit creation, and settles with its peers over its reserve account at
// the central bank.
type CommercialBank struct {
	Base
	DepositIssuing
	DepositHolding
	Lending
	Borrowing
	BondHolding
}

func NewCommercialBank(world *World, id int) *CommercialBank {
	b := &CommercialBank{Base: NewBase(world, id, KindCommercialBank)}
	b.initDepositHolding(&b.Base, "reserves")
	b.initDepositIssuing(&b.Base, b, &b.DepositHolding, "deposits")
	b.initLending(&b.Base, b, &b.DepositIssuing, &b.DepositHolding)
	b.initBorrowing(&b.Base, b, &b.DepositHolding)
	b.initBondHolding(&b.Base, b, &b.DepositHolding)
	return b
}

// RegisterWithCentralBank opens the bank's reserve account with an unlimited
// overdraft, so settlement never fails on the reserve leg.
func (b *CommercialBank) RegisterWithCentralBank(cb *CentralBank) error {
	_, err := cb.OpenAccount(b, math.Inf(1))
	return err
}

// OpenAccount issues a deposit account to a member of the non-bank public.
func (b *CommercialBank) OpenAccount(holder AccountHolder, overdraft float64) (int, error) {
	switch holder.Kind() {
	case KindFirm, KindHousehold, KindRegistrar:
		return b.OpenDepositAccount(holder, overdraft)
	}
	return 0, fmt.Errorf("%w: %s cannot bank here", ErrIneligible, holder.Kind())
}

func (b *CommercialBank) ReserveAccount() (int, bool) {
	return b.DepositHolding.account, b.DepositHolding.open
}
