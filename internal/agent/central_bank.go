package agent

import (
	"fmt"
	"math"
)

// CentralBank issues reserve accounts to commercial banks and the
// government, sets the policy rates, and stands ready to lend overnight
// without limit.
type CentralBank struct {
	Base
	DepositIssuing
	Lending
	BondHolding

	targetRate    float64
	lendingSpread float64
}

func NewCentralBank(world *World, id int, targetRate, lendingSpread float64) *CentralBank {
	cb := &CentralBank{
		Base:          NewBase(world, id, KindCentralBank),
		lendingSpread: lendingSpread,
	}
	cb.initDepositIssuing(&cb.Base, cb, nil, "reserves")
	cb.initLending(&cb.Base, cb, &cb.DepositIssuing, nil)
	cb.initBondHolding(&cb.Base, cb, nil)
	cb.SetTargetRate(targetRate)
	return cb
}

func (cb *CentralBank) TargetRate() float64 { return cb.targetRate }

// SetTargetRate moves both policy rates: reserves remunerate at the target
// and the standing facility lends at target plus spread. A floor system, not
// a corridor.
func (cb *CentralBank) SetTargetRate(rate float64) {
	cb.targetRate = rate
	cb.SetDepositRate(rate)
	cb.SetLoanRate(rate + cb.lendingSpread)
}

func (cb *CentralBank) LendingSpread() float64 { return cb.lendingSpread }

func (cb *CentralBank) SetLendingSpread(spread float64) {
	cb.lendingSpread = spread
	cb.SetTargetRate(cb.targetRate)
}

// OpenAccount issues a reserve account. Only commercial banks and the
// government bank at the central bank.
func (cb *CentralBank) OpenAccount(holder AccountHolder, overdraft float64) (int, error) {
	switch holder.Kind() {
	case KindCommercialBank, KindGovernment:
		return cb.OpenDepositAccount(holder, overdraft)
	}
	return 0, fmt.Errorf("%w: %s cannot hold reserves", ErrIneligible, holder.Kind())
}

// OpenStandingLendingFacility posts an unlimited overnight offer at the
// lending rate, so the interbank session always clears.
func (cb *CentralBank) OpenStandingLendingFacility() {
	cb.world.Interbank.RegisterOffer(cb, math.Inf(1), cb.LoanRate())
}

// Pay lets the central bank pay any deposit account by creating reserves.
// A payment to one of its own accounts is a plain credit; anything else is
// credited at the receiving bank against fresh reserves.
func (cb *CentralBank) Pay(toAccount int, value float64) error {
	deposits := cb.world.Deposits
	issuer, err := deposits.Issuer(toAccount)
	if err != nil {
		return err
	}
	if issuer.AgentID() == cb.id {
		return cb.Credit(toAccount, value)
	}
	toBank, ok := issuer.(Banker)
	if !ok {
		return fmt.Errorf("account %d is not issued by a settlement bank", toAccount)
	}
	reserveTo, ok := toBank.ReserveAccount()
	if !ok {
		return fmt.Errorf("bank %d has no reserve account", toBank.AgentID())
	}
	if err := cb.Credit(reserveTo, value); err != nil {
		return err
	}
	return toBank.Credit(toAccount, value)
}

// ReserveAccount reports that the central bank holds no account above
// itself.
func (cb *CentralBank) ReserveAccount() (int, bool) { return 0, false }
