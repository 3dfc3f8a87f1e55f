// Package agent implements the economic actors. Each concrete agent is a
// Base identity plus a set of capability components (deposit issuing, deposit
// holding, lending, borrowing, bond issuing, bond holding) that carry the
// operations and register the agent's balance-sheet lines. The ledgers remain
// the only source of truth; components never cache balances.
package agent

import (
	"fmt"

	"econsim/internal/accounting"
	"econsim/internal/ledger"
	"econsim/internal/market"
	"econsim/internal/schedule"
)

// World bundles the shared infrastructure every agent operates against.
type World struct {
	Calendar  *schedule.Calendar
	Deposits  *ledger.DepositLedger
	Loans     *ledger.LoanLedger
	Bonds     *ledger.BondLedger
	Exchange  *market.BondExchange
	Interbank *market.InterBankMarket
}

// Base is the identity shared by all agents: a unique id, a role tag, and
// the registered balance-sheet contributors.
type Base struct {
	id    int
	kind  Kind
	world *World

	assets      []accounting.Contributor
	liabilities []accounting.Contributor
}

func NewBase(world *World, id int, kind Kind) Base {
	return Base{id: id, kind: kind, world: world}
}

func (b *Base) AgentID() int { return b.id }

func (b *Base) Kind() Kind { return b.kind }

func (b *Base) Describe() string {
	return fmt.Sprintf("%s %d", b.kind, b.id)
}

func (b *Base) IsBank() bool { return b.kind.IsBank() }

func (b *Base) IsCommercial() bool { return b.kind.IsCommercial() }

func (b *Base) IsCentral() bool { return b.kind.IsCentral() }

func (b *Base) registerAsset(c accounting.Contributor) {
	b.assets = append(b.assets, c)
}

func (b *Base) registerLiability(c accounting.Contributor) {
	b.liabilities = append(b.liabilities, c)
}

// Assets reports the agent's asset lines, skipping positions against
// excluded counterparties.
func (b *Base) Assets(except accounting.Exclusion) []accounting.Contribution {
	return collect(b.assets, except)
}

// Liabilities reports the agent's liability lines.
func (b *Base) Liabilities(except accounting.Exclusion) []accounting.Contribution {
	return collect(b.liabilities, except)
}

// BalanceSheet snapshots the agent.
func (b *Base) BalanceSheet() *accounting.BalanceSheet {
	return accounting.FromOwner(b)
}

func collect(contributors []accounting.Contributor, except accounting.Exclusion) []accounting.Contribution {
	out := make([]accounting.Contribution, len(contributors))
	for i, c := range contributors {
		out[i] = c(except)
	}
	return out
}

// Banker is the settlement interface a deposit-issuing bank exposes to other
// banks and to account holders routing payments.
type Banker interface {
	ledger.Party
	Kind() Kind
	SettlePayment(fromAccount, toAccount int, value float64) error
	Credit(account int, value float64) error
	Debit(account int, value float64) error
	// ReserveAccount is the bank's own account at the central bank; the
	// central bank itself has none.
	ReserveAccount() (int, bool)
}

// AccountHolder is a party eligible to be given a deposit account.
type AccountHolder interface {
	ledger.Party
	Kind() Kind
	HasDepositAccount() bool
	attachDepositAccount(bank Banker, account int)
}

// Payer can push value to a deposit account.
type Payer interface {
	ledger.Party
	Pay(toAccount int, value float64) error
}

// LoanCounterparty is a party a loan can be extended to.
type LoanCounterparty interface {
	ledger.Party
	Kind() Kind
	HasDepositAccount() bool
	DepositAccountNumber() int
}

// Lender is the loan-servicing interface a borrower repays through.
type Lender interface {
	ledger.Party
	OpenLendingAccount(borrower LoanCounterparty) (int, error)
	WriteDownLoan(account int, value float64) error
}

// BondVendor hands over bond units against payment.
type BondVendor interface {
	ledger.Party
	SellBond(buyer market.Trader, price float64, bondID int) error
}

// BondObligor is a bond issuer servicing its outstanding bonds.
type BondObligor interface {
	ledger.Party
	BuyBond(seller BondVendor, price float64, bondID int) error
	CloseBond(bondID int) bool
}

// kindOf resolves a ledger party's role tag where one is available.
func kindOf(p ledger.Party) (Kind, bool) {
	k, ok := p.(interface{ Kind() Kind })
	if !ok {
		return 0, false
	}
	return k.Kind(), true
}
