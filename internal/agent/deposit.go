package agent

import (
	"fmt"
	"math"

	"econsim/internal/accounting"
	"econsim/internal/ledger"
)

// DepositIssuing is the bank-side deposit capability: account issuance,
// payment clearing, and the settlement routing between banks. The label names
// the liability line ("deposits" for commercial banks, "reserves" for the
// central bank).
type DepositIssuing struct {
	owner    *Base
	self     Banker
	reserves *DepositHolding // the bank's own account at the central bank; nil there
	label    string

	depositRate float64
}

func (d *DepositIssuing) initDepositIssuing(owner *Base, self Banker, reserves *DepositHolding, label string) {
	d.owner = owner
	d.self = self
	d.reserves = reserves
	d.label = label
	owner.registerLiability(d.depositLiabilities)
	owner.registerAsset(d.overdraftAssets)
}

func (d *DepositIssuing) DepositRate() float64 { return d.depositRate }

// SetDepositRate applies the new rate to every account the bank issues.
func (d *DepositIssuing) SetDepositRate(rate float64) {
	d.depositRate = rate
	d.owner.world.Deposits.UpdateRateByIssuer(d.self, rate)
}

// OpenDepositAccount issues an account to a holder that does not have one
// yet. Eligibility checks belong to the concrete bank, not here.
func (d *DepositIssuing) OpenDepositAccount(holder AccountHolder, overdraft float64) (int, error) {
	if holder.HasDepositAccount() {
		return 0, fmt.Errorf("%w: agent %d already has a bank account", ledger.ErrValidation, holder.AgentID())
	}
	account, err := d.owner.world.Deposits.Open(d.self, holder, 0, d.depositRate, overdraft)
	if err != nil {
		return 0, err
	}
	holder.attachDepositAccount(d.self, account)
	return account, nil
}

// CloseDepositAccount removes an account the bank issues, reporting whether
// anything was closed.
func (d *DepositIssuing) CloseDepositAccount(account int) bool {
	if !d.Authenticate(account) {
		return false
	}
	return d.owner.world.Deposits.Drop(account)
}

// Authenticate reports whether the bank issues the account.
func (d *DepositIssuing) Authenticate(account int) bool {
	issuer, err := d.owner.world.Deposits.Issuer(account)
	return err == nil && issuer.AgentID() == d.owner.id
}

// ClearPayment checks whether the sending account can cover the value. The
// check runs strictly before any mutation: settlement has no rollback.
func (d *DepositIssuing) ClearPayment(fromAccount, toAccount int, value float64) (bool, error) {
	deposits := d.owner.world.Deposits
	if !deposits.Exists(fromAccount) || !deposits.Exists(toAccount) {
		return false, fmt.Errorf("%w: accounts %d, %d cannot both be identified", ledger.ErrNotFound, fromAccount, toAccount)
	}
	if !d.Authenticate(fromAccount) {
		return false, fmt.Errorf("%w: bank %d does not issue account %d", ErrUnauthorized, d.owner.id, fromAccount)
	}
	available, err := deposits.AvailableFunds(fromAccount)
	if err != nil {
		return false, err
	}
	return available >= value, nil
}

// SettlePayment routes a cleared payment by issuing-bank identity:
//
//  1. both accounts here: a single ledger transfer
//  2. commercial to commercial: debit sender, credit receiver, then settle
//     the reserve leg between the two banks at the central bank
//  3. central to commercial: credit receiver, then settle the source leg
//     onto the receiving bank's reserve account
//  4. commercial to central: debit sender, then settle from this bank's
//     reserve account
//
// Every leg recurses through the same routine until it terminates in a
// same-bank transfer.
func (d *DepositIssuing) SettlePayment(fromAccount, toAccount int, value float64) error {
	ok, err := d.ClearPayment(fromAccount, toAccount, value)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: account %d cannot cover %.2f", ErrInsufficientFunds, fromAccount, value)
	}

	deposits := d.owner.world.Deposits
	toIssuer, err := deposits.Issuer(toAccount)
	if err != nil {
		return err
	}
	toBank, ok := toIssuer.(Banker)
	if !ok {
		return fmt.Errorf("account %d is not issued by a settlement bank", toAccount)
	}

	switch {
	case toBank.AgentID() == d.owner.id:
		return deposits.Transfer(fromAccount, toAccount, value)

	case d.owner.IsCommercial() && toBank.Kind().IsCommercial():
		if err := deposits.Debit(fromAccount, value); err != nil {
			return err
		}
		if err := toBank.Credit(toAccount, value); err != nil {
			return err
		}
		reserveTo, ok := toBank.ReserveAccount()
		if !ok {
			return fmt.Errorf("bank %d has no reserve account for settlement", toBank.AgentID())
		}
		return d.reserves.Pay(reserveTo, value)

	case d.owner.IsCentral() && toBank.Kind().IsCommercial():
		if err := toBank.Credit(toAccount, value); err != nil {
			return err
		}
		reserveTo, ok := toBank.ReserveAccount()
		if !ok {
			return fmt.Errorf("bank %d has no reserve account for settlement", toBank.AgentID())
		}
		return d.SettlePayment(fromAccount, reserveTo, value)

	case d.owner.IsCommercial() && toBank.Kind().IsCentral():
		if err := deposits.Debit(fromAccount, value); err != nil {
			return err
		}
		return toBank.SettlePayment(d.reserves.DepositAccountNumber(), toAccount, value)
	}

	return fmt.Errorf("no settlement route from bank %d to bank %d", d.owner.id, toBank.AgentID())
}

// Credit marks up an account the bank issues.
func (d *DepositIssuing) Credit(account int, value float64) error {
	if !d.Authenticate(account) {
		return fmt.Errorf("%w: bank %d does not issue account %d", ErrUnauthorized, d.owner.id, account)
	}
	return d.owner.world.Deposits.Credit(account, value)
}

// Debit marks down an account the bank issues. Overdraft policy is checked
// by ClearPayment, not here.
func (d *DepositIssuing) Debit(account int, value float64) error {
	if !d.Authenticate(account) {
		return fmt.Errorf("%w: bank %d does not issue account %d", ErrUnauthorized, d.owner.id, account)
	}
	return d.owner.world.Deposits.Debit(account, value)
}

// PayInterest accrues one day of deposit interest on every issued account.
func (d *DepositIssuing) PayInterest() {
	d.owner.world.Deposits.ApplyDailyInterest(d.self)
}

func (d *DepositIssuing) depositLiabilities(except accounting.Exclusion) accounting.Contribution {
	var total float64
	d.eachIssuedAccount(except, func(acct *ledger.DepositAccount) {
		if acct.Value >= 0 {
			total += acct.Value
		}
	})
	return accounting.Contribution{Label: d.label, Value: total}
}

func (d *DepositIssuing) overdraftAssets(except accounting.Exclusion) accounting.Contribution {
	var total float64
	d.eachIssuedAccount(except, func(acct *ledger.DepositAccount) {
		if acct.Value < 0 {
			total += math.Abs(acct.Value)
		}
	})
	return accounting.Contribution{Label: "overdrafts", Value: total}
}

func (d *DepositIssuing) eachIssuedAccount(except accounting.Exclusion, visit func(*ledger.DepositAccount)) {
	deposits := d.owner.world.Deposits
	for _, id := range deposits.ByIssuer(d.self) {
		acct, err := deposits.Get(id)
		if err != nil || except.Excludes(acct.Holder.AgentID()) {
			continue
		}
		visit(acct)
	}
}

// DepositHolding is the customer-side deposit capability. The label names
// the asset line ("deposit" for customers, "reserves" for banks and the
// government holding balances at the central bank).
type DepositHolding struct {
	owner *Base
	label string

	bank    Banker
	account int
	open    bool
}

func (h *DepositHolding) initDepositHolding(owner *Base, label string) {
	h.owner = owner
	h.label = label
	owner.registerAsset(h.depositAsset)
	owner.registerLiability(h.overdraftLiability)
}

func (h *DepositHolding) attachDepositAccount(bank Banker, account int) {
	h.bank = bank
	h.account = account
	h.open = true
}

func (h *DepositHolding) HasDepositAccount() bool { return h.open }

func (h *DepositHolding) DepositAccountNumber() int { return h.account }

// Bank is the issuing bank, nil before an account is opened.
func (h *DepositHolding) Bank() Banker { return h.bank }

func (h *DepositHolding) DepositBalance() float64 {
	if !h.open {
		return 0
	}
	balance, err := h.owner.world.Deposits.Balance(h.account)
	if err != nil {
		return 0
	}
	return balance
}

func (h *DepositHolding) AgreedOverdraft() float64 {
	if !h.open {
		return 0
	}
	acct, err := h.owner.world.Deposits.Get(h.account)
	if err != nil {
		return 0
	}
	return acct.Overdraft
}

func (h *DepositHolding) AvailableFunds() float64 {
	return h.DepositBalance() + h.AgreedOverdraft()
}

// HasAvailableFunds reports whether the value is strictly within available
// funds.
func (h *DepositHolding) HasAvailableFunds(value float64) bool {
	return value < h.AvailableFunds()
}

// Pay settles a payment from this account through the issuing bank.
func (h *DepositHolding) Pay(toAccount int, value float64) error {
	if !h.open {
		return fmt.Errorf("%w: agent %d has no deposit account to pay from", ErrUnauthorized, h.owner.id)
	}
	return h.bank.SettlePayment(h.account, toAccount, value)
}

func (h *DepositHolding) depositAsset(except accounting.Exclusion) accounting.Contribution {
	balance := h.DepositBalance()
	if balance <= 0 || (h.bank != nil && except.Excludes(h.bank.AgentID())) {
		balance = 0
	}
	return accounting.Contribution{Label: h.label, Value: balance}
}

func (h *DepositHolding) overdraftLiability(except accounting.Exclusion) accounting.Contribution {
	balance := h.DepositBalance()
	if balance >= 0 || (h.bank != nil && except.Excludes(h.bank.AgentID())) {
		return accounting.Contribution{Label: "overdraft", Value: 0}
	}
	return accounting.Contribution{Label: "overdraft", Value: math.Abs(balance)}
}
