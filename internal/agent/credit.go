package agent

import (
	"fmt"

	"econsim/internal/accounting"
	"econsim/internal/ledger"
	"econsim/internal/market"
)

// Lending is the creditor capability. Banks lending to non-banks expand
// both balance sheets: the loan is extended and the borrower's deposit is
// credited with newly created money. Any other lender must fund the loan out
// of its own deposits.
type Lending struct {
	owner   *Base
	self    Lender
	issuing *DepositIssuing // nil for non-bank lenders
	holding *DepositHolding // nil at the central bank

	loanRate            float64
	defaultMaturityDays int
}

func (l *Lending) initLending(owner *Base, self Lender, issuing *DepositIssuing, holding *DepositHolding) {
	l.owner = owner
	l.self = self
	l.issuing = issuing
	l.holding = holding
	l.defaultMaturityDays = owner.world.Calendar.DaysInYear()
	owner.registerAsset(l.loanAssets)
}

func (l *Lending) LoanRate() float64 { return l.loanRate }

// SetLoanRate applies the new rate to every outstanding loan the lender
// holds.
func (l *Lending) SetLoanRate(rate float64) {
	l.loanRate = rate
	l.owner.world.Loans.UpdateRateByLender(l.self, rate)
}

func (l *Lending) SetDefaultLoanMaturityDays(days int) {
	l.defaultMaturityDays = days
}

// OpenLendingAccount creates a zero-balance loan account with the borrower,
// or returns the existing one. The borrower must already bank somewhere for
// the loan to be disbursed into.
func (l *Lending) OpenLendingAccount(borrower LoanCounterparty) (int, error) {
	if !borrower.HasDepositAccount() {
		return 0, fmt.Errorf("%w: borrower %d has no deposit account", ErrIneligible, borrower.AgentID())
	}
	if account, ok := l.LendingAccountWith(borrower); ok {
		return account, nil
	}
	return l.owner.world.Loans.Open(borrower, l.self, 0, l.owner.world.Calendar.Day(), ledger.NeverMatures, l.loanRate)
}

func (l *Lending) HasLendingAccountWith(borrower ledger.Party) bool {
	_, ok := l.LendingAccountWith(borrower)
	return ok
}

// LendingAccountWith returns the loan account between this lender and the
// borrower, if one exists.
func (l *Lending) LendingAccountWith(borrower ledger.Party) (int, bool) {
	loans := l.owner.world.Loans
	for _, id := range loans.ByHolder(l.self) {
		loan, err := loans.Get(id)
		if err == nil && loan.Issuer.AgentID() == borrower.AgentID() {
			return id, true
		}
	}
	return 0, false
}

// GrantLoanToBorrower disburses against the existing loan account with the
// borrower, into the borrower's deposit account.
func (l *Lending) GrantLoanToBorrower(borrower LoanCounterparty, value, interestRate float64, maturityDays int) error {
	account, ok := l.LendingAccountWith(borrower)
	if !ok {
		return fmt.Errorf("%w: no lending account with borrower %d", ledger.ErrNotFound, borrower.AgentID())
	}
	return l.GrantLoan(account, borrower.DepositAccountNumber(), value, interestRate, maturityDays)
}

// GrantLoan extends the loan account by value and disburses it into the
// deposit account. maturityDays <= 0 selects the lender's default term.
func (l *Lending) GrantLoan(loanAccount, depositAccount int, value, interestRate float64, maturityDays int) error {
	if maturityDays <= 0 {
		maturityDays = l.defaultMaturityDays
	}

	loans := l.owner.world.Loans
	loan, err := loans.Get(loanAccount)
	if err != nil {
		return err
	}
	if loan.Holder.AgentID() != l.owner.id {
		return fmt.Errorf("%w: lender %d does not hold loan account %d", ErrUnauthorized, l.owner.id, loanAccount)
	}

	borrowerKind, _ := kindOf(loan.Issuer)
	if l.owner.IsCentral() || (l.owner.IsCommercial() && !borrowerKind.IsBank()) {
		// Bank lending creates the deposit it disburses.
		if l.issuing == nil || !l.issuing.Authenticate(depositAccount) {
			return fmt.Errorf("%w: deposit account %d is not held at the lending bank", ErrUnauthorized, depositAccount)
		}
		if err := loans.Extend(loanAccount, value, interestRate, maturityDays); err != nil {
			return err
		}
		return l.issuing.Credit(depositAccount, value)
	}

	// Peer lending transfers existing deposits, so the lender needs funds.
	if l.holding == nil || !l.holding.HasDepositAccount() {
		return fmt.Errorf("%w: lender %d has no deposits to fund the loan", ErrInsufficientFunds, l.owner.id)
	}
	if err := l.holding.Pay(depositAccount, value); err != nil {
		return err
	}
	return loans.Extend(loanAccount, value, interestRate, maturityDays)
}

// GrantOvernight opens a lending account with the borrower if needed and
// extends a one-day loan. Interbank matching settles through here.
func (l *Lending) GrantOvernight(borrower market.Trader, amount, rate float64) error {
	counterparty, ok := borrower.(LoanCounterparty)
	if !ok {
		return fmt.Errorf("%w: agent %d cannot borrow", ErrIneligible, borrower.AgentID())
	}
	if _, err := l.OpenLendingAccount(counterparty); err != nil {
		return err
	}
	return l.GrantLoanToBorrower(counterparty, amount, rate, 1)
}

// WriteDownLoan reduces a held loan, typically on repayment.
func (l *Lending) WriteDownLoan(account int, value float64) error {
	loans := l.owner.world.Loans
	loan, err := loans.Get(account)
	if err != nil {
		return err
	}
	if loan.Holder.AgentID() != l.owner.id {
		return fmt.Errorf("%w: lender %d does not hold loan account %d", ErrUnauthorized, l.owner.id, account)
	}
	return loans.WriteDown(account, value)
}

func (l *Lending) loanAssets(except accounting.Exclusion) accounting.Contribution {
	loans := l.owner.world.Loans
	var total float64
	for _, id := range loans.ByHolder(l.self) {
		loan, err := loans.Get(id)
		if err != nil || except.Excludes(loan.Issuer.AgentID()) {
			continue
		}
		total += loan.Value
	}
	return accounting.Contribution{Label: "loans", Value: total}
}

// Borrowing is the debtor capability.
type Borrowing struct {
	owner   *Base
	self    LoanCounterparty
	holding *DepositHolding
}

func (b *Borrowing) initBorrowing(owner *Base, self LoanCounterparty, holding *DepositHolding) {
	b.owner = owner
	b.self = self
	b.holding = holding
	owner.registerLiability(b.loanLiabilities)
}

// OpenBorrowingAccount asks the lender for a loan account.
func (b *Borrowing) OpenBorrowingAccount(lender Lender) (int, error) {
	return lender.OpenLendingAccount(b.self)
}

func (b *Borrowing) HasBorrowingAccountWith(lender ledger.Party) bool {
	_, ok := b.BorrowingAccountWith(lender)
	return ok
}

func (b *Borrowing) BorrowingAccountWith(lender ledger.Party) (int, bool) {
	loans := b.owner.world.Loans
	for _, id := range loans.ByIssuer(b.self) {
		loan, err := loans.Get(id)
		if err == nil && loan.Holder.AgentID() == lender.AgentID() {
			return id, true
		}
	}
	return 0, false
}

func (b *Borrowing) LoanBalance(account int) (float64, error) {
	loan, err := b.owner.world.Loans.Get(account)
	if err != nil {
		return 0, err
	}
	return loan.Value, nil
}

// LoanBalanceWith is the outstanding balance owed to the lender, zero when
// no account exists.
func (b *Borrowing) LoanBalanceWith(lender ledger.Party) float64 {
	account, ok := b.BorrowingAccountWith(lender)
	if !ok {
		return 0
	}
	balance, err := b.LoanBalance(account)
	if err != nil {
		return 0
	}
	return balance
}

// MakeLoanRepayment repays value against the loan account, clamped to the
// outstanding balance. A loan held by a bank is repaid by debiting the
// borrower's deposit; a peer loan is repaid by paying into the lender's
// deposit account. The written-down claim mirrors the money movement.
func (b *Borrowing) MakeLoanRepayment(account int, value float64) error {
	loans := b.owner.world.Loans
	loan, err := loans.Get(account)
	if err != nil {
		return err
	}
	if loan.Issuer.AgentID() != b.owner.id {
		return fmt.Errorf("%w: agent %d did not issue loan account %d", ErrUnauthorized, b.owner.id, account)
	}

	if loan.Value < value {
		value = loan.Value
	}
	if !b.holding.HasAvailableFunds(value) {
		return fmt.Errorf("%w: agent %d cannot cover repayment of %.2f", ErrInsufficientFunds, b.owner.id, value)
	}

	lender, ok := loan.Holder.(Lender)
	if !ok {
		return fmt.Errorf("loan account %d holder cannot process repayments", account)
	}

	holderKind, _ := kindOf(loan.Holder)
	switch {
	case holderKind.IsBank():
		if err := b.holding.Bank().Debit(b.holding.DepositAccountNumber(), value); err != nil {
			return err
		}
	default:
		counterparty, ok := loan.Holder.(LoanCounterparty)
		if !ok || !counterparty.HasDepositAccount() {
			return fmt.Errorf("%w: lender %d has no deposit account to repay into", ErrIneligible, loan.Holder.AgentID())
		}
		if err := b.holding.Pay(counterparty.DepositAccountNumber(), value); err != nil {
			return err
		}
	}

	return lender.WriteDownLoan(account, value)
}

func (b *Borrowing) loanLiabilities(except accounting.Exclusion) accounting.Contribution {
	loans := b.owner.world.Loans
	var total float64
	for _, id := range loans.ByIssuer(b.self) {
		loan, err := loans.Get(id)
		if err != nil || except.Excludes(loan.Holder.AgentID()) {
			continue
		}
		total += loan.Value
	}
	return accounting.Contribution{Label: "loans", Value: total}
}
