package ledger

import (
	"fmt"
	"strconv"
	"strings"
)

// DepositAccount is a deposit or overdraft balance issued by a bank to a
// holder. Overdraft is the agreed credit limit below zero.
type DepositAccount struct {
	Claim
	Overdraft float64
}

// DepositLedger performs unconditional balance arithmetic. Overdraft limits
// are policy, not mechanism: the issuing bank checks available funds before
// calling Debit, never the ledger.
type DepositLedger struct {
	*Table[DepositAccount]
	cal Calendar
}

func NewDepositLedger(cal Calendar) *DepositLedger {
	return &DepositLedger{
		Table: NewTable(func(a *DepositAccount) *Claim { return &a.Claim }),
		cal:   cal,
	}
}

// Open creates an account and returns its number.
func (l *DepositLedger) Open(issuer, holder Party, value, interestRate, overdraft float64) (int, error) {
	return l.Create(&DepositAccount{
		Claim: Claim{
			Issuer:       issuer,
			Holder:       holder,
			Value:        value,
			InterestRate: interestRate,
		},
		Overdraft: overdraft,
	})
}

func (l *DepositLedger) Credit(id int, value float64) error {
	acct, err := l.Get(id)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	acct.Value += value
	return nil
}

func (l *DepositLedger) Debit(id int, value float64) error {
	acct, err := l.Get(id)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	acct.Value -= value
	return nil
}

// Transfer moves value between two accounts. When either id is missing the
// error names every invalid id and neither balance changes.
func (l *DepositLedger) Transfer(from, to int, value float64) error {
	var invalid []string
	for _, id := range []int{from, to} {
		if !l.Exists(id) {
			invalid = append(invalid, strconv.Itoa(id))
		}
	}
	if len(invalid) > 0 {
		return fmt.Errorf("%w: account ids %s", ErrNotFound, strings.Join(invalid, ", "))
	}
	if err := l.Debit(from, value); err != nil {
		return err
	}
	return l.Credit(to, value)
}

func (l *DepositLedger) Balance(id int) (float64, error) {
	acct, err := l.Get(id)
	if err != nil {
		return 0, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return acct.Value, nil
}

// AvailableFunds is the balance plus the agreed overdraft.
func (l *DepositLedger) AvailableFunds(id int) (float64, error) {
	acct, err := l.Get(id)
	if err != nil {
		return 0, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return acct.Value + acct.Overdraft, nil
}

// Issuer returns the issuing party of an account.
func (l *DepositLedger) Issuer(id int) (Party, error) {
	acct, err := l.Get(id)
	if err != nil {
		return nil, err
	}
	return acct.Issuer, nil
}

// ApplyDailyInterest compounds one day of interest on every account, or on
// the accounts of a single issuer when one is given. The daily rate is the
// stated annual rate divided evenly across the calendar's day count.
func (l *DepositLedger) ApplyDailyInterest(issuer Party) {
	l.mu.Lock()
	defer l.mu.Unlock()
	daysInYear := float64(l.cal.DaysInYear())
	for _, id := range l.order {
		acct := l.rows[id]
		if issuer != nil && !samePartyID(acct.Issuer, issuer) {
			continue
		}
		acct.Value *= 1 + (acct.InterestRate/100.0)/daysInYear
	}
}

// UpdateRateByIssuer bulk-sets the interest rate on every account issued by
// the party, reporting whether any account matched.
func (l *DepositLedger) UpdateRateByIssuer(issuer Party, rate float64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	matched := false
	for _, id := range l.order {
		acct := l.rows[id]
		if samePartyID(acct.Issuer, issuer) {
			acct.InterestRate = rate
			matched = true
		}
	}
	return matched
}
