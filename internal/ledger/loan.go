package ledger

// Loan is a bilateral claim: the issuer is the borrower, the holder the
// lender. The valuation fields exist for revaluation support and are not
// maintained by the day-to-day operations.
type Loan struct {
	Claim
	IssueDate           int
	MaturityDate        int
	MarkToMarketValue   float64
	HoldToMaturityValue float64
}

type LoanLedger struct {
	*Table[Loan]
	cal Calendar
}

func NewLoanLedger(cal Calendar) *LoanLedger {
	return &LoanLedger{
		Table: NewTable(func(l *Loan) *Claim { return &l.Claim }),
		cal:   cal,
	}
}

// Open creates a loan account between a borrower and a lender.
func (l *LoanLedger) Open(borrower, lender Party, value float64, issueDate, maturityDate int, interestRate float64) (int, error) {
	return l.Create(&Loan{
		Claim: Claim{
			Issuer:       borrower,
			Holder:       lender,
			Value:        value,
			InterestRate: interestRate,
		},
		IssueDate:    issueDate,
		MaturityDate: maturityDate,
	})
}

// Extend increases the loan by value, resets the rate, and pushes maturity to
// maturityDays from today.
func (l *LoanLedger) Extend(id int, value, interestRate float64, maturityDays int) error {
	loan, err := l.Get(id)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	loan.Value += value
	loan.InterestRate = interestRate
	loan.MaturityDate = l.cal.Day() + maturityDays
	return nil
}

// WriteDown reduces the loan by value and makes it inert: zero rate, no
// maturity. The balance may go negative, representing forgiveness beyond the
// outstanding amount; the record stays open until explicitly dropped.
func (l *LoanLedger) WriteDown(id int, value float64) error {
	loan, err := l.Get(id)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	loan.Value -= value
	loan.InterestRate = 0
	loan.MaturityDate = NeverMatures
	return nil
}

// LoansDue returns the ids of loans maturing exactly on date.
func (l *LoanLedger) LoansDue(date int) []int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []int
	for _, id := range l.order {
		if l.rows[id].MaturityDate == date {
			out = append(out, id)
		}
	}
	return out
}

// ApplyDailyInterest compounds one day of interest on every loan, or on the
// loans held by a single lender when one is given.
func (l *LoanLedger) ApplyDailyInterest(lender Party) {
	l.mu.Lock()
	defer l.mu.Unlock()
	daysInYear := float64(l.cal.DaysInYear())
	for _, id := range l.order {
		loan := l.rows[id]
		if lender != nil && !samePartyID(loan.Holder, lender) {
			continue
		}
		loan.Value *= 1 + (loan.InterestRate/100.0)/daysInYear
	}
}

// UpdateRateByLender bulk-sets the rate on every loan held by the lender,
// reporting whether any loan matched.
func (l *LoanLedger) UpdateRateByLender(lender Party, rate float64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	matched := false
	for _, id := range l.order {
		loan := l.rows[id]
		if samePartyID(loan.Holder, lender) {
			loan.InterestRate = rate
			matched = true
		}
	}
	return matched
}
