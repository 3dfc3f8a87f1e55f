package ledger

import (
	"fmt"
	"math"
)

// BondFaceValue is the face value of a single discrete bond unit. Bulk
// issuance is always broken into units of this size.
const BondFaceValue = 100.0

// NoCouponDate marks a bond that pays no coupons (a bill).
const NoCouponDate = -1

// Pricer present-values a bond at a desired yield. Implemented by
// market.BondExchange.
type Pricer interface {
	YieldToPrice(settlementDate, maturityDate int, desiredYield, couponRate, faceValue float64, couponFrequency, daysInYear int) float64
}

// RateProvider supplies the policy rate used as the discount yield when
// marking bonds to market. Implemented by the central bank.
type RateProvider interface {
	DepositRate() float64
}

// Bond is one discrete unit of fixed face value. Issuer and holder are
// tracked separately: the issuer keeps the liability even after selling.
type Bond struct {
	Claim
	IssueDate           int
	MaturityDate        int
	MaturityDays        int
	DaysToMaturity      int
	OutstandingCoupons  int
	NextCouponDate      int
	MarkToMarketValue   float64
	HoldToMaturityValue float64
}

// BondLedger tracks government and firm bonds. Maturities below 0.75 years
// are bills: zero coupon, dated from the start of the current month, and
// restricted to 1, 3 or 6 months. Longer maturities round up to whole years
// pinned to calendar year starts, so bonds issued at different times within a
// year converge on identical maturity dates.
type BondLedger struct {
	*Table[Bond]
	cal             Calendar
	pricer          Pricer
	rates           RateProvider
	couponFrequency int
}

func NewBondLedger(cal Calendar, pricer Pricer, rates RateProvider, annualCouponFrequency int) *BondLedger {
	if annualCouponFrequency < 1 {
		annualCouponFrequency = 1
	}
	return &BondLedger{
		Table:           NewTable(func(b *Bond) *Claim { return &b.Claim }),
		cal:             cal,
		pricer:          pricer,
		rates:           rates,
		couponFrequency: annualCouponFrequency,
	}
}

func (l *BondLedger) CouponFrequency() int {
	return l.couponFrequency
}

func (l *BondLedger) CouponIntervalDays() int {
	return l.cal.DaysInYear() / l.couponFrequency
}

// Create issues a single bond unit held by its issuer and returns the new id.
// Bills have the requested rate forced to zero.
func (l *BondLedger) Create(issuer Party, interestRate, maturityYears float64) (int, error) {
	if issuer == nil {
		return 0, fmt.Errorf("%w: bond requires an issuer", ErrValidation)
	}

	daysInYear := l.cal.DaysInYear()
	var (
		issueDate, maturityDays        int
		outstandingCoupons, nextCoupon int
	)

	if maturityYears < 0.75 {
		// Treasury bill
		interestRate = 0
		issueDate = l.cal.StartOfThisMonth()
		if maturityYears != 1.0/12.0 && maturityYears != 0.25 && maturityYears != 0.5 {
			return 0, fmt.Errorf("%w: bond maturity must be a whole number of years or 1/2, 1/4 or 1/12 years", ErrValidation)
		}
		maturityDays = int(math.Ceil(maturityYears * float64(daysInYear)))
		nextCoupon = NoCouponDate
	} else {
		issueDate = l.cal.StartOfThisYear()
		maturityDays = int(math.Ceil(maturityYears)) * daysInYear
	}

	maturityDate := issueDate + maturityDays
	daysToMaturity := maturityDate - l.cal.Day()

	if maturityYears >= 0.75 {
		interval := l.CouponIntervalDays()
		outstandingCoupons = int(math.Ceil(float64(daysToMaturity) / float64(interval)))
		nextCoupon = maturityDate - (outstandingCoupons-1)*interval
	}

	markToMarket := l.pricer.YieldToPrice(
		l.cal.Day(), maturityDate,
		l.rates.DepositRate(), interestRate,
		BondFaceValue, l.couponFrequency, daysInYear,
	)
	holdToMaturity := BondFaceValue + BondFaceValue*((interestRate/100.0)/float64(l.couponFrequency))*float64(outstandingCoupons)

	return l.Table.Create(&Bond{
		Claim: Claim{
			Issuer:       issuer,
			Holder:       issuer,
			Value:        BondFaceValue,
			InterestRate: interestRate,
		},
		IssueDate:           issueDate,
		MaturityDate:        maturityDate,
		MaturityDays:        maturityDays,
		DaysToMaturity:      daysToMaturity,
		OutstandingCoupons:  outstandingCoupons,
		NextCouponDate:      nextCoupon,
		MarkToMarketValue:   markToMarket,
		HoldToMaturityValue: holdToMaturity,
	})
}

// CreateBulkValue issues enough whole bond units to cover bulkValue and
// returns their ids.
func (l *BondLedger) CreateBulkValue(issuer Party, bulkValue, interestRate, maturityYears float64) ([]int, error) {
	n := int(math.Ceil(bulkValue / BondFaceValue))
	ids := make([]int, 0, n)
	for i := 0; i < n; i++ {
		id, err := l.Create(issuer, interestRate, maturityYears)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Transfer reassigns ownership. Transferring to the current holder signals a
// caller bug and is rejected.
func (l *BondLedger) Transfer(id int, newHolder Party) error {
	bond, err := l.Get(id)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if samePartyID(bond.Holder, newHolder) {
		return fmt.Errorf("%w: bond %d already owned by new holder", ErrValidation, id)
	}
	bond.Holder = newHolder
	return nil
}

// Close removes a bond, but only when it is self-owned. Non-closable and
// missing ids report false so rollover loops can probe freely.
func (l *BondLedger) Close(id int) bool {
	bond, err := l.Get(id)
	if err != nil {
		return false
	}
	if !samePartyID(bond.Holder, bond.Issuer) {
		return false
	}
	return l.Drop(id)
}

// Recalculate refreshes days-to-maturity, coupon schedules and both valuation
// fields for every outstanding bond relative to the current day. The
// scheduler runs it once per simulated day.
func (l *BondLedger) Recalculate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	day := l.cal.Day()
	daysInYear := l.cal.DaysInYear()
	interval := l.CouponIntervalDays()
	yield := l.rates.DepositRate()

	for _, id := range l.order {
		bond := l.rows[id]
		bond.DaysToMaturity = bond.MaturityDate - day
		if bond.MaturityDays < daysInYear {
			bond.OutstandingCoupons = 0
			bond.NextCouponDate = NoCouponDate
		} else {
			bond.OutstandingCoupons = int(math.Ceil(float64(bond.DaysToMaturity) / float64(interval)))
			bond.NextCouponDate = bond.MaturityDate - (bond.OutstandingCoupons-1)*interval
		}
		bond.MarkToMarketValue = l.pricer.YieldToPrice(
			day, bond.MaturityDate,
			yield, bond.InterestRate,
			bond.Value, l.couponFrequency, daysInYear,
		)
		bond.HoldToMaturityValue = bond.Value + bond.Value*((bond.InterestRate/100.0)/float64(l.couponFrequency))*float64(bond.OutstandingCoupons)
	}
}

// CouponDue reports whether date falls on the uniform coupon calendar. The
// calendar is global, not anchored per bond series; NextCouponDate is
// per-series. Both schedules are intentionally kept as found in the source
// model.
func (l *BondLedger) CouponDue(date int) bool {
	if l.Len() == 0 {
		return false
	}
	return date%(l.cal.DaysInYear()/l.couponFrequency) == 0
}

// BondsMaturing returns the ids of bonds maturing exactly on date.
func (l *BondLedger) BondsMaturing(date int) []int {
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

// HeldBonds returns, in ledger order, the ids of bonds of the given series
// owned by the holder. Bond markets use it to resolve which discrete units
// change hands in a trade.
func (l *BondLedger) HeldBonds(holderID, maturityDate int, couponRate float64) []int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []int
	for _, id := range l.order {
		bond := l.rows[id]
		if bond.Holder != nil && bond.Holder.AgentID() == holderID &&
			bond.MaturityDate == maturityDate && bond.InterestRate == couponRate {
			out = append(out, id)
		}
	}
	return out
}
