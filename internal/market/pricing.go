package market

import "math"

// YieldToPrice converts a desired annual yield into a clean price for a single
// bond unit. This is a simplified form of the spreadsheet PRICE() function:
// only whole remaining coupons are counted, with no proportionate handling of
// the current coupon period. Yield and coupon are in percentage points.
//
// The principal compounds annually while the coupon annuity compounds once per
// coupon period. At a zero yield the annuity sum degenerates to the plain
// number of remaining coupons.
func YieldToPrice(settlementDate, maturityDate int, desiredYield, couponRate, faceValue float64, couponFrequency, daysInYear int) float64 {
	yield := desiredYield / 100
	couponValue := (couponRate / 100) * faceValue / float64(couponFrequency)

	yearsToMaturity := float64(maturityDate-settlementDate) / float64(daysInYear)
	principal := faceValue * math.Pow(1+yield, -yearsToMaturity)

	remainingCoupons := math.Ceil(yearsToMaturity * float64(couponFrequency))
	periodYield := yield / float64(couponFrequency)

	var annuity float64
	if periodYield == 0 {
		annuity = remainingCoupons
	} else {
		annuity = (1 - math.Pow(1+periodYield, -remainingCoupons)) / periodYield
	}

	return principal + couponValue*annuity
}
