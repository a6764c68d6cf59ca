package bond

import "fmt"

// Closed-form money-market and quick-quote yields. All rates are annual
// decimals; prices and coupons are per 100 face.

// CurrentYield is annual coupon income over clean price.
func CurrentYield(annualCoupon, cleanPrice float64) (float64, error) {
	if cleanPrice <= 0 {
		return 0, fmt.Errorf("bond: CurrentYield: clean price must be positive, got %g", cleanPrice)
	}
	return annualCoupon / cleanPrice, nil
}

// SimpleYield adds the straight-line pull to redemption to the current
// yield (the Japanese simple-yield convention).
func SimpleYield(annualCoupon, cleanPrice, redemption, yearsToMaturity float64) (float64, error) {
	if cleanPrice <= 0 {
		return 0, fmt.Errorf("bond: SimpleYield: clean price must be positive, got %g", cleanPrice)
	}
	if yearsToMaturity <= 0 {
		return 0, fmt.Errorf("bond: SimpleYield: years to maturity must be positive, got %g", yearsToMaturity)
	}
	return (annualCoupon + (redemption-cleanPrice)/yearsToMaturity) / cleanPrice, nil
}

// DiscountYield is the bank-discount quote for a bill: the discount off
// face, annualized on a 360-day year.
func DiscountYield(price, face float64, daysToMaturity int) (float64, error) {
	if face <= 0 || daysToMaturity <= 0 {
		return 0, fmt.Errorf("bond: DiscountYield: face and days must be positive")
	}
	return (face - price) / face * 360 / float64(daysToMaturity), nil
}

// BondEquivalentYield restates a discount instrument's return on its price
// over a 365-day year, making it comparable to coupon yields.
func BondEquivalentYield(price, face float64, daysToMaturity int) (float64, error) {
	if price <= 0 || daysToMaturity <= 0 {
		return 0, fmt.Errorf("bond: BondEquivalentYield: price and days must be positive")
	}
	return (face - price) / price * 365 / float64(daysToMaturity), nil
}
