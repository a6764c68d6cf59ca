package bond

import (
	"time"

	"github.com/meenmo/bondlib/curve"
)

// Sensitivities are central differences of the closed-form pricers at
// bumped inputs. They never differentiate a solver.

const spreadBumpBP = 1.0

// DefaultCurveShiftBP is the parallel shift used by the effective duration
// and convexity measures when the caller passes a non-positive shift.
const DefaultCurveShiftBP = 10.0

// SpreadDV01 is the dirty-price change (per 100 face) for a 1 bp drop in
// the bond's Z-spread.
func SpreadDV01(cfs []Cashflow, z Spread, crv curve.Curve, settlement time.Time) (float64, error) {
	bump := spreadBumpBP / 1e4
	up, err := PriceWithZSpread(cfs, z.Rate()+bump, crv, settlement)
	if err != nil {
		return 0, err
	}
	down, err := PriceWithZSpread(cfs, z.Rate()-bump, crv, settlement)
	if err != nil {
		return 0, err
	}
	return (down - up) / 2, nil
}

// SpreadDuration is the percentage price sensitivity to the Z-spread, in
// years.
func SpreadDuration(cfs []Cashflow, z Spread, crv curve.Curve, settlement time.Time) (float64, error) {
	base, err := PriceWithZSpread(cfs, z.Rate(), crv, settlement)
	if err != nil {
		return 0, err
	}
	dv01, err := SpreadDV01(cfs, z, crv, settlement)
	if err != nil {
		return 0, err
	}
	return dv01 / base * 1e4, nil
}

// EffectiveDuration is the percentage price sensitivity to a parallel
// curve shift of shiftBP basis points, holding the Z-spread fixed. A
// non-positive shiftBP uses DefaultCurveShiftBP.
func EffectiveDuration(cfs []Cashflow, z Spread, crv curve.Curve, settlement time.Time, shiftBP float64) (float64, error) {
	if shiftBP <= 0 {
		shiftBP = DefaultCurveShiftBP
	}
	base, up, down, err := shiftedPrices(cfs, z, crv, settlement, shiftBP)
	if err != nil {
		return 0, err
	}
	shift := shiftBP / 1e4
	return (down - up) / (2 * base * shift), nil
}

// EffectiveConvexity is the second-order analogue of EffectiveDuration.
func EffectiveConvexity(cfs []Cashflow, z Spread, crv curve.Curve, settlement time.Time, shiftBP float64) (float64, error) {
	if shiftBP <= 0 {
		shiftBP = DefaultCurveShiftBP
	}
	base, up, down, err := shiftedPrices(cfs, z, crv, settlement, shiftBP)
	if err != nil {
		return 0, err
	}
	shift := shiftBP / 1e4
	return (up + down - 2*base) / (base * shift * shift), nil
}

func shiftedPrices(cfs []Cashflow, z Spread, crv curve.Curve, settlement time.Time, shiftBP float64) (base, up, down float64, err error) {
	base, err = PriceWithZSpread(cfs, z.Rate(), crv, settlement)
	if err != nil {
		return 0, 0, 0, err
	}
	up, err = PriceWithZSpread(cfs, z.Rate(), curve.ParallelShift(crv, shiftBP), settlement)
	if err != nil {
		return 0, 0, 0, err
	}
	down, err = PriceWithZSpread(cfs, z.Rate(), curve.ParallelShift(crv, -shiftBP), settlement)
	if err != nil {
		return 0, 0, 0, err
	}
	return base, up, down, nil
}
