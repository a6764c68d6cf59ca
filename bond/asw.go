package bond

import (
	"fmt"
	"time"

	"github.com/meenmo/bondlib/curve"
	"github.com/meenmo/bondlib/utils"
)

// ASWSpread computes the par-par asset-swap spread: the fixed spread on a
// par swap that compensates for buying the bond away from par.
//
// The definition is linear in the unknown, so no iteration is needed:
//
//	spread = (100 - dirtyPrice) / annuity
//	annuity = sum( DF(pay_i) * 1/freq )   over remaining coupon dates
func ASWSpread(cfs []Cashflow, dirtyPrice float64, crv curve.Curve, settlement time.Time, freq int) (Spread, error) {
	if freq <= 0 {
		return Spread{}, fmt.Errorf("bond: ASWSpread: frequency must be positive, got %d", freq)
	}

	annuity := 0.0
	future := 0
	for _, cf := range cfs {
		if !cf.Date.After(settlement) {
			continue
		}
		future++
		if cf.Coupon == 0 {
			continue
		}
		t := utils.Days(settlement, cf.Date) / 365
		df, err := crv.DiscountFactor(t)
		if err != nil {
			return Spread{}, fmt.Errorf("bond: discount factor at t=%.4f: %w", t, err)
		}
		annuity += df / float64(freq)
	}
	if future == 0 {
		return Spread{}, ErrSettlementAfterMaturity
	}
	if annuity == 0 {
		return Spread{}, fmt.Errorf("bond: ASWSpread: annuity is zero (no future coupon dates)")
	}

	rate := (100 - dirtyPrice) / 100 / annuity
	return newSpread(rate, SpreadAssetSwap), nil
}
