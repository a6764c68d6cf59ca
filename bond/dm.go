package bond

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/bondlib/curve"
	"github.com/meenmo/bondlib/solver"
	"github.com/meenmo/bondlib/utils"
)

// CouponPeriod is one accrual period of a floating-rate note.
type CouponPeriod struct {
	Start time.Time
	End   time.Time
	Pay   time.Time
}

// FloatingRateNote describes a floater for discount-margin solving. Coupons
// are projected from the curve's forward rates plus the quoted spread, then
// capped and floored.
type FloatingRateNote struct {
	Periods    []CouponPeriod
	Redemption float64

	// QuotedSpread is the contractual margin over the index, decimal.
	QuotedSpread float64

	Cap      float64
	Floor    float64
	HasCap   bool
	HasFloor bool
}

// DiscountMargin solves for the margin dm such that the projected flows,
// discounted by DF(t)*exp(-dm*t), reprice to the dirty price.
func DiscountMargin(frn FloatingRateNote, dirtyPrice float64, crv curve.Curve, settlement time.Time, cfg solver.Config) (Spread, error) {
	if frn.Redemption <= 0 {
		return Spread{}, fmt.Errorf("bond: DiscountMargin: redemption must be positive, got %g", frn.Redemption)
	}

	type projected struct {
		t      float64
		amount float64
		df     float64
	}

	flows := make([]projected, 0, len(frn.Periods))
	lastPay := -1
	for i, p := range frn.Periods {
		if !p.Pay.After(settlement) {
			continue
		}

		tStart := math.Max(0, utils.Days(settlement, p.Start)/365)
		tEnd := utils.Days(settlement, p.End) / 365
		tPay := utils.Days(settlement, p.Pay) / 365
		if tEnd <= tStart {
			return Spread{}, fmt.Errorf("bond: DiscountMargin: period %d has non-positive accrual", i)
		}

		fwd, err := crv.ForwardRate(tStart, tEnd)
		if err != nil {
			return Spread{}, fmt.Errorf("bond: forward rate for period %d: %w", i, err)
		}

		rate := fwd + frn.QuotedSpread
		if frn.HasCap && rate > frn.Cap {
			rate = frn.Cap
		}
		if frn.HasFloor && rate < frn.Floor {
			rate = frn.Floor
		}

		df, err := crv.DiscountFactor(tPay)
		if err != nil {
			return Spread{}, fmt.Errorf("bond: discount factor at t=%.4f: %w", tPay, err)
		}

		flows = append(flows, projected{
			t:      tPay,
			amount: rate * (tEnd - tStart) * frn.Redemption,
			df:     df,
		})
		lastPay = len(flows) - 1
	}
	if len(flows) == 0 {
		return Spread{}, ErrSettlementAfterMaturity
	}
	flows[lastPay].amount += frn.Redemption

	f := func(dm float64) float64 {
		pv := 0.0
		for _, fl := range flows {
			pv += fl.amount * fl.df * math.Exp(-dm*fl.t)
		}
		return pv - dirtyPrice
	}

	res, err := solver.Brent(f, spreadBracketLo, spreadBracketHi, cfg)
	if err != nil {
		return Spread{}, fmt.Errorf("bond: discount margin solve: %w", err)
	}
	return newSpread(res.Root, SpreadDiscountMargin), nil
}
