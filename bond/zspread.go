package bond

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/meenmo/bondlib/curve"
	"github.com/meenmo/bondlib/solver"
	"github.com/meenmo/bondlib/utils"
)

// ErrSettlementAfterMaturity means every flow matures on or before the
// settlement date.
var ErrSettlementAfterMaturity = errors.New("bond: settlement on or after maturity")

// Spread solves run over a single wide bracket: -500 bp to +2000 bp,
// continuously compounded.
const (
	spreadBracketLo = -0.05
	spreadBracketHi = 0.20
)

// discountedFlow is a future flow with its time in years and the curve's
// discount factor, both fixed before the spread iteration starts.
type discountedFlow struct {
	t      float64
	amount float64
	df     float64
}

// spreadFlows computes t and DF for every flow after settlement. Times use
// a flat 365-day year: the Z-spread definition deliberately ignores the
// bond's own day count.
func spreadFlows(cfs []Cashflow, crv curve.Curve, settlement time.Time) ([]discountedFlow, error) {
	flows := make([]discountedFlow, 0, len(cfs))
	for _, cf := range cfs {
		if !cf.Date.After(settlement) {
			continue
		}
		t := utils.Days(settlement, cf.Date) / 365
		df, err := crv.DiscountFactor(t)
		if err != nil {
			return nil, fmt.Errorf("bond: discount factor at t=%.4f: %w", t, err)
		}
		flows = append(flows, discountedFlow{t: t, amount: cf.Amount(), df: df})
	}
	if len(flows) == 0 {
		return nil, ErrSettlementAfterMaturity
	}
	return flows, nil
}

// ZSpread finds the constant continuously-compounded spread z over the
// curve that reprices the flows to the dirty price:
//
//	sum( amount * DF(t) * exp(-z*t) ) = dirtyPrice
func ZSpread(cfs []Cashflow, dirtyPrice float64, crv curve.Curve, settlement time.Time, cfg solver.Config) (Spread, error) {
	flows, err := spreadFlows(cfs, crv, settlement)
	if err != nil {
		return Spread{}, err
	}

	f := func(z float64) float64 {
		return pvWithSpread(flows, z) - dirtyPrice
	}

	res, err := solver.Brent(f, spreadBracketLo, spreadBracketHi, cfg)
	if err != nil {
		return Spread{}, fmt.Errorf("bond: z-spread solve: %w", err)
	}
	return newSpread(res.Root, SpreadZ), nil
}

// PriceWithZSpread is the closed-form inverse of ZSpread: the dirty price
// implied by a given spread. The sensitivity measures evaluate it at
// bumped spreads instead of re-solving.
func PriceWithZSpread(cfs []Cashflow, z float64, crv curve.Curve, settlement time.Time) (float64, error) {
	flows, err := spreadFlows(cfs, crv, settlement)
	if err != nil {
		return 0, err
	}
	return pvWithSpread(flows, z), nil
}

func pvWithSpread(flows []discountedFlow, z float64) float64 {
	pv := 0.0
	for _, fl := range flows {
		pv += fl.amount * fl.df * math.Exp(-z*fl.t)
	}
	return pv
}
