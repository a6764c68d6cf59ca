package bond_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/bondlib/bond"
	"github.com/meenmo/bondlib/curve"
	"github.com/meenmo/bondlib/solver"
)

// curvePrice discounts flows on the curve with an extra continuously
// compounded spread, using the flat 365-day year the spread solvers use.
func curvePrice(t *testing.T, cfs []bond.Cashflow, crv curve.Curve, settlement time.Time, spread float64) float64 {
	t.Helper()
	pv := 0.0
	for _, cf := range cfs {
		if !cf.Date.After(settlement) {
			continue
		}
		yrs := cf.Date.Sub(settlement).Hours() / 24 / 365
		df, err := crv.DiscountFactor(yrs)
		require.NoError(t, err)
		pv += cf.Amount() * df * math.Exp(-spread*yrs)
	}
	return pv
}

func TestZSpreadZeroWhenCurvePricesTheBond(t *testing.T) {
	settlement := dt(2024, 3, 1)
	cfs := semiSchedule(dt(2024, 9, 1), 10, 2.0)
	crv := curve.FlatCurve(0.03, 30)

	dirty := curvePrice(t, cfs, crv, settlement, 0)

	sp, err := bond.ZSpread(cfs, dirty, crv, settlement, solver.DefaultConfig)
	require.NoError(t, err)
	bp, _ := sp.BasisPoints.Float64()
	assert.InDelta(t, 0.0, bp, 1.0)
	assert.Equal(t, bond.SpreadZ, sp.Type)
}

func TestZSpreadRecoversKnownSpread(t *testing.T) {
	settlement := dt(2024, 3, 1)
	cfs := semiSchedule(dt(2024, 9, 1), 10, 2.0)
	crv := curve.FlatCurve(0.03, 30)

	dirty := curvePrice(t, cfs, crv, settlement, 0.0150)

	sp, err := bond.ZSpread(cfs, dirty, crv, settlement, solver.DefaultConfig)
	require.NoError(t, err)
	bp, _ := sp.BasisPoints.Float64()
	assert.InDelta(t, 150.0, bp, 0.1)
}

func TestZSpreadErrors(t *testing.T) {
	settlement := dt(2024, 3, 1)
	cfs := semiSchedule(dt(2024, 9, 1), 10, 2.0)

	// Flows beyond the curve's last pillar: the curve error propagates.
	short := curve.FlatCurve(0.03, 1)
	_, err := bond.ZSpread(cfs, 100, short, settlement, solver.DefaultConfig)
	var oor *curve.OutOfRangeError
	require.ErrorAs(t, err, &oor)

	// Nothing left to discount.
	crv := curve.FlatCurve(0.03, 30)
	_, err = bond.ZSpread(cfs, 100, crv, dt(2035, 1, 1), solver.DefaultConfig)
	require.ErrorIs(t, err, bond.ErrSettlementAfterMaturity)
}

func semiFRN(settlement time.Time, periods int, quoted float64) bond.FloatingRateNote {
	frn := bond.FloatingRateNote{
		Redemption:   100,
		QuotedSpread: quoted,
	}
	start := settlement
	for i := 0; i < periods; i++ {
		end := start.AddDate(0, 6, 0)
		frn.Periods = append(frn.Periods, bond.CouponPeriod{Start: start, End: end, Pay: end})
		start = end
	}
	return frn
}

// frnPriceAtMargin discounts the projected flows at a known margin so the
// solver can be checked against its exact inverse.
func frnPriceAtMargin(t *testing.T, frn bond.FloatingRateNote, crv curve.Curve, settlement time.Time, dm float64) float64 {
	t.Helper()
	dirty := 0.0
	for _, p := range frn.Periods {
		t1 := p.Start.Sub(settlement).Hours() / 24 / 365
		t2 := p.End.Sub(settlement).Hours() / 24 / 365
		fwd, err := crv.ForwardRate(math.Max(0, t1), t2)
		require.NoError(t, err)
		df, err := crv.DiscountFactor(t2)
		require.NoError(t, err)
		dirty += (fwd + frn.QuotedSpread) * (t2 - t1) * frn.Redemption * df * math.Exp(-dm*t2)
	}
	last := frn.Periods[len(frn.Periods)-1]
	tEnd := last.Pay.Sub(settlement).Hours() / 24 / 365
	df, err := crv.DiscountFactor(tEnd)
	require.NoError(t, err)
	return dirty + frn.Redemption*df*math.Exp(-dm*tEnd)
}

func TestDiscountMarginRecoversKnownMargin(t *testing.T) {
	settlement := dt(2024, 3, 1)
	crv := curve.FlatCurve(0.04, 30)
	frn := semiFRN(settlement, 8, 0.0080)

	dirty := frnPriceAtMargin(t, frn, crv, settlement, 0.0120)

	sp, err := bond.DiscountMargin(frn, dirty, crv, settlement, solver.DefaultConfig)
	require.NoError(t, err)
	bp, _ := sp.BasisPoints.Float64()
	assert.InDelta(t, 120.0, bp, 0.1)
	assert.Equal(t, bond.SpreadDiscountMargin, sp.Type)
}

func TestDiscountMarginAcrossMargins(t *testing.T) {
	// Steep discounting objectives stress the root finder near the
	// solution; every scan point must solve at the default tolerance.
	settlement := dt(2024, 3, 1)
	crv := curve.FlatCurve(0.04, 30)
	frn := semiFRN(settlement, 8, 0.0080)

	for _, bp := range []float64{80, 100, 120, 137, 150} {
		dm := bp / 1e4
		dirty := frnPriceAtMargin(t, frn, crv, settlement, dm)

		sp, err := bond.DiscountMargin(frn, dirty, crv, settlement, solver.DefaultConfig)
		require.NoError(t, err, "margin %.0f bp", bp)
		got, _ := sp.BasisPoints.Float64()
		assert.InDelta(t, bp, got, 0.05, "margin %.0f bp", bp)
	}
}

func TestDiscountMarginCapBindsCoupons(t *testing.T) {
	settlement := dt(2024, 3, 1)
	crv := curve.FlatCurve(0.05, 30)

	mk := func(hasCap bool) bond.FloatingRateNote {
		frn := bond.FloatingRateNote{
			Redemption:   100,
			QuotedSpread: 0.0050,
			Cap:          0.03,
			HasCap:       hasCap,
		}
		start := settlement
		for i := 0; i < 6; i++ {
			end := start.AddDate(0, 6, 0)
			frn.Periods = append(frn.Periods, bond.CouponPeriod{Start: start, End: end, Pay: end})
			start = end
		}
		return frn
	}

	const dirty = 99.0
	capped, err := bond.DiscountMargin(mk(true), dirty, crv, settlement, solver.DefaultConfig)
	require.NoError(t, err)
	uncapped, err := bond.DiscountMargin(mk(false), dirty, crv, settlement, solver.DefaultConfig)
	require.NoError(t, err)

	// Capped coupons pay less, so the same price implies a lower margin.
	assert.True(t, capped.BasisPoints.LessThan(uncapped.BasisPoints))
}

func TestASWSpreadSign(t *testing.T) {
	settlement := dt(2024, 3, 1)
	cfs := semiSchedule(dt(2024, 9, 1), 10, 2.0)
	crv := curve.FlatCurve(0.03, 30)

	par, err := bond.ASWSpread(cfs, 100.0, crv, settlement, 2)
	require.NoError(t, err)
	assert.True(t, par.BasisPoints.IsZero())

	discount, err := bond.ASWSpread(cfs, 98.0, crv, settlement, 2)
	require.NoError(t, err)
	assert.True(t, discount.BasisPoints.IsPositive())

	premium, err := bond.ASWSpread(cfs, 103.0, crv, settlement, 2)
	require.NoError(t, err)
	assert.True(t, premium.BasisPoints.IsNegative())
	assert.Equal(t, bond.SpreadAssetSwap, premium.Type)
}

func TestASWSpreadClosedForm(t *testing.T) {
	settlement := dt(2024, 3, 1)
	cfs := semiSchedule(dt(2024, 9, 1), 10, 2.0)
	crv := curve.FlatCurve(0.03, 30)

	annuity := 0.0
	for _, cf := range cfs {
		yrs := cf.Date.Sub(settlement).Hours() / 24 / 365
		df, err := crv.DiscountFactor(yrs)
		require.NoError(t, err)
		annuity += df / 2
	}

	const dirty = 97.25
	sp, err := bond.ASWSpread(cfs, dirty, crv, settlement, 2)
	require.NoError(t, err)

	want := (100 - dirty) / 100 / annuity * 1e4
	bp, _ := sp.BasisPoints.Float64()
	assert.InDelta(t, want, bp, 0.01)
}

func TestSpreadRiskMeasures(t *testing.T) {
	settlement := dt(2024, 3, 1)
	cfs := semiSchedule(dt(2024, 9, 1), 10, 2.0)
	crv := curve.FlatCurve(0.03, 30)

	dirty := curvePrice(t, cfs, crv, settlement, 0.0150)
	z, err := bond.ZSpread(cfs, dirty, crv, settlement, solver.DefaultConfig)
	require.NoError(t, err)

	dv01, err := bond.SpreadDV01(cfs, z, crv, settlement)
	require.NoError(t, err)
	assert.Greater(t, dv01, 0.0)

	dur, err := bond.SpreadDuration(cfs, z, crv, settlement)
	require.NoError(t, err)
	// Roughly the PV-weighted average time of a 5y semiannual bond.
	assert.Greater(t, dur, 3.0)
	assert.Less(t, dur, 5.0)

	effDur, err := bond.EffectiveDuration(cfs, z, crv, settlement, bond.DefaultCurveShiftBP)
	require.NoError(t, err)
	assert.InDelta(t, dur, effDur, 0.05)

	conv, err := bond.EffectiveConvexity(cfs, z, crv, settlement, bond.DefaultCurveShiftBP)
	require.NoError(t, err)
	assert.Greater(t, conv, 0.0)
}

func TestEffectiveDurationShiftParameter(t *testing.T) {
	settlement := dt(2024, 3, 1)
	cfs := semiSchedule(dt(2024, 9, 1), 10, 2.0)
	crv := curve.FlatCurve(0.03, 30)

	dirty := curvePrice(t, cfs, crv, settlement, 0.0150)
	z, err := bond.ZSpread(cfs, dirty, crv, settlement, solver.DefaultConfig)
	require.NoError(t, err)

	// The central difference is shift-size stable for a near-linear price
	// function, and a non-positive shift falls back to the default.
	at10, err := bond.EffectiveDuration(cfs, z, crv, settlement, 10)
	require.NoError(t, err)
	at50, err := bond.EffectiveDuration(cfs, z, crv, settlement, 50)
	require.NoError(t, err)
	assert.InDelta(t, at10, at50, 0.01)

	fallback, err := bond.EffectiveDuration(cfs, z, crv, settlement, 0)
	require.NoError(t, err)
	assert.Equal(t, at10, fallback)
}

func TestSpreadRounding(t *testing.T) {
	settlement := dt(2024, 3, 1)
	cfs := semiSchedule(dt(2024, 9, 1), 4, 2.0)
	crv := curve.FlatCurve(0.03, 30)

	dirty := curvePrice(t, cfs, crv, settlement, 0.0123456789)
	sp, err := bond.ZSpread(cfs, dirty, crv, settlement, solver.DefaultConfig)
	require.NoError(t, err)

	// Rounded to 0.01 bp: at most two decimal places survive.
	assert.True(t, sp.BasisPoints.Equal(sp.BasisPoints.Round(2)))
}
