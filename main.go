package main

import (
	"fmt"

	"github.com/meenmo/bondlib/bond"
	"github.com/meenmo/bondlib/curve"
	"github.com/meenmo/bondlib/solver"
	"github.com/meenmo/bondlib/utils"
)

func main() {
	settlement := utils.DateParser("2020-04-29")

	// 7.5% semiannual bond, 10 coupons remaining.
	first := utils.DateParser("2020-06-15")
	cfs := make([]bond.Cashflow, 10)
	prev := utils.AddMonth(first, -6)
	for i := range cfs {
		d := utils.AddMonth(first, 6*i)
		cfs[i] = bond.Cashflow{Date: d, Coupon: 3.75, AccrualStart: prev, AccrualEnd: d}
		prev = d
	}
	cfs[9].Principal = 100

	const clean, accrued = 110.503, 2.8125

	street := bond.NewYieldSolver(bond.StreetConvention())
	res, err := street.Solve(cfs, clean, accrued, settlement, bond.Thirty360US, 2)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("Street yield:  %.6f%% (%d iterations)\n", res.Yield*100, res.Iterations)

	icma := bond.NewYieldSolver(bond.ICMAConvention())
	resICMA, err := icma.Solve(cfs, clean, accrued, settlement, bond.Thirty360US, 2)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("ICMA yield:    %.6f%%\n", resICMA.Yield*100)

	crv := curve.FlatCurve(0.045, 30)
	z, err := bond.ZSpread(cfs, clean+accrued, crv, settlement, solver.DefaultConfig)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("Z-spread:      %s\n", z)

	asw, err := bond.ASWSpread(cfs, clean+accrued, crv, settlement, 2)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("ASW spread:    %s\n", asw)
}
