package bond

import "time"

// Cashflow is a single dated cash payment for a bond.
//
// Amounts are in price-per-100 terms (percent of par). AccrualStart and
// AccrualEnd bound the flow's full accrual period; when either is zero the
// solvers fall back to the convention's standard period length.
type Cashflow struct {
	Date      time.Time
	Coupon    float64
	Principal float64

	AccrualStart time.Time
	AccrualEnd   time.Time
}

func (c Cashflow) Amount() float64 {
	return c.Coupon + c.Principal
}

// Bond holds the fixed terms a solve needs: the schedule produced by an
// external generator plus the conventions the quotes are expressed in.
type Bond struct {
	Cashflows []Cashflow
	Maturity  time.Time

	// Redemption is the principal repaid at maturity per 100 face,
	// normally 100.
	Redemption float64

	Frequency int
	DayCount  DayCount
}

// maturityDate returns the latest flow date, or the zero time for an empty
// schedule.
func maturityDate(cfs []Cashflow) time.Time {
	var maturity time.Time
	for _, cf := range cfs {
		if cf.Date.After(maturity) {
			maturity = cf.Date
		}
	}
	return maturity
}
