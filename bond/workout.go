package bond

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/meenmo/bondlib/utils"
)

// CallType classifies how a call schedule may be exercised.
type CallType string

const (
	CallAmerican  CallType = "AMERICAN"
	CallBermudan  CallType = "BERMUDAN"
	CallEuropean  CallType = "EUROPEAN"
	CallMakeWhole CallType = "MAKE-WHOLE"
	CallParCall   CallType = "PAR-CALL"
	CallMandatory CallType = "MANDATORY"
)

// ScheduleEntry is one exercisable window of a call or put schedule. For
// discrete-exercise types only Start is used; continuous types exercise at
// any coupon date in [Start, End] (a zero End means until maturity).
type ScheduleEntry struct {
	Start time.Time
	End   time.Time
	Price float64
}

// CallSchedule describes an issuer redemption option.
type CallSchedule struct {
	Type    CallType
	Entries []ScheduleEntry

	// ProtectionEnd excludes exercise before this date.
	ProtectionEnd time.Time

	// MakeWholeSpreadBP and MakeWholeReferenceYield parameterize the
	// make-whole redemption price; see MakeWholePrice.
	MakeWholeSpreadBP       float64
	MakeWholeReferenceYield float64
}

// PutSchedule describes a holder put. Puts exercise at their explicit entry
// dates, like European calls.
type PutSchedule struct {
	Entries []ScheduleEntry
}

// CallableBond is a bond plus its redemption options.
type CallableBond struct {
	Bond
	Calls []CallSchedule
	Puts  []PutSchedule
}

// WorkoutKind tags the scenario a candidate redemption comes from.
type WorkoutKind string

const (
	WorkoutCall     WorkoutKind = "CALL"
	WorkoutPut      WorkoutKind = "PUT"
	WorkoutMaturity WorkoutKind = "MATURITY"
)

// WorkoutCandidate is one possible redemption scenario. Candidates are
// built fresh per analysis since eligibility depends on settlement.
type WorkoutCandidate struct {
	Date            time.Time
	RedemptionPrice float64
	Kind            WorkoutKind
}

// WorkoutResult is the yield-to-worst outcome: the minimum yield over all
// solvable candidates and the date that produces it.
type WorkoutResult struct {
	Yield      float64
	Date       time.Time
	Kind       WorkoutKind
	Candidates int
}

// WorkoutCandidates enumerates every redemption scenario between settlement
// and maturity, ascending by date. Maturity is always included.
func WorkoutCandidates(cb CallableBond, settlement time.Time) []WorkoutCandidate {
	out := []WorkoutCandidate{{
		Date:            cb.Maturity,
		RedemptionPrice: cb.Redemption,
		Kind:            WorkoutMaturity,
	}}

	for _, cs := range cb.Calls {
		switch cs.Type {
		case CallEuropean, CallBermudan, CallMandatory:
			for _, e := range cs.Entries {
				if eligible(e.Start, cs.ProtectionEnd, settlement, cb.Maturity) {
					out = append(out, WorkoutCandidate{
						Date:            e.Start,
						RedemptionPrice: e.Price,
						Kind:            WorkoutCall,
					})
				}
			}
		case CallAmerican, CallMakeWhole, CallParCall:
			// Continuous exercise is approximated at coupon dates:
			// exercising between coupons cannot improve yield for a
			// standard bond.
			for _, e := range cs.Entries {
				end := e.End
				if end.IsZero() {
					end = cb.Maturity
				}
				for _, cf := range cb.Cashflows {
					d := cf.Date
					if d.Before(e.Start) || d.After(end) {
						continue
					}
					if !eligible(d, cs.ProtectionEnd, settlement, cb.Maturity) {
						continue
					}
					price := e.Price
					if cs.Type == CallMakeWhole {
						price = math.Max(price, MakeWholePrice(cb, cs, d))
					}
					out = append(out, WorkoutCandidate{
						Date:            d,
						RedemptionPrice: price,
						Kind:            WorkoutCall,
					})
				}
			}
		}
	}

	for _, ps := range cb.Puts {
		for _, e := range ps.Entries {
			if eligible(e.Start, time.Time{}, settlement, cb.Maturity) {
				out = append(out, WorkoutCandidate{
					Date:            e.Start,
					RedemptionPrice: e.Price,
					Kind:            WorkoutPut,
				})
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// eligible reports whether a candidate date can be exercised: strictly
// after settlement, at or after protection end and before maturity.
func eligible(d, protectionEnd, settlement, maturity time.Time) bool {
	if !d.After(settlement) {
		return false
	}
	if !protectionEnd.IsZero() && d.Before(protectionEnd) {
		return false
	}
	return d.Before(maturity)
}

// MakeWholePrice is the make-whole redemption price at a call date: the
// remaining flows discounted at the reference yield plus the make-whole
// spread, floored at par.
func MakeWholePrice(cb CallableBond, cs CallSchedule, callDate time.Time) float64 {
	rate := cs.MakeWholeReferenceYield + cs.MakeWholeSpreadBP/1e4
	freq := float64(cb.Frequency)
	if freq <= 0 {
		freq = 2
	}

	pv := 0.0
	for _, cf := range cb.Cashflows {
		if !cf.Date.After(callDate) {
			continue
		}
		t := utils.Days(callDate, cf.Date) / 365
		pv += cf.Amount() * math.Pow(1+rate/freq, -t*freq)
	}
	return math.Max(100, pv)
}

// truncateFlows builds the cash-flow stream for one workout scenario: every
// flow before the candidate date, plus a flow at the date whose principal is
// the redemption price. A coupon already scheduled on the date is kept;
// otherwise the next coupon accrues linearly to the date.
func truncateFlows(cb CallableBond, wc WorkoutCandidate) []Cashflow {
	out := make([]Cashflow, 0, len(cb.Cashflows)+1)

	var atDate *Cashflow
	var next *Cashflow
	var prevDate time.Time
	for _, cf := range cb.Cashflows {
		switch {
		case cf.Date.Before(wc.Date):
			// Earlier flows keep any amortizing principal.
			out = append(out, cf)
			prevDate = cf.Date
		case cf.Date.Equal(wc.Date):
			cp := cf
			atDate = &cp
		case next == nil:
			cp := cf
			next = &cp
		}
	}

	last := Cashflow{Date: wc.Date, Principal: wc.RedemptionPrice}
	switch {
	case atDate != nil:
		last.Coupon = atDate.Coupon
		last.AccrualStart = atDate.AccrualStart
		last.AccrualEnd = atDate.AccrualEnd
	case next != nil:
		start := next.AccrualStart
		if start.IsZero() {
			start = prevDate
		}
		if !start.IsZero() && wc.Date.After(start) && next.Date.After(start) {
			last.Coupon = next.Coupon * utils.Days(start, wc.Date) / utils.Days(start, next.Date)
		}
	}
	out = append(out, last)

	return out
}

// YieldToWorst solves the yield of every workout scenario and returns the
// minimum. Individual candidates that fail to solve are skipped; the
// analysis fails only when no candidate solves. Ties on yield go to the
// earliest date.
func (s YieldSolver) YieldToWorst(cb CallableBond, cleanPrice, accrued float64, settlement time.Time) (WorkoutResult, error) {
	candidates := WorkoutCandidates(cb, settlement)

	var best *WorkoutResult
	var lastErr error
	for _, wc := range candidates {
		flows := truncateFlows(cb, wc)
		res, err := s.Solve(flows, cleanPrice, accrued, settlement, cb.DayCount, cb.Frequency)
		if err != nil {
			lastErr = err
			continue
		}
		if best == nil || res.Yield < best.Yield {
			best = &WorkoutResult{
				Yield: res.Yield,
				Date:  wc.Date,
				Kind:  wc.Kind,
			}
		}
	}

	if best == nil {
		return WorkoutResult{}, fmt.Errorf("bond: yield to worst: no workout candidate solved: %w", lastErr)
	}
	best.Candidates = len(candidates)
	return *best, nil
}

// YieldToCallDate solves the yield assuming redemption at the given call
// date and price.
func (s YieldSolver) YieldToCallDate(cb CallableBond, callDate time.Time, redemptionPrice, cleanPrice, accrued float64, settlement time.Time) (YieldResult, error) {
	if !callDate.After(settlement) {
		return YieldResult{}, fmt.Errorf("bond: YieldToCallDate: call date %s is not after settlement %s",
			callDate.Format("2006-01-02"), settlement.Format("2006-01-02"))
	}
	wc := WorkoutCandidate{Date: callDate, RedemptionPrice: redemptionPrice, Kind: WorkoutCall}
	return s.Solve(truncateFlows(cb, wc), cleanPrice, accrued, settlement, cb.DayCount, cb.Frequency)
}

// YieldToFirstCall solves the yield at the earliest call candidate after
// settlement.
func (s YieldSolver) YieldToFirstCall(cb CallableBond, cleanPrice, accrued float64, settlement time.Time) (YieldResult, error) {
	for _, wc := range WorkoutCandidates(cb, settlement) {
		if wc.Kind == WorkoutCall {
			return s.Solve(truncateFlows(cb, wc), cleanPrice, accrued, settlement, cb.DayCount, cb.Frequency)
		}
	}
	return YieldResult{}, fmt.Errorf("bond: YieldToFirstCall: no call candidate after settlement")
}

// YieldToMaturity solves the yield assuming the bond runs to maturity.
func (s YieldSolver) YieldToMaturity(cb CallableBond, cleanPrice, accrued float64, settlement time.Time) (YieldResult, error) {
	return s.Solve(cb.Cashflows, cleanPrice, accrued, settlement, cb.DayCount, cb.Frequency)
}
