// Command ytw computes yield-to-worst for callable bonds described by a
// JSON fixture and prints every workout candidate alongside the winner.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/meenmo/bondlib/bond"
	"github.com/meenmo/bondlib/config"
)

type ytwFixture struct {
	SettlementDate string `json:"settlement_date"`
	Convention     string `json:"convention"`
	DayCount       string `json:"day_count"`
	Frequency      int    `json:"frequency"`

	Bonds []callableCase `json:"bonds"`
}

type callableCase struct {
	ID         string        `json:"id"`
	CleanPrice float64       `json:"clean_price"`
	Accrued    float64       `json:"accrued"`
	Redemption float64       `json:"redemption"`
	Cashflows  []cashflowRow `json:"cashflows"`
	Calls      []callRow     `json:"calls,omitempty"`
	Puts       []putRow      `json:"puts,omitempty"`
}

type cashflowRow struct {
	Date         string  `json:"date"`
	Coupon       float64 `json:"coupon"`
	Principal    float64 `json:"principal"`
	AccrualStart string  `json:"accrual_start,omitempty"`
	AccrualEnd   string  `json:"accrual_end,omitempty"`
}

type callRow struct {
	// Type is one of AMERICAN, BERMUDAN, EUROPEAN, MAKE-WHOLE,
	// PAR-CALL, MANDATORY.
	Type          string     `json:"type"`
	ProtectionEnd string     `json:"protection_end,omitempty"`
	Entries       []entryRow `json:"entries"`

	MakeWholeSpreadBP       float64 `json:"make_whole_spread_bp,omitempty"`
	MakeWholeReferenceYield float64 `json:"make_whole_reference_yield,omitempty"`
}

type putRow struct {
	Entries []entryRow `json:"entries"`
}

type entryRow struct {
	Start string  `json:"start"`
	End   string  `json:"end,omitempty"`
	Price float64 `json:"price"`
}

type ytwOutput struct {
	ID             string  `json:"id"`
	SettlementDate string  `json:"settlement_date"`
	WorkoutDate    string  `json:"workout_date"`
	WorkoutKind    string  `json:"workout_kind"`
	YieldToWorst   float64 `json:"yield_to_worst_pct"`
	YieldToMat     float64 `json:"yield_to_maturity_pct"`
	Candidates     int     `json:"candidates"`
}

func main() {
	input := flag.String("input", "", "YTW fixture JSON path")
	cfgPath := flag.String("config", "", "optional config file")
	flag.Parse()

	if strings.TrimSpace(*input) == "" {
		fmt.Fprintf(os.Stderr, "usage: ytw -input /path/to/input.json [-config cfg.yaml]\n")
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	raw, err := os.ReadFile(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read input: %v\n", err)
		os.Exit(1)
	}

	var fixture ytwFixture
	if err := json.Unmarshal(raw, &fixture); err != nil {
		fmt.Fprintf(os.Stderr, "parse input: %v\n", err)
		os.Exit(1)
	}

	settlement, err := time.Parse("2006-01-02", fixture.SettlementDate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "input: settlement_date parse: %v\n", err)
		os.Exit(1)
	}

	conv := bond.StreetConvention()
	if strings.EqualFold(fixture.Convention, "ICMA") {
		conv = bond.ICMAConvention()
	}
	freq := fixture.Frequency
	if freq == 0 {
		freq = 2
	}
	dc := bond.DayCount(fixture.DayCount)
	if dc == "" {
		dc = bond.Thirty360US
	}

	sv := bond.YieldSolver{Convention: conv, Config: cfg.SolverConfig()}

	outputs := make([]ytwOutput, 0, len(fixture.Bonds))
	for _, tc := range fixture.Bonds {
		cb, err := buildCallable(tc, dc, freq)
		if err != nil {
			fmt.Fprintf(os.Stderr, "id=%s: %v\n", tc.ID, err)
			os.Exit(1)
		}

		ytw, err := sv.YieldToWorst(cb, tc.CleanPrice, tc.Accrued, settlement)
		if err != nil {
			fmt.Fprintf(os.Stderr, "id=%s yield to worst: %v\n", tc.ID, err)
			os.Exit(1)
		}
		ytm, err := sv.YieldToMaturity(cb, tc.CleanPrice, tc.Accrued, settlement)
		if err != nil {
			fmt.Fprintf(os.Stderr, "id=%s yield to maturity: %v\n", tc.ID, err)
			os.Exit(1)
		}

		outputs = append(outputs, ytwOutput{
			ID:             tc.ID,
			SettlementDate: fixture.SettlementDate,
			WorkoutDate:    ytw.Date.Format("2006-01-02"),
			WorkoutKind:    string(ytw.Kind),
			YieldToWorst:   ytw.Yield * 100,
			YieldToMat:     ytm.Yield * 100,
			Candidates:     ytw.Candidates,
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(outputs); err != nil {
		fmt.Fprintf(os.Stderr, "json encode: %v\n", err)
		os.Exit(1)
	}
}

func buildCallable(tc callableCase, dc bond.DayCount, freq int) (bond.CallableBond, error) {
	cfs := make([]bond.Cashflow, 0, len(tc.Cashflows))
	for _, r := range tc.Cashflows {
		d, err := time.Parse("2006-01-02", r.Date)
		if err != nil {
			return bond.CallableBond{}, fmt.Errorf("cashflow date parse: %w", err)
		}
		cf := bond.Cashflow{Date: d, Coupon: r.Coupon, Principal: r.Principal}
		if r.AccrualStart != "" {
			if cf.AccrualStart, err = time.Parse("2006-01-02", r.AccrualStart); err != nil {
				return bond.CallableBond{}, fmt.Errorf("accrual_start parse: %w", err)
			}
		}
		if r.AccrualEnd != "" {
			if cf.AccrualEnd, err = time.Parse("2006-01-02", r.AccrualEnd); err != nil {
				return bond.CallableBond{}, fmt.Errorf("accrual_end parse: %w", err)
			}
		}
		cfs = append(cfs, cf)
	}
	if len(cfs) == 0 {
		return bond.CallableBond{}, fmt.Errorf("cashflows are required")
	}

	redemption := tc.Redemption
	if redemption == 0 {
		redemption = 100
	}

	var maturity time.Time
	for _, cf := range cfs {
		if cf.Date.After(maturity) {
			maturity = cf.Date
		}
	}

	cb := bond.CallableBond{
		Bond: bond.Bond{
			Cashflows:  cfs,
			Maturity:   maturity,
			Redemption: redemption,
			Frequency:  freq,
			DayCount:   dc,
		},
	}

	for _, cr := range tc.Calls {
		cs := bond.CallSchedule{
			Type:                    bond.CallType(strings.ToUpper(cr.Type)),
			MakeWholeSpreadBP:       cr.MakeWholeSpreadBP,
			MakeWholeReferenceYield: cr.MakeWholeReferenceYield,
		}
		if cr.ProtectionEnd != "" {
			pe, err := time.Parse("2006-01-02", cr.ProtectionEnd)
			if err != nil {
				return bond.CallableBond{}, fmt.Errorf("protection_end parse: %w", err)
			}
			cs.ProtectionEnd = pe
		}
		entries, err := parseEntries(cr.Entries)
		if err != nil {
			return bond.CallableBond{}, err
		}
		cs.Entries = entries
		cb.Calls = append(cb.Calls, cs)
	}

	for _, pr := range tc.Puts {
		entries, err := parseEntries(pr.Entries)
		if err != nil {
			return bond.CallableBond{}, err
		}
		cb.Puts = append(cb.Puts, bond.PutSchedule{Entries: entries})
	}

	return cb, nil
}

func parseEntries(rows []entryRow) ([]bond.ScheduleEntry, error) {
	entries := make([]bond.ScheduleEntry, 0, len(rows))
	for _, r := range rows {
		start, err := time.Parse("2006-01-02", r.Start)
		if err != nil {
			return nil, fmt.Errorf("entry start parse: %w", err)
		}
		e := bond.ScheduleEntry{Start: start, Price: r.Price}
		if r.End != "" {
			if e.End, err = time.Parse("2006-01-02", r.End); err != nil {
				return nil, fmt.Errorf("entry end parse: %w", err)
			}
		}
		entries = append(entries, e)
	}
	return entries, nil
}
