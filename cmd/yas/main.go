// Command yas runs a yield-and-spread analysis over a JSON fixture: yield
// under the requested convention, plus Z-spread, asset-swap spread and the
// curve sensitivities when the fixture carries a zero curve.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/meenmo/bondlib/bond"
	"github.com/meenmo/bondlib/config"
	"github.com/meenmo/bondlib/curve"
)

type yasFixture struct {
	SettlementDate string `json:"settlement_date"`
	// Convention selects the yield formula: "STREET" (default), "ICMA"
	// or "SIMPLE".
	Convention string `json:"convention"`
	DayCount   string `json:"day_count"`
	Frequency  int    `json:"frequency"`

	CurvePillars []curvePillar `json:"curve_pillars"`
	Bonds        []bondCase    `json:"bonds"`
}

type curvePillar struct {
	Years float64 `json:"years"`
	Rate  float64 `json:"rate"`
}

type bondCase struct {
	ID         string        `json:"id"`
	CleanPrice float64       `json:"clean_price"`
	Accrued    float64       `json:"accrued"`
	Cashflows  []cashflowRow `json:"cashflows"`
}

type cashflowRow struct {
	Date         string  `json:"date"`
	Coupon       float64 `json:"coupon"`
	Principal    float64 `json:"principal"`
	AccrualStart string  `json:"accrual_start,omitempty"`
	AccrualEnd   string  `json:"accrual_end,omitempty"`
}

type yasOutput struct {
	ID             string  `json:"id"`
	SettlementDate string  `json:"settlement_date"`
	Convention     string  `json:"convention"`
	YieldPct       float64 `json:"yield_pct"`
	Iterations     int     `json:"iterations"`
	Residual       float64 `json:"residual"`

	ZSpreadBP          *float64 `json:"z_spread_bp,omitempty"`
	ASWSpreadBP        *float64 `json:"asw_spread_bp,omitempty"`
	SpreadDuration     *float64 `json:"spread_duration,omitempty"`
	SpreadDV01         *float64 `json:"spread_dv01,omitempty"`
	EffectiveDuration  *float64 `json:"effective_duration,omitempty"`
	EffectiveConvexity *float64 `json:"effective_convexity,omitempty"`
}

func main() {
	input := flag.String("input", "", "YAS fixture JSON path")
	cfgPath := flag.String("config", "", "optional config file")
	flag.Parse()

	if strings.TrimSpace(*input) == "" {
		fmt.Fprintf(os.Stderr, "usage: yas -input /path/to/input.json [-config cfg.yaml]\n")
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

	var fixture yasFixture
	if err := json.Unmarshal(raw, &fixture); err != nil {
		fmt.Fprintf(os.Stderr, "parse input: %v\n", err)
		os.Exit(1)
	}

	settlement, err := time.Parse("2006-01-02", fixture.SettlementDate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "input: settlement_date parse: %v\n", err)
		os.Exit(1)
	}

	conv, err := conventionFromString(fixture.Convention)
	if err != nil {
		fmt.Fprintf(os.Stderr, "input: %v\n", err)
		os.Exit(1)
	}
	freq := fixture.Frequency
	if freq == 0 {
		freq = 2
	}
	dc := bond.DayCount(fixture.DayCount)
	if dc == "" {
		dc = bond.Thirty360US
	}

	var crv curve.Curve
	if len(fixture.CurvePillars) > 0 {
		pillars := make([]curve.Pillar, len(fixture.CurvePillars))
		for i, p := range fixture.CurvePillars {
			pillars[i] = curve.Pillar{T: p.Years, Rate: p.Rate}
		}
		zc, err := curve.NewZeroCurve(pillars)
		if err != nil {
			fmt.Fprintf(os.Stderr, "build curve: %v\n", err)
			os.Exit(1)
		}
		crv = zc
	}

	sv := bond.YieldSolver{Convention: conv, Config: cfg.SolverConfig()}
	log := logrus.New()
	log.SetOutput(os.Stderr)

	outputs := make([]yasOutput, 0, len(fixture.Bonds))
	for _, tc := range fixture.Bonds {
		cfs, err := parseCashflows(tc.Cashflows)
		if err != nil {
			fmt.Fprintf(os.Stderr, "id=%s: %v\n", tc.ID, err)
			os.Exit(1)
		}

		res, err := sv.Solve(cfs, tc.CleanPrice, tc.Accrued, settlement, dc, freq)
		if err != nil {
			fmt.Fprintf(os.Stderr, "id=%s yield solve: %v\n", tc.ID, err)
			os.Exit(1)
		}

		out := yasOutput{
			ID:             tc.ID,
			SettlementDate: fixture.SettlementDate,
			Convention:     conv.String(),
			YieldPct:       res.Yield * 100,
			Iterations:     res.Iterations,
			Residual:       res.Residual,
		}

		if crv != nil {
			dirty := tc.CleanPrice + tc.Accrued
			// Spread metrics degrade independently: a curve that cannot
			// price one metric must not kill the rest of the run.
			if z, err := bond.ZSpread(cfs, dirty, crv, settlement, cfg.SolverConfig()); err != nil {
				log.WithField("id", tc.ID).WithError(err).Warn("z-spread unavailable")
			} else {
				bp, _ := z.BasisPoints.Float64()
				out.ZSpreadBP = &bp

				if dur, err := bond.SpreadDuration(cfs, z, crv, settlement); err == nil {
					out.SpreadDuration = &dur
				}
				if dv01, err := bond.SpreadDV01(cfs, z, crv, settlement); err == nil {
					out.SpreadDV01 = &dv01
				}
				if dur, err := bond.EffectiveDuration(cfs, z, crv, settlement, cfg.CurveShiftBP); err == nil {
					out.EffectiveDuration = &dur
				}
				if cx, err := bond.EffectiveConvexity(cfs, z, crv, settlement, cfg.CurveShiftBP); err == nil {
					out.EffectiveConvexity = &cx
				}
			}
			if asw, err := bond.ASWSpread(cfs, dirty, crv, settlement, freq); err != nil {
				log.WithField("id", tc.ID).WithError(err).Warn("asw spread unavailable")
			} else {
				bp, _ := asw.BasisPoints.Float64()
				out.ASWSpreadBP = &bp
			}
		}

		outputs = append(outputs, out)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(outputs); err != nil {
		fmt.Fprintf(os.Stderr, "json encode: %v\n", err)
		os.Exit(1)
	}
}

func conventionFromString(value string) (bond.Convention, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "", "STREET":
		return bond.StreetConvention(), nil
	case "ICMA":
		return bond.ICMAConvention(), nil
	case "SIMPLE":
		return bond.Convention{Method: bond.Simple}, nil
	case "MM-DISCOUNT":
		return bond.Convention{Method: bond.MoneyMarketDiscount}, nil
	case "MM-ADDON":
		return bond.Convention{Method: bond.MoneyMarketAddOn}, nil
	default:
		return bond.Convention{}, fmt.Errorf("unknown convention %q", value)
	}
}

func parseCashflows(rows []cashflowRow) ([]bond.Cashflow, error) {
	cfs := make([]bond.Cashflow, 0, len(rows))
	for _, r := range rows {
		d, err := time.Parse("2006-01-02", r.Date)
		if err != nil {
			return nil, fmt.Errorf("cashflow date parse: %w", err)
		}
		cf := bond.Cashflow{Date: d, Coupon: r.Coupon, Principal: r.Principal}
		if r.AccrualStart != "" {
			if cf.AccrualStart, err = time.Parse("2006-01-02", r.AccrualStart); err != nil {
				return nil, fmt.Errorf("accrual_start parse: %w", err)
			}
		}
		if r.AccrualEnd != "" {
			if cf.AccrualEnd, err = time.Parse("2006-01-02", r.AccrualEnd); err != nil {
				return nil, fmt.Errorf("accrual_end parse: %w", err)
			}
		}
		cfs = append(cfs, cf)
	}
	return cfs, nil
}
