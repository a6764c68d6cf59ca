package bond

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SpreadType tags which definition a Spread value was solved under.
type SpreadType string

const (
	SpreadZ              SpreadType = "Z"
	SpreadDiscountMargin SpreadType = "DM"
	SpreadAssetSwap      SpreadType = "ASW"
)

// Spread is a solved spread in basis points, rounded to the nearest
// 0.01 bp. The rounding strips floating-point residue below solver
// tolerance; two equal spreads compare equal.
type Spread struct {
	BasisPoints decimal.Decimal
	Type        SpreadType
}

// newSpread converts an annual decimal rate (0.0125 = 125 bp) into a typed
// basis-point value.
func newSpread(rate float64, typ SpreadType) Spread {
	return Spread{
		BasisPoints: decimal.NewFromFloat(rate * 1e4).Round(2),
		Type:        typ,
	}
}

// Rate returns the spread as an annual decimal rate.
func (s Spread) Rate() float64 {
	f, _ := s.BasisPoints.Float64()
	return f / 1e4
}

func (s Spread) String() string {
	return fmt.Sprintf("%s %s bp", s.Type, s.BasisPoints.StringFixed(2))
}
