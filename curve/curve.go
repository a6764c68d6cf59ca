// Package curve defines the discounting-curve capability consumed by the
// spread solvers, plus a concrete zero curve for tests and tools.
package curve

import (
	"fmt"
	"math"
	"sort"
)

// Curve supplies discount factors and forward rates for times measured in
// years from the curve's settlement date.
type Curve interface {
	// DiscountFactor returns the discount factor for time t (years).
	DiscountFactor(t float64) (float64, error)
	// ForwardRate returns the continuously-compounded forward rate between
	// t1 and t2 (years), t1 < t2.
	ForwardRate(t1, t2 float64) (float64, error)
}

// OutOfRangeError reports a time the curve cannot price.
type OutOfRangeError struct {
	T        float64
	Min, Max float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("curve: t=%.6f outside [%.6f, %.6f]", e.T, e.Min, e.Max)
}

// Pillar is a single zero-rate quote: a continuously-compounded annual rate
// at time T years.
type Pillar struct {
	T    float64
	Rate float64
}

// ZeroCurve interpolates zero rates linearly between pillars and converts
// them to discount factors with continuous compounding.
type ZeroCurve struct {
	pillars []Pillar
}

// NewZeroCurve builds a zero curve from pillars. Pillars are sorted by time;
// duplicate or non-positive times are rejected.
func NewZeroCurve(pillars []Pillar) (*ZeroCurve, error) {
	if len(pillars) == 0 {
		return nil, fmt.Errorf("curve: at least one pillar is required")
	}

	ps := make([]Pillar, len(pillars))
	copy(ps, pillars)
	sort.Slice(ps, func(i, j int) bool { return ps[i].T < ps[j].T })

	for i, p := range ps {
		if p.T <= 0 {
			return nil, fmt.Errorf("curve: pillar time %.6f must be positive", p.T)
		}
		if i > 0 && p.T == ps[i-1].T {
			return nil, fmt.Errorf("curve: duplicate pillar time %.6f", p.T)
		}
	}

	return &ZeroCurve{pillars: ps}, nil
}

// FlatCurve is a convenience constructor: one rate for every time out to
// maxT years.
func FlatCurve(rate, maxT float64) *ZeroCurve {
	crv, _ := NewZeroCurve([]Pillar{{T: maxT, Rate: rate}})
	return crv
}

// ZeroRate returns the interpolated continuously-compounded zero rate at t.
// Times before the first pillar use the first pillar's rate.
func (c *ZeroCurve) ZeroRate(t float64) (float64, error) {
	last := c.pillars[len(c.pillars)-1]
	if t < 0 || t > last.T {
		return 0, &OutOfRangeError{T: t, Min: 0, Max: last.T}
	}
	if t <= c.pillars[0].T {
		return c.pillars[0].Rate, nil
	}

	i := sort.Search(len(c.pillars), func(i int) bool { return c.pillars[i].T >= t })
	p1, p2 := c.pillars[i-1], c.pillars[i]
	w := (t - p1.T) / (p2.T - p1.T)
	return p1.Rate + w*(p2.Rate-p1.Rate), nil
}

func (c *ZeroCurve) DiscountFactor(t float64) (float64, error) {
	if t == 0 {
		return 1.0, nil
	}
	z, err := c.ZeroRate(t)
	if err != nil {
		return 0, err
	}
	return math.Exp(-z * t), nil
}

func (c *ZeroCurve) ForwardRate(t1, t2 float64) (float64, error) {
	if t2 <= t1 {
		return 0, fmt.Errorf("curve: forward rate requires t1 < t2 (got %.6f, %.6f)", t1, t2)
	}
	df1, err := c.DiscountFactor(t1)
	if err != nil {
		return 0, err
	}
	df2, err := c.DiscountFactor(t2)
	if err != nil {
		return 0, err
	}
	return math.Log(df1/df2) / (t2 - t1), nil
}
