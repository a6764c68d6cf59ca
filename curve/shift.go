package curve

import "math"

// shifted applies a parallel shift to a base curve's zero rates.
type shifted struct {
	base  Curve
	delta float64
}

// ParallelShift wraps a curve so every zero rate moves by deltaBP basis
// points. Discount factors pick up exp(-delta*t); forward rates move by
// delta. Used by the effective-duration and convexity measures.
func ParallelShift(base Curve, deltaBP float64) Curve {
	return &shifted{base: base, delta: deltaBP / 1e4}
}

func (s *shifted) DiscountFactor(t float64) (float64, error) {
	df, err := s.base.DiscountFactor(t)
	if err != nil {
		return 0, err
	}
	return df * math.Exp(-s.delta*t), nil
}

func (s *shifted) ForwardRate(t1, t2 float64) (float64, error) {
	fwd, err := s.base.ForwardRate(t1, t2)
	if err != nil {
		return 0, err
	}
	return fwd + s.delta, nil
}
