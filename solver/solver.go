// Package solver provides scalar root-finding for the pricing engines:
// Newton-Raphson with an analytic derivative, and Brent's method as the
// bracketing fallback.
package solver

import (
	"errors"
	"fmt"
)

// Config holds convergence parameters for a solve.
type Config struct {
	// Tolerance is the residual tolerance: a root is accepted when
	// |f(x)| <= Tolerance.
	Tolerance float64

	// MaxIterations bounds the iteration count of a single method.
	MaxIterations int
}

// DefaultConfig provides production-ready default values.
var DefaultConfig = Config{
	Tolerance:     1e-10,
	MaxIterations: 100,
}

// Result is the outcome of a successful solve.
//
// On success |Residual| <= Tolerance holds; callers may rely on it.
type Result struct {
	Root       float64
	Iterations int
	Residual   float64
}

// ErrZeroDerivative is returned by Newton when |f'(x)| is too small to
// take a step.
var ErrZeroDerivative = errors.New("solver: derivative too small")

// ConvergenceError reports that an iterative method exhausted its
// iteration budget without meeting tolerance.
type ConvergenceError struct {
	Iterations int
	Residual   float64
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("solver: no convergence after %d iterations (residual %.3e)", e.Iterations, e.Residual)
}

// BracketError reports that a candidate interval does not bracket a sign
// change.
type BracketError struct {
	A, B   float64
	FA, FB float64
}

func (e *BracketError) Error() string {
	return fmt.Sprintf("solver: [%g, %g] does not bracket a root (f(a)=%.6g, f(b)=%.6g)", e.A, e.B, e.FA, e.FB)
}

// Bracket is a candidate interval for Brent's method.
type Bracket struct {
	A, B float64
}

// DefaultBrackets is the standard bracket ladder tried, in order, when
// Newton fails: a tight interval around the initial guess, then
// progressively wider ones.
func DefaultBrackets(guess float64) []Bracket {
	return []Bracket{
		{guess - 0.1, guess + 0.1},
		{-0.1, 0.5},
		{-0.2, 1.0},
		{-0.5, 2.0},
	}
}

// Bracketed runs Newton from guess and, if it fails, escalates exactly
// once to Brent over the supplied bracket ladder. The first bracket that
// both straddles a sign change and converges wins.
func Bracketed(f, df func(float64) float64, guess float64, brackets []Bracket, cfg Config) (Result, error) {
	if df != nil {
		if res, err := Newton(f, df, guess, cfg); err == nil {
			return res, nil
		}
	}

	var lastErr error
	for _, b := range brackets {
		res, err := Brent(f, b.A, b.B, cfg)
		if err == nil {
			return res, nil
		}
		lastErr = err
	}

	if lastErr == nil {
		lastErr = &ConvergenceError{Iterations: cfg.MaxIterations}
	}
	return Result{}, lastErr
}
