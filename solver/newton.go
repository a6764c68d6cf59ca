package solver

import "math"

// derivativeFloor is the smallest derivative magnitude Newton will divide by.
const derivativeFloor = 1e-15

// Newton finds a root of f using Newton-Raphson iteration with the analytic
// derivative df:
//
//	x_{n+1} = x_n - f(x_n)/f'(x_n)
//
// It converges quadratically near a root but needs a sane starting point.
// Fails with ErrZeroDerivative when the step would blow up, and with
// *ConvergenceError when MaxIterations is exhausted or the iterate leaves
// the representable range.
func Newton(f, df func(float64) float64, guess float64, cfg Config) (Result, error) {
	x := guess

	for iter := 0; iter < cfg.MaxIterations; iter++ {
		fx := f(x)
		if math.Abs(fx) <= cfg.Tolerance {
			return Result{Root: x, Iterations: iter, Residual: fx}, nil
		}

		dfx := df(x)
		if math.Abs(dfx) < derivativeFloor {
			return Result{}, ErrZeroDerivative
		}

		x -= fx / dfx
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return Result{}, &ConvergenceError{Iterations: iter + 1, Residual: math.Abs(fx)}
		}
	}

	return Result{}, &ConvergenceError{Iterations: cfg.MaxIterations, Residual: math.Abs(f(x))}
}
