package solver

import "math"

// Brent finds a root of f on [a, b] using Brent's method, which combines
// bisection, the secant method, and inverse quadratic interpolation. The
// interval must bracket a sign change: f(a)*f(b) < 0.
//
// This is the fallback of choice when Newton diverges or no derivative is
// available.
func Brent(f func(float64) float64, a, b float64, cfg Config) (Result, error) {
	fa := f(a)
	fb := f(b)

	if fa*fb > 0 {
		return Result{}, &BracketError{A: a, B: b, FA: fa, FB: fb}
	}

	// b tracks the best estimate: keep |f(b)| <= |f(a)|.
	if math.Abs(fa) < math.Abs(fb) {
		a, b = b, a
		fa, fb = fb, fa
	}

	c, fc := a, fa
	d := b - a
	e := d

	for iter := 0; iter < cfg.MaxIterations; iter++ {
		if math.Abs(fb) <= cfg.Tolerance {
			return Result{Root: b, Iterations: iter, Residual: fb}, nil
		}

		if fb*fc > 0 {
			c, fc = a, fa
			d = b - a
			e = d
		}
		if math.Abs(fc) < math.Abs(fb) {
			a, b, c = b, c, b
			fa, fb, fc = fb, fc, fb
		}

		// Once the bracket collapses in x the clamped Brent step cannot
		// shrink the residual further. Steep objectives still carry a
		// residual of order |f'|*tol1 here, so spend the remaining budget
		// on unclamped secant steps instead of giving up.
		tol1 := 2*machineEps*math.Abs(b) + 0.5*cfg.Tolerance
		xm := 0.5 * (c - b)
		if math.Abs(xm) <= tol1 {
			return secantPolish(f, b, fb, c, fc, iter, cfg)
		}

		if math.Abs(e) >= tol1 && math.Abs(fa) > math.Abs(fb) {
			// Attempt inverse quadratic interpolation (secant when a == c).
			s := fb / fa
			var p, q float64
			if a == c {
				p = 2 * xm * s
				q = 1 - s
			} else {
				q = fa / fc
				r := fb / fc
				p = s * (2*xm*q*(q-r) - (b-a)*(r-1))
				q = (q - 1) * (r - 1) * (s - 1)
			}
			if p > 0 {
				q = -q
			}
			p = math.Abs(p)

			if 2*p < math.Min(3*xm*q-math.Abs(tol1*q), math.Abs(e*q)) {
				e = d
				d = p / q
			} else {
				d = xm
				e = d
			}
		} else {
			d = xm
			e = d
		}

		a, fa = b, fb
		if math.Abs(d) > tol1 {
			b += d
		} else {
			b += math.Copysign(tol1, xm)
		}
		fb = f(b)
	}

	return Result{}, &ConvergenceError{Iterations: cfg.MaxIterations, Residual: math.Abs(fb)}
}

// secantPolish drives the residual down once the bracket has shrunk to
// x-space tolerance. Near a simple root the secant iterates stay within the
// collapsed interval, so no bracket maintenance is needed.
func secantPolish(f func(float64) float64, x1, f1, x0, f0 float64, iter int, cfg Config) (Result, error) {
	for ; iter < cfg.MaxIterations; iter++ {
		if math.Abs(f1) <= cfg.Tolerance {
			return Result{Root: x1, Iterations: iter, Residual: f1}, nil
		}
		if f1 == f0 {
			break
		}
		x2 := x1 - f1*(x1-x0)/(f1-f0)
		x0, f0 = x1, f1
		x1, f1 = x2, f(x2)
	}
	if math.Abs(f1) <= cfg.Tolerance {
		return Result{Root: x1, Iterations: cfg.MaxIterations, Residual: f1}, nil
	}
	return Result{}, &ConvergenceError{Iterations: cfg.MaxIterations, Residual: math.Abs(f1)}
}

const machineEps = 2.220446049250313e-16
