package animation

import "math"

// Curve maps normalized progress in [0, 1] to eased progress. Curves must
// return 0 at 0 and 1 at 1; values in between may overshoot.
type Curve func(t float64) float64

// Standard curves: [Linear], [Ease], [EaseIn], [EaseOut], [EaseInOut].
// Use [CubicBezier] to create custom curves matching CSS cubic-bezier().

// Linear returns progress unchanged.
func Linear(t float64) float64 {
	return t
}

// Ease is a general-purpose curve. Equivalent to CSS ease.
var Ease = CubicBezier(0.25, 0.1, 0.25, 1.0)

// EaseIn starts slowly and accelerates. Equivalent to CSS ease-in.
var EaseIn = CubicBezier(0.4, 0.0, 1.0, 1.0)

// EaseOut starts quickly and decelerates. Equivalent to CSS ease-out.
var EaseOut = CubicBezier(0.0, 0.0, 0.2, 1.0)

// EaseInOut starts and ends slowly. Equivalent to CSS ease-in-out.
var EaseInOut = CubicBezier(0.4, 0.0, 0.2, 1.0)

// QuadIn accelerates from zero velocity.
func QuadIn(t float64) float64 { return t * t }

// QuadOut decelerates to zero velocity.
func QuadOut(t float64) float64 { return t * (2 - t) }

// CubicInOut accelerates until halfway, then decelerates.
func CubicInOut(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	f := 2*t - 2
	return 0.5*f*f*f + 1
}

// BackOut overshoots the target slightly before settling.
func BackOut(t float64) float64 {
	const s = 1.70158
	f := t - 1
	return f*f*((s+1)*f+s) + 1
}

// Steps quantizes progress into n equal jumps.
func Steps(n int) Curve {
	if n < 1 {
		n = 1
	}
	return func(t float64) float64 {
		if t >= 1 {
			return 1
		}
		return math.Floor(t*float64(n)) / float64(n)
	}
}

// Reverse plays c backwards: Reverse(c)(t) = 1 - c(1-t).
func Reverse(c Curve) Curve {
	return func(t float64) float64 { return 1 - c(1-t) }
}

// CubicBezier returns a curve matching CSS cubic-bezier(x1, y1, x2, y2).
// The curve runs from (0,0) to (1,1) with (x1,y1) and (x2,y2) as control
// points.
func CubicBezier(x1, y1, x2, y2 float64) Curve {
	return func(t float64) float64 {
		switch {
		case t <= 0:
			return 0
		case t >= 1:
			return 1
		}

		u := t
		// Newton-Raphson converges in a few steps for well-behaved curves.
		for range 8 {
			x := bezier(x1, x2, u) - t
			if math.Abs(x) < 1e-7 {
				return bezier(y1, y2, Clamp(u))
			}
			dx := bezierSlope(x1, x2, u)
			if math.Abs(dx) < 1e-7 {
				break
			}
			u -= x / dx
		}

		// Bisection guarantees a stable root in [0,1] when Newton stalls.
		lo, hi := 0.0, 1.0
		u = Clamp(u)
		for range 12 {
			x := bezier(x1, x2, u) - t
			if math.Abs(x) < 1e-7 {
				break
			}
			if x > 0 {
				hi = u
			} else {
				lo = u
			}
			u = (lo + hi) / 2
		}
		return bezier(y1, y2, u)
	}
}

func bezier(a, b, t float64) float64 {
	inv := 1 - t
	return 3*inv*inv*t*a + 3*inv*t*t*b + t*t*t
}

func bezierSlope(a, b, t float64) float64 {
	inv := 1 - t
	return 3*inv*inv*a + 6*inv*t*(b-a) + 3*t*t*(1-b)
}

// Clamp limits v to [0, 1].
func Clamp(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
