package animation

// Number is the set of types Lerp interpolates.
type Number interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

// Lerp blends a toward b by t. t is not clamped, so overshooting curves
// carry through.
func Lerp[T Number](a, b T, t float64) T {
	return T(float64(a) + (float64(b)-float64(a))*t)
}

// Tween interpolates between Begin and End through an optional Curve.
type Tween[T any] struct {
	// Begin is the value at progress 0.
	Begin T
	// End is the value at progress 1.
	End T
	// Curve eases progress before interpolation. Nil means Linear.
	Curve Curve
	// Mix blends two values by t. Nil makes Evaluate return End.
	Mix func(a, b T, t float64) T
}

// NumberTween returns a Tween over a numeric type.
func NumberTween[T Number](begin, end T, curve Curve) Tween[T] {
	return Tween[T]{Begin: begin, End: end, Curve: curve, Mix: Lerp[T]}
}

// Evaluate returns the value at progress t, clamped to [0, 1].
func (tw Tween[T]) Evaluate(t float64) T {
	if tw.Mix == nil {
		return tw.End
	}
	t = Clamp(t)
	if tw.Curve != nil {
		t = tw.Curve(t)
	}
	return tw.Mix(tw.Begin, tw.End, t)
}
