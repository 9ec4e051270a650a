package animation

import (
	"math"
	"testing"
	"time"
)

func TestCurveEndpoints(t *testing.T) {
	curves := map[string]Curve{
		"Linear":     Linear,
		"Ease":       Ease,
		"EaseIn":     EaseIn,
		"EaseOut":    EaseOut,
		"EaseInOut":  EaseInOut,
		"QuadIn":     QuadIn,
		"QuadOut":    QuadOut,
		"CubicInOut": CubicInOut,
		"BackOut":    BackOut,
		"Steps(3)":   Steps(3),
		"Reverse":    Reverse(QuadIn),
	}
	for name, c := range curves {
		if got := c(0); math.Abs(got) > 1e-6 {
			t.Errorf("%s(0) = %v, want 0", name, got)
		}
		if got := c(1); math.Abs(got-1) > 1e-6 {
			t.Errorf("%s(1) = %v, want 1", name, got)
		}
	}
}

func TestCubicBezierMonotonic(t *testing.T) {
	prev := 0.0
	for i := 1; i <= 100; i++ {
		v := EaseInOut(float64(i) / 100)
		if v < prev-1e-9 {
			t.Fatalf("EaseInOut not monotonic at %d: %v < %v", i, v, prev)
		}
		prev = v
	}
}

func TestCubicBezierLinearEquivalent(t *testing.T) {
	c := CubicBezier(0, 0, 1, 1)
	for _, x := range []float64{0.1, 0.5, 0.9} {
		if got := c(x); math.Abs(got-x) > 1e-4 {
			t.Errorf("CubicBezier(0,0,1,1)(%v) = %v, want %v", x, got, x)
		}
	}
}

func TestEaseInOutSymmetric(t *testing.T) {
	if got := CubicInOut(0.5); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("CubicInOut(0.5) = %v, want 0.5", got)
	}
}

func TestLerp(t *testing.T) {
	if got := Lerp(10.0, 20.0, 0.5); got != 15 {
		t.Errorf("Lerp(10, 20, 0.5) = %v, want 15", got)
	}
	if got := Lerp(0, 100, 0.25); got != 25 {
		t.Errorf("Lerp(0, 100, 0.25) = %v, want 25", got)
	}
	if got := Lerp(0.0, 10.0, 1.5); got != 15 {
		t.Errorf("Lerp overshoot = %v, want 15", got)
	}
}

func TestTweenEvaluate(t *testing.T) {
	tw := NumberTween(0.0, 10.0, QuadIn)
	if got := tw.Evaluate(0.5); got != 2.5 {
		t.Errorf("Evaluate(0.5) = %v, want 2.5", got)
	}
	if got := tw.Evaluate(2); got != 10 {
		t.Errorf("Evaluate(2) = %v, want 10 (clamped)", got)
	}
	var empty Tween[string]
	empty.End = "end"
	if got := empty.Evaluate(0.3); got != "end" {
		t.Errorf("Evaluate without Mix = %q, want %q", got, "end")
	}
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func TestSetClock(t *testing.T) {
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	prev := SetClock(fixedClock{t: fixed})
	defer SetClock(prev)

	if !Now().Equal(fixed) {
		t.Errorf("Now() = %v, want %v", Now(), fixed)
	}
	SetClock(nil)
	if _, ok := clock.(SystemClock); !ok {
		t.Errorf("SetClock(nil) installed %T, want SystemClock", clock)
	}
}
