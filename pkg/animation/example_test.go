package animation_test

import (
	"fmt"

	"github.com/go-drift/sceneloop/pkg/animation"
)

// This example shows a numeric tween evaluated with an easing curve.
func ExampleNumberTween() {
	tw := animation.NumberTween(100.0, 200.0, animation.Linear)
	fmt.Println(tw.Evaluate(0), tw.Evaluate(0.25), tw.Evaluate(1))
	// Output: 100 125 200
}

// This example shows a custom curve matching CSS cubic-bezier().
func ExampleCubicBezier() {
	snappy := animation.CubicBezier(0.2, 0.0, 0.0, 1.0)
	fmt.Printf("%.1f %.1f\n", snappy(0), snappy(1))
	// Output: 0.0 1.0
}

// This example shows quantized progress.
func ExampleSteps() {
	c := animation.Steps(4)
	fmt.Println(c(0.1), c(0.3), c(0.99), c(1))
	// Output: 0 0.25 0.75 1
}
