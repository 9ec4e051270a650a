// Package reactive provides the signal graph that frame-synchronized effects
// are built on.
//
// The graph is an explicit observer graph: a [Computation] records every
// [Signal] it reads while running and is re-run when one of them changes.
// Ownership is expressed with [Owner] scopes; disposing a scope disposes the
// computations and scopes created beneath it and runs its cleanups.
//
// A [Runtime] is single-threaded. All reads, writes and disposals must happen
// on the goroutine that drives it, typically the frame clock's tick
// goroutine.
//
//	rt := reactive.NewRuntime()
//	count := reactive.NewSignal(rt, 0)
//	rt.Root(func(dispose func()) {
//	    rt.Effect(func() {
//	        fmt.Println("count is", count.Get())
//	    })
//	})
//	count.Set(1) // prints "count is 1"
package reactive
