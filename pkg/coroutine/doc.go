// Package coroutine drives suspendable step sequences off the scheduler's
// frame ticks.
//
// A [Routine] is resumed at most once per tick with the milliseconds that
// passed since its previous resumption and answers with an [Instruction]:
// carry on next tick, wait a number of frames, wait a number of
// milliseconds, or stop. [Start] registers the driver that interprets
// those instructions.
//
// Routines can be written as explicit state machines ([Func]) or as
// straight-line code with [Seq]:
//
//	fade := coroutine.Seq(func(t *coroutine.Tick, yield func(coroutine.Instruction) bool) {
//	    for alpha := 1.0; alpha > 0; alpha -= t.ElapsedMS / 500 {
//	        sprite.SetProp("alpha", alpha, nil)
//	        if !yield(coroutine.Continue()) {
//	            return
//	        }
//	    }
//	})
//	co := coroutine.Start(s, coroutine.Chain(coroutine.Delay(250), fade))
//	defer co.Dispose()
//
// [Chain], [Repeat] and [Tween] compose routines; nested combinators
// behave exactly like their inlined equivalents.
package coroutine
