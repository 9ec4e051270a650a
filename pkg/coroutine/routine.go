package coroutine

import "iter"

// Routine is a resumable step sequence.
//
// Resume runs the routine up to its next suspension point. elapsedMS is the
// frame time accumulated since the previous resumption. done reports that
// the sequence is exhausted; an instruction with OpStop ends the routine
// whether or not done is set.
type Routine interface {
	Resume(elapsedMS float64) (ins Instruction, done bool)
}

// Factory produces a fresh routine instance.
type Factory func() Routine

// Closer is implemented by routines that hold resources. Close is called
// once the routine has finished, stopped or been abandoned.
type Closer interface {
	Close()
}

// Func adapts a function to Routine.
type Func func(elapsedMS float64) (Instruction, bool)

// Resume calls f.
func (f Func) Resume(elapsedMS float64) (Instruction, bool) { return f(elapsedMS) }

func release(r Routine) {
	if c, ok := r.(Closer); ok {
		c.Close()
	}
}

// Tick carries per-resumption data into a Seq body.
type Tick struct {
	// ElapsedMS is the frame time since the previous resumption.
	ElapsedMS float64
}

// Seq turns straight-line code into a routine factory. Each call of yield
// suspends the body with an instruction; yield returns false when the
// routine has been stopped or disposed, and the body must then return.
// Returning from the body completes the routine.
func Seq(body func(t *Tick, yield func(Instruction) bool)) Factory {
	return func() Routine {
		return &seqRoutine{body: body}
	}
}

type seqRoutine struct {
	body func(*Tick, func(Instruction) bool)
	tick Tick
	next func() (Instruction, bool)
	stop func()
	done bool
}

func (r *seqRoutine) Resume(elapsedMS float64) (Instruction, bool) {
	if r.done {
		return Instruction{}, true
	}
	if r.next == nil {
		r.next, r.stop = iter.Pull(iter.Seq[Instruction](func(yield func(Instruction) bool) {
			r.body(&r.tick, yield)
		}))
	}
	r.tick.ElapsedMS = elapsedMS
	ins, ok := r.next()
	if !ok {
		r.Close()
		return Instruction{}, true
	}
	return ins, false
}

// Close releases the body if it is still suspended.
func (r *seqRoutine) Close() {
	r.done = true
	if r.stop != nil {
		r.stop()
	}
}
