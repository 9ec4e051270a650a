package coroutine

import "fmt"

// Op selects what the driver does after a resumption.
type Op uint8

const (
	// OpContinue resumes on the next tick.
	OpContinue Op = iota
	// OpStop ends the coroutine permanently.
	OpStop
	// OpWaitMS suspends until the given milliseconds have accumulated.
	OpWaitMS
	// OpWaitFrames suspends for the given number of ticks.
	OpWaitFrames
)

func (o Op) String() string {
	switch o {
	case OpContinue:
		return "continue"
	case OpStop:
		return "stop"
	case OpWaitMS:
		return "wait-ms"
	case OpWaitFrames:
		return "wait-frames"
	default:
		return fmt.Sprintf("Op(%d)", uint8(o))
	}
}

// Instruction is returned by a resumption. The zero value is Continue.
type Instruction struct {
	Op     Op
	MS     float64
	Frames int
}

func (i Instruction) String() string {
	switch i.Op {
	case OpWaitMS:
		return fmt.Sprintf("wait-ms(%g)", i.MS)
	case OpWaitFrames:
		return fmt.Sprintf("wait-frames(%d)", i.Frames)
	default:
		return i.Op.String()
	}
}

// Continue resumes on the next tick.
func Continue() Instruction { return Instruction{} }

// Stop ends the coroutine. It is never resumed again.
func Stop() Instruction { return Instruction{Op: OpStop} }

// WaitMS suspends until at least ms milliseconds of frame time have passed.
// The wait may overshoot by up to one tick and never resolves early. A
// non-positive ms resumes on the next tick.
func WaitMS(ms float64) Instruction { return Instruction{Op: OpWaitMS, MS: ms} }

// WaitFrames suspends for exactly n ticks. A non-positive n resumes on the
// next tick.
func WaitFrames(n int) Instruction { return Instruction{Op: OpWaitFrames, Frames: n} }
