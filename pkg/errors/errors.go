// Package errors provides structured error handling for sceneloop.
//
// Structural violations of the scene graph and misuse of scope-bound
// primitives are reported by panicking with a *StructuralError. They signal
// an integration bug and are never recovered internally. Everything else
// flows through [Report] and [ReportPanic] to the configured [ErrorHandler].
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindClock indicates a frame clock failure.
	KindClock
	// KindConfig indicates an invalid configuration.
	KindConfig
	// KindMetrics indicates a failure exporting metrics.
	KindMetrics
)

func (k ErrorKind) String() string {
	switch k {
	case KindClock:
		return "clock"
	case KindConfig:
		return "config"
	case KindMetrics:
		return "metrics"
	default:
		return "unknown"
	}
}

// LoopError represents a structured runtime error.
type LoopError struct {
	// Op is the operation that failed (e.g., "frameclock.Ticker.loop").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Frame is the frame counter at the time of the error, if known.
	Frame uint64
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *LoopError) Error() string {
	if e.Frame != 0 {
		return fmt.Sprintf("%s [%s] frame=%d: %v", e.Op, e.Kind, e.Frame, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *LoopError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "frameclock.Ticker.loop").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes the panic value when it is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// StructuralError describes a violated structural contract: a child of the
// wrong type, removal of a node that is not a child, a mutation of a leaf,
// or a scope-bound primitive used outside its scope.
type StructuralError struct {
	// Op is the rejected operation (e.g., "AddChild").
	Op string
	// Node describes the node the operation was applied to (e.g., "leaf#12").
	Node string
	// Reason states the violated invariant.
	Reason string
}

func (e *StructuralError) Error() string {
	if e.Node == "" {
		return fmt.Sprintf("structural violation in %s: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("structural violation in %s on %s: %s", e.Op, e.Node, e.Reason)
}

// Structural panics with a *StructuralError. It never returns.
func Structural(op, node, reason string) {
	panic(&StructuralError{Op: op, Node: node, Reason: reason})
}

// ErrorHandler receives errors reported by the runtime.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *LoopError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
