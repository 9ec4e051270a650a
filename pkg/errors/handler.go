package errors

import (
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"
	"time"
)

// maxStackDepth bounds the number of frames recorded by CaptureStack.
const maxStackDepth = 32

// handlerBox lets an interface value live in an atomic.Pointer.
type handlerBox struct{ h ErrorHandler }

var current atomic.Pointer[handlerBox]

func init() {
	current.Store(&handlerBox{h: NewLogHandler(nil)})
}

// Handler returns the handler errors are currently reported to.
func Handler() ErrorHandler {
	return current.Load().h
}

// SetHandler installs h as the global handler and returns the previous one
// so tests can restore it. A nil h restores a production LogHandler.
func SetHandler(h ErrorHandler) ErrorHandler {
	if h == nil {
		h = NewLogHandler(nil)
	}
	return current.Swap(&handlerBox{h: h}).h
}

// Report sends err to the global handler, stamping it if needed.
func Report(err *LoopError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	Handler().HandleError(err)
}

// ReportPanic sends a recovered panic to the global handler.
func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	Handler().HandlePanic(err)
}

// Recover reports a panic in progress and swallows it.
//
//	defer errors.Recover("frameclock.Ticker.loop")
func Recover(op string) {
	if r := recover(); r != nil {
		reportRecovered(op, r)
	}
}

// RecoverWithCallback is Recover followed by callback(r), letting the
// caller tear down state owned by the failed operation.
func RecoverWithCallback(op string, callback func(r any)) {
	if r := recover(); r != nil {
		reportRecovered(op, r)
		if callback != nil {
			callback(r)
		}
	}
}

func reportRecovered(op string, r any) {
	ReportPanic(&PanicError{
		Op:         op,
		Value:      r,
		StackTrace: CaptureStack(),
		Timestamp:  time.Now(),
	})
}

// CaptureStack returns the caller's stack, one "function\n\tfile:line"
// entry per frame. Frames inside the Go runtime are dropped, so a stack
// captured while recovering starts at the function that panicked.
func CaptureStack() string {
	var pcs [maxStackDepth]uintptr
	n := runtime.Callers(2, pcs[:])
	if n == 0 {
		return ""
	}

	var sb strings.Builder
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if !strings.HasPrefix(frame.Function, "runtime.") && !isOwnFrame(frame.Function) {
			fmt.Fprintf(&sb, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		}
		if !more {
			break
		}
	}
	return sb.String()
}

// isOwnFrame matches the recovery helpers of this package.
func isOwnFrame(fn string) bool {
	i := strings.LastIndex(fn, "/")
	return strings.HasPrefix(fn[i+1:], "errors.") &&
		(strings.HasSuffix(fn, ".Recover") ||
			strings.HasSuffix(fn, ".RecoverWithCallback") ||
			strings.HasSuffix(fn, ".reportRecovered"))
}
