package errors

import (
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoopErrorString(t *testing.T) {
	err := &LoopError{
		Op:   "config.Load",
		Kind: KindConfig,
		Err:  stderrors.New("boom"),
	}
	want := "config.Load [config]: boom"
	if got := err.Error(); got != want {
		t.Errorf("LoopError.Error() = %q, want %q", got, want)
	}
}

func TestLoopErrorWithFrame(t *testing.T) {
	err := &LoopError{
		Op:    "scheduler.Tick",
		Kind:  KindClock,
		Frame: 42,
		Err:   stderrors.New("late"),
	}
	got := err.Error()
	if !strings.Contains(got, "frame=42") {
		t.Errorf("error string %q should contain %q", got, "frame=42")
	}
}

func TestLoopErrorUnwrap(t *testing.T) {
	inner := stderrors.New("inner")
	err := &LoopError{Op: "op", Err: inner}
	if !stderrors.Is(err, inner) {
		t.Error("expected errors.Is to find the wrapped error")
	}
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindClock, "clock"},
		{KindConfig, "config"},
		{KindMetrics, "metrics"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestPanicErrorString(t *testing.T) {
	err := &PanicError{
		Value:     "test panic",
		Timestamp: time.Now(),
	}
	want := "panic: test panic"
	if got := err.Error(); got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
}

func TestPanicErrorStringWithOp(t *testing.T) {
	err := &PanicError{
		Op:    "frameclock.Ticker.loop",
		Value: "test panic",
	}
	want := "panic in frameclock.Ticker.loop: test panic"
	if got := err.Error(); got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
}

func TestStructuralPanics(t *testing.T) {
	defer func() {
		r := recover()
		se, ok := r.(*StructuralError)
		if !ok {
			t.Fatalf("recovered %T, want *StructuralError", r)
		}
		want := "structural violation in AddChild on leaf#3: leaf nodes cannot have children"
		if se.Error() != want {
			t.Errorf("StructuralError.Error() = %q, want %q", se.Error(), want)
		}
	}()
	Structural("AddChild", "leaf#3", "leaf nodes cannot have children")
	t.Fatal("Structural returned")
}

func TestStructuralErrorWithoutNode(t *testing.T) {
	err := &StructuralError{Op: "OnCleanup", Reason: "called outside of an owner"}
	want := "structural violation in OnCleanup: called outside of an owner"
	if got := err.Error(); got != want {
		t.Errorf("StructuralError.Error() = %q, want %q", got, want)
	}
}

func TestReport(t *testing.T) {
	var captured *LoopError
	handler := &testHandler{
		onError: func(err *LoopError) {
			captured = err
		},
	}

	defer SetHandler(SetHandler(handler))

	Report(&LoopError{
		Op:   "test.op",
		Kind: KindConfig,
		Err:  stderrors.New("bad"),
	})

	if captured == nil {
		t.Fatal("expected error to be captured")
	}
	if captured.Op != "test.op" {
		t.Errorf("Op = %q, want %q", captured.Op, "test.op")
	}
	if captured.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestRecover(t *testing.T) {
	var captured *PanicError
	handler := &testHandler{
		onPanic: func(err *PanicError) {
			captured = err
		},
	}

	defer SetHandler(SetHandler(handler))

	func() {
		defer Recover("test.recover")
		panic("intentional test panic")
	}()

	if captured == nil {
		t.Fatal("expected panic to be recovered and captured")
	}
	if captured.Value != "intentional test panic" {
		t.Errorf("Value = %v, want %q", captured.Value, "intentional test panic")
	}
	if captured.Op != "test.recover" {
		t.Errorf("Op = %q, want %q", captured.Op, "test.recover")
	}
	if strings.HasPrefix(captured.StackTrace, "runtime.") || !strings.Contains(captured.StackTrace, "TestRecover") {
		t.Errorf("stack should start at the panicking function, got:\n%s", captured.StackTrace)
	}
}

func TestRecoverWithCallback(t *testing.T) {
	defer SetHandler(SetHandler(&testHandler{}))

	var got any
	func() {
		defer RecoverWithCallback("test.callback", func(r any) { got = r })
		panic(42)
	}()
	if got != 42 {
		t.Errorf("callback value = %v, want 42", got)
	}
}

func TestCaptureStack(t *testing.T) {
	stack := CaptureStack()
	if stack == "" {
		t.Error("expected non-empty stack trace")
	}
	if !strings.Contains(stack, "testing") && !strings.Contains(stack, "runtime") {
		t.Errorf("stack trace should contain testing or runtime frames, got: %s", stack)
	}
}

func TestSetHandlerNil(t *testing.T) {
	prev := SetHandler(&testHandler{})
	defer SetHandler(prev)

	if _, ok := SetHandler(nil).(*testHandler); !ok {
		t.Error("SetHandler should return the previous handler")
	}
	if _, ok := Handler().(*LogHandler); !ok {
		t.Errorf("SetHandler(nil) should set LogHandler, got %T", Handler())
	}
}

func TestLogHandlerWritesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := NewLogHandler(zap.New(core))
	h.Verbose = true

	h.HandleError(&LoopError{Op: "op.one", Kind: KindClock, Err: stderrors.New("x"), Frame: 7, StackTrace: "stack"})
	h.HandlePanic(&PanicError{Op: "op.two", Value: "v"})

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("logged %d entries, want 2", len(entries))
	}
	first := entries[0].ContextMap()
	if first["op"] != "op.one" {
		t.Errorf("op = %v, want op.one", first["op"])
	}
	if first["frame"] != uint64(7) {
		t.Errorf("frame = %v, want 7", first["frame"])
	}
	if first["stack"] != "stack" {
		t.Errorf("stack = %v, want stack", first["stack"])
	}
	if entries[1].Message != "recovered panic" {
		t.Errorf("message = %q, want %q", entries[1].Message, "recovered panic")
	}
}

type testHandler struct {
	onError func(*LoopError)
	onPanic func(*PanicError)
}

func (h *testHandler) HandleError(err *LoopError) {
	if h.onError != nil {
		h.onError(err)
	}
}

func (h *testHandler) HandlePanic(err *PanicError) {
	if h.onPanic != nil {
		h.onPanic(err)
	}
}
