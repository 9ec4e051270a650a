package errors

import (
	"go.uber.org/zap"
)

// LogHandler is an ErrorHandler that writes errors to a zap logger.
type LogHandler struct {
	// Verbose attaches stack traces to every entry.
	Verbose bool

	logger *zap.Logger
}

// NewLogHandler returns a LogHandler writing to logger. A nil logger falls
// back to a production logger, or a no-op logger if that cannot be built.
func NewLogHandler(logger *zap.Logger) *LogHandler {
	if logger == nil {
		l, err := zap.NewProduction()
		if err != nil {
			l = zap.NewNop()
		}
		logger = l
	}
	return &LogHandler{logger: logger.Named("sceneloop")}
}

// HandleError logs a LoopError.
func (h *LogHandler) HandleError(err *LoopError) {
	if err == nil {
		return
	}
	fields := []zap.Field{
		zap.String("op", err.Op),
		zap.Stringer("kind", err.Kind),
		zap.Error(err.Err),
	}
	if err.Frame != 0 {
		fields = append(fields, zap.Uint64("frame", err.Frame))
	}
	if h.Verbose && err.StackTrace != "" {
		fields = append(fields, zap.String("stack", err.StackTrace))
	}
	h.logger.Error("runtime error", fields...)
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	fields := []zap.Field{
		zap.String("op", err.Op),
		zap.Any("value", err.Value),
	}
	if h.Verbose && err.StackTrace != "" {
		fields = append(fields, zap.String("stack", err.StackTrace))
	}
	h.logger.Error("recovered panic", fields...)
}
