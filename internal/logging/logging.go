// Package logging adapts structured zap logging to the processor's
// observability hook. Every run summary carries a stable run identifier
// so concurrent repairs can be correlated in aggregated logs.
package logging

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a production zap logger at the named level (debug,
// info, warn, error). Unknown levels fall back to info.
func NewLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if parsed, err := zapcore.ParseLevel(level); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(parsed)
	}
	return cfg.Build()
}

// RunLogger emits one structured line per processing run.
type RunLogger struct {
	logger *zap.Logger
	runID  string
}

// NewRunLogger wraps logger with a fresh run identifier.
func NewRunLogger(logger *zap.Logger) *RunLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RunLogger{
		logger: logger,
		runID:  uuid.NewString(),
	}
}

// RunID returns the identifier attached to every line this logger emits.
func (l *RunLogger) RunID() string { return l.runID }

// LogRun implements the processor's StepLogger hook.
func (l *RunLogger) LogRun(resource string, steps, diagnostics []string, err error) {
	fields := []zap.Field{
		zap.String("run_id", l.runID),
		zap.String("resource", resource),
		zap.Strings("steps", steps),
	}
	if len(diagnostics) > 0 {
		fields = append(fields, zap.Strings("diagnostics", diagnostics))
	}
	if err != nil {
		l.logger.Warn("json repair failed", append(fields, zap.Error(err))...)
		return
	}
	l.logger.Info("json repair succeeded", fields...)
}
