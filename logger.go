package incdbscan

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with engine-specific helpers.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// LogInsert logs a single-point insert.
func (l *Logger) LogInsert(id uint64, dimension int) {
	l.Debug("insert completed",
		"id", id,
		"dimension", dimension,
	)
}

// LogBatchInsert logs a completed insert batch.
func (l *Logger) LogBatchInsert(count int, err error) {
	if err != nil {
		l.Error("batch insert failed",
			"count", count,
			"error", err,
		)
	} else {
		l.Info("batch insert completed",
			"count", count,
		)
	}
}

// LogDelete logs a single-point delete.
func (l *Logger) LogDelete(found bool) {
	l.Debug("delete completed",
		"found", found,
	)
}

// LogBatchDelete logs a completed delete batch.
func (l *Logger) LogBatchDelete(count, found int, err error) {
	if err != nil {
		l.Error("batch delete failed",
			"count", count,
			"error", err,
		)
	} else {
		l.Info("batch delete completed",
			"count", count,
			"found", found,
		)
	}
}

// LogLabelQuery logs a label query batch.
func (l *Logger) LogLabelQuery(count int, err error) {
	if err != nil {
		l.Error("label query failed",
			"count", count,
			"error", err,
		)
	} else {
		l.Debug("label query completed",
			"count", count,
		)
	}
}
