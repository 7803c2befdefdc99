package fpgold

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/hupe1980/fpgold/format"
	"github.com/hupe1980/fpgold/rounding"
)

// Logger wraps slog.Logger with fpgold-specific context.
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
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.Level(1000),
		})),
	}
}

// WithFormat adds a width field to the logger.
func (l *Logger) WithFormat(f format.Format) *Logger {
	return &Logger{
		Logger: l.Logger.With("width", f.Width()),
	}
}

// WithMode adds a rounding mode field to the logger.
func (l *Logger) WithMode(rm rounding.Mode) *Logger {
	return &Logger{
		Logger: l.Logger.With("mode", rm.String()),
	}
}

// WithRun adds a run identifier field to the logger.
func (l *Logger) WithRun(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("run", id),
	}
}

// LogAdd logs a single add evaluation.
func (l *Logger) LogAdd(ctx context.Context, f format.Format, rm rounding.Mode, a, b, r uint64) {
	l.DebugContext(ctx, "add evaluated",
		"width", f.Width(),
		"mode", rm.String(),
		"a", f.Hex(a),
		"b", f.Hex(b),
		"result", f.Hex(r),
	)
}

// LogCheck logs the outcome of a scoreboard partition or run.
func (l *Logger) LogCheck(ctx context.Context, name string, total, failed int, err error) {
	switch {
	case err != nil:
		l.ErrorContext(ctx, "check failed",
			"name", name,
			"total", total,
			"error", err,
		)
	case failed > 0:
		l.WarnContext(ctx, "check completed with mismatches",
			"name", name,
			"total", total,
			"failed", failed,
			"passed", total-failed,
		)
	default:
		l.InfoContext(ctx, "check passed",
			"name", name,
			"total", total,
		)
	}
}

// LogMismatch logs one DUT/reference disagreement.
func (l *Logger) LogMismatch(ctx context.Context, f format.Format, rm rounding.Mode, a, b, got, want uint64) {
	l.WarnContext(ctx, "mismatch",
		"width", f.Width(),
		"mode", rm.String(),
		"a", f.Hex(a),
		"b", f.Hex(b),
		"got", f.Hex(got),
		"want", f.Hex(want),
	)
}

// LogVectorSet logs reading or writing a vector set.
func (l *Logger) LogVectorSet(ctx context.Context, name string, count int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "vector set failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "vector set ready",
			"name", name,
			"cases", count,
		)
	}
}

// LogUpload logs storing a blob.
func (l *Logger) LogUpload(ctx context.Context, name string, size int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "upload failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "upload completed",
			"name", name,
			"bytes", size,
		)
	}
}
