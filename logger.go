package gridcluster

import (
	"context"
	"log/slog"
	"os"

	"github.com/hupe1980/gridcluster/model"
)

// Logger wraps slog.Logger with gridcluster-specific context.
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
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithRegion adds the canonical id of a region to the logger.
func (l *Logger) WithRegion(canonical model.PointID) *Logger {
	return &Logger{
		Logger: l.Logger.With("region", canonical),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogRun logs the outcome of an agglomeration run.
func (l *Logger) LogRun(ctx context.Context, points, merges, regions int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "clustering failed",
			"points", points,
			"merges", merges,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "clustering completed",
		"points", points,
		"merges", merges,
		"regions", regions,
	)
}

// LogRegion logs how a region was partitioned.
func (l *Logger) LogRegion(ctx context.Context, leaves, clusters int, quality float64, accepted bool) {
	l.DebugContext(ctx, "region partitioned",
		"leaves", leaves,
		"clusters", clusters,
		"quality", quality,
		"accepted", accepted,
	)
}
