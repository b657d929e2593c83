package logger

import (
	"context"
	"log/slog"
)

type loggerKey struct{}

// With stores a child logger carrying fields, e.g. traceID or userID, in ctx.
func With(ctx context.Context, fields ...any) context.Context {
	return context.WithValue(ctx, loggerKey{}, From(ctx).With(fields...))
}

// From returns the request-scoped logger, falling back to the process logger.
func From(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
			return l
		}
	}
	if l := LoggerWrapper(); l != nil {
		return l
	}
	return slog.Default()
}
