package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LevelCritical sits above slog.LevelError and marks failures nobody anticipated.
const LevelCritical = slog.Level(12)

var defaultLogger *slog.Logger

// Configure installs the process logger writing "json" or "text" records. An
// empty format means json in production and text elsewhere. An empty level
// picks info in production and debug elsewhere.
func Configure(env, level, format string) {
	defaultLogger = New(os.Stdout, env, level, format)
	slog.SetDefault(defaultLogger)
}

// New builds a logger without installing it.
func New(w io.Writer, env, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:       parseLevel(env, level),
		ReplaceAttr: replaceLevel,
	}

	if format == "" {
		format = "text"
		if env == "production" {
			format = "json"
		}
	}

	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func LoggerWrapper() *slog.Logger {
	if defaultLogger == nil {
		// lazy initialize a development logger to avoid nil pointer panics
		Configure("development", "", "")
	}
	return defaultLogger
}

// Critical logs msg at LevelCritical.
func Critical(ctx context.Context, l *slog.Logger, msg string, args ...any) {
	if l == nil {
		l = LoggerWrapper()
	}
	l.Log(ctx, LevelCritical, msg, args...)
}

func parseLevel(env, level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "critical":
		return LevelCritical
	}
	if env == "production" {
		return slog.LevelInfo
	}
	return slog.LevelDebug
}

func replaceLevel(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}
	if lvl, ok := a.Value.Any().(slog.Level); ok && lvl >= LevelCritical {
		a.Value = slog.StringValue("CRITICAL")
	}
	return a
}
