// Package logging configures the slog logger used for diagnostics.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LevelFromEnv reads the level from LOG_LEVEL (DEBUG, INFO, WARN, ERROR).
// Defaults to WARN so that the interactive shell stays quiet.
func LevelFromEnv() slog.Level {
	switch strings.ToUpper(os.Getenv("LOG_LEVEL")) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// Setup builds a text logger writing to w and installs it as the default.
// debug forces the debug level and adds source locations.
func Setup(w io.Writer, debug bool) *slog.Logger {
	level := LevelFromEnv()
	if debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

type ctxKey string

const loggerKey ctxKey = "logger"

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored in ctx, or the default logger.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// WithSession tags logger with a session id.
func WithSession(logger *slog.Logger, sessionID string) *slog.Logger {
	return logger.With("session_id", sessionID)
}
