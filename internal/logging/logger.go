// Package logging defines a minimal structured-logging interface used across
// the project, with slog and zerolog implementations.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/rs/zerolog"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "credential created", "username", name, "backend", backend)
//
// Values under sensitive keys such as password, salt or hashed are
// redacted by every implementation; never log secrets under other keys.
type Logger interface {
	// Debug logs a diagnostic message.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// New builds a Logger writing to w in the given format: "text" and "json"
// use slog handlers, "zerolog" uses a zerolog JSON logger.
func New(format string, w io.Writer) (Logger, error) {
	opts := &slog.HandlerOptions{ReplaceAttr: redactAttr}

	switch format {
	case "text":
		return NewSlogLogger(slog.New(slog.NewTextHandler(w, opts))), nil
	case "json":
		return NewSlogLogger(slog.New(slog.NewJSONHandler(w, opts))), nil
	case "zerolog":
		return NewZerologLogger(zerolog.New(w).With().Timestamp().Logger()), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}
