package logging

import (
	"context"
	"log/slog"
)

// SlogLogger adapts *slog.Logger to Logger. Values logged under a sensitive
// key (see IsSensitiveField) are replaced with RedactedValue before they
// reach the handler.
type SlogLogger struct {
	l *slog.Logger
}

// NewSlogLogger wraps l. Its handler is wrapped so redaction also applies to
// attributes added through With.
func NewSlogLogger(l *slog.Logger) *SlogLogger {
	return &SlogLogger{l: slog.New(newRedactingHandler(l.Handler()))}
}

func (s *SlogLogger) Debug(ctx context.Context, msg string, args ...any) {
	s.l.Log(ctx, slog.LevelDebug, msg, redactArgs(args)...)
}

func (s *SlogLogger) Info(ctx context.Context, msg string, args ...any) {
	s.l.Log(ctx, slog.LevelInfo, msg, redactArgs(args)...)
}

func (s *SlogLogger) Warn(ctx context.Context, msg string, args ...any) {
	s.l.Log(ctx, slog.LevelWarn, msg, redactArgs(args)...)
}

func (s *SlogLogger) Error(ctx context.Context, msg string, args ...any) {
	s.l.Log(ctx, slog.LevelError, msg, redactArgs(args)...)
}

func (s *SlogLogger) With(args ...any) Logger {
	return &SlogLogger{l: s.l.With(redactArgs(args)...)}
}
