package logging

import (
	"context"
	"log/slog"
	"strings"
)

// RedactedValue replaces the value of a sensitive field.
const RedactedValue = "[REDACTED]"

// sensitiveFieldNames are keys whose values are never written, whatever the
// caller passes. Matching is case-insensitive.
var sensitiveFieldNames = map[string]struct{}{
	"password":              {},
	"passwd":                {},
	"salt":                  {},
	"hashed":                {},
	"derived_key":           {},
	"derivedkey":            {},
	"secret":                {},
	"redis_password":        {},
	"aws_secret_access_key": {},
}

// IsSensitiveField reports whether values logged under key are redacted.
func IsSensitiveField(key string) bool {
	_, ok := sensitiveFieldNames[strings.ToLower(key)]
	return ok
}

// redactAttr is a slog.HandlerOptions.ReplaceAttr function.
func redactAttr(_ []string, a slog.Attr) slog.Attr {
	if IsSensitiveField(a.Key) {
		return slog.String(a.Key, RedactedValue)
	}
	return a
}

// redactArgs returns a copy of slog-style args with sensitive values
// replaced. Both "key", value pairs and slog.Attr values are handled.
func redactArgs(args []any) []any {
	out := make([]any, 0, len(args))
	for i := 0; i < len(args); i++ {
		switch v := args[i].(type) {
		case slog.Attr:
			out = append(out, redactAttr(nil, v))
		case string:
			if i+1 >= len(args) {
				out = append(out, v)
				continue
			}
			if IsSensitiveField(v) {
				out = append(out, v, RedactedValue)
			} else {
				out = append(out, v, args[i+1])
			}
			i++
		default:
			out = append(out, v)
		}
	}
	return out
}

// redactingHandler applies redactAttr to every record and to attributes
// bound with With, so loggers built on arbitrary handlers are covered too.
type redactingHandler struct {
	next slog.Handler
}

func newRedactingHandler(next slog.Handler) slog.Handler {
	if h, ok := next.(*redactingHandler); ok {
		return h
	}
	return &redactingHandler{next: next}
}

func (h *redactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *redactingHandler) Handle(ctx context.Context, r slog.Record) error {
	clean := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		clean.AddAttrs(redactAttr(nil, a))
		return true
	})
	return h.next.Handle(ctx, clean)
}

func (h *redactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clean := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		clean[i] = redactAttr(nil, a)
	}
	return &redactingHandler{next: h.next.WithAttrs(clean)}
}

func (h *redactingHandler) WithGroup(name string) slog.Handler {
	return &redactingHandler{next: h.next.WithGroup(name)}
}
