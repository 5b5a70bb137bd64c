package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "correct horse battery staple"

func newJSONSlog(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewSlogLogger(slog.New(h)), &buf
}

func TestSlogLogger_RedactsSensitiveKeys(t *testing.T) {
	log, buf := newJSONSlog(t)
	ctx := context.Background()

	log.Debug(ctx, "credential", "username", "alice", "password", secret)
	log.Info(ctx, "credential", "salt", []byte{1, 2, 3}, "hashed", []byte{4, 5})
	log.Warn(ctx, "credential", slog.String("derived_key", secret))
	log.Error(ctx, "credential", "Password", secret, "rounds", 100000)

	out := buf.String()
	assert.NotContains(t, out, secret)
	assert.NotContains(t, out, "AQID")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 4)
	assert.Equal(t, "alice", lines[0]["username"])
	assert.Equal(t, RedactedValue, lines[0]["password"])
	assert.Equal(t, RedactedValue, lines[1]["salt"])
	assert.Equal(t, RedactedValue, lines[1]["hashed"])
	assert.Equal(t, RedactedValue, lines[2]["derived_key"])
	assert.Equal(t, RedactedValue, lines[3]["Password"])
	assert.EqualValues(t, 100000, lines[3]["rounds"])

	for i, level := range []string{"DEBUG", "INFO", "WARN", "ERROR"} {
		assert.Equal(t, level, lines[i]["level"])
	}
}

func TestSlogLogger_WithRedacts(t *testing.T) {
	log, buf := newJSONSlog(t)

	log.With("backend", "redis", "redis_password", secret).Info(context.Background(), "connected")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "redis", lines[0]["backend"])
	assert.Equal(t, RedactedValue, lines[0]["redis_password"])
}

func TestRedactArgs(t *testing.T) {
	args := []any{"username", "alice", "salt", "c2FsdA==", 7, slog.Int("rounds", 1), "dangling"}
	got := redactArgs(args)

	assert.Equal(t, []any{"username", "alice", "salt", RedactedValue, 7, slog.Int("rounds", 1), "dangling"}, got)
	assert.Equal(t, "c2FsdA==", args[3], "caller args must not be modified")
}

func TestIsSensitiveField(t *testing.T) {
	for _, k := range []string{"password", "PASSWORD", "salt", "hashed", "derived_key"} {
		assert.True(t, IsSensitiveField(k), k)
	}
	for _, k := range []string{"username", "hash", "rounds", "backend", "error"} {
		assert.False(t, IsSensitiveField(k), k)
	}
}

func TestNew_Redacts(t *testing.T) {
	for _, format := range []string{"text", "json", "zerolog"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			l, err := New(format, &buf)
			require.NoError(t, err)

			l.With("salt", secret).Info(context.Background(), "created", "username", "alice", "password", secret)

			out := buf.String()
			assert.NotContains(t, out, secret)
			assert.Contains(t, out, RedactedValue)
			assert.Contains(t, out, "alice")
			if format != "text" {
				var m map[string]any
				require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &m))
				assert.Equal(t, RedactedValue, m["password"])
			}
		})
	}
}
