package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	// Test cases
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags", args: []string{"cmd",
			"-c", "-s", "prod", "-b", "redis", "-table", "tbl", "-d", "db", "-r", "redis:6379",
			"-region", "eu-west-1", "-endpoint", "http://localhost:8000", "-bucket", "bkt", "-timeout", "3s", "-log", "json",
		}, expectPanic: false,
			expected: &Config{
				CreateUser:   true,
				Stage:        "prod",
				Backend:      "redis",
				TableName:    "tbl",
				DatabaseDSN:  "db",
				RedisAddr:    "redis:6379",
				AWSRegion:    "eu-west-1",
				AWSEndpoint:  "http://localhost:8000",
				S3Bucket:     "bkt",
				StoreTimeout: 3 * time.Second,
				LogFormat:    "json",
			}},
		{name: "action switches", args: []string{"cmd", "-l", "-t"}, expectPanic: false,
			expected: &Config{ListUsers: true, TestPassword: true}},
		{name: "long aliases", args: []string{"cmd", "--create-user", "--stage", "prod", "--timeout=2s"}, expectPanic: false,
			expected: &Config{CreateUser: true, Stage: "prod", StoreTimeout: 2 * time.Second}},
		{name: "long list and test aliases", args: []string{"cmd", "--list-users", "-test-password", "--stage=qa"}, expectPanic: false,
			expected: &Config{ListUsers: true, TestPassword: true, Stage: "qa"}},
		{name: "stray argument after switch", args: []string{"cmd", "-c", "leftover", "-s", "prod"}, expectPanic: false,
			expected: &Config{CreateUser: true, Stage: "prod"}},
		{name: "unrelated flags ignored", args: []string{"cmd", "-config", "x.json", "-zzz", "1"}, expectPanic: false,
			expected: &Config{}},
		{name: "bad duration", args: []string{"cmd", "-timeout", "soon"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
