package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/userkeeper/internal/common"
	"github.com/dmitrijs2005/userkeeper/internal/config"
	"github.com/dmitrijs2005/userkeeper/internal/logging"
	"github.com/dmitrijs2005/userkeeper/internal/models"
	"github.com/dmitrijs2005/userkeeper/internal/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingRepo struct{}

func (failingRepo) Put(context.Context, string, *models.Credential) error {
	return errors.Join(common.ErrorStoreUnavailable, errors.New("connection refused"))
}

func (failingRepo) Get(context.Context, string) (*models.Credential, error) {
	return nil, errors.Join(common.ErrorStoreUnavailable, errors.New("connection refused"))
}

func (failingRepo) ListUsernames(context.Context) ([]string, error) {
	return nil, errors.Join(common.ErrorStoreUnavailable, errors.New("connection refused"))
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.Backend = config.BackendMemory
	cfg.TableName = config.DefaultTableName
	cfg.StoreTimeout = time.Second
	return cfg
}

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// runWith runs one action over repo with piped input and returns the exit
// code and everything written to stdout and stderr.
func runWith(t *testing.T, repo users.Repository, set func(*config.Config), input string) (int, string) {
	t.Helper()
	stubTerminal(t, false, nil, nil)

	cfg := testConfig()
	set(cfg)

	var out bytes.Buffer
	closed := false
	app := newApp(cfg, repo, func() error { closed = true; return nil }, discardLogger(),
		strings.NewReader(input), 0, &out)

	code := app.Run(context.Background())
	assert.True(t, closed, "store must be closed")
	return code, out.String()
}

func create(c *config.Config) { c.CreateUser = true }
func list(c *config.Config)   { c.ListUsers = true }
func test(c *config.Config)   { c.TestPassword = true }

func TestApp_AliceScenario(t *testing.T) {
	repo := users.NewMemoryRepository()

	code, _ := runWith(t, repo, create, "alice\ncorrect horse\n")
	require.Equal(t, ExitOK, code)

	code, out := runWith(t, repo, list, "")
	require.Equal(t, ExitOK, code)
	assert.Equal(t, "alice\n", out)

	code, out = runWith(t, repo, test, "alice\ncorrect horse\n")
	assert.Equal(t, ExitOK, code)
	assert.Equal(t, "Username: Password: Password verified.\n", out)

	code, out = runWith(t, repo, test, "alice\nwrong\n")
	assert.Equal(t, ExitFailure, code)
	assert.Equal(t, "Username: Password: Password verification failed.\n", out)

	code, out = runWith(t, repo, test, "bob\ncorrect horse\n")
	assert.Equal(t, ExitFailure, code)
	assert.Equal(t, "Username: Password: Password verification failed.\n", out)
}

func TestApp_CreateUserTrimsInput(t *testing.T) {
	repo := users.NewMemoryRepository()

	code, _ := runWith(t, repo, create, "  alice  \n  pw  \n")
	require.Equal(t, ExitOK, code)

	code, out := runWith(t, repo, test, "alice\npw\n")
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, out, "Password verified.")
}

func TestApp_CreateUserRejectsEmpty(t *testing.T) {
	repo := users.NewMemoryRepository()

	code, out := runWith(t, repo, create, "alice\n\n")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, out, "error:")
	assert.Contains(t, out, common.ErrorInvalidInput.Error())

	names, err := repo.ListUsernames(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestApp_TestPasswordEmptyInput(t *testing.T) {
	code, out := runWith(t, users.NewMemoryRepository(), test, "\n\n")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, out, "Password verification failed.")
}

func TestApp_StoreUnavailable(t *testing.T) {
	tests := []struct {
		name  string
		set   func(*config.Config)
		input string
	}{
		{name: "create", set: create, input: "alice\npw\n"},
		{name: "list", set: list},
		{name: "test", set: test, input: "alice\npw\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out := runWith(t, failingRepo{}, tt.set, tt.input)
			assert.Equal(t, ExitFailure, code)
			assert.Contains(t, out, "error:")
			assert.NotContains(t, out, "Password verification failed.")
		})
	}
}

func TestApp_NoAction(t *testing.T) {
	code, out := runWith(t, users.NewMemoryRepository(), func(*config.Config) {}, "")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, out, errNoAction.Error())
}

func TestApp_SelectActionPrecedence(t *testing.T) {
	tests := []struct {
		name string
		set  func(*config.Config)
		want action
	}{
		{name: "none", set: func(*config.Config) {}, want: actionNone},
		{name: "create wins", set: func(c *config.Config) { c.CreateUser, c.ListUsers, c.TestPassword = true, true, true }, want: actionCreateUser},
		{name: "list over test", set: func(c *config.Config) { c.ListUsers, c.TestPassword = true, true }, want: actionListUsers},
		{name: "test", set: test, want: actionTestPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.set(cfg)
			a := &App{config: cfg}
			assert.Equal(t, tt.want, a.selectAction())
		})
	}
}

func TestApp_CloseErrorIsLogged(t *testing.T) {
	var logs bytes.Buffer
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(&logs, nil)))

	cfg := testConfig()
	cfg.ListUsers = true
	var out bytes.Buffer
	app := newApp(cfg, users.NewMemoryRepository(), func() error { return errors.New("close failed") },
		logger, strings.NewReader(""), 0, &out)

	assert.Equal(t, ExitOK, app.Run(context.Background()))
	assert.Contains(t, logs.String(), "closing credential store failed")
}

func TestNewApp_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Backend = "floppy"

	_, err := NewApp(context.Background(), cfg)
	assert.Error(t, err)
}

func TestNewApp_TableNameWithSeparator(t *testing.T) {
	cfg := testConfig()
	cfg.Backend = config.BackendRedis
	cfg.TableName = "users:x"

	_, err := NewApp(context.Background(), cfg)
	assert.ErrorContains(t, err, "must not contain")
}

func TestNewApp_Memory(t *testing.T) {
	cfg := testConfig()

	app, err := NewApp(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, app)
	assert.NotNil(t, app.users)
}
