package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/userkeeper/internal/config"
	"github.com/dmitrijs2005/userkeeper/internal/logging"
	"github.com/dmitrijs2005/userkeeper/internal/repositories/repomanager"
	"github.com/dmitrijs2005/userkeeper/internal/repositories/users"
	"github.com/dmitrijs2005/userkeeper/internal/services"
)

// Process exit codes returned by Run.
const (
	ExitOK      = 0
	ExitFailure = 1
)

var errNoAction = errors.New("no action given: use -c, -l or -t")

type action int

const (
	actionNone action = iota
	actionCreateUser
	actionListUsers
	actionTestPassword
)

// App runs one userctl action against a credential store.
type App struct {
	config  *config.Config
	users   *services.UserService
	logger  logging.Logger
	closeFn repomanager.CloseFunc

	reader *bufio.Reader
	fd     int
	out    io.Writer
	errOut io.Writer
}

// NewApp validates cfg, builds the logger on stderr and opens the
// configured store.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.LogFormat, os.Stderr)
	if err != nil {
		return nil, err
	}
	logger = logger.With("backend", cfg.Backend, "stage", cfg.Stage, "table", cfg.TableName)

	repo, closeFn, err := repomanager.NewUsersRepository(ctx, cfg)
	if err != nil {
		logger.Error(ctx, "opening credential store failed", "error", err)
		return nil, err
	}

	a := newApp(cfg, repo, closeFn, logger, os.Stdin, int(os.Stdin.Fd()), os.Stdout)
	a.errOut = os.Stderr
	return a, nil
}

func newApp(cfg *config.Config, repo users.Repository, closeFn repomanager.CloseFunc,
	logger logging.Logger, in io.Reader, fd int, out io.Writer) *App {
	return &App{
		config:  cfg,
		users:   services.NewUserService(repo, logger, cfg.StoreTimeout),
		logger:  logger,
		closeFn: closeFn,
		reader:  bufio.NewReader(in),
		fd:      fd,
		out:     out,
		errOut:  out,
	}
}

// Run executes the selected action and returns the process exit code.
// The store is closed before Run returns.
func (a *App) Run(ctx context.Context) int {
	defer a.close(ctx)

	var err error
	switch a.selectAction() {
	case actionCreateUser:
		err = a.CreateUser(ctx)
	case actionListUsers:
		err = a.ListUsers(ctx)
	case actionTestPassword:
		err = a.TestPassword(ctx)
	default:
		err = errNoAction
	}

	if err != nil {
		if !errors.Is(err, errVerificationFailed) {
			fmt.Fprintf(a.errOut, "error: %v\n", err)
		}
		return ExitFailure
	}
	return ExitOK
}

func (a *App) selectAction() action {
	switch {
	case a.config.CreateUser:
		return actionCreateUser
	case a.config.ListUsers:
		return actionListUsers
	case a.config.TestPassword:
		return actionTestPassword
	default:
		return actionNone
	}
}

func (a *App) close(ctx context.Context) {
	if a.closeFn == nil {
		return
	}
	if err := a.closeFn(); err != nil {
		a.logger.Warn(ctx, "closing credential store failed", "error", err)
	}
}
