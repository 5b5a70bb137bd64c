package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/userkeeper/internal/common"
)

const (
	promptUsername = "Username: "
	promptPassword = "Password: "

	msgVerified = "Password verified."
	msgFailed   = "Password verification failed."
)

// errVerificationFailed makes Run exit non-zero after the failure message
// was already printed.
var errVerificationFailed = errors.New("password verification failed")

// readCredentials prompts for a username and password. The returned
// password buffer must be wiped by the caller.
func (a *App) readCredentials() (string, []byte, error) {
	username, err := GetSimpleText(a.reader, promptUsername, a.out)
	if err != nil {
		return "", nil, fmt.Errorf("reading username: %w", err)
	}

	password, err := GetPassword(a.reader, a.fd, promptPassword, a.out)
	if err != nil {
		return "", nil, fmt.Errorf("reading password: %w", err)
	}

	return username, password, nil
}

// CreateUser prompts for credentials and stores them.
func (a *App) CreateUser(ctx context.Context) error {
	username, password, err := a.readCredentials()
	defer common.WipeByteArray(password)
	if err != nil {
		return err
	}

	return a.users.CreateUser(ctx, username, string(password))
}

// ListUsers prints every stored username on its own line.
func (a *App) ListUsers(ctx context.Context) error {
	names, err := a.users.ListUsers(ctx)
	if err != nil {
		return err
	}

	for _, name := range names {
		fmt.Fprintln(a.out, name)
	}
	return nil
}

// TestPassword prompts for credentials and reports whether they match.
// Unknown users and empty input get the same message as a wrong password.
func (a *App) TestPassword(ctx context.Context) error {
	username, password, err := a.readCredentials()
	defer common.WipeByteArray(password)
	if err != nil {
		return err
	}

	err = a.users.Authenticate(ctx, username, string(password))
	switch {
	case err == nil:
		fmt.Fprintln(a.out, msgVerified)
		return nil
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrorInvalidInput):
		fmt.Fprintln(a.out, msgFailed)
		return errVerificationFailed
	default:
		return err
	}
}
