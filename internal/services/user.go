// Package services contains the credential workflows used by the CLI:
// creating a credential, listing usernames and checking a password. It
// joins the cryptox codec to a users.Repository and turns every
// authentication failure into the same common.ErrorUnauthorized.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/userkeeper/internal/common"
	"github.com/dmitrijs2005/userkeeper/internal/cryptox"
	"github.com/dmitrijs2005/userkeeper/internal/logging"
	"github.com/dmitrijs2005/userkeeper/internal/models"
	"github.com/dmitrijs2005/userkeeper/internal/repositories/users"
)

// UserService provides credential operations over an injected repository:
// - CreateUser: encode a password and store it under a username
// - ListUsers: list stored usernames
// - Authenticate: check a password against the stored credential
type UserService struct {
	repo         users.Repository
	logger       logging.Logger
	storeTimeout time.Duration

	dummyOnce sync.Once
	dummy     *models.Credential
}

// NewUserService constructs a UserService. Each repository call is bounded
// by storeTimeout; a non-positive value leaves the caller's context as is.
func NewUserService(repo users.Repository, logger logging.Logger, storeTimeout time.Duration) *UserService {
	return &UserService{
		repo:         repo,
		logger:       logger,
		storeTimeout: storeTimeout,
	}
}

// CreateUser stores a new credential for username, replacing any existing
// one. Empty usernames and empty passwords are rejected with
// common.ErrorInvalidInput.
func (s *UserService) CreateUser(ctx context.Context, username, password string) error {
	if username == "" {
		return fmt.Errorf("%w: username is empty", common.ErrorInvalidInput)
	}
	if password == "" {
		return fmt.Errorf("%w: password is empty", common.ErrorInvalidInput)
	}

	cred, err := cryptox.Encode(password, nil)
	if err != nil {
		s.logger.Error(ctx, "credential encoding failed", "username", username, "error", err)
		return err
	}

	sctx, cancel := s.storeContext(ctx)
	defer cancel()

	if err := s.repo.Put(sctx, username, cred); err != nil {
		s.logger.Error(ctx, "storing credential failed", "username", username, "error", err)
		return err
	}

	s.logger.Info(ctx, "credential created", "username", username, "hash", cred.HashAlgorithm, "rounds", cred.Rounds)
	return nil
}

// ListUsers returns all stored usernames.
func (s *UserService) ListUsers(ctx context.Context) ([]string, error) {
	sctx, cancel := s.storeContext(ctx)
	defer cancel()

	names, err := s.repo.ListUsernames(sctx)
	if err != nil {
		s.logger.Error(ctx, "listing users failed", "error", err)
		return nil, err
	}
	return names, nil
}

// Authenticate returns nil when password matches the credential stored for
// username.
//
// An unknown username, a wrong password and an unreadable stored credential
// all return common.ErrorUnauthorized. Unknown users are checked against a
// dummy credential so the KDF cost is paid either way. Store failures are
// returned as they are (wrapping common.ErrorStoreUnavailable) so callers
// may retry them.
func (s *UserService) Authenticate(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("%w: username and password are required", common.ErrorInvalidInput)
	}

	sctx, cancel := s.storeContext(ctx)
	cred, err := s.repo.Get(sctx, username)
	cancel()

	switch {
	case err == nil:
	case errors.Is(err, common.ErrorStoreUnavailable):
		s.logger.Error(ctx, "loading credential failed", "username", username, "error", err)
		return err
	case errors.Is(err, common.ErrorNotFound):
		cryptox.Verify(password, s.dummyCredential())
		s.logger.Warn(ctx, "authentication failed", "username", username)
		return common.ErrorUnauthorized
	default:
		cryptox.Verify(password, s.dummyCredential())
		s.logger.Error(ctx, "stored credential unreadable", "username", username, "error", err)
		return common.ErrorUnauthorized
	}

	if !cryptox.Verify(password, cred) {
		s.logger.Warn(ctx, "authentication failed", "username", username)
		return common.ErrorUnauthorized
	}

	s.logger.Info(ctx, "authentication succeeded", "username", username)
	return nil
}

func (s *UserService) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storeTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.storeTimeout)
}

// dummyCredential is derived once with the current defaults and a zero salt.
// It is never stored; a match against it is ignored.
func (s *UserService) dummyCredential() *models.Credential {
	s.dummyOnce.Do(func() {
		cred, err := cryptox.Encode("", make([]byte, cryptox.SaltSize))
		if err != nil {
			// unreachable: a salt is given, so no randomness is read
			panic(err)
		}
		s.dummy = cred
	})
	return s.dummy
}
