// Package users maps usernames to stored credentials in a backing key-value
// store. Each backend translates its own failures into the common error
// taxonomy: a missing username is common.ErrorNotFound, everything else that
// goes wrong talking to the store wraps common.ErrorStoreUnavailable.
package users

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/userkeeper/internal/common"
	"github.com/dmitrijs2005/userkeeper/internal/models"
)

// Repository is the credential store boundary. Implementations must give
// atomic single-key Put and Get; there is no cross-key transaction.
type Repository interface {
	// Put stores cred under username, replacing any existing credential.
	Put(ctx context.Context, username string, cred *models.Credential) error
	// Get returns the credential for username or common.ErrorNotFound.
	Get(ctx context.Context, username string) (*models.Credential, error)
	// ListUsernames returns every stored username in store-native order.
	ListUsernames(ctx context.Context) ([]string, error)
}

// validatePut rejects writes that could not be read back by key.
func validatePut(username string, cred *models.Credential) error {
	if username == "" {
		return fmt.Errorf("%w: username is empty", common.ErrorInvalidInput)
	}
	if cred == nil {
		return fmt.Errorf("%w: credential is nil", common.ErrorInvalidInput)
	}
	return nil
}

func validateGet(username string) error {
	if username == "" {
		return fmt.Errorf("%w: username is empty", common.ErrorInvalidInput)
	}
	return nil
}

func storeError(backend string, err error) error {
	return fmt.Errorf("%s error: %w: %w", backend, common.ErrorStoreUnavailable, err)
}

// withUsername returns a copy of cred keyed to username so the stored
// document always agrees with its key.
func withUsername(username string, cred *models.Credential) *models.Credential {
	c := cred.Clone()
	c.Username = username
	return c
}
