package users

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/userkeeper/internal/common"
	"github.com/dmitrijs2005/userkeeper/internal/models"
)

// MemoryRepository keeps credentials in a process-local map. It backs the
// "memory" backend and tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	creds map[string]*models.Credential
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{creds: make(map[string]*models.Credential)}
}

func (r *MemoryRepository) Put(ctx context.Context, username string, cred *models.Credential) error {
	if err := validatePut(username, cred); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return storeError("memory", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.creds[username] = withUsername(username, cred)

	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, username string) (*models.Credential, error) {
	if err := validateGet(username); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, storeError("memory", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	cred, ok := r.creds[username]
	if !ok {
		return nil, common.ErrorNotFound
	}

	return cred.Clone(), nil
}

func (r *MemoryRepository) ListUsernames(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, storeError("memory", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.creds))
	for name := range r.creds {
		names = append(names, name)
	}

	return names, nil
}
