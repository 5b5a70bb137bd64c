package users

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/dmitrijs2005/userkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_PutGet(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	c := testCredential()
	require.NoError(t, repo.Put(ctx, "alice", c))

	got, err := repo.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, c.Salt, got.Salt)
	assert.Equal(t, c.DerivedKey, got.DerivedKey)

	// caller mutations must not leak into the store
	got.DerivedKey[0] ^= 0xff
	c.Salt[0] ^= 0xff
	again, err := repo.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, testCredential().DerivedKey, again.DerivedKey)
	assert.Equal(t, testCredential().Salt, again.Salt)
}

func TestMemoryRepository_LastWriteWins(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	first := testCredential()
	second := testCredential()
	second.Rounds = 1

	require.NoError(t, repo.Put(ctx, "alice", first))
	require.NoError(t, repo.Put(ctx, "alice", second))

	got, err := repo.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Rounds)

	names, err := repo.ListUsernames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, names)
}

func TestMemoryRepository_NotFound(t *testing.T) {
	repo := NewMemoryRepository()

	_, err := repo.Get(context.Background(), "bob")
	assert.True(t, errors.Is(err, common.ErrorNotFound))
}

func TestMemoryRepository_UsernamesAreCaseSensitive(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, "Alice", testCredential()))

	_, err := repo.Get(ctx, "alice")
	assert.True(t, errors.Is(err, common.ErrorNotFound))

	require.NoError(t, repo.Put(ctx, "alice", testCredential()))
	names, err := repo.ListUsernames(ctx)
	require.NoError(t, err)
	sort.Strings(names)
	assert.Equal(t, []string{"Alice", "alice"}, names)
}

func TestMemoryRepository_CancelledContext(t *testing.T) {
	repo := NewMemoryRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repo.Put(ctx, "alice", testCredential())
	assert.True(t, errors.Is(err, common.ErrorStoreUnavailable))
	assert.True(t, errors.Is(err, context.Canceled))

	_, err = repo.Get(ctx, "alice")
	assert.True(t, errors.Is(err, common.ErrorStoreUnavailable))

	_, err = repo.ListUsernames(ctx)
	assert.True(t, errors.Is(err, common.ErrorStoreUnavailable))
}
