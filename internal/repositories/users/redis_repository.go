package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/userkeeper/internal/common"
	"github.com/dmitrijs2005/userkeeper/internal/models"
	"github.com/redis/go-redis/v9"
)

// Verify interface compliance
var _ Repository = (*RedisRepository)(nil)

// redisScanCount is the COUNT hint passed to SCAN when listing usernames.
const redisScanCount = 100

// RedisRepository stores each credential as a JSON document under the key
// "<table>:<username>". Listing walks the keyspace with SCAN.
type RedisRepository struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisRepository creates a Redis-backed Repository using table as the
// key prefix.
func NewRedisRepository(client redis.UniversalClient, table string) *RedisRepository {
	return &RedisRepository{client: client, prefix: table + ":"}
}

func (r *RedisRepository) key(username string) string {
	return r.prefix + username
}

func (r *RedisRepository) Put(ctx context.Context, username string, cred *models.Credential) error {
	if err := validatePut(username, cred); err != nil {
		return err
	}

	data, err := models.MarshalCredential(withUsername(username, cred))
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, r.key(username), data, 0).Err(); err != nil {
		return storeError("redis", err)
	}

	return nil
}

func (r *RedisRepository) Get(ctx context.Context, username string) (*models.Credential, error) {
	if err := validateGet(username); err != nil {
		return nil, err
	}

	data, err := r.client.Get(ctx, r.key(username)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, storeError("redis", err)
	}

	cred, err := models.UnmarshalCredential(data)
	if err != nil {
		return nil, fmt.Errorf("redis document %q: %w", r.key(username), err)
	}

	return cred, nil
}

func (r *RedisRepository) ListUsernames(ctx context.Context) ([]string, error) {
	match := escapeGlob(r.prefix) + "*"

	names := make([]string, 0)
	iter := r.client.Scan(ctx, 0, match, redisScanCount).Iterator()
	for iter.Next(ctx) {
		names = append(names, strings.TrimPrefix(iter.Val(), r.prefix))
	}

	if err := iter.Err(); err != nil {
		return nil, storeError("redis", err)
	}

	return names, nil
}

// escapeGlob quotes the characters SCAN MATCH treats as pattern syntax.
func escapeGlob(s string) string {
	var b strings.Builder
	for _, ch := range s {
		switch ch {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(ch)
	}
	return b.String()
}
