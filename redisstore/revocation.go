// Package redisstore implements auth.RevocationStore on Redis. Entries
// expire with the tokens they invalidate, so the set stays bounded by the
// refresh token lifetime without any sweeper.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kreasihub/auth/auth"
)

const defaultKeyPrefix = "auth:revoked:"

// RevocationStore tracks retired refresh token IDs in Redis.
type RevocationStore struct {
	client *redis.Client
	prefix string
}

// Option configures the store.
type Option func(*RevocationStore)

// WithKeyPrefix overrides the key namespace, mainly to isolate tests
// sharing one Redis database.
func WithKeyPrefix(prefix string) Option {
	return func(s *RevocationStore) { s.prefix = prefix }
}

// NewRevocationStore creates a store on the given client.
func NewRevocationStore(client *redis.Client, opts ...Option) *RevocationStore {
	s := &RevocationStore{client: client, prefix: defaultKeyPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, s.prefix+tokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token %s: %w", tokenID, err)
	}
	return nil
}

func (s *RevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := s.client.Get(ctx, s.prefix+tokenID).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
		return false, nil
	default:
		return false, fmt.Errorf("check token %s: %w", tokenID, err)
	}
}

var _ auth.RevocationStore = (*RevocationStore)(nil)
