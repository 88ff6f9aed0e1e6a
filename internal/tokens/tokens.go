// Package tokens stores opaque session tokens in redis with a TTL. The redis
// deployment is shared with the job queue.
package tokens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TTL is how long an issued token stays valid. Expiry is enforced by redis,
// the store never re-checks it.
const TTL = 24 * time.Hour

const keyPrefix = "auth_"

// Store maps opaque bearer tokens to user ids.
type Store struct {
	rdb *redis.Client
}

// NewStore wraps a redis client.
func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// Issue generates a random token for userID and stores it for TTL.
func (s *Store) Issue(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	if err := s.rdb.Set(ctx, key(token), userID, TTL).Err(); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	return token, nil
}

// Resolve returns the user id behind token, or "" when the token is unknown
// or expired.
func (s *Store) Resolve(ctx context.Context, token string) (string, error) {
	userID, err := s.rdb.Get(ctx, key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("resolve token: %w", err)
	}
	return userID, nil
}

// Revoke deletes the token mapping and reports whether it existed.
func (s *Store) Revoke(ctx context.Context, token string) (bool, error) {
	n, err := s.rdb.Del(ctx, key(token)).Result()
	if err != nil {
		return false, fmt.Errorf("revoke token: %w", err)
	}
	return n > 0, nil
}

// Ping reports whether redis is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func key(token string) string {
	return keyPrefix + token
}
