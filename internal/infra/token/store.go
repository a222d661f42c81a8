package token

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "flowtada:credential:"

// Store keeps one-time login tokens in Redis. Entries expire on their own;
// Revoke removes them early (on first use or by support action).
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func (s *Store) Save(ctx context.Context, email, token string) error {
	return s.client.Set(ctx, keyPrefix+email, token, s.ttl).Err()
}

// Get returns the outstanding token for the email, or "" when none exists.
func (s *Store) Get(ctx context.Context, email string) (string, error) {
	val, err := s.client.Get(ctx, keyPrefix+email).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

func (s *Store) Revoke(ctx context.Context, email string) error {
	return s.client.Del(ctx, keyPrefix+email).Err()
}
