package lister

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists lister preferences in Redis. Every operation runs
// under its own timeout and swallows backend errors into a false return,
// honoring the Store contract's degrade-to-no-op behavior.
type RedisStore struct {
	client  *redis.Client
	ttl     time.Duration
	timeout time.Duration
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithTTL sets the expiration applied on every Set. Zero keeps entries
// forever.
func WithTTL(ttl time.Duration) RedisStoreOption {
	return func(s *RedisStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithTimeout bounds each Redis round trip. Defaults to one second.
func WithTimeout(d time.Duration) RedisStoreOption {
	return func(s *RedisStore) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewRedisStore wraps an existing Redis client. The caller owns the client's
// lifecycle.
func NewRedisStore(client *redis.Client, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{
		client:  client,
		timeout: time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) Get(key string) (string, bool) {
	if s.client == nil {
		return "", false
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	value, err := s.client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return value, true
}

func (s *RedisStore) Set(key, value string) bool {
	if s.client == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	return s.client.Set(ctx, key, value, s.ttl).Err() == nil
}

func (s *RedisStore) Remove(key string) bool {
	if s.client == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	return s.client.Del(ctx, key).Err() == nil
}
