package redisad

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"horizon_web/internal/adapters/observability"
	"horizon_web/internal/domain"
)

const DefaultKey = "google_reviews_cache"

// Store keeps the reviews snapshot under one fixed key. Entries carry no
// Redis TTL; staleness is decided by the cache policy from the embedded
// timestamp.
type Store struct {
	c   *redis.Client
	key string
}

var _ domain.SnapshotStore = (*Store)(nil)

func New(addr, pass string, db int, key string) *Store {
	return NewWithClient(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}), key)
}

func NewWithClient(c *redis.Client, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{c: c, key: key}
}

func (s *Store) Read(ctx context.Context) ([]byte, bool, error) {
	v, err := s.c.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		observability.ObserveCache("redis", "miss")
		return nil, false, nil
	}
	if err != nil {
		observability.ObserveCache("redis", "error")
		return nil, false, err
	}
	observability.ObserveCache("redis", "hit")
	return v, true, nil
}

func (s *Store) Write(ctx context.Context, raw []byte) error {
	observability.ObserveCache("redis", "set")
	return s.c.Set(ctx, s.key, raw, 0).Err()
}

func (s *Store) Ping(ctx context.Context) error { return s.c.Ping(ctx).Err() }

func (s *Store) Close() error { return s.c.Close() }
