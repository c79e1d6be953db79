package aiusage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store keeps one usage counter per caller and month in Redis.
type Store struct {
	rdb *redis.Client
}

// NewStore returns a Store backed by the given Redis client.
func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// Incr bumps the counter at key and returns the new count. The first
// increment also sets the expiry.
func (s *Store) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	n, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("aiusage: incr %s: %w", key, err)
	}
	if n == 1 {
		if err := s.rdb.Expire(ctx, key, ttl).Err(); err != nil {
			return 0, fmt.Errorf("aiusage: expire %s: %w", key, err)
		}
	}
	return n, nil
}
