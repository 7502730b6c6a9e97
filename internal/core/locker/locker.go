package locker

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RunLock serializes sync runs per store across processes using Redis.
// A run that crashes without releasing its lock is unblocked by the TTL.
type RunLock struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a RunLock from a Redis connection string.
// The redisURL should be in the format: redis://[:password@]host[:port][/database]
func New(redisURL string, ttl time.Duration) (*RunLock, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	return &RunLock{client: client, ttl: ttl}, nil
}

// Acquire takes the run lock for a store. It returns false without error when
// another run already holds the lock.
func (l *RunLock) Acquire(ctx context.Context, storeID int64) (bool, error) {
	ok, err := l.client.SetNX(ctx, lockKey(storeID), time.Now().UTC().Format(time.RFC3339), l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock for store %d: %w", storeID, err)
	}
	return ok, nil
}

// Release drops the run lock for a store.
func (l *RunLock) Release(ctx context.Context, storeID int64) error {
	if err := l.client.Del(ctx, lockKey(storeID)).Err(); err != nil {
		return fmt.Errorf("failed to release lock for store %d: %w", storeID, err)
	}
	return nil
}

// Ping checks if Redis is reachable.
func (l *RunLock) Ping(ctx context.Context) error {
	if err := l.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (l *RunLock) Close() error {
	return l.client.Close()
}

func lockKey(storeID int64) string {
	return fmt.Sprintf("feed-syncer:run:%d", storeID)
}
