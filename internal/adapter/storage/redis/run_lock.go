package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only while it still belongs to the caller.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RunLock implements ports.RunLock using Redis SET NX.
type RunLock struct {
	client goredis.UniversalClient
	prefix string
}

// NewRunLock creates a new Redis-backed run lock.
func NewRunLock(client goredis.UniversalClient) *RunLock {
	return &RunLock{
		client: client,
		prefix: "sweep:lock:",
	}
}

// Acquire sets key to owner if nobody holds it. Returns false if it is already held.
func (l *RunLock) Acquire(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	result, err := l.client.SetArgs(ctx, l.prefix+key, owner, goredis.SetArgs{
		Mode: "NX",
		TTL:  ttl,
	}).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis lock acquire: %w", err)
	}
	return result == "OK", nil
}

// Release drops the lock if owner still holds it. Releasing a lock held by
// someone else, or an expired one, is a no-op.
func (l *RunLock) Release(ctx context.Context, key, owner string) error {
	if err := releaseScript.Run(ctx, l.client, []string{l.prefix + key}, owner).Err(); err != nil {
		return fmt.Errorf("redis lock release: %w", err)
	}
	return nil
}
