package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/voyant/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// ErrLockAcquire is returned when a lock cannot be acquired before the
// context expires.
var ErrLockAcquire = errors.New("failed to acquire distributed lock")

// pollInterval is how often a blocked Lock retries SET NX.
const pollInterval = 100 * time.Millisecond

// unlockScript deletes the lock key only while it still holds the caller's
// token. A lock that expired and was re-acquired elsewhere is left alone.
const unlockScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`

// Locker serializes cross-process access to a thread through Redis.
type Locker struct {
	client *backend.Client
	prefix string
}

// NewLocker returns a Locker whose keys live under prefix.
func NewLocker(client *backend.Client, prefix string) *Locker {
	return &Locker{client: client, prefix: prefix}
}

// Lock blocks until the lock for key is acquired or ctx is done. Each lock
// carries a per-holder token and the returned UnlockFunc releases only a
// lock that still holds that token.
func (l *Locker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	lockKey := l.prefix + "lock:" + key
	token := uuid.NewString()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, lockKey, token, ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("redis setnx %s: %w", lockKey, err)
		}
		if ok {
			return l.unlockFunc(lockKey, token), nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrLockAcquire, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (l *Locker) unlockFunc(lockKey, token string) ports.UnlockFunc {
	return func(ctx context.Context) error {
		res, err := l.client.Eval(ctx, unlockScript, []string{lockKey}, token).Result()
		if err != nil {
			return fmt.Errorf("redis unlock %s: %w", lockKey, err)
		}
		if n, ok := res.(int64); !ok || n == 0 {
			return fmt.Errorf("lock %s expired or was taken over before release", lockKey)
		}
		return nil
	}
}
