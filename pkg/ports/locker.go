package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a held distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker coordinates turn-taking on a thread across replicas.
// The in-process mutexes in the session manager only serialize one
// instance; a locker extends that guarantee cluster-wide.
type DistributedLocker interface {
	// Lock acquires the lock for key, blocking until it is free or ctx is
	// done. ttl bounds how long a crashed holder can wedge the key. The
	// returned UnlockFunc must be called to release.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
