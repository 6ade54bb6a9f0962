package storage

import (
	"context"
	"time"

	"github.com/gofrs/flock"
)

// FileLock guards the JSON data file against concurrent writers from
// other processes.
type FileLock interface {
	// TryLockContext attempts to acquire an exclusive lock, retrying at
	// retryInterval until the context is done.
	TryLockContext(ctx context.Context, retryInterval time.Duration) (bool, error)

	// Unlock releases the lock.
	Unlock() error
}

// FileLockFactory creates FileLock instances.
type FileLockFactory interface {
	New(path string) FileLock
}

// FlockFactory is the default factory, backed by github.com/gofrs/flock.
type FlockFactory struct{}

func (FlockFactory) New(path string) FileLock {
	return flockWrapper{flock.New(path)}
}

type flockWrapper struct {
	fl *flock.Flock
}

func (w flockWrapper) TryLockContext(ctx context.Context, retryInterval time.Duration) (bool, error) {
	return w.fl.TryLockContext(ctx, retryInterval)
}

func (w flockWrapper) Unlock() error {
	return w.fl.Unlock()
}
