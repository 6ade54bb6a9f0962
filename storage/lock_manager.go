package storage

import (
	"sync"
)

// OperationType defines whether an operation is a read or a write.
type OperationType int

const (
	// ReadOperation indicates an operation that only reads state.
	// Multiple read operations can proceed concurrently.
	ReadOperation OperationType = iota

	// WriteOperation indicates an operation that modifies state.
	// Write operations are exclusive.
	WriteOperation
)

// LockManager centralizes the locking strategy for store operations:
// queries may run concurrently with each other but never concurrently
// with a write, and at most one structural mutation is in flight at a
// time. Funnelling every operation through Execute/ExecuteWithResult
// avoids lock/unlock/relock patterns spread across call sites.
type LockManager struct {
	mu sync.RWMutex
}

// NewLockManager returns a ready-to-use lock manager.
func NewLockManager() *LockManager {
	return &LockManager{}
}

// Execute runs fn under the lock appropriate for opType. The lock is
// released when fn returns, including on panic.
func (lm *LockManager) Execute(opType OperationType, fn func() error) error {
	switch opType {
	case ReadOperation:
		lm.mu.RLock()
		defer lm.mu.RUnlock()
	case WriteOperation:
		lm.mu.Lock()
		defer lm.mu.Unlock()
	}
	return fn()
}

// ExecuteWithResult is Execute for functions that also return a value.
func ExecuteWithResult[T any](lm *LockManager, opType OperationType, fn func() (T, error)) (T, error) {
	switch opType {
	case ReadOperation:
		lm.mu.RLock()
		defer lm.mu.RUnlock()
	case WriteOperation:
		lm.mu.Lock()
		defer lm.mu.Unlock()
	}
	return fn()
}
