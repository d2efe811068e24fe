package lock

import (
	"context"
	"sync"
)

// LocalLockManager only excludes goroutines of this process. Used with the memory driver.
type LocalLockManager struct {
	mu   sync.Mutex
	held map[int]bool
}

func NewLocalLockManager() *LocalLockManager {
	return &LocalLockManager{held: make(map[int]bool)}
}

func (l *LocalLockManager) TryAcquire(ctx context.Context, lockID int) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[lockID] {
		return false, nil
	}
	l.held[lockID] = true
	return true, nil
}

func (l *LocalLockManager) Release(ctx context.Context, lockID int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, lockID)
	return nil
}
