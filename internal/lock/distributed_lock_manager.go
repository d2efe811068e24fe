package lock

import (
	"context"
	"fmt"
	"time"
)

// DistributedLockManager guards work that only one instance may run at a time (sweeps, migrations).
type DistributedLockManager interface {
	// TryAcquire returns false without error when the lock is held elsewhere.
	TryAcquire(ctx context.Context, lockID int) (bool, error)
	Release(ctx context.Context, lockID int) error
}

// AcquireWithin polls TryAcquire until the lock is taken or ctx is done.
func AcquireWithin(ctx context.Context, mgr DistributedLockManager, lockID int, poll time.Duration) error {
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		ok, err := mgr.TryAcquire(ctx, lockID)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("failed to acquire lock %d: %w", lockID, ctx.Err())
		case <-ticker.C:
		}
	}
}
