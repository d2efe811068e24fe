package lock

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"
)

// PostgresDistributedLockManager uses session-level advisory locks.
// Each held lock pins one pooled connection, since the unlock must run on the session that locked.
type PostgresDistributedLockManager struct {
	db    *sql.DB
	mu    sync.Mutex
	conns map[int]*sql.Conn
}

func NewPostgresDistributedLockManager(db *sql.DB) *PostgresDistributedLockManager {
	return &PostgresDistributedLockManager{
		db:    db,
		conns: make(map[int]*sql.Conn),
	}
}

func (l *PostgresDistributedLockManager) TryAcquire(ctx context.Context, lockID int) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, held := l.conns[lockID]; held {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	conn, err := l.db.Conn(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}

	var acquired bool
	if err := conn.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", lockID).Scan(&acquired); err != nil {
		_ = conn.Close()
		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !acquired {
		_ = conn.Close()
		return false, nil
	}

	l.conns[lockID] = conn
	return true, nil
}

func (l *PostgresDistributedLockManager) Release(ctx context.Context, lockID int) error {
	l.mu.Lock()
	conn, held := l.conns[lockID]
	delete(l.conns, lockID)
	l.mu.Unlock()

	if !held {
		return nil
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := conn.ExecContext(ctx, "SELECT pg_advisory_unlock($1)", lockID); err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}
