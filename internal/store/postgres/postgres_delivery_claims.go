package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type PostgresDeliveryClaims struct {
	db *sql.DB
}

func NewPostgresDeliveryClaims(db *sql.DB) *PostgresDeliveryClaims {
	return &PostgresDeliveryClaims{db: db}
}

// Claim inserts the key, or takes over an expired claim. One affected row means the caller owns it.
func (r *PostgresDeliveryClaims) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	query := `
		INSERT INTO remindfire_schema.delivery_claims AS c (claim_key, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (claim_key) DO UPDATE SET expires_at = EXCLUDED.expires_at
		WHERE c.expires_at < now()`
	res, err := r.db.ExecContext(ctx, query, key, time.Now().Add(ttl))
	if err != nil {
		return false, fmt.Errorf("failed to claim delivery: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to claim delivery: %w", err)
	}
	return n == 1, nil
}

func (r *PostgresDeliveryClaims) Close() error {
	return r.db.Close()
}
