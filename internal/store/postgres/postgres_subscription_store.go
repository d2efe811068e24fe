package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"github.com/RezaEskandarii/remindfire/types"
	"log"
)

type PostgresSubscriptionStore struct {
	db *sql.DB
}

func NewPostgresSubscriptionStore(db *sql.DB) *PostgresSubscriptionStore {
	return &PostgresSubscriptionStore{db: db}
}

func (r *PostgresSubscriptionStore) Add(ctx context.Context, destination types.Destination) error {
	payload, err := json.Marshal(destination)
	if err != nil {
		return fmt.Errorf("failed to marshal subscription: %w", err)
	}
	query := `
		INSERT INTO remindfire_schema.push_subscriptions (endpoint, subscription, created_at, updated_at)
		VALUES ($1, $2, now(), now())
		ON CONFLICT (endpoint) DO UPDATE SET subscription = $2, updated_at = now()`
	if _, err := r.db.ExecContext(ctx, query, destination.Endpoint, payload); err != nil {
		return fmt.Errorf("failed to add subscription: %w", err)
	}
	return nil
}

func (r *PostgresSubscriptionStore) List(ctx context.Context) ([]types.Destination, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT subscription FROM remindfire_schema.push_subscriptions ORDER BY endpoint`)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer rows.Close()

	var out []types.Destination
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		var d types.Destination
		if err := json.Unmarshal(raw, &d); err != nil {
			log.Printf("skipping unreadable subscription: %v", err)
			continue
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *PostgresSubscriptionStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM remindfire_schema.push_subscriptions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}
	return count, nil
}

func (r *PostgresSubscriptionStore) Close() error {
	return r.db.Close()
}
