package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"github.com/RezaEskandarii/remindfire/types"
)

type PostgresCompletionTracker struct {
	db *sql.DB
}

func NewPostgresCompletionTracker(db *sql.DB) *PostgresCompletionTracker {
	return &PostgresCompletionTracker{db: db}
}

func (r *PostgresCompletionTracker) MarkDone(ctx context.Context, marker types.CompletionMarker) error {
	query := `
		INSERT INTO remindfire_schema.reminder_completions (day_key, endpoint, subject_id, created_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (day_key, endpoint, subject_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, marker.DayKey, marker.Endpoint, marker.SubjectID); err != nil {
		return fmt.Errorf("failed to mark done: %w", err)
	}
	return nil
}

func (r *PostgresCompletionTracker) IsDone(ctx context.Context, marker types.CompletionMarker) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM remindfire_schema.reminder_completions
			WHERE day_key = $1 AND endpoint = $2 AND subject_id = $3
		)`
	var done bool
	if err := r.db.QueryRowContext(ctx, query, marker.DayKey, marker.Endpoint, marker.SubjectID).Scan(&done); err != nil {
		return false, fmt.Errorf("failed to check completion: %w", err)
	}
	return done, nil
}

func (r *PostgresCompletionTracker) Close() error {
	return r.db.Close()
}
