package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"github.com/RezaEskandarii/remindfire/internal/store"
	"strings"
)

// PostgresJobStore keeps one row per enqueued token. Duplicate tokens are separate rows.
type PostgresJobStore struct {
	db *sql.DB
}

func NewPostgresJobStore(db *sql.DB) *PostgresJobStore {
	return &PostgresJobStore{db: db}
}

func (r *PostgresJobStore) Enqueue(ctx context.Context, token string, fireAt int64) error {
	query := `INSERT INTO remindfire_schema.reminder_jobs (token, fire_at, created_at) VALUES ($1, $2, now())`
	if _, err := r.db.ExecContext(ctx, query, token, fireAt); err != nil {
		return fmt.Errorf("failed to enqueue job: %w", err)
	}
	return nil
}

func (r *PostgresJobStore) BulkEnqueue(ctx context.Context, batch []store.EncodedJob) error {
	if len(batch) == 0 {
		return nil
	}

	values := make([]string, 0, len(batch))
	args := make([]any, 0, len(batch)*2)
	for i, job := range batch {
		values = append(values, fmt.Sprintf("($%d, $%d, now())", i*2+1, i*2+2))
		args = append(args, job.Token, job.FireAt)
	}

	query := `INSERT INTO remindfire_schema.reminder_jobs (token, fire_at, created_at) VALUES ` + strings.Join(values, ", ")
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to bulk enqueue jobs: %w", err)
	}
	return nil
}

func (r *PostgresJobStore) DueAsOf(ctx context.Context, ts int64) ([]string, error) {
	query := `SELECT token FROM remindfire_schema.reminder_jobs WHERE fire_at <= $1 ORDER BY fire_at ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query, ts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch due jobs: %w", err)
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, fmt.Errorf("failed to scan due job: %w", err)
		}
		tokens = append(tokens, token)
	}
	return tokens, rows.Err()
}

// Remove deletes the oldest row carrying token. Rows locked by a concurrent remover are skipped,
// so two sweepers racing on one row see exactly one success.
func (r *PostgresJobStore) Remove(ctx context.Context, token string) (bool, error) {
	query := `
		DELETE FROM remindfire_schema.reminder_jobs
		WHERE id = (
			SELECT id FROM remindfire_schema.reminder_jobs
			WHERE token = $1
			ORDER BY id
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)`
	res, err := r.db.ExecContext(ctx, query, token)
	if err != nil {
		return false, fmt.Errorf("failed to remove job: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to remove job: %w", err)
	}
	return n > 0, nil
}

func (r *PostgresJobStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM remindfire_schema.reminder_jobs`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return count, nil
}

func (r *PostgresJobStore) Close() error {
	return r.db.Close()
}
