package store

import "context"

// JobStore holds encoded reminder jobs ranked by fire time (epoch milliseconds).
type JobStore interface {
	// Enqueue inserts token with the given rank. Re-inserting an identical token is allowed.
	Enqueue(ctx context.Context, token string, fireAt int64) error

	// DueAsOf returns every token ranked at or before ts, in ascending rank order.
	DueAsOf(ctx context.Context, ts int64) ([]string, error)

	// Remove deletes one entry matching token. It reports false, without error, when nothing matched.
	Remove(ctx context.Context, token string) (bool, error)

	// Count returns the number of pending entries.
	Count(ctx context.Context) (int64, error)

	Close() error
}

// EncodedJob is a token with its rank, used for batch inserts.
type EncodedJob struct {
	Token  string `json:"token"`
	FireAt int64  `json:"fireAt"`
}

// BatchEnqueuer is implemented by stores that can insert many jobs in one round trip.
type BatchEnqueuer interface {
	BulkEnqueue(ctx context.Context, batch []EncodedJob) error
}

// EnqueueAll uses BulkEnqueue when the store supports it and falls back to one Enqueue per job.
func EnqueueAll(ctx context.Context, s JobStore, batch []EncodedJob) error {
	if b, ok := s.(BatchEnqueuer); ok {
		return b.BulkEnqueue(ctx, batch)
	}
	for _, job := range batch {
		if err := s.Enqueue(ctx, job.Token, job.FireAt); err != nil {
			return err
		}
	}
	return nil
}
