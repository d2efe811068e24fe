// Package redis implements the stores on top of Redis sorted sets, sets and hashes.
package redis

import (
	"context"
	"fmt"
	"github.com/RezaEskandarii/remindfire/internal/store"
	goredis "github.com/redis/go-redis/v9"
	"strconv"
)

// JobStore keeps tokens in one sorted set scored by fire time.
// Identical tokens collapse into a single member.
type JobStore struct {
	client *goredis.Client
	key    string
}

func NewJobStore(client *goredis.Client, key string) *JobStore {
	return &JobStore{client: client, key: key}
}

func (s *JobStore) Enqueue(ctx context.Context, token string, fireAt int64) error {
	if err := s.client.ZAdd(ctx, s.key, goredis.Z{Score: float64(fireAt), Member: token}).Err(); err != nil {
		return fmt.Errorf("failed to enqueue job: %w", err)
	}
	return nil
}

func (s *JobStore) BulkEnqueue(ctx context.Context, batch []store.EncodedJob) error {
	if len(batch) == 0 {
		return nil
	}
	members := make([]goredis.Z, 0, len(batch))
	for _, job := range batch {
		members = append(members, goredis.Z{Score: float64(job.FireAt), Member: job.Token})
	}
	if err := s.client.ZAdd(ctx, s.key, members...).Err(); err != nil {
		return fmt.Errorf("failed to bulk enqueue jobs: %w", err)
	}
	return nil
}

func (s *JobStore) DueAsOf(ctx context.Context, ts int64) ([]string, error) {
	tokens, err := s.client.ZRangeByScore(ctx, s.key, &goredis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(ts, 10),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch due jobs: %w", err)
	}
	return tokens, nil
}

func (s *JobStore) Remove(ctx context.Context, token string) (bool, error) {
	n, err := s.client.ZRem(ctx, s.key, token).Result()
	if err != nil {
		return false, fmt.Errorf("failed to remove job: %w", err)
	}
	return n > 0, nil
}

func (s *JobStore) Count(ctx context.Context) (int64, error) {
	n, err := s.client.ZCard(ctx, s.key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return n, nil
}

// Close is a no-op; the client is owned by the container.
func (s *JobStore) Close() error { return nil }
