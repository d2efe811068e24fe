package redis

import (
	"context"
	"fmt"
	"github.com/RezaEskandarii/remindfire/types"
	goredis "github.com/redis/go-redis/v9"
	"time"
)

// CompletionTracker keeps one set per day, "<prefix><dayKey>", whose members are "<endpoint>::<subjectId>".
type CompletionTracker struct {
	client    *goredis.Client
	prefix    string
	retention time.Duration
}

// NewCompletionTracker creates the tracker. A positive retention sets a TTL on each day set.
func NewCompletionTracker(client *goredis.Client, prefix string, retention time.Duration) *CompletionTracker {
	return &CompletionTracker{client: client, prefix: prefix, retention: retention}
}

func (t *CompletionTracker) dayKey(marker types.CompletionMarker) string {
	return t.prefix + marker.DayKey
}

func (t *CompletionTracker) MarkDone(ctx context.Context, marker types.CompletionMarker) error {
	key := t.dayKey(marker)
	_, err := t.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.SAdd(ctx, key, marker.Member())
		if t.retention > 0 {
			pipe.Expire(ctx, key, t.retention)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to mark done: %w", err)
	}
	return nil
}

func (t *CompletionTracker) IsDone(ctx context.Context, marker types.CompletionMarker) (bool, error) {
	ok, err := t.client.SIsMember(ctx, t.dayKey(marker), marker.Member()).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check completion: %w", err)
	}
	return ok, nil
}

func (t *CompletionTracker) Close() error { return nil }
