package redis

import (
	"context"
	"github.com/RezaEskandarii/remindfire/internal/store"
	"github.com/RezaEskandarii/remindfire/internal/store/storetest"
	"github.com/RezaEskandarii/remindfire/types"
	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	srv := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return srv, client
}

func TestRedisJobStore(t *testing.T) {
	storetest.RunJobStoreTests(t, func(t *testing.T) store.JobStore {
		_, client := newTestClient(t)
		return NewJobStore(client, "push:queue")
	})
}

func TestRedisCompletionTracker(t *testing.T) {
	storetest.RunCompletionTrackerTests(t, func(t *testing.T) store.CompletionTracker {
		_, client := newTestClient(t)
		return NewCompletionTracker(client, "push:done:", 0)
	})
}

func TestRedisDeliveryClaims(t *testing.T) {
	storetest.RunDeliveryClaimsTests(t, func(t *testing.T) store.DeliveryClaims {
		_, client := newTestClient(t)
		return NewDeliveryClaims(client, "push:sent:")
	})
}

func TestRedisSubscriptionStore(t *testing.T) {
	storetest.RunSubscriptionStoreTests(t, func(t *testing.T) store.SubscriptionStore {
		_, client := newTestClient(t)
		return NewSubscriptionStore(client, "push:subs")
	})
}

func TestRedisJobStore_UsesSortedSetScores(t *testing.T) {
	srv, client := newTestClient(t)
	s := NewJobStore(client, "push:queue")
	ctx := context.Background()

	require.NoError(t, s.Enqueue(ctx, "tok", 1710061200000))

	score, err := srv.ZScore("push:queue", "tok")
	require.NoError(t, err)
	assert.Equal(t, float64(1710061200000), score)
}

func TestRedisJobStore_BulkEnqueue(t *testing.T) {
	_, client := newTestClient(t)
	s := NewJobStore(client, "push:queue")
	ctx := context.Background()

	require.NoError(t, s.BulkEnqueue(ctx, []store.EncodedJob{{Token: "b", FireAt: 2}, {Token: "a", FireAt: 1}}))
	require.NoError(t, s.BulkEnqueue(ctx, nil))

	due, err := s.DueAsOf(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, due)
}

func TestRedisCompletionTracker_KeyLayoutAndRetention(t *testing.T) {
	srv, client := newTestClient(t)
	tr := NewCompletionTracker(client, "push:done:", 7*24*time.Hour)
	marker := types.CompletionMarker{Endpoint: "https://push/1", SubjectID: "course-1", DayKey: "2024-03-10"}

	require.NoError(t, tr.MarkDone(context.Background(), marker))

	ok, err := srv.SIsMember("push:done:2024-03-10", "https://push/1::course-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 7*24*time.Hour, srv.TTL("push:done:2024-03-10"))
}

func TestRedisDeliveryClaims_Expire(t *testing.T) {
	srv, client := newTestClient(t)
	c := NewDeliveryClaims(client, "push:sent:")
	ctx := context.Background()

	ok, err := c.Claim(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	srv.FastForward(2 * time.Minute)

	ok, err = c.Claim(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisJobStore_BackendDown(t *testing.T) {
	srv, client := newTestClient(t)
	s := NewJobStore(client, "push:queue")
	srv.Close()

	_, err := s.DueAsOf(context.Background(), 1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch due jobs")
}
