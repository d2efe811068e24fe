// Package storetest holds the behaviour checks every store backend must pass.
package storetest

import (
	"context"
	"github.com/RezaEskandarii/remindfire/internal/store"
	"github.com/RezaEskandarii/remindfire/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sync"
	"testing"
	"time"
)

// RunJobStoreTests runs the shared JobStore checks. newStore must return an empty store on every call.
func RunJobStoreTests(t *testing.T, newStore func(t *testing.T) store.JobStore) {
	ctx := context.Background()

	t.Run("DueAsOfOrdersByRank", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Enqueue(ctx, "c", 300))
		require.NoError(t, s.Enqueue(ctx, "a", 100))
		require.NoError(t, s.Enqueue(ctx, "b", 200))
		require.NoError(t, s.Enqueue(ctx, "later", 900))

		due, err := s.DueAsOf(ctx, 300)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, due)

		count, err := s.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(4), count)
	})

	t.Run("DueAsOfEmpty", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Enqueue(ctx, "future", 1000))

		due, err := s.DueAsOf(ctx, 999)
		require.NoError(t, err)
		assert.Empty(t, due)
	})

	t.Run("RemoveMissingIsNoop", func(t *testing.T) {
		s := newStore(t)
		removed, err := s.Remove(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, removed)
	})

	t.Run("RemoveIsClaimedOnce", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Enqueue(ctx, "job", 100))

		first, err := s.Remove(ctx, "job")
		require.NoError(t, err)
		second, err := s.Remove(ctx, "job")
		require.NoError(t, err)

		assert.True(t, first)
		assert.False(t, second)

		due, err := s.DueAsOf(ctx, 100)
		require.NoError(t, err)
		assert.Empty(t, due)
	})

	t.Run("DuplicatesAreTolerated", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Enqueue(ctx, "dup", 100))
		require.NoError(t, s.Enqueue(ctx, "dup", 100))

		due, err := s.DueAsOf(ctx, 100)
		require.NoError(t, err)
		require.NotEmpty(t, due)
		for _, token := range due {
			assert.Equal(t, "dup", token)
			_, err := s.Remove(ctx, token)
			require.NoError(t, err)
		}

		count, err := s.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})

	t.Run("ConcurrentRemoveClaimsEachEntryOnce", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Enqueue(ctx, "race", 100))

		var wg sync.WaitGroup
		var mu sync.Mutex
		claimed := 0
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ok, err := s.Remove(ctx, "race")
				assert.NoError(t, err)
				if ok {
					mu.Lock()
					claimed++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, claimed)
	})
}

func RunCompletionTrackerTests(t *testing.T, newTracker func(t *testing.T) store.CompletionTracker) {
	ctx := context.Background()
	marker := types.CompletionMarker{Endpoint: "https://push.example.com/1", SubjectID: "course-1", DayKey: "2024-03-10"}

	t.Run("UnknownMarkerIsNotDone", func(t *testing.T) {
		tr := newTracker(t)
		done, err := tr.IsDone(ctx, marker)
		require.NoError(t, err)
		assert.False(t, done)
	})

	t.Run("MarkDoneIsIdempotent", func(t *testing.T) {
		tr := newTracker(t)
		for i := 0; i < 3; i++ {
			require.NoError(t, tr.MarkDone(ctx, marker))
		}
		done, err := tr.IsDone(ctx, marker)
		require.NoError(t, err)
		assert.True(t, done)
	})

	t.Run("MarkersAreScopedByDaySubjectAndDestination", func(t *testing.T) {
		tr := newTracker(t)
		require.NoError(t, tr.MarkDone(ctx, marker))

		otherDay := marker
		otherDay.DayKey = "2024-03-11"
		otherSubject := marker
		otherSubject.SubjectID = "course-2"
		otherDevice := marker
		otherDevice.Endpoint = "https://push.example.com/2"

		for _, m := range []types.CompletionMarker{otherDay, otherSubject, otherDevice} {
			done, err := tr.IsDone(ctx, m)
			require.NoError(t, err)
			assert.False(t, done, "%+v", m)
		}
	})
}

func RunDeliveryClaimsTests(t *testing.T, newClaims func(t *testing.T) store.DeliveryClaims) {
	ctx := context.Background()

	t.Run("FirstClaimWins", func(t *testing.T) {
		c := newClaims(t)
		first, err := c.Claim(ctx, "token-1", time.Hour)
		require.NoError(t, err)
		second, err := c.Claim(ctx, "token-1", time.Hour)
		require.NoError(t, err)
		other, err := c.Claim(ctx, "token-2", time.Hour)
		require.NoError(t, err)

		assert.True(t, first)
		assert.False(t, second)
		assert.True(t, other)
	})
}

func RunSubscriptionStoreTests(t *testing.T, newStore func(t *testing.T) store.SubscriptionStore) {
	ctx := context.Background()

	t.Run("AddListCount", func(t *testing.T) {
		s := newStore(t)
		a := types.Destination{Endpoint: "https://push.example.com/a", Keys: types.DestinationKeys{P256dh: "p", Auth: "x"}}
		b := types.Destination{Endpoint: "https://push.example.com/b", Keys: types.DestinationKeys{P256dh: "q", Auth: "y"}}

		require.NoError(t, s.Add(ctx, a))
		require.NoError(t, s.Add(ctx, b))
		require.NoError(t, s.Add(ctx, a))

		count, err := s.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		list, err := s.List(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []types.Destination{a, b}, list)
	})
}
