package store

import (
	"context"
	"errors"
	"github.com/RezaEskandarii/remindfire/custom_errors"
	"github.com/RezaEskandarii/remindfire/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestDisabledCompletionTracker(t *testing.T) {
	var tracker CompletionTracker = DisabledCompletionTracker{}
	marker := types.CompletionMarker{Endpoint: "https://push/1", SubjectID: "s", DayKey: "2024-03-10"}

	err := tracker.MarkDone(context.Background(), marker)
	assert.True(t, errors.Is(err, custom_errors.ErrBackendUnavailable))

	done, err := tracker.IsDone(context.Background(), marker)
	require.NoError(t, err)
	assert.False(t, done)
	assert.NoError(t, tracker.Close())
}

type fakeJobStore struct {
	JobStore
	enqueued []EncodedJob
}

func (f *fakeJobStore) Enqueue(ctx context.Context, token string, fireAt int64) error {
	f.enqueued = append(f.enqueued, EncodedJob{Token: token, FireAt: fireAt})
	return nil
}

type fakeBatchStore struct {
	fakeJobStore
	batches int
}

func (f *fakeBatchStore) BulkEnqueue(ctx context.Context, batch []EncodedJob) error {
	f.batches++
	f.enqueued = append(f.enqueued, batch...)
	return nil
}

func TestEnqueueAll(t *testing.T) {
	batch := []EncodedJob{{Token: "a", FireAt: 1}, {Token: "b", FireAt: 2}}

	plain := &fakeJobStore{}
	require.NoError(t, EnqueueAll(context.Background(), plain, batch))
	assert.Equal(t, batch, plain.enqueued)

	bulk := &fakeBatchStore{}
	require.NoError(t, EnqueueAll(context.Background(), bulk, batch))
	assert.Equal(t, 1, bulk.batches)
	assert.Len(t, bulk.enqueued, 2)
}
