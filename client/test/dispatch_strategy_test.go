package test

import (
	"context"
	"encoding/json"
	"errors"
	"github.com/RezaEskandarii/remindfire/client"
	"github.com/RezaEskandarii/remindfire/client/test/mocks"
	"github.com/RezaEskandarii/remindfire/custom_errors"
	"github.com/RezaEskandarii/remindfire/internal/codec"
	"github.com/RezaEskandarii/remindfire/internal/message_broaker"
	"github.com/RezaEskandarii/remindfire/internal/state"
	"github.com/RezaEskandarii/remindfire/internal/store"
	"github.com/RezaEskandarii/remindfire/internal/store/memory"
	"github.com/RezaEskandarii/remindfire/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSweepStrategy_Submit_EnqueuesToken(t *testing.T) {
	ctx := context.Background()
	jobs := memory.NewJobStore()
	strategy := client.NewSweepStrategy(jobs, nil, "reminders", false)

	job := newJob("https://push.example/a", "s", time.Now().Add(-time.Second))
	require.NoError(t, strategy.Submit(ctx, job))

	due, err := jobs.DueAsOf(ctx, time.Now().UnixMilli())
	require.NoError(t, err)
	require.Len(t, due, 1)

	decoded, err := codec.Decode(due[0])
	require.NoError(t, err)
	assert.Equal(t, job, decoded)
}

func TestSweepStrategy_Submit_RejectsInvalidJob(t *testing.T) {
	strategy := client.NewSweepStrategy(memory.NewJobStore(), nil, "reminders", false)
	err := strategy.Submit(context.Background(), types.ReminderJob{SubjectID: "s"})
	assert.ErrorIs(t, err, custom_errors.ErrInvalidPayload)
}

func TestSweepStrategy_Submit_PublishesWhenQueueEnabled(t *testing.T) {
	var published []byte
	broker := &mocks.MockMessageBroker{
		PublishFunc: func(ctx context.Context, queue string, message []byte) error {
			assert.Equal(t, "reminders", queue)
			published = message
			return nil
		},
	}
	jobs := &mocks.MockJobStore{
		EnqueueFunc: func(ctx context.Context, token string, fireAt int64) error {
			t.Fatal("store must not be written directly in queue mode")
			return nil
		},
	}

	job := newJob("https://push.example/a", "s", time.Now())
	strategy := client.NewSweepStrategy(jobs, broker, "reminders", true)
	require.NoError(t, strategy.Submit(context.Background(), job))

	var msg store.EncodedJob
	require.NoError(t, json.Unmarshal(published, &msg))
	assert.Equal(t, job.FireAt, msg.FireAt)
	token, _ := codec.Encode(job)
	assert.Equal(t, token, msg.Token)
}

func TestSweepStrategy_Submit_PublishError(t *testing.T) {
	broker := &mocks.MockMessageBroker{
		PublishFunc: func(ctx context.Context, queue string, message []byte) error {
			return errors.New("channel closed")
		},
	}
	strategy := client.NewSweepStrategy(memory.NewJobStore(), broker, "reminders", true)
	err := strategy.Submit(context.Background(), newJob("https://push.example/a", "s", time.Now()))
	assert.ErrorContains(t, err, "channel closed")
}

func TestSweepStrategy_StartQueueAndStorageSyncWorker_Disabled(t *testing.T) {
	strategy := client.NewSweepStrategy(memory.NewJobStore(), nil, "reminders", true)
	assert.NoError(t, strategy.StartQueueAndStorageSyncWorker(context.Background()))
}

// settlementLog records how each queued message was settled, keyed by body.
type settlementLog struct {
	mu      sync.Mutex
	outcome map[string]string
}

func (l *settlementLog) delivery(body []byte) message_broaker.Delivery {
	record := func(outcome string) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.outcome[string(body)] = outcome
		return nil
	}
	return message_broaker.NewDelivery(body,
		func() error { return record("ack") },
		func(requeue bool) error {
			if requeue {
				return record("requeue")
			}
			return record("reject")
		},
	)
}

func (l *settlementLog) get(body []byte) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.outcome[string(body)]
}

func queuedJobBody(t *testing.T, job types.ReminderJob) []byte {
	t.Helper()
	token, err := codec.Encode(job)
	require.NoError(t, err)
	body, err := json.Marshal(store.EncodedJob{Token: token, FireAt: job.FireAt})
	require.NoError(t, err)
	return body
}

func TestSweepStrategy_StartQueueAndStorageSyncWorker_FlushesOnClose(t *testing.T) {
	ctx := context.Background()
	jobs := memory.NewJobStore()
	settled := &settlementLog{outcome: map[string]string{}}

	first := queuedJobBody(t, newJob("https://push.example/a", "s1", time.Now().Add(-time.Minute)))
	second := queuedJobBody(t, newJob("https://push.example/b", "s2", time.Now().Add(-time.Second)))
	garbage := []byte("garbage")
	corrupt := []byte(`{"token":"{}","fireAt":5}`)

	msgs := make(chan message_broaker.Delivery, 4)
	for _, body := range [][]byte{first, second, garbage, corrupt} {
		msgs <- settled.delivery(body)
	}
	close(msgs)

	broker := &mocks.MockMessageBroker{
		ConsumeFunc: func(ctx context.Context, queue string) (<-chan message_broaker.Delivery, error) {
			return msgs, nil
		},
	}
	strategy := client.NewSweepStrategy(jobs, broker, "reminders", true)
	require.NoError(t, strategy.StartQueueAndStorageSyncWorker(ctx))

	require.Eventually(t, func() bool {
		return settled.get(first) == "ack" && settled.get(second) == "ack"
	}, 2*time.Second, 10*time.Millisecond)
	n, err := jobs.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, "reject", settled.get(garbage))
	assert.Equal(t, "reject", settled.get(corrupt))
}

func TestSweepStrategy_StartQueueAndStorageSyncWorker_RequeuesFailedBatch(t *testing.T) {
	ctx := context.Background()
	settled := &settlementLog{outcome: map[string]string{}}
	var stored atomic.Int32
	jobs := &mocks.MockJobStore{
		EnqueueFunc: func(ctx context.Context, token string, fireAt int64) error {
			if stored.Load() > 0 {
				return errors.New("disk full")
			}
			stored.Add(1)
			return nil
		},
	}

	first := queuedJobBody(t, newJob("https://push.example/a", "s1", time.Now()))
	second := queuedJobBody(t, newJob("https://push.example/b", "s2", time.Now()))
	msgs := make(chan message_broaker.Delivery, 2)
	msgs <- settled.delivery(first)
	msgs <- settled.delivery(second)
	close(msgs)

	broker := &mocks.MockMessageBroker{
		ConsumeFunc: func(ctx context.Context, queue string) (<-chan message_broaker.Delivery, error) {
			return msgs, nil
		},
	}
	strategy := client.NewSweepStrategy(jobs, broker, "reminders", true)
	require.NoError(t, strategy.StartQueueAndStorageSyncWorker(ctx))

	// the batch fails as a whole, so neither message may be acked
	require.Eventually(t, func() bool {
		return settled.get(first) == "requeue" && settled.get(second) == "requeue"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestPushStrategy_Submit_SchedulesAtFireTime(t *testing.T) {
	var gotBody []byte
	var gotAt time.Time
	sched := &mocks.MockExternalScheduler{
		ScheduleFunc: func(ctx context.Context, body []byte, at time.Time) error {
			gotBody, gotAt = body, at
			return nil
		},
	}

	job := newJob("https://push.example/a", "s", time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	require.NoError(t, client.NewPushStrategy(sched).Submit(context.Background(), job))

	assert.True(t, gotAt.Equal(job.FireTime()))
	decoded, err := codec.DecodeBytes(gotBody)
	require.NoError(t, err)
	assert.Equal(t, job, decoded)
}

func TestPushStrategy_Submit_SchedulerError(t *testing.T) {
	sched := &mocks.MockExternalScheduler{
		ScheduleFunc: func(ctx context.Context, body []byte, at time.Time) error {
			return errors.New("qstash 500")
		},
	}
	err := client.NewPushStrategy(sched).Submit(context.Background(), newJob("https://push.example/a", "s", time.Now()))
	assert.ErrorContains(t, err, "qstash 500")
}

func TestCallbackHandler_Handle_RepeatedCallbackIsSkipped(t *testing.T) {
	tr := &mocks.MockTransport{}
	handler := client.NewCallbackHandler(newProcessor(memory.NewCompletionTracker(), tr), memory.NewDeliveryClaims(), time.Hour)

	token, err := codec.Encode(newJob("https://push.example/a", "s", time.Now()))
	require.NoError(t, err)

	outcome, err := handler.Handle(context.Background(), []byte(token))
	require.NoError(t, err)
	assert.Equal(t, state.OutcomeSent, outcome)

	outcome, err = handler.Handle(context.Background(), []byte(token))
	require.NoError(t, err)
	assert.Equal(t, state.OutcomeSkipped, outcome)
	assert.Len(t, tr.Sent(), 1)
}

func TestCallbackHandler_Handle_ReformattedBodySharesClaim(t *testing.T) {
	ctx := context.Background()
	tr := &mocks.MockTransport{}
	handler := client.NewCallbackHandler(newProcessor(memory.NewCompletionTracker(), tr), memory.NewDeliveryClaims(), time.Hour)

	job := newJob("https://push.example/a", "s", time.Now())
	job.Destination.Extra = map[string]json.RawMessage{"userAgent": json.RawMessage(`"Firefox/128"`)}
	token, err := codec.Encode(job)
	require.NoError(t, err)

	var members map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(token), &members))
	reformatted, err := json.MarshalIndent(members, "", "    ")
	require.NoError(t, err)
	require.NotEqual(t, token, string(reformatted))

	outcome, err := handler.Handle(ctx, []byte(token))
	require.NoError(t, err)
	assert.Equal(t, state.OutcomeSent, outcome)

	outcome, err = handler.Handle(ctx, reformatted)
	require.NoError(t, err)
	assert.Equal(t, state.OutcomeSkipped, outcome)
	assert.Len(t, tr.Sent(), 1)
}

func TestCallbackHandler_Handle_WithoutClaimsRechecksCompletion(t *testing.T) {
	ctx := context.Background()
	tr := &mocks.MockTransport{}
	tracker := memory.NewCompletionTracker()
	handler := client.NewCallbackHandler(newProcessor(tracker, tr), nil, 0)

	job := newJob("https://push.example/a", "s", time.Now())
	token, err := codec.Encode(job)
	require.NoError(t, err)
	require.NoError(t, tracker.MarkDone(ctx, job.Marker()))

	outcome, err := handler.Handle(ctx, []byte(token))
	require.NoError(t, err)
	assert.Equal(t, state.OutcomeSuppressed, outcome)
	assert.Empty(t, tr.Sent())
}

func TestCallbackHandler_Handle_CorruptBody(t *testing.T) {
	handler := client.NewCallbackHandler(newProcessor(nil, &mocks.MockTransport{}), nil, 0)
	outcome, err := handler.Handle(context.Background(), []byte(`{"subjectId":"s"}`))
	assert.ErrorIs(t, err, custom_errors.ErrCorruptJob)
	assert.Equal(t, state.OutcomeCorrupt, outcome)
}

func TestCallbackHandler_Handle_TransportError(t *testing.T) {
	tr := &mocks.MockTransport{
		SendFunc: func(ctx context.Context, destination types.Destination, payload types.Payload) error {
			return errors.New("push service down")
		},
	}
	handler := client.NewCallbackHandler(newProcessor(nil, tr), nil, 0)
	token, _ := codec.Encode(newJob("https://push.example/a", "s", time.Now()))

	outcome, err := handler.Handle(context.Background(), []byte(token))
	assert.ErrorIs(t, err, custom_errors.ErrTransport)
	assert.Equal(t, state.OutcomeFailed, outcome)
}
