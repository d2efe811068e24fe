package test

import (
	"context"
	"github.com/RezaEskandarii/remindfire/client"
	"github.com/RezaEskandarii/remindfire/client/test/mocks"
	"github.com/RezaEskandarii/remindfire/internal/codec"
	"github.com/RezaEskandarii/remindfire/internal/store"
	"github.com/RezaEskandarii/remindfire/types"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func testDestination(endpoint string) types.Destination {
	return types.Destination{
		Endpoint: endpoint,
		Keys:     types.DestinationKeys{P256dh: "p256dh-key", Auth: "auth-key"},
	}
}

func newJob(endpoint, subjectID string, fireAt time.Time) types.ReminderJob {
	return types.ReminderJob{
		Destination:  testDestination(endpoint),
		SubjectID:    subjectID,
		SubjectLabel: "Label " + subjectID,
		DayKey:       fireAt.Format(types.DayKeyLayout),
		FireAt:       fireAt.UnixMilli(),
	}
}

func enqueue(t *testing.T, s store.JobStore, job types.ReminderJob) string {
	t.Helper()
	token, err := codec.Encode(job)
	require.NoError(t, err)
	require.NoError(t, s.Enqueue(context.Background(), token, job.FireAt))
	return token
}

func newProcessor(tracker store.CompletionTracker, tr *mocks.MockTransport) *client.Processor {
	return client.NewProcessor(tracker, tr, client.NewPayloadBuilder(false), time.Second)
}
