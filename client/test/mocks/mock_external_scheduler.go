package mocks

import (
	"context"
	"time"
)

// MockExternalScheduler is a mock implementation of scheduler.ExternalScheduler for testing.
type MockExternalScheduler struct {
	ScheduleFunc func(ctx context.Context, body []byte, at time.Time) error
}

func (m *MockExternalScheduler) Schedule(ctx context.Context, body []byte, at time.Time) error {
	if m.ScheduleFunc != nil {
		return m.ScheduleFunc(ctx, body, at)
	}
	return nil
}
