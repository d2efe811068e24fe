package mocks

import (
	"context"
	"github.com/RezaEskandarii/remindfire/types"
	"sync"
)

// MockDispatchStrategy is a mock implementation of client.DispatchStrategy that records submitted jobs.
type MockDispatchStrategy struct {
	SubmitFunc func(ctx context.Context, job types.ReminderJob) error

	mu   sync.Mutex
	jobs []types.ReminderJob
}

func (m *MockDispatchStrategy) Submit(ctx context.Context, job types.ReminderJob) error {
	if m.SubmitFunc != nil {
		if err := m.SubmitFunc(ctx, job); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.jobs = append(m.jobs, job)
	m.mu.Unlock()
	return nil
}

func (m *MockDispatchStrategy) Jobs() []types.ReminderJob {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]types.ReminderJob(nil), m.jobs...)
}
