package mocks

import "context"

// MockJobStore is a mock implementation of store.JobStore for testing.
type MockJobStore struct {
	EnqueueFunc func(ctx context.Context, token string, fireAt int64) error
	DueAsOfFunc func(ctx context.Context, ts int64) ([]string, error)
	RemoveFunc  func(ctx context.Context, token string) (bool, error)
	CountFunc   func(ctx context.Context) (int64, error)
}

func (m *MockJobStore) Enqueue(ctx context.Context, token string, fireAt int64) error {
	if m.EnqueueFunc != nil {
		return m.EnqueueFunc(ctx, token, fireAt)
	}
	return nil
}

func (m *MockJobStore) DueAsOf(ctx context.Context, ts int64) ([]string, error) {
	if m.DueAsOfFunc != nil {
		return m.DueAsOfFunc(ctx, ts)
	}
	return nil, nil
}

func (m *MockJobStore) Remove(ctx context.Context, token string) (bool, error) {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, token)
	}
	return true, nil
}

func (m *MockJobStore) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

func (m *MockJobStore) Close() error { return nil }
