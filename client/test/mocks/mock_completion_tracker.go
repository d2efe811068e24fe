package mocks

import (
	"context"
	"github.com/RezaEskandarii/remindfire/types"
)

// MockCompletionTracker is a mock implementation of store.CompletionTracker for testing.
type MockCompletionTracker struct {
	MarkDoneFunc func(ctx context.Context, marker types.CompletionMarker) error
	IsDoneFunc   func(ctx context.Context, marker types.CompletionMarker) (bool, error)
}

func (m *MockCompletionTracker) MarkDone(ctx context.Context, marker types.CompletionMarker) error {
	if m.MarkDoneFunc != nil {
		return m.MarkDoneFunc(ctx, marker)
	}
	return nil
}

func (m *MockCompletionTracker) IsDone(ctx context.Context, marker types.CompletionMarker) (bool, error) {
	if m.IsDoneFunc != nil {
		return m.IsDoneFunc(ctx, marker)
	}
	return false, nil
}

func (m *MockCompletionTracker) Close() error { return nil }
