package memory

import (
	"context"
	"github.com/RezaEskandarii/remindfire/types"
	"sync"
)

type CompletionTracker struct {
	mu   sync.RWMutex
	days map[string]map[string]struct{}
}

func NewCompletionTracker() *CompletionTracker {
	return &CompletionTracker{days: make(map[string]map[string]struct{})}
}

func (t *CompletionTracker) MarkDone(ctx context.Context, marker types.CompletionMarker) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	members, ok := t.days[marker.DayKey]
	if !ok {
		members = make(map[string]struct{})
		t.days[marker.DayKey] = members
	}
	members[marker.Member()] = struct{}{}
	return nil
}

func (t *CompletionTracker) IsDone(ctx context.Context, marker types.CompletionMarker) (bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	_, ok := t.days[marker.DayKey][marker.Member()]
	return ok, nil
}

func (t *CompletionTracker) Close() error { return nil }
