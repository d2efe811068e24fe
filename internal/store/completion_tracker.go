package store

import (
	"context"
	"github.com/RezaEskandarii/remindfire/custom_errors"
	"github.com/RezaEskandarii/remindfire/types"
)

// CompletionTracker stores per (destination, subject, day) completion markers.
type CompletionTracker interface {
	// MarkDone is idempotent.
	MarkDone(ctx context.Context, marker types.CompletionMarker) error
	IsDone(ctx context.Context, marker types.CompletionMarker) (bool, error)
	Close() error
}

// DisabledCompletionTracker stands in when no tracker backend is configured.
// Nothing is ever suppressed and MarkDone reports ErrBackendUnavailable so the boundary can say so once.
type DisabledCompletionTracker struct{}

func (DisabledCompletionTracker) MarkDone(ctx context.Context, marker types.CompletionMarker) error {
	return custom_errors.ErrBackendUnavailable
}

func (DisabledCompletionTracker) IsDone(ctx context.Context, marker types.CompletionMarker) (bool, error) {
	return false, nil
}

func (DisabledCompletionTracker) Close() error { return nil }
