package client

import (
	"context"
	"fmt"
	"github.com/RezaEskandarii/remindfire/custom_errors"
	"github.com/RezaEskandarii/remindfire/internal/state"
	"github.com/RezaEskandarii/remindfire/internal/store"
	"github.com/RezaEskandarii/remindfire/types"
	"golang.org/x/sync/errgroup"
	"log"
	"sync/atomic"
)

const (
	DefaultTestBody = "A review is waiting for you!"
	testSendFanOut  = 8
)

// ReminderManager is the entry point used by the HTTP layer and the CLI.
// Optional collaborators may be nil; the matching operations then report ErrBackendUnavailable.
type ReminderManager struct {
	Planner       *Planner
	tracker       store.CompletionTracker
	subscriptions store.SubscriptionStore
	sweeper       *SweepManager
	callbacks     *CallbackHandler
	processor     *Processor
}

func NewReminderManager(planner *Planner, tracker store.CompletionTracker, subscriptions store.SubscriptionStore, sweeper *SweepManager, callbacks *CallbackHandler, processor *Processor) *ReminderManager {
	if tracker == nil {
		tracker = store.DisabledCompletionTracker{}
	}
	return &ReminderManager{
		Planner:       planner,
		tracker:       tracker,
		subscriptions: subscriptions,
		sweeper:       sweeper,
		callbacks:     callbacks,
		processor:     processor,
	}
}

// Schedule submits one job per fire time. Nothing is submitted when any input is invalid.
func (rm *ReminderManager) Schedule(ctx context.Context, destination types.Destination, subjectID, subjectLabel, dayKey string, fireTimes []int64) (int, error) {
	return rm.Planner.Submit(ctx, destination, subjectID, subjectLabel, dayKey, fireTimes)
}

func (rm *ReminderManager) MarkDone(ctx context.Context, marker types.CompletionMarker) error {
	if !marker.IsValid() {
		return fmt.Errorf("%w: endpoint, subjectId and dayKey are required", custom_errors.ErrInvalidPayload)
	}
	return rm.tracker.MarkDone(ctx, marker)
}

func (rm *ReminderManager) Sweep(ctx context.Context) (types.SweepResult, error) {
	if rm.sweeper == nil {
		return types.SweepResult{}, fmt.Errorf("%w: no job store configured", custom_errors.ErrBackendUnavailable)
	}
	return rm.sweeper.Sweep(ctx)
}

func (rm *ReminderManager) HandleFired(ctx context.Context, body []byte) (state.Outcome, error) {
	if rm.callbacks == nil {
		return "", fmt.Errorf("%w: no callback handler configured", custom_errors.ErrBackendUnavailable)
	}
	return rm.callbacks.Handle(ctx, body)
}

// TestSend delivers payload to extra (when given) and to every registered subscription.
// Each target is independent; failures only show up in the returned ko count.
func (rm *ReminderManager) TestSend(ctx context.Context, extra *types.Destination, payload types.Payload) (int, int, error) {
	if payload.Title == "" {
		payload.Title = DefaultTitle
	}
	if payload.Body == "" {
		payload.Body = DefaultTestBody
	}
	if payload.URL == "" {
		payload.URL = DefaultURL
	}

	var targets []types.Destination
	if extra != nil && extra.IsValid() {
		targets = append(targets, *extra)
	}
	if rm.subscriptions != nil {
		stored, err := rm.subscriptions.List(ctx)
		if err != nil {
			return 0, 0, fmt.Errorf("failed to list subscriptions: %w", err)
		}
		targets = append(targets, stored...)
	}

	var ok, ko atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(testSendFanOut)
	for _, target := range targets {
		g.Go(func() error {
			if err := rm.processor.SendDirect(gctx, target, payload); err != nil {
				log.Printf("test send to %s failed: %v", target.Endpoint, err)
				ko.Add(1)
				return nil
			}
			ok.Add(1)
			return nil
		})
	}
	_ = g.Wait()
	return int(ok.Load()), int(ko.Load()), nil
}

func (rm *ReminderManager) Subscribe(ctx context.Context, destination types.Destination) error {
	if !destination.IsValid() {
		return fmt.Errorf("%w: subscription endpoint is required", custom_errors.ErrInvalidPayload)
	}
	if rm.subscriptions == nil {
		return fmt.Errorf("%w: no subscription store configured", custom_errors.ErrBackendUnavailable)
	}
	return rm.subscriptions.Add(ctx, destination)
}

func (rm *ReminderManager) SubscriptionCount(ctx context.Context) (int64, error) {
	if rm.subscriptions == nil {
		return 0, nil
	}
	return rm.subscriptions.Count(ctx)
}

// PendingJobs reports how many jobs wait in the JobStore. Without a store it returns ErrBackendUnavailable.
func (rm *ReminderManager) PendingJobs(ctx context.Context) (int64, error) {
	if rm.sweeper == nil {
		return 0, fmt.Errorf("%w: no job store configured", custom_errors.ErrBackendUnavailable)
	}
	return rm.sweeper.Pending(ctx)
}

// TrackerEnabled reports whether completion markers are actually persisted.
func (rm *ReminderManager) TrackerEnabled() bool {
	_, disabled := rm.tracker.(store.DisabledCompletionTracker)
	return !disabled
}
