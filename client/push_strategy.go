package client

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"github.com/RezaEskandarii/remindfire/custom_errors"
	"github.com/RezaEskandarii/remindfire/internal/codec"
	"github.com/RezaEskandarii/remindfire/internal/scheduler"
	"github.com/RezaEskandarii/remindfire/internal/state"
	"github.com/RezaEskandarii/remindfire/internal/store"
	"github.com/RezaEskandarii/remindfire/types"
	"log"
	"time"
)

const DefaultClaimTTL = 48 * time.Hour

// PushStrategy registers one callback per job with an external scheduler.
type PushStrategy struct {
	scheduler scheduler.ExternalScheduler
}

func NewPushStrategy(s scheduler.ExternalScheduler) *PushStrategy {
	return &PushStrategy{scheduler: s}
}

func (p *PushStrategy) Submit(ctx context.Context, job types.ReminderJob) error {
	token, err := codec.Encode(job)
	if err != nil {
		return err
	}
	if err := p.scheduler.Schedule(ctx, []byte(token), job.FireTime()); err != nil {
		return fmt.Errorf("failed to schedule job: %w", err)
	}
	return nil
}

// CallbackHandler processes a job body delivered by a scheduler at its fire time.
type CallbackHandler struct {
	processor *Processor
	claims    store.DeliveryClaims
	claimTTL  time.Duration
}

// NewCallbackHandler accepts nil claims; repeated callbacks then rely on the completion check alone.
func NewCallbackHandler(processor *Processor, claims store.DeliveryClaims, claimTTL time.Duration) *CallbackHandler {
	if claimTTL <= 0 {
		claimTTL = DefaultClaimTTL
	}
	return &CallbackHandler{processor: processor, claims: claims, claimTTL: claimTTL}
}

func (h *CallbackHandler) Handle(ctx context.Context, body []byte) (state.Outcome, error) {
	job, err := codec.DecodeBytes(body)
	if err != nil {
		return state.OutcomeCorrupt, err
	}

	if h.claims != nil {
		key, err := claimKey(job)
		if err != nil {
			return state.OutcomeCorrupt, err
		}
		claimed, err := h.claims.Claim(ctx, key, h.claimTTL)
		switch {
		case err != nil:
			log.Printf("delivery claim unavailable, continuing: %v", err)
		case !claimed:
			return state.OutcomeSkipped, nil
		}
	}

	return h.processor.Process(ctx, job)
}

// Fire adapts Handle to scheduler.FireHandler for in-process timers.
func (h *CallbackHandler) Fire(ctx context.Context, body []byte) {
	outcome, err := h.Handle(ctx, body)
	if err != nil {
		log.Printf("fired job %s: %v", outcome, err)
		return
	}
	log.Printf("fired job %s", outcome)
}

// claimKey hashes the canonical token so re-serialized callback bodies map to the same claim.
func claimKey(job types.ReminderJob) (string, error) {
	token, err := codec.Encode(job)
	if err != nil {
		return "", fmt.Errorf("%w: cannot re-encode callback job: %v", custom_errors.ErrCorruptJob, err)
	}
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:]), nil
}
