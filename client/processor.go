package client

import (
	"context"
	"github.com/RezaEskandarii/remindfire/internal/state"
	"github.com/RezaEskandarii/remindfire/internal/store"
	"github.com/RezaEskandarii/remindfire/internal/transport"
	"github.com/RezaEskandarii/remindfire/types"
	"log"
	"time"
)

const DefaultSendTimeout = 10 * time.Second

// Processor runs the per-job tail shared by sweeps and scheduler callbacks:
// completion check, payload, bounded send.
type Processor struct {
	tracker   store.CompletionTracker
	transport transport.Transport
	payloads  *PayloadBuilder
}

func NewProcessor(tracker store.CompletionTracker, tr transport.Transport, payloads *PayloadBuilder, sendTimeout time.Duration) *Processor {
	if tracker == nil {
		tracker = store.DisabledCompletionTracker{}
	}
	if payloads == nil {
		payloads = NewPayloadBuilder(false)
	}
	if sendTimeout <= 0 {
		sendTimeout = DefaultSendTimeout
	}
	return &Processor{
		tracker:   tracker,
		transport: transport.WithTimeout(tr, sendTimeout),
		payloads:  payloads,
	}
}

// Process never retries. A tracker error is treated as a failure and nothing is sent.
func (p *Processor) Process(ctx context.Context, job types.ReminderJob) (state.Outcome, error) {
	done, err := p.tracker.IsDone(ctx, job.Marker())
	if err != nil {
		log.Printf("completion check failed for %s: %v", job.SubjectID, err)
		return state.OutcomeFailed, err
	}
	if done {
		return state.OutcomeSuppressed, nil
	}

	if err := p.transport.Send(ctx, job.Destination, p.payloads.Build(job)); err != nil {
		log.Printf("send failed for %s: %v", job.SubjectID, err)
		return state.OutcomeFailed, err
	}
	return state.OutcomeSent, nil
}

// SendDirect delivers an arbitrary payload without the completion check. Used by broadcast test sends.
func (p *Processor) SendDirect(ctx context.Context, destination types.Destination, payload types.Payload) error {
	return p.transport.Send(ctx, destination, payload)
}
