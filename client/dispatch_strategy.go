package client

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/RezaEskandarii/remindfire/internal/codec"
	"github.com/RezaEskandarii/remindfire/internal/message_broaker"
	"github.com/RezaEskandarii/remindfire/internal/store"
	"github.com/RezaEskandarii/remindfire/types"
	"log"
	"time"
)

// DispatchStrategy decides how a planned job reaches the Processor at its fire time.
type DispatchStrategy interface {
	Submit(ctx context.Context, job types.ReminderJob) error
}

const (
	queueSyncBatchSize = 1000
	queueSyncInterval  = 20 * time.Second
)

// SweepStrategy stores jobs in the JobStore for the SweepManager to pick up.
// With a broker configured, submissions are published first and synced into the store in batches.
type SweepStrategy struct {
	store    store.JobStore
	mBroker  message_broaker.MessageBroker
	queue    string
	useQueue bool
}

func NewSweepStrategy(jobStore store.JobStore, messageBroker message_broaker.MessageBroker, queue string, useQueue bool) *SweepStrategy {
	return &SweepStrategy{
		store:    jobStore,
		mBroker:  messageBroker,
		queue:    queue,
		useQueue: useQueue && messageBroker != nil,
	}
}

func (s *SweepStrategy) Submit(ctx context.Context, job types.ReminderJob) error {
	token, err := codec.Encode(job)
	if err != nil {
		return err
	}

	if s.useQueue {
		msg, err := json.Marshal(store.EncodedJob{Token: token, FireAt: job.FireAt})
		if err != nil {
			return fmt.Errorf("failed to marshal queued job: %w", err)
		}
		if err := s.mBroker.Publish(ctx, s.queue, msg); err != nil {
			return fmt.Errorf("failed to publish job: %w", err)
		}
		return nil
	}

	if err := s.store.Enqueue(ctx, token, job.FireAt); err != nil {
		return fmt.Errorf("failed to enqueue job: %w", err)
	}
	return nil
}

// StartQueueAndStorageSyncWorker drains the broker queue into the JobStore.
// Messages are acked only after their batch is stored; a failed batch is requeued. It is a no-op when the queue writer is disabled.
func (s *SweepStrategy) StartQueueAndStorageSyncWorker(ctx context.Context) error {
	if !s.useQueue {
		return nil
	}

	msgCh, err := s.mBroker.Consume(ctx, s.queue)
	if err != nil {
		return fmt.Errorf("failed to start consuming messages: %w", err)
	}
	log.Println("start to sync queued reminder jobs with the job store")

	go func() {
		ticker := time.NewTicker(queueSyncInterval)
		defer ticker.Stop()

		var batch []store.EncodedJob
		var pending []message_broaker.Delivery

		flushBatch := func(ctx context.Context) {
			if len(batch) == 0 {
				return
			}
			if err := store.EnqueueAll(ctx, s.store, batch); err != nil {
				log.Printf("failed to insert batch jobs, requeueing %d: %v", len(pending), err)
				settle(pending, func(d message_broaker.Delivery) error { return d.Nack(true) })
			} else {
				log.Printf("inserted %d jobs in batch", len(batch))
				settle(pending, message_broaker.Delivery.Ack)
			}
			batch, pending = nil, nil
		}

		for {
			select {
			case <-ctx.Done():
				log.Println("batch job sync stopped due to context cancellation")
				flushBatch(context.WithoutCancel(ctx))
				return

			case msg, ok := <-msgCh:
				if !ok {
					log.Println("message channel closed")
					flushBatch(context.WithoutCancel(ctx))
					return
				}

				job, err := decodeQueuedJob(msg.Body)
				if err != nil {
					log.Printf("dropping queued job: %v", err)
					settle([]message_broaker.Delivery{msg}, func(d message_broaker.Delivery) error { return d.Nack(false) })
					continue
				}

				batch = append(batch, job)
				pending = append(pending, msg)
				if len(batch) >= queueSyncBatchSize {
					flushBatch(ctx)
				}

			case <-ticker.C:
				flushBatch(ctx)
			}
		}
	}()

	return nil
}

func decodeQueuedJob(body []byte) (store.EncodedJob, error) {
	var job store.EncodedJob
	if err := json.Unmarshal(body, &job); err != nil {
		return job, fmt.Errorf("failed to unmarshal job: %w", err)
	}
	if _, err := codec.Decode(job.Token); err != nil {
		return job, err
	}
	return job, nil
}

func settle(deliveries []message_broaker.Delivery, fn func(message_broaker.Delivery) error) {
	for _, d := range deliveries {
		if err := fn(d); err != nil {
			log.Printf("failed to settle queued message: %v", err)
		}
	}
}
