package client

import (
	"context"
	"errors"
	"fmt"
	"github.com/RezaEskandarii/remindfire/internal/codec"
	"github.com/RezaEskandarii/remindfire/internal/constants"
	"github.com/RezaEskandarii/remindfire/internal/lock"
	"github.com/RezaEskandarii/remindfire/internal/parser"
	"github.com/RezaEskandarii/remindfire/internal/state"
	"github.com/RezaEskandarii/remindfire/internal/store"
	"github.com/RezaEskandarii/remindfire/types"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/semaphore"
	"log"
	"sync"
	"time"
)

// SweepManager pulls due jobs out of the JobStore and dispatches them.
type SweepManager struct {
	store       store.JobStore
	processor   *Processor
	lock        lock.DistributedLockManager
	workerCount int
	now         func() time.Time
}

// NewSweepManager accepts a nil lock for single-instance deployments.
func NewSweepManager(jobStore store.JobStore, processor *Processor, lockMgr lock.DistributedLockManager, workerCount int) *SweepManager {
	if workerCount < 1 {
		workerCount = 1
	}
	return &SweepManager{
		store:       jobStore,
		processor:   processor,
		lock:        lockMgr,
		workerCount: workerCount,
		now:         time.Now,
	}
}

// Sweep runs one cycle. Per-job failures are counted, not returned.
func (sm *SweepManager) Sweep(ctx context.Context) (types.SweepResult, error) {
	var result types.SweepResult

	if sm.lock != nil {
		ok, err := sm.lock.TryAcquire(ctx, constants.SweepLock)
		if err != nil {
			return result, fmt.Errorf("failed to acquire sweep lock: %w", err)
		}
		if !ok {
			result.Locked = true
			return result, nil
		}
		defer func() {
			if err := sm.lock.Release(context.WithoutCancel(ctx), constants.SweepLock); err != nil {
				log.Printf("failed to release sweep lock: %v", err)
			}
		}()
	}

	tokens, err := sm.store.DueAsOf(ctx, sm.now().UnixMilli())
	if err != nil {
		return result, fmt.Errorf("fetch error: %w", err)
	}
	result.Due = len(tokens)

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = semaphore.NewWeighted(int64(sm.workerCount))
	)
	record := func(outcome state.Outcome) {
		mu.Lock()
		result.Record(outcome)
		mu.Unlock()
	}

	for _, token := range tokens {
		job, err := codec.Decode(token)
		if err != nil {
			log.Printf("dropping corrupt job: %v", err)
			if _, err := sm.store.Remove(ctx, token); err != nil {
				log.Printf("failed to remove corrupt job: %v", err)
			}
			record(state.OutcomeCorrupt)
			continue
		}

		removed, err := sm.store.Remove(ctx, token)
		if err != nil {
			log.Printf("failed to remove job %s: %v", job.SubjectID, err)
			record(state.OutcomeFailed)
			continue
		}
		if !removed {
			record(state.OutcomeSkipped)
			continue
		}

		if err := sem.Acquire(ctx, 1); err != nil {
			// already removed, so it is lost; the rest stay queued for the next sweep
			log.Printf("sweep interrupted: %v", err)
			record(state.OutcomeFailed)
			break
		}
		wg.Add(1)
		go sm.handleJob(ctx, sem, &wg, job, record)
	}

	wg.Wait()
	return result, nil
}

func (sm *SweepManager) handleJob(ctx context.Context, sem *semaphore.Weighted, wg *sync.WaitGroup, job types.ReminderJob, record func(state.Outcome)) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("panic in job %s: %v", job.SubjectID, r)
			record(state.OutcomeFailed)
		}
		sem.Release(1)
		wg.Done()
	}()

	outcome, _ := sm.processor.Process(ctx, job)
	record(outcome)
}

// Pending returns how many jobs are still waiting in the JobStore, due or not.
func (sm *SweepManager) Pending(ctx context.Context) (int64, error) {
	return sm.store.Count(ctx)
}

// Start sweeps on the given cron schedule until ctx is cancelled.
// A tick that fires while the previous sweep is still running is skipped.
func (sm *SweepManager) Start(ctx context.Context, schedule string) error {
	if _, err := parser.ParseSweepSchedule(schedule); err != nil {
		return err
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.AddFunc(schedule, func() {
		res, err := sm.Sweep(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("sweep error: %v", err)
			return
		}
		if res.Due > 0 || res.Locked {
			log.Printf("sweep done: due=%d sent=%d suppressed=%d failed=%d corrupt=%d skipped=%d locked=%t",
				res.Due, res.Sent, res.Suppressed, res.Failed, res.Corrupt, res.Skipped, res.Locked)
			if next, err := parser.NextSweep(schedule, sm.now()); err == nil {
				log.Printf("next sweep at %s", next.Format(time.RFC3339))
			}
		}
	}); err != nil {
		return fmt.Errorf("failed to register sweep: %w", err)
	}

	log.Printf("sweep loop started (%s)", schedule)
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	log.Println("sweep loop stopped")
	return ctx.Err()
}
