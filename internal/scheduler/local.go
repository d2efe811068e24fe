package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrSchedulerStopped = errors.New("scheduler stopped")

// LocalScheduler fires jobs from in-process timers. Pending jobs are lost on restart,
// so it is meant for single-instance and development runs.
type LocalScheduler struct {
	mu      sync.Mutex
	handler FireHandler
	timers  map[uint64]*time.Timer
	nextID  uint64
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewLocalScheduler(handler FireHandler) *LocalScheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &LocalScheduler{
		handler: handler,
		timers:  make(map[uint64]*time.Timer),
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (l *LocalScheduler) Schedule(ctx context.Context, body []byte, at time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.ctx.Err() != nil {
		return ErrSchedulerStopped
	}

	id := l.nextID
	l.nextID++
	payload := append([]byte(nil), body...)

	l.wg.Add(1)
	l.timers[id] = time.AfterFunc(time.Until(at), func() {
		defer l.wg.Done()
		l.mu.Lock()
		delete(l.timers, id)
		l.mu.Unlock()

		if l.ctx.Err() != nil {
			return
		}
		l.handler(l.ctx, payload)
	})
	return nil
}

// Stop cancels all pending timers and waits for running handlers. It returns how many timers were dropped.
func (l *LocalScheduler) Stop() int {
	l.mu.Lock()
	l.cancel()
	dropped := 0
	for id, t := range l.timers {
		if t.Stop() {
			dropped++
			l.wg.Done()
		}
		delete(l.timers, id)
	}
	l.mu.Unlock()

	l.wg.Wait()
	return dropped
}
