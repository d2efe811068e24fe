// Package scheduler hands reminder jobs to something that calls back at their fire time.
package scheduler

import (
	"context"
	"time"
)

// ExternalScheduler arranges for body to be delivered back to the engine at the given time.
type ExternalScheduler interface {
	Schedule(ctx context.Context, body []byte, at time.Time) error
}

// FireHandler receives a scheduled body when its time comes.
type FireHandler func(ctx context.Context, body []byte)
