package store

import (
	"context"
	"time"
)

// DeliveryClaims records which externally fired jobs were already handled,
// so a scheduler that invokes a callback twice does not cause a second send.
type DeliveryClaims interface {
	// Claim returns true for the first caller of key within ttl.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Close() error
}
