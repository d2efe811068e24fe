package memory

import (
	"context"
	"sync"
	"time"
)

type DeliveryClaims struct {
	mu     sync.Mutex
	claims map[string]time.Time
	now    func() time.Time
}

func NewDeliveryClaims() *DeliveryClaims {
	return &DeliveryClaims{claims: make(map[string]time.Time), now: time.Now}
}

func (c *DeliveryClaims) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if expiresAt, ok := c.claims[key]; ok && now.Before(expiresAt) {
		return false, nil
	}
	c.claims[key] = now.Add(ttl)
	return true, nil
}

func (c *DeliveryClaims) Close() error { return nil }
