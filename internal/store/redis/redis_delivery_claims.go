package redis

import (
	"context"
	"fmt"
	goredis "github.com/redis/go-redis/v9"
	"time"
)

type DeliveryClaims struct {
	client *goredis.Client
	prefix string
}

func NewDeliveryClaims(client *goredis.Client, prefix string) *DeliveryClaims {
	return &DeliveryClaims{client: client, prefix: prefix}
}

func (c *DeliveryClaims) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := c.client.SetNX(ctx, c.prefix+key, time.Now().UnixMilli(), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim delivery: %w", err)
	}
	return ok, nil
}

func (c *DeliveryClaims) Close() error { return nil }
