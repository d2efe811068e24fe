package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/RezaEskandarii/remindfire/types"
	goredis "github.com/redis/go-redis/v9"
	"log"
	"sort"
)

// SubscriptionStore keeps subscriptions in a hash keyed by endpoint, so re-subscribing replaces the keys.
type SubscriptionStore struct {
	client *goredis.Client
	key    string
}

func NewSubscriptionStore(client *goredis.Client, key string) *SubscriptionStore {
	return &SubscriptionStore{client: client, key: key}
}

func (s *SubscriptionStore) Add(ctx context.Context, destination types.Destination) error {
	b, err := json.Marshal(destination)
	if err != nil {
		return fmt.Errorf("failed to marshal subscription: %w", err)
	}
	if err := s.client.HSet(ctx, s.key, destination.Endpoint, string(b)).Err(); err != nil {
		return fmt.Errorf("failed to add subscription: %w", err)
	}
	return nil
}

func (s *SubscriptionStore) List(ctx context.Context) ([]types.Destination, error) {
	values, err := s.client.HVals(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	out := make([]types.Destination, 0, len(values))
	for _, v := range values {
		var d types.Destination
		if err := json.Unmarshal([]byte(v), &d); err != nil {
			log.Printf("skipping unreadable subscription: %v", err)
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Endpoint < out[j].Endpoint })
	return out, nil
}

func (s *SubscriptionStore) Count(ctx context.Context) (int64, error) {
	n, err := s.client.HLen(ctx, s.key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}
	return n, nil
}

func (s *SubscriptionStore) Close() error { return nil }
