package memory

import (
	"context"
	"github.com/RezaEskandarii/remindfire/types"
	"sort"
	"sync"
)

type SubscriptionStore struct {
	mu   sync.RWMutex
	subs map[string]types.Destination
}

func NewSubscriptionStore() *SubscriptionStore {
	return &SubscriptionStore{subs: make(map[string]types.Destination)}
}

func (s *SubscriptionStore) Add(ctx context.Context, destination types.Destination) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs[destination.Endpoint] = destination
	return nil
}

func (s *SubscriptionStore) List(ctx context.Context) ([]types.Destination, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Destination, 0, len(s.subs))
	for _, d := range s.subs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Endpoint < out[j].Endpoint })
	return out, nil
}

func (s *SubscriptionStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.subs)), nil
}

func (s *SubscriptionStore) Close() error { return nil }
