// Package memory holds process-local store backends, used for tests and single-node development runs.
package memory

import (
	"context"
	"sort"
	"sync"
)

type jobEntry struct {
	token  string
	fireAt int64
}

// JobStore keeps entries sorted by (fireAt, insertion order). Duplicate tokens are kept as separate entries.
type JobStore struct {
	mu      sync.Mutex
	entries []jobEntry
}

func NewJobStore() *JobStore {
	return &JobStore{}
}

func (s *JobStore) Enqueue(ctx context.Context, token string, fireAt int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := jobEntry{token: token, fireAt: fireAt}
	i := sort.Search(len(s.entries), func(i int) bool {
		return s.entries[i].fireAt > fireAt
	})
	s.entries = append(s.entries, jobEntry{})
	copy(s.entries[i+1:], s.entries[i:])
	s.entries[i] = e
	return nil
}

func (s *JobStore) DueAsOf(ctx context.Context, ts int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var tokens []string
	for _, e := range s.entries {
		if e.fireAt > ts {
			break
		}
		tokens = append(tokens, e.token)
	}
	return tokens, nil
}

func (s *JobStore) Remove(ctx context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.entries {
		if e.token == token {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *JobStore) Count(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.entries)), nil
}

func (s *JobStore) Close() error { return nil }
