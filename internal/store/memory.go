// internal/store/memory.go
package store

import (
	"context"
	"sync"

	"planpal/internal/models"
)

// MemoryStore is the in-process fallback used when Postgres is not
// configured. First-insert order is preserved per group so listings
// behave like the seq-ordered database rows.
type MemoryStore struct {
	mu     sync.RWMutex
	groups map[string]*groupBucket
}

type groupBucket struct {
	order []string // suggestion IDs in first-insert order
	byID  map[string]models.Suggestion
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{groups: make(map[string]*groupBucket)}
}

func (s *MemoryStore) Upsert(ctx context.Context, suggestions []models.Suggestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sg := range suggestions {
		bucket, ok := s.groups[sg.GroupCode]
		if !ok {
			bucket = &groupBucket{byID: make(map[string]models.Suggestion)}
			s.groups[sg.GroupCode] = bucket
		}

		if _, exists := bucket.byID[sg.ID]; !exists {
			bucket.order = append(bucket.order, sg.ID)
		}
		bucket.byID[sg.ID] = sg
	}

	return nil
}

func (s *MemoryStore) ListByGroup(ctx context.Context, groupCode string) ([]models.Suggestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bucket, ok := s.groups[groupCode]
	if !ok {
		return nil, nil
	}

	out := make([]models.Suggestion, 0, len(bucket.order))
	for _, id := range bucket.order {
		out = append(out, bucket.byID[id])
	}
	return out, nil
}

func (s *MemoryStore) DeleteGroup(ctx context.Context, groupCode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.groups, groupCode)
	return nil
}
