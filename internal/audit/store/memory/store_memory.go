package memory

import (
	"context"
	"sync"

	"catalog/internal/audit"
)

// InMemoryStore keeps the ledger in a slice. Events returned by List are
// copies so callers cannot mutate recorded history.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// List returns all recorded events in append order. Test and admin helper;
// not part of the audit.Store contract.
func (s *InMemoryStore) List(_ context.Context) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.events...), nil
}
