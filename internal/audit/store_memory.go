package audit

import (
	"context"
	"sync"

	id "tasquest/pkg/domain"
)

// InMemoryStore keeps events per account; it is the default sink when no
// Kafka brokers are configured.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[id.AccountID][]Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[id.AccountID][]Event)}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.AccountID] = append(s.events[event.AccountID], event)
	return nil
}

func (s *InMemoryStore) ListByAccount(_ context.Context, accountID id.AccountID) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event{}, s.events[accountID]...), nil
}
