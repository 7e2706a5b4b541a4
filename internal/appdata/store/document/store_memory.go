package document

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"tasquest/internal/appdata/models"
	id "tasquest/pkg/domain"
	"tasquest/pkg/platform/sentinel"
)

type record struct {
	document []byte
	version  int64
}

// InMemoryStore keeps each account's document as encoded JSON so callers
// never share memory with the stored copy.
type InMemoryStore struct {
	mu   sync.Mutex
	docs map[id.AccountID]record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{docs: make(map[id.AccountID]record)}
}

func (s *InMemoryStore) Load(_ context.Context, accountID id.AccountID) (*models.AppData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.docs[accountID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return decode(rec)
}

// Save replaces the document and returns the new version.
func (s *InMemoryStore) Save(_ context.Context, accountID id.AccountID, data *models.AppData) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.put(accountID, data)
}

// Execute loads, mutates and stores the document while holding the lock,
// serializing concurrent commands for the same account.
func (s *InMemoryStore) Execute(_ context.Context, accountID id.AccountID, mutate func(*models.AppData) error) (*models.AppData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.docs[accountID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	data, err := decode(rec)
	if err != nil {
		return nil, err
	}
	if err := mutate(data); err != nil {
		return nil, err
	}
	version, err := s.put(accountID, data)
	if err != nil {
		return nil, err
	}
	data.Version = version
	return data, nil
}

func (s *InMemoryStore) put(accountID id.AccountID, data *models.AppData) (int64, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return 0, fmt.Errorf("encode app data: %w", err)
	}
	version := s.docs[accountID].version + 1
	s.docs[accountID] = record{document: payload, version: version}
	return version, nil
}

func decode(rec record) (*models.AppData, error) {
	var data models.AppData
	if err := json.Unmarshal(rec.document, &data); err != nil {
		return nil, fmt.Errorf("decode app data: %w", err)
	}
	data.Version = rec.version
	return &data, nil
}
