package account

import (
	"context"
	"sync"

	"tasquest/internal/identity/models"
	id "tasquest/pkg/domain"
	"tasquest/pkg/platform/sentinel"
)

// InMemoryStore keeps accounts in process, indexed by id and by normalized email.
type InMemoryStore struct {
	mu      sync.RWMutex
	byID    map[id.AccountID]*models.Account
	byEmail map[string]id.AccountID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byID:    make(map[id.AccountID]*models.Account),
		byEmail: make(map[string]id.AccountID),
	}
}

// CreateIfEmailAvailable inserts the account unless its email is taken.
func (s *InMemoryStore) CreateIfEmailAvailable(_ context.Context, account *models.Account) error {
	if account == nil {
		return sentinel.ErrInvalidState
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byEmail[account.Email]; taken {
		return sentinel.ErrConflict
	}
	if _, taken := s.byID[account.ID]; taken {
		return sentinel.ErrConflict
	}
	stored := *account
	s.byID[account.ID] = &stored
	s.byEmail[account.Email] = account.ID
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, accountID id.AccountID) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.byID[accountID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	found := *account
	return &found, nil
}

func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	accountID, ok := s.byEmail[email]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	found := *s.byID[accountID]
	return &found, nil
}

// Execute runs validate then mutate on the stored account under the write lock.
// When validate fails nothing is changed.
func (s *InMemoryStore) Execute(
	_ context.Context,
	accountID id.AccountID,
	validate func(*models.Account) error,
	mutate func(*models.Account),
) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.byID[accountID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	working := *account
	if err := validate(&working); err != nil {
		return nil, err
	}
	mutate(&working)
	s.byID[accountID] = &working
	result := working
	return &result, nil
}
