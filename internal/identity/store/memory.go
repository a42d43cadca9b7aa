package store

import (
	"context"
	"sync"

	"catalog/internal/identity/models"
	"catalog/pkg/platform/sentinel"
)

// InMemory keeps user records in a map. It intentionally favors clarity over
// performance; the postgres store is the durable option.
type InMemory struct {
	mu      sync.RWMutex
	users   map[string]models.User
	byPhone map[string]string
}

func NewInMemory() *InMemory {
	return &InMemory{
		users:   make(map[string]models.User),
		byPhone: make(map[string]string),
	}
}

func (s *InMemory) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byPhone[user.Phone]; taken {
		return sentinel.ErrAlreadyUsed
	}
	s.users[user.ID] = *user
	s.byPhone[user.Phone] = user.ID
	return nil
}

func (s *InMemory) FindActiveByPhone(_ context.Context, phone string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byPhone[phone]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	user := s.users[id]
	if user.Status != models.UserStatusActive || user.IsDeleted != nil {
		return nil, sentinel.ErrNotFound
	}
	return &user, nil
}

func (s *InMemory) FindByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &user, nil
}
