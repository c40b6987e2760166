package token

import (
	"context"
	"francoggm/coffeekiosk-mpesa/internal/models"
	"sync"
)

// Store holds the current access token. Load reports false when nothing is stored.
type Store interface {
	Load(ctx context.Context) (models.AccessToken, bool, error)
	Save(ctx context.Context, token models.AccessToken) error
}

type MemoryStore struct {
	mu    sync.RWMutex
	token models.AccessToken
	set   bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(ctx context.Context) (models.AccessToken, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token, s.set, nil
}

func (s *MemoryStore) Save(ctx context.Context, token models.AccessToken) error {
	s.mu.Lock()
	s.token = token
	s.set = true
	s.mu.Unlock()

	return nil
}
