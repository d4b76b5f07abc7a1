package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/presmtech/storefront/cart/pkg/model"
	"github.com/presmtech/storefront/internal/errors"
)

type memoryStore struct {
	mu    sync.RWMutex
	carts map[string]*model.Cart
}

// NewMemoryStore returns a Store backed by a process-local map. Used by tests
// and development runs without redis.
func NewMemoryStore() Store {
	return &memoryStore{carts: map[string]*model.Cart{}}
}

func (s *memoryStore) Load(c context.Context, sessionID string) (*model.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart, ok := s.carts[sessionID]
	if !ok {
		return nil, fmt.Errorf("sessionId=%s with error=%w", sessionID, errors.ErrCartNotFound)
	}
	return cart.Clone(), nil
}

func (s *memoryStore) Save(c context.Context, cart *model.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.carts[cart.SessionID]
	if ok && existing.Version != cart.Version {
		return fmt.Errorf(
			"sessionId=%s stored version=%d loaded version=%d with error=%w",
			cart.SessionID,
			existing.Version,
			cart.Version,
			errors.ErrVersionConflict,
		)
	}

	cart.Version++
	s.carts[cart.SessionID] = cart.Clone()
	return nil
}

func (s *memoryStore) Delete(c context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, sessionID)
	return nil
}
