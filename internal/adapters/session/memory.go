package session

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/labsys/labstock/internal/domain"
)

// MemoryCartStore holds carts in process memory. Used when no REDIS_URL is
// configured and in tests; carts do not survive a restart.
type MemoryCartStore struct {
	mu    sync.Mutex
	carts map[uuid.UUID]domain.Cart
}

func NewMemoryCartStore() *MemoryCartStore {
	return &MemoryCartStore{carts: make(map[uuid.UUID]domain.Cart)}
}

func (s *MemoryCartStore) Get(_ context.Context, userID uuid.UUID) (domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.carts[userID]
	out := domain.Cart{Lines: make([]domain.CartLine, len(cart.Lines))}
	copy(out.Lines, cart.Lines)
	return out, nil
}

func (s *MemoryCartStore) Append(_ context.Context, userID uuid.UUID, line domain.CartLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.carts[userID]
	if err := cart.Add(line); err != nil {
		return err
	}
	s.carts[userID] = cart
	return nil
}

func (s *MemoryCartStore) Clear(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
	return nil
}
