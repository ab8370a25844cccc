package sessionstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/redflagduel/arena/internal/domain/element"
	"github.com/redflagduel/arena/internal/domain/session"
)

// MemorySessions keeps ledgers in process memory; the development backend.
type MemorySessions struct {
	mu      sync.RWMutex
	ledgers map[string]*session.Ledger
}

// NewMemorySessions creates an empty in-memory session store.
func NewMemorySessions() *MemorySessions {
	return &MemorySessions{ledgers: make(map[string]*session.Ledger)}
}

// Create allocates a ledger for a declared voter profile.
func (s *MemorySessions) Create(ctx context.Context, profile element.Profile) (*session.Ledger, error) {
	if !profile.IsValid() {
		return nil, ErrInvalidProfile
	}
	l := session.New(uuid.NewString(), profile)

	s.mu.Lock()
	s.ledgers[l.ID] = l.Clone()
	s.mu.Unlock()
	return l, nil
}

// Get loads a ledger copy.
func (s *MemorySessions) Get(ctx context.Context, id string) (*session.Ledger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.ledgers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return l.Clone(), nil
}

// Save persists the ledger's current state.
func (s *MemorySessions) Save(ctx context.Context, l *session.Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ledgers[l.ID]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, l.ID)
	}
	s.ledgers[l.ID] = l.Clone()
	return nil
}

// Delete drops a session.
func (s *MemorySessions) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ledgers[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(s.ledgers, id)
	return nil
}

// Count returns the number of live sessions.
func (s *MemorySessions) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ledgers), nil
}
