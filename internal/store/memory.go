package store

import (
	"context"
	"sync"

	"github.com/scamshield-ai/honeypot-platform/internal/model"
)

// MemoryStore is an in-process session store used in tests and
// single-node development setups.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*model.ConversationState
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*model.ConversationState)}
}

// Load returns a deep copy so callers never alias stored state.
func (s *MemoryStore) Load(_ context.Context, id string) (*model.ConversationState, error) {
	s.mu.RLock()
	state, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return state.Clone(), nil
}

// Save stores a deep copy of the session.
func (s *MemoryStore) Save(_ context.Context, state *model.ConversationState) error {
	s.mu.Lock()
	s.sessions[state.ID] = state.Clone()
	s.mu.Unlock()
	return nil
}

// Delete removes a session; deleting an absent session is a no-op.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}
