package game

import (
	"context"
	"sync"
)

// MemoryStore keeps lobbies in process memory. It is the default backing
// when no MongoDB is configured and the fixture store in tests. Documents
// are cloned on the way in and out so callers always work on a private copy,
// same as a store that round-trips through a database.
type MemoryStore struct {
	mu      sync.Mutex
	lobbies map[string]*Lobby
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{lobbies: make(map[string]*Lobby)}
}

func (s *MemoryStore) Load(ctx context.Context, id string) (*Lobby, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lobbies[id]
	if !ok {
		return nil, ErrLobbyNotFound
	}
	return l.Clone(), nil
}

func (s *MemoryStore) Save(ctx context.Context, l *Lobby) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lobbies[l.ID] = l.Clone()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lobbies, id)
	return nil
}
