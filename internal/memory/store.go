// Package memory persists per-session synopsis memory. The durable backend is
// SQLite; without a configured database path the store degrades to a
// process-local map, matching the degrade-gracefully policy of the rest of
// the system.
package memory

import (
	"context"
	"sync"

	"aura/pkg/auratypes"
)

// Store is the keyed session-memory persistence consumed by the conversation
// handler. Load returns an empty record for unknown session ids. Save has
// upsert semantics.
type Store interface {
	Load(ctx context.Context, sessionID string) (auratypes.SessionMemory, error)
	Save(ctx context.Context, sessionID string, mem auratypes.SessionMemory) error
}

// LocalStore is a volatile in-process store. It is the default backend and
// the fallback when the durable backend misbehaves.
type LocalStore struct {
	mu       sync.RWMutex
	sessions map[string]auratypes.SessionMemory
}

// NewLocalStore creates an empty in-process store.
func NewLocalStore() *LocalStore {
	return &LocalStore{
		sessions: make(map[string]auratypes.SessionMemory),
	}
}

// Load returns the memory for sessionID, or an empty record if none exists.
func (s *LocalStore) Load(_ context.Context, sessionID string) (auratypes.SessionMemory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if mem, ok := s.sessions[sessionID]; ok {
		return mem.Clone(), nil
	}
	return auratypes.SessionMemory{}, nil
}

// Save stores the memory for sessionID, replacing any previous record.
func (s *LocalStore) Save(_ context.Context, sessionID string, mem auratypes.SessionMemory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sessionID] = mem.Clone()
	return nil
}
