package state

import (
	"context"
	"sync"

	"github.com/mhenley/scorepush/internal/engine"
)

// MemoryStore is a process-local store for tests and infra-less development.
// It round-trips through the same codec as the durable stores so the
// replace-wholesale semantics stay honest.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context) (engine.SnapshotSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return decodeSet(s.data)
}

func (s *MemoryStore) Save(_ context.Context, set engine.SnapshotSet) error {
	data, err := encodeSet(set)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	return nil
}

func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}
