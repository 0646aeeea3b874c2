// Package memory holds a process-local snapshot store used when no Redis is
// configured and in tests.
package memory

import (
	"context"
	"sync"

	"horizon_web/internal/adapters/observability"
	"horizon_web/internal/domain"
)

type Store struct {
	mu     sync.RWMutex
	raw    []byte
	ok     bool
	writes int
}

var _ domain.SnapshotStore = (*Store)(nil)

func New() *Store { return &Store{} }

func (s *Store) Read(ctx context.Context) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.ok {
		observability.ObserveCache("memory", "miss")
		return nil, false, nil
	}
	observability.ObserveCache("memory", "hit")
	return append([]byte(nil), s.raw...), true, nil
}

func (s *Store) Write(ctx context.Context, raw []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw = append([]byte(nil), raw...)
	s.ok = true
	s.writes++
	observability.ObserveCache("memory", "set")
	return nil
}

// Writes reports how many times the snapshot has been replaced.
func (s *Store) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}
