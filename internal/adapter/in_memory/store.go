package in_memory

import (
	"context"
	"sync"

	"github.com/okhramov/stockbook/internal/domain"
	"github.com/okhramov/stockbook/internal/port"
)

var _ port.SnapshotStore = (*Store)(nil)

// Store is a map-backed SnapshotStore for tests and for running
// without durable storage configured.
type Store struct {
	mu        sync.Mutex
	snapshots map[string]*domain.BookSnapshot
}

func NewStore() *Store {
	return &Store{snapshots: make(map[string]*domain.BookSnapshot)}
}

func (s *Store) Save(ctx context.Context, snap *domain.BookSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copySnap := *snap
	s.snapshots[snap.Symbol] = &copySnap
	return nil
}

func (s *Store) Load(ctx context.Context, symbol string) (*domain.BookSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snapshots[symbol]
	if !ok {
		return nil, port.ErrSnapshotNotFound
	}
	copySnap := *snap
	return &copySnap, nil
}

func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var symbols []string
	for symbol := range s.snapshots {
		symbols = append(symbols, symbol)
	}
	return symbols, nil
}
