package memstore

import (
	"context"
	"sync"

	"github.com/aminhilali/minaret/internal/domain"
)

// FiringStore keeps firing records in memory. Records die with the
// process: after a restart an alert whose window is still open can
// fire again. Deployments that need restart-safe dedup configure the
// database-backed store instead.
type FiringStore struct {
	mu    sync.Mutex
	fired map[domain.FiringKey]struct{}
}

func NewFiringStore() *FiringStore {
	return &FiringStore{fired: make(map[domain.FiringKey]struct{})}
}

func (s *FiringStore) Seen(_ context.Context, key domain.FiringKey) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.fired[key]
	return ok, nil
}

func (s *FiringStore) Record(_ context.Context, key domain.FiringKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fired[key] = struct{}{}
	return nil
}
