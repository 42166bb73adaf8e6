package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/scholarstr/internal/core/domain"
	"github.com/custodia-labs/scholarstr/internal/core/ports/driven"
)

// Ensure RefreshStore implements the interface.
var _ driven.RefreshStore = (*RefreshStore)(nil)

// RefreshStore is an in-memory implementation of driven.RefreshStore.
type RefreshStore struct {
	mu      sync.RWMutex
	records map[string]domain.RefreshStatus
}

// NewRefreshStore creates an empty refresh store.
func NewRefreshStore() *RefreshStore {
	return &RefreshStore{records: make(map[string]domain.RefreshStatus)}
}

// SaveRefresh records status under name.
func (s *RefreshStore) SaveRefresh(_ context.Context, name string, status domain.RefreshStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[name] = status
	return nil
}

// GetRefresh returns the record for name.
func (s *RefreshStore) GetRefresh(_ context.Context, name string) (*domain.RefreshStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status, ok := s.records[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &status, nil
}
