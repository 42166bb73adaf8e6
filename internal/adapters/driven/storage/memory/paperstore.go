package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/scholarstr/internal/core/domain"
	"github.com/custodia-labs/scholarstr/internal/core/ports/driven"
)

// Ensure PaperStore implements the interface.
var _ driven.PaperStore = (*PaperStore)(nil)

// PaperStore is an in-memory implementation of driven.PaperStore.
type PaperStore struct {
	mu     sync.RWMutex
	byAddr map[string]domain.Paper
}

// NewPaperStore creates a new in-memory paper store.
func NewPaperStore() *PaperStore {
	return &PaperStore{byAddr: make(map[string]domain.Paper)}
}

// SavePaper stores a paper unless a newer revision of its address exists.
func (s *PaperStore) SavePaper(_ context.Context, paper *domain.Paper) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	addr := paper.Address()
	if existing, ok := s.byAddr[addr]; ok && existing.CreatedAt.After(paper.CreatedAt) {
		return nil
	}
	s.byAddr[addr] = *paper
	return nil
}

// GetPaper retrieves the cached revision for author and slug.
func (s *PaperStore) GetPaper(_ context.Context, author, slug string) (*domain.Paper, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byAddr[domain.Address(domain.KindLongForm, author, slug)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

// GetPaperByID retrieves a cached paper by event id.
func (s *PaperStore) GetPaperByID(_ context.Context, id string) (*domain.Paper, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.byAddr {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ListPapers returns cached papers newest first, optionally filtered by topic.
func (s *PaperStore) ListPapers(_ context.Context, topic string, limit int) ([]*domain.Paper, error) {
	s.mu.RLock()
	out := make([]*domain.Paper, 0, len(s.byAddr))
	for _, p := range s.byAddr {
		if topic != "" && !hasTopic(p.Topics, topic) {
			continue
		}
		p := p
		out = append(out, &p)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// DeletePaper removes a cached paper by event id.
func (s *PaperStore) DeletePaper(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for addr, p := range s.byAddr {
		if p.ID == id {
			delete(s.byAddr, addr)
		}
	}
	return nil
}

func hasTopic(topics []string, topic string) bool {
	for _, t := range topics {
		if t == topic {
			return true
		}
	}
	return false
}
