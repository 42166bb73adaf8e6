package tui

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/scholarstr/internal/core/domain"
)

var testNow = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func testPapers() []*domain.Paper {
	return []*domain.Paper{
		{ID: "p1", Author: "pk1", Slug: "one", Title: "Sparse attention at scale", Authors: "Ada",
			Abstract: "An abstract.", PublishedAt: testNow.AddDate(-1, 0, 0), PublishedAtValid: true},
		{ID: "p2", Author: "pk2", Slug: "two", Title: "Coral reef acoustics", Authors: "Grace",
			Abstract: "Reefs are loud.", PublishedAt: testNow.AddDate(0, 0, -5), PublishedAtValid: true},
	}
}

// mockPaperService implements driving.PaperService.
type mockPaperService struct {
	mu       sync.Mutex
	feed     []*domain.Paper
	feedErr  error
	searched []string
}

func (m *mockPaperService) Feed(context.Context, int) ([]*domain.Paper, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.feed, m.feedErr
}

func (m *mockPaperService) Get(context.Context, string, string) (*domain.Paper, error) {
	return nil, domain.ErrNotFound
}

func (m *mockPaperService) GetByID(context.Context, string) (*domain.Paper, error) {
	return nil, domain.ErrNotFound
}

func (m *mockPaperService) ByTopic(context.Context, string, int) ([]*domain.Paper, error) {
	return nil, nil
}

func (m *mockPaperService) Search(_ context.Context, query string, _ int) ([]*domain.Paper, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searched = append(m.searched, query)
	return m.feed, nil
}

func (m *mockPaperService) Submit(context.Context, domain.PaperSubmission) (*domain.Paper, error) {
	return nil, domain.ErrSignerUnavailable
}

// mockStatsService implements driving.StatsService.
type mockStatsService struct{}

func (mockStatsService) ZapStats(context.Context, string) (*domain.ZapStats, error) {
	return &domain.ZapStats{TotalZaps: 2, TotalSats: 42, UniqueZappers: 1}, nil
}

func (mockStatsService) CommentCount(context.Context, string) (int, error) {
	return 7, nil
}

func (mockStatsService) UserZapStats(context.Context, string) (*domain.UserZapStats, error) {
	return &domain.UserZapStats{}, nil
}

// mockRefresher implements FeedRefresher.
type mockRefresher struct {
	mu      sync.Mutex
	fn      func([]*domain.Paper, error)
	started bool
	stopped bool
}

func (r *mockRefresher) OnResult(fn func([]*domain.Paper, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fn = fn
}

func (r *mockRefresher) Start(ctx context.Context) error {
	r.mu.Lock()
	r.started = true
	r.mu.Unlock()
	<-ctx.Done()
	return ctx.Err()
}

func (r *mockRefresher) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped = true
	return nil
}
