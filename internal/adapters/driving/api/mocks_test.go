package api

import (
	"context"

	"github.com/custodia-labs/scholarstr/internal/core/domain"
)

// mockPaperService is a mock implementation of driving.PaperService.
type mockPaperService struct {
	papers    []*domain.Paper
	paper     *domain.Paper
	err       error
	lastQuery string
	lastTopic string
	lastLimit int
	lastSub   domain.PaperSubmission
}

func (m *mockPaperService) Feed(_ context.Context, limit int) ([]*domain.Paper, error) {
	m.lastLimit = limit
	return m.papers, m.err
}

func (m *mockPaperService) Get(_ context.Context, _, _ string) (*domain.Paper, error) {
	return m.paper, m.err
}

func (m *mockPaperService) GetByID(_ context.Context, _ string) (*domain.Paper, error) {
	return m.paper, m.err
}

func (m *mockPaperService) ByTopic(_ context.Context, topic string, _ int) ([]*domain.Paper, error) {
	m.lastTopic = topic
	return m.papers, m.err
}

func (m *mockPaperService) Search(_ context.Context, query string, _ int) ([]*domain.Paper, error) {
	m.lastQuery = query
	return m.papers, m.err
}

func (m *mockPaperService) Submit(_ context.Context, sub domain.PaperSubmission) (*domain.Paper, error) {
	m.lastSub = sub
	return m.paper, m.err
}

// mockStatsService is a mock implementation of driving.StatsService.
type mockStatsService struct {
	zaps     *domain.ZapStats
	comments int
	user     *domain.UserZapStats
	err      error
}

func (m *mockStatsService) ZapStats(_ context.Context, _ string) (*domain.ZapStats, error) {
	return m.zaps, m.err
}

func (m *mockStatsService) CommentCount(_ context.Context, _ string) (int, error) {
	return m.comments, m.err
}

func (m *mockStatsService) UserZapStats(_ context.Context, _ string) (*domain.UserZapStats, error) {
	return m.user, m.err
}
