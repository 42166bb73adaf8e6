package cli

import (
	"context"
	"time"

	"github.com/custodia-labs/scholarstr/internal/adapters/driven/relay/memory"
	storemem "github.com/custodia-labs/scholarstr/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/scholarstr/internal/core/domain"
	"github.com/custodia-labs/scholarstr/internal/core/services"
)

var testNow = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func testPaper(id string, published time.Time, topics ...string) *domain.Paper {
	return &domain.Paper{
		ID:               id,
		Author:           "pk-" + id,
		Slug:             "slug-" + id,
		Title:            "Title " + id,
		Abstract:         "Abstract of paper " + id,
		Authors:          "Ada Lovelace",
		Topics:           topics,
		Content:          "The quick brown fox jumps over the lazy dog.",
		PublishedAt:      published,
		PublishedAtValid: true,
		ZapLimit:         domain.DefaultZapLimit,
	}
}

// mockPaperService implements driving.PaperService.
type mockPaperService struct {
	papers    []*domain.Paper
	paper     *domain.Paper
	err       error
	lastLimit int
	lastQuery string
	lastTopic string
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

func (m *mockPaperService) ByTopic(_ context.Context, topic string, limit int) ([]*domain.Paper, error) {
	m.lastTopic, m.lastLimit = topic, limit
	return m.papers, m.err
}

func (m *mockPaperService) Search(_ context.Context, query string, limit int) ([]*domain.Paper, error) {
	m.lastQuery, m.lastLimit = query, limit
	return m.papers, m.err
}

func (m *mockPaperService) Submit(_ context.Context, sub domain.PaperSubmission) (*domain.Paper, error) {
	m.lastSub = sub
	return m.paper, m.err
}

// mockStatsService implements driving.StatsService.
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

// testEnv is the set of services installed by setupTestServices.
type testEnv struct {
	papers   *mockPaperService
	stats    *mockStatsService
	relay    *memory.Relay
	config   *storemem.ConfigStore
	settings *services.SettingsService
}

// setupTestServices installs mocks and returns a cleanup that restores
// package state, including flag variables that cobra does not reset.
func setupTestServices() (*testEnv, func()) {
	env := &testEnv{
		papers: &mockPaperService{
			papers: []*domain.Paper{
				testPaper("new", testNow.AddDate(0, 0, -10), "research", "physics"),
				testPaper("old", testNow.AddDate(-1, 0, 0), "research"),
			},
			paper: testPaper("new", testNow.AddDate(0, 0, -10), "research", "physics"),
		},
		stats:  &mockStatsService{},
		relay:  memory.NewRelay(),
		config: storemem.NewConfigStore(),
	}
	env.settings = services.NewSettingsService(env.config)
	signer := &memory.Signer{PubKey: "me", Now: func() int64 { return testNow.Unix() }}

	SetServices(Services{
		Papers:     env.papers,
		Stats:      env.stats,
		Annotation: services.NewAnnotationService(env.relay, signer, time.Second),
		Settings:   env.settings,
		Relays:     env.relay,
	})
	prevNow := now
	now = func() time.Time { return testNow }

	return env, func() {
		SetServices(Services{})
		now = prevNow
		resetFlags()
	}
}

func resetFlags() {
	verbose, relayURLs = false, nil
	feedLimit, feedJSON = 20, false
	paperLimit, paperJSON, paperContent = 20, false, false
	searchLimit, searchJSON = 10, false
	statsJSON = false
	submitTitle, submitAbstract, submitContent, submitContentFile = "", "", "", ""
	submitAuthors, submitKeywords, submitTopics = "", "", nil
	submitDOI, submitFunding, submitInstitution = "", "", ""
	annotateStart, annotateEnd, annotateComment, annotateRender = 0, 0, "", false
	tuiLogFile, tuiNoRefresh = "", false
	versionJSON = false
	rootCmd.SetIn(nil)
	rootCmd.SetArgs(nil)
}
