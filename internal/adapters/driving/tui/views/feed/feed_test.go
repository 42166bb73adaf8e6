package feed

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scholarstr/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/scholarstr/internal/core/domain"
	"github.com/custodia-labs/scholarstr/internal/core/ports/driving"
)

type mockPaperService struct {
	feed   []*domain.Paper
	err    error
	limits []int
}

func (m *mockPaperService) Feed(_ context.Context, limit int) ([]*domain.Paper, error) {
	m.limits = append(m.limits, limit)
	return m.feed, m.err
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
func (m *mockPaperService) Search(context.Context, string, int) ([]*domain.Paper, error) {
	return nil, nil
}
func (m *mockPaperService) Submit(context.Context, domain.PaperSubmission) (*domain.Paper, error) {
	return nil, domain.ErrSignerUnavailable
}

var testNow = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func papers(ids ...string) []*domain.Paper {
	out := make([]*domain.Paper, 0, len(ids))
	for _, id := range ids {
		out = append(out, &domain.Paper{
			ID: id, Title: "Paper " + id, Authors: "Ada",
			PublishedAt: testNow.AddDate(-1, 0, 0), PublishedAtValid: true,
		})
	}
	return out
}

func newTestView(svc *mockPaperService) *View {
	var papers driving.PaperService
	if svc != nil {
		papers = svc
	}
	v := NewView(nil, nil, papers, 5)
	v.SetClock(func() time.Time { return testNow })
	v.SetDimensions(120, 40)
	return v
}

func load(t *testing.T, v *View, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	v.Update(cmd())
}

func TestNewView_DefaultLimit(t *testing.T) {
	v := NewView(nil, nil, nil, 0)
	assert.Equal(t, domain.DefaultFeedLimit, v.limit)
	assert.Equal(t, "Initialising...", v.View())
}

func TestView_InitLoadsOnce(t *testing.T) {
	svc := &mockPaperService{feed: papers("a", "b")}
	v := newTestView(svc)

	cmd := v.Init()
	assert.True(t, v.Loading())
	assert.Contains(t, v.View(), "Fetching papers")
	assert.Nil(t, v.Init())

	load(t, v, cmd)

	assert.False(t, v.Loading())
	assert.Equal(t, []int{5}, svc.limits)
	assert.Len(t, v.Papers(), 2)
	assert.Contains(t, v.View(), "Latest papers (2)")
	assert.Nil(t, v.Init())
}

func TestView_RefreshKey(t *testing.T) {
	svc := &mockPaperService{feed: papers("a")}
	v := newTestView(svc)
	load(t, v, v.Init())

	svc.feed = papers("a", "b", "c")
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	_, again := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	assert.Nil(t, again)
	load(t, v, cmd)

	assert.Len(t, v.Papers(), 3)
	assert.Len(t, svc.limits, 2)
}

func TestView_RefreshKeepsSelection(t *testing.T) {
	v := newTestView(&mockPaperService{})
	v.Update(messages.FeedLoaded{Papers: papers("a", "b")})
	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, "b", v.SelectedPaper().ID)

	v.Update(messages.FeedLoaded{Papers: papers("new", "a", "b")})

	assert.Equal(t, "b", v.SelectedPaper().ID)
}

func TestView_ErrorKeepsPapers(t *testing.T) {
	v := newTestView(&mockPaperService{})
	v.Update(messages.FeedLoaded{Papers: papers("a")})

	v.Update(messages.FeedLoaded{Err: domain.ErrQueryTimeout})

	assert.ErrorIs(t, v.Err(), domain.ErrQueryTimeout)
	assert.Len(t, v.Papers(), 1)
	view := v.View()
	assert.Contains(t, view, "Paper a")
	assert.Contains(t, view, "r to retry")
	assert.NotContains(t, view, "updated")
}

func TestView_ErrorWithoutPapers(t *testing.T) {
	v := newTestView(&mockPaperService{})

	v.Update(messages.FeedLoaded{Err: domain.ErrNoRelays})

	assert.Contains(t, v.View(), "Could not load the feed")
}

func TestView_OpenPaper(t *testing.T) {
	v := newTestView(&mockPaperService{})
	v.Update(messages.FeedLoaded{Papers: papers("a", "b")})
	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	msg, ok := cmd().(messages.PaperSelected)
	require.True(t, ok)
	assert.Equal(t, "b", msg.Paper.ID)
	assert.Equal(t, messages.ViewFeed, msg.From)
}

func TestView_OpenOnEmptyFeed(t *testing.T) {
	v := newTestView(&mockPaperService{})
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestView_Esc(t *testing.T) {
	v := newTestView(&mockPaperService{})
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}

func TestView_NilService(t *testing.T) {
	v := newTestView(nil)
	load(t, v, v.Init())
	assert.ErrorIs(t, v.Err(), ErrNoPaperService)
}

func TestView_RelayCount(t *testing.T) {
	v := newTestView(&mockPaperService{})
	v.SetRelayCount(3)
	assert.Contains(t, v.View(), "3 relays")
}

func TestView_UpdatedStamp(t *testing.T) {
	v := newTestView(&mockPaperService{})
	v.SetClock(func() time.Time { return time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC) })

	v.Update(messages.FeedLoaded{Papers: papers("a")})

	assert.Contains(t, v.View(), "updated 09:30")
}
