package paper

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scholarstr/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/scholarstr/internal/core/domain"
)

type mockStatsService struct {
	zaps       *domain.ZapStats
	zapErr     error
	comments   int
	commentErr error
	calls      atomic.Int32
}

func (m *mockStatsService) ZapStats(context.Context, string) (*domain.ZapStats, error) {
	m.calls.Add(1)
	return m.zaps, m.zapErr
}

func (m *mockStatsService) CommentCount(context.Context, string) (int, error) {
	return m.comments, m.commentErr
}

func (m *mockStatsService) UserZapStats(context.Context, string) (*domain.UserZapStats, error) {
	return &domain.UserZapStats{}, nil
}

var testNow = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func testPaper(published time.Time) *domain.Paper {
	return &domain.Paper{
		ID:               "evt1",
		Title:            "Topological qubits in practice",
		Authors:          "Ada Lovelace",
		Abstract:         "We survey topological approaches to fault tolerance.",
		Content:          strings.Repeat("Braiding anyons yields protected gates. ", 80),
		Topics:           []string{"physics", "quantum-computing"},
		Keywords:         []string{"anyons", "braiding"},
		DOI:              "10.1000/xyz",
		PublishedAt:      published,
		PublishedAtValid: true,
	}
}

func newTestView(stats *mockStatsService) *View {
	var v *View
	if stats == nil {
		v = NewView(nil, nil)
	} else {
		v = NewView(nil, stats)
	}
	v.SetClock(func() time.Time { return testNow })
	v.SetDimensions(100, 30)
	return v
}

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestView_Empty(t *testing.T) {
	v := NewView(nil, nil)
	assert.Nil(t, v.Init())
	assert.Contains(t, v.View(), "No paper selected")
}

func TestView_HeaderAfterAnonymity(t *testing.T) {
	v := newTestView(nil)
	published := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	cmd := v.SetPaper(testPaper(published), messages.ViewFeed)
	assert.Nil(t, cmd)

	out := v.View()
	assert.Contains(t, out, "Topological qubits in practice")
	assert.Contains(t, out, "by Ada Lovelace")
	assert.Contains(t, out, "Published: Jan 10, 2024")
	assert.Contains(t, out, "physics, quantum-computing")
	assert.Contains(t, out, "anyons, braiding")
	assert.Contains(t, out, "10.1000/xyz")
	assert.Contains(t, out, "Abstract")
	assert.Contains(t, out, "fault tolerance")
}

func TestView_HeaderDuringAnonymity(t *testing.T) {
	v := newTestView(nil)
	v.SetPaper(testPaper(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)), messages.ViewFeed)

	out := v.View()

	assert.NotContains(t, out, "Ada Lovelace")
	assert.Contains(t, out, domain.AnonymousAuthor)
	assert.Contains(t, out, "hidden until Jul 30, 2024")
}

func TestView_InvalidPublishDate(t *testing.T) {
	v := newTestView(nil)
	p := testPaper(time.Time{})
	p.PublishedAtValid = false

	v.SetPaper(p, messages.ViewFeed)

	out := v.View()
	assert.Contains(t, out, "Published: Invalid date")
	assert.Contains(t, out, "Ada Lovelace")
}

func TestView_ToggleFullTextAndScroll(t *testing.T) {
	v := newTestView(nil)
	v.SetPaper(testPaper(testNow.AddDate(-1, 0, 0)), messages.ViewFeed)

	v.Update(key("c"))
	require.True(t, v.ShowingFullText())
	assert.Contains(t, v.View(), "Full text")
	assert.Contains(t, v.View(), "Line 1-")

	v.Update(key("down"))
	assert.Equal(t, 1, v.scrollOffset)
	v.Update(key("G"))
	assert.Equal(t, v.maxScrollOffset(), v.scrollOffset)
	v.Update(key("g"))
	assert.Equal(t, 0, v.scrollOffset)

	v.Update(key("c"))
	assert.False(t, v.ShowingFullText())
	assert.Contains(t, v.View(), "Abstract")
}

func TestView_StatsLoaded(t *testing.T) {
	stats := &mockStatsService{
		zaps:     &domain.ZapStats{TotalZaps: 3, TotalSats: 2100, UniqueZappers: 2},
		comments: 1,
	}
	v := newTestView(stats)

	cmd := v.SetPaper(testPaper(testNow.AddDate(-1, 0, 0)), messages.ViewSearch)
	require.NotNil(t, cmd)
	assert.Contains(t, v.View(), "Loading zaps and comments")

	v.Update(cmd())

	out := v.View()
	assert.Contains(t, out, "2,100 sats")
	assert.Contains(t, out, "from 3 zaps by 2 zappers")
	assert.Contains(t, out, "1 comment")
}

func TestView_StatsFailIndependently(t *testing.T) {
	stats := &mockStatsService{zapErr: domain.ErrQueryTimeout, comments: 4}
	v := newTestView(stats)

	cmd := v.SetPaper(testPaper(testNow.AddDate(-1, 0, 0)), messages.ViewFeed)
	msg, ok := cmd().(messages.PaperStatsLoaded)
	require.True(t, ok)
	assert.ErrorIs(t, msg.ZapErr, domain.ErrQueryTimeout)
	assert.NoError(t, msg.CommentErr)
	v.Update(msg)

	out := v.View()
	assert.Contains(t, out, "zaps unavailable")
	assert.Contains(t, out, "4 comments")
}

func TestView_StaleStatsIgnored(t *testing.T) {
	v := newTestView(&mockStatsService{})
	v.SetPaper(testPaper(testNow.AddDate(-1, 0, 0)), messages.ViewFeed)

	v.Update(messages.PaperStatsLoaded{EventID: "other", Comments: 99})

	assert.NotContains(t, v.View(), "99")
	assert.True(t, v.loading)
}

func TestView_ReloadStats(t *testing.T) {
	stats := &mockStatsService{}
	v := newTestView(stats)
	cmd := v.SetPaper(testPaper(testNow.AddDate(-1, 0, 0)), messages.ViewFeed)

	_, again := v.Update(key("r"))
	assert.Nil(t, again, "reload ignored while loading")

	v.Update(cmd())
	_, cmd = v.Update(key("r"))
	require.NotNil(t, cmd)
	v.Update(cmd())

	assert.Equal(t, int32(2), stats.calls.Load())
}

func TestView_EscReturnsToOrigin(t *testing.T) {
	v := newTestView(nil)
	v.SetPaper(testPaper(testNow), messages.ViewSearch)

	_, cmd := v.Update(key("esc"))

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewSearch}, cmd())
	assert.Equal(t, messages.ViewSearch, v.From())
}

func TestView_NoStatsServiceHidesStats(t *testing.T) {
	v := newTestView(nil)
	v.SetPaper(testPaper(testNow.AddDate(-1, 0, 0)), messages.ViewFeed)

	out := v.View()
	assert.NotContains(t, out, "sats")
	assert.NotContains(t, out, "comment")
}
