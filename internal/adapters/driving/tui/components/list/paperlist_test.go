package list

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scholarstr/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/scholarstr/internal/core/domain"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func samplePapers() []*domain.Paper {
	return []*domain.Paper{
		{ID: "a", Title: "Paper One", Authors: "Ada", Topics: []string{"physics"},
			PublishedAt: fixedNow.AddDate(0, 0, -200), PublishedAtValid: true},
		{ID: "b", Title: "Paper Two", Authors: "Grace", Topics: []string{"biology", "ecology"},
			PublishedAt: fixedNow.AddDate(0, 0, -2), PublishedAtValid: true},
		{ID: "c", Title: "Paper Three", Authors: "Emmy"},
	}
}

func newTestList() *PaperList {
	l := NewPaperList(nil)
	l.SetClock(func() time.Time { return fixedNow })
	l.SetDimensions(80, 40)
	return l
}

func TestNewPaperList(t *testing.T) {
	l := NewPaperList(styles.DefaultStyles())

	require.NotNil(t, l)
	assert.Equal(t, 0, l.Selected())
	assert.True(t, l.IsEmpty())
	assert.Nil(t, l.SelectedPaper())
	assert.Nil(t, l.Init())
}

func TestPaperList_SetPapers(t *testing.T) {
	l := newTestList()
	l.SetSelected(0)
	l.SetPapers(samplePapers())
	l.MoveDown()

	l.SetPapers(samplePapers())

	assert.Equal(t, 3, l.Count())
	assert.False(t, l.IsEmpty())
	assert.Equal(t, 0, l.Selected())
	assert.Equal(t, "a", l.SelectedPaper().ID)
}

func TestPaperList_Navigation(t *testing.T) {
	l := newTestList()
	l.SetPapers(samplePapers())

	l.MoveUp()
	assert.Equal(t, 0, l.Selected())

	l.MoveDown()
	l.MoveDown()
	l.MoveDown()
	assert.Equal(t, 2, l.Selected())
	assert.Equal(t, "c", l.SelectedPaper().ID)

	l.SetSelected(10)
	assert.Equal(t, 2, l.Selected())
	l.SetSelected(1)
	assert.Equal(t, 1, l.Selected())
}

func TestPaperList_UpdateKeys(t *testing.T) {
	l := newTestList()
	l.SetPapers(samplePapers())

	tests := []struct {
		key  tea.KeyMsg
		want int
	}{
		{tea.KeyMsg{Type: tea.KeyDown}, 1},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}, 2},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}}, 1},
		{tea.KeyMsg{Type: tea.KeyUp}, 0},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}}, 2},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}}, 0},
	}
	for _, tt := range tests {
		_, cmd := l.Update(tt.key)
		assert.Nil(t, cmd)
		assert.Equal(t, tt.want, l.Selected(), tt.key.String())
	}
}

func TestPaperList_ViewEmpty(t *testing.T) {
	l := newTestList()
	assert.Contains(t, l.View(), "No papers")
}

func TestPaperList_ViewShowsPapers(t *testing.T) {
	l := newTestList()
	l.SetTitle("Feed")
	l.SetPapers(samplePapers())

	view := l.View()

	assert.Contains(t, view, "Feed (3)")
	assert.Contains(t, view, "> Paper One")
	assert.Contains(t, view, "Ada")
	assert.Contains(t, view, "biology, ecology")
	assert.Contains(t, view, "2 days ago")
	assert.Contains(t, view, "Invalid date")
}

func TestPaperList_ViewHidesAuthorsDuringAnonymity(t *testing.T) {
	l := newTestList()
	l.SetPapers(samplePapers())

	view := l.View()

	assert.NotContains(t, view, "Grace")
	assert.Contains(t, view, domain.AnonymousAuthor)
}

func TestPaperList_ViewScrollsToSelection(t *testing.T) {
	l := newTestList()
	l.SetDimensions(80, 5)
	l.SetPapers(samplePapers())
	l.SetSelected(2)

	view := l.View()

	assert.Contains(t, view, "Paper Three")
	assert.NotContains(t, view, "Paper One")
}

func TestClip(t *testing.T) {
	assert.Equal(t, "short", clip("short", 20))
	long := strings.Repeat("é", 30)
	got := clip(long, 12)
	assert.Equal(t, 12, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "..."))
}
