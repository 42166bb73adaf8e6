// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/scholarstr/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/scholarstr/internal/core/domain"
	"github.com/custodia-labs/scholarstr/internal/timestamp"
)

// PaperList displays papers in a navigable list.
type PaperList struct {
	papers   []*domain.Paper
	selected int
	styles   *styles.Styles
	width    int
	height   int
	title    string
	now      func() time.Time
}

// NewPaperList creates a new paper list component.
func NewPaperList(s *styles.Styles) *PaperList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &PaperList{
		styles: s,
		width:  80,
		height: 10,
		title:  "Papers",
		now:    time.Now,
	}
}

// SetClock replaces the clock used for anonymity and relative dates.
func (l *PaperList) SetClock(now func() time.Time) {
	if now != nil {
		l.now = now
	}
}

// SetTitle sets the header label.
func (l *PaperList) SetTitle(title string) {
	l.title = title
}

// Init initialises the list.
func (l *PaperList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *PaperList) Update(msg tea.Msg) (*PaperList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		case "home", "g":
			l.selected = 0
		case "end", "G":
			if len(l.papers) > 0 {
				l.selected = len(l.papers) - 1
			}
		}
	}
	return l, nil
}

// View renders the list.
func (l *PaperList) View() string {
	if len(l.papers) == 0 {
		return l.styles.Muted.Render("No papers")
	}

	lines := make([]string, 0, len(l.papers)*3+2)
	lines = append(lines, l.styles.Subtitle.Render(fmt.Sprintf("%s (%d)", l.title, len(l.papers))), "")

	// Each paper renders as three lines.
	visible := (l.height - 2) / 3
	if visible < 1 {
		visible = 1
	}
	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := start + visible
	if end > len(l.papers) {
		end = len(l.papers)
	}

	now := l.now()
	for i := start; i < end; i++ {
		lines = append(lines, l.renderPaper(i, l.papers[i], now))
	}
	return strings.Join(lines, "\n")
}

func (l *PaperList) renderPaper(index int, p *domain.Paper, now time.Time) string {
	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	title := p.Title
	if title == "" {
		title = "(Untitled)"
	}
	title = clip(title, l.width-4)

	var titleLine string
	if index == l.selected {
		titleLine = l.styles.Selected.Render(indicator + title)
	} else {
		titleLine = l.styles.Normal.Render(indicator + title)
	}

	author := p.DisplayAuthor(now)
	authorStyle := l.styles.Muted
	if p.Anonymity(now).Anonymous {
		authorStyle = l.styles.Anonymous
	}
	meta := authorStyle.Render("    "+author) + l.styles.Muted.Render("  ·  "+dateLabel(p, now))

	topics := ""
	if len(p.Topics) > 0 {
		topics = clip(strings.Join(p.Topics, ", "), l.width-6)
	}
	return titleLine + "\n" + meta + "\n" + l.styles.Subtitle.Render("    "+topics)
}

func dateLabel(p *domain.Paper, now time.Time) string {
	if !p.PublishedAtValid {
		return timestamp.InvalidDate
	}
	return timestamp.FormatRelative(p.PublishedAt, now)
}

// clip truncates s to n runes, marking the cut with "...".
func clip(s string, n int) string {
	if n < 10 {
		n = 10
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// SetPapers replaces the list contents and resets the selection.
func (l *PaperList) SetPapers(papers []*domain.Paper) {
	l.papers = papers
	l.selected = 0
}

// Papers returns the current papers.
func (l *PaperList) Papers() []*domain.Paper {
	return l.papers
}

// Selected returns the index of the selected paper.
func (l *PaperList) Selected() int {
	return l.selected
}

// SetSelected sets the selected index.
func (l *PaperList) SetSelected(index int) {
	if index >= 0 && index < len(l.papers) {
		l.selected = index
	}
}

// SelectedPaper returns the currently selected paper, or nil if none.
func (l *PaperList) SelectedPaper() *domain.Paper {
	if l.selected < 0 || l.selected >= len(l.papers) {
		return nil
	}
	return l.papers[l.selected]
}

// MoveUp moves selection up.
func (l *PaperList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *PaperList) MoveDown() {
	if l.selected < len(l.papers)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *PaperList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Width returns the current width.
func (l *PaperList) Width() int {
	return l.width
}

// Height returns the current height.
func (l *PaperList) Height() int {
	return l.height
}

// Count returns the number of papers.
func (l *PaperList) Count() int {
	return len(l.papers)
}

// IsEmpty returns whether the list is empty.
func (l *PaperList) IsEmpty() bool {
	return len(l.papers) == 0
}
