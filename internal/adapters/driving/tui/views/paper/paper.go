// Package paper provides the single-paper view for the TUI.
package paper

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/scholarstr/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/scholarstr/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/scholarstr/internal/core/domain"
	"github.com/custodia-labs/scholarstr/internal/core/ports/driving"
	"github.com/custodia-labs/scholarstr/internal/timestamp"
)

// View shows one paper, its abstract or full text, and its statistics.
type View struct {
	styles *styles.Styles
	stats  driving.StatsService
	ctx    context.Context
	now    func() time.Time

	paper    *domain.Paper
	from     messages.ViewType
	showFull bool

	zaps       *domain.ZapStats
	zapErr     error
	comments   int
	commentErr error
	loading    bool

	lines        []string
	scrollOffset int
	width        int
	height       int
	ready        bool
}

// NewView creates a paper view. A nil stats service hides the statistics.
func NewView(s *styles.Styles, stats driving.StatsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles: s,
		stats:  stats,
		ctx:    context.Background(),
		now:    time.Now,
		from:   messages.ViewFeed,
		width:  80,
		height: 24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetClock replaces the clock used for anonymity and dates.
func (v *View) SetClock(now func() time.Time) {
	if now != nil {
		v.now = now
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// SetPaper shows p and starts loading its statistics. from is the view
// esc returns to.
func (v *View) SetPaper(p *domain.Paper, from messages.ViewType) tea.Cmd {
	v.paper = p
	v.from = from
	v.showFull = false
	v.scrollOffset = 0
	v.zaps, v.zapErr = nil, nil
	v.comments, v.commentErr = 0, nil
	v.wrapBody()
	return v.loadStats()
}

func (v *View) loadStats() tea.Cmd {
	if v.paper == nil || v.stats == nil {
		return nil
	}
	v.loading = true
	stats, ctx, id := v.stats, v.ctx, v.paper.ID
	return func() tea.Msg {
		msg := messages.PaperStatsLoaded{EventID: id}
		var g errgroup.Group
		g.Go(func() error {
			msg.Zaps, msg.ZapErr = stats.ZapStats(ctx, id)
			return nil
		})
		g.Go(func() error {
			msg.Comments, msg.CommentErr = stats.CommentCount(ctx, id)
			return nil
		})
		_ = g.Wait()
		return msg
	}
}

// Update handles messages for the paper view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.PaperStatsLoaded:
		// Ignore results for a paper no longer on screen.
		if v.paper == nil || msg.EventID != v.paper.ID {
			return v, nil
		}
		v.loading = false
		v.zaps, v.zapErr = msg.Zaps, msg.ZapErr
		v.comments, v.commentErr = msg.Comments, msg.CommentErr
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		from := v.from
		return v, func() tea.Msg {
			return messages.ViewChanged{View: from}
		}
	case "c":
		v.showFull = !v.showFull
		v.scrollOffset = 0
		v.wrapBody()
	case "r":
		if !v.loading {
			return v, v.loadStats()
		}
	case "up", "k":
		if v.scrollOffset > 0 {
			v.scrollOffset--
		}
	case "down", "j":
		if v.scrollOffset < v.maxScrollOffset() {
			v.scrollOffset++
		}
	case "pgup", "ctrl+u":
		v.scrollOffset = max(0, v.scrollOffset-v.visibleLines())
	case "pgdown", "ctrl+d":
		v.scrollOffset = min(v.maxScrollOffset(), v.scrollOffset+v.visibleLines())
	case "home", "g":
		v.scrollOffset = 0
	case "end", "G":
		v.scrollOffset = v.maxScrollOffset()
	}
	return v, nil
}

// wrapBody word-wraps the abstract or the full content to the view width.
func (v *View) wrapBody() {
	v.lines = nil
	if v.paper == nil {
		return
	}
	body := v.paper.Abstract
	if v.showFull {
		body = v.paper.Content
	}
	if strings.TrimSpace(body) == "" {
		return
	}
	width := v.width - 4
	if width < 20 {
		width = 20
	}
	wrapped := lipgloss.NewStyle().Width(width).Render(body)
	v.lines = strings.Split(wrapped, "\n")
}

// visibleLines is the body height left after the header, stats and footer.
func (v *View) visibleLines() int {
	return max(1, v.height-14)
}

func (v *View) maxScrollOffset() int {
	return max(0, len(v.lines)-v.visibleLines())
}

// View renders the paper.
func (v *View) View() string {
	if v.paper == nil {
		return v.styles.Muted.Render("No paper selected")
	}

	var b strings.Builder
	b.WriteString(v.renderHeader())
	b.WriteString("\n")
	b.WriteString(v.renderStats())
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", max(10, min(v.width-4, 60))))
	b.WriteString("\n")

	label := "Abstract"
	if v.showFull {
		label = "Full text"
	}
	b.WriteString(v.styles.Subtitle.Render(label))
	b.WriteString("\n")

	if len(v.lines) == 0 {
		b.WriteString(v.styles.Muted.Render("(empty)"))
		b.WriteString("\n")
	} else {
		visible := v.visibleLines()
		for i := v.scrollOffset; i < len(v.lines) && i < v.scrollOffset+visible; i++ {
			b.WriteString(v.styles.Normal.Render(v.lines[i]))
			b.WriteString("\n")
		}
		if len(v.lines) > visible {
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  Line %d-%d of %d",
				v.scrollOffset+1, min(v.scrollOffset+visible, len(v.lines)), len(v.lines))))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[↑/↓] scroll  [c] abstract/full text  [r] reload stats  [esc] back"))
	return b.String()
}

func (v *View) renderHeader() string {
	p, now := v.paper, v.now()
	lines := []string{v.styles.Title.Render(p.Title)}

	win := p.Anonymity(now)
	if win.Anonymous {
		lines = append(lines, v.styles.Anonymous.Render(fmt.Sprintf("%s, identity hidden until %s",
			p.DisplayAuthor(now), timestamp.FormatDate(win.EndsAt, timestamp.DefaultLayout))))
	} else {
		lines = append(lines, v.styles.Normal.Render("by "+p.DisplayAuthor(now)))
	}

	published := timestamp.InvalidDate
	if p.PublishedAtValid {
		published = fmt.Sprintf("%s (%s)",
			timestamp.FormatDate(p.PublishedAt, timestamp.DefaultLayout),
			timestamp.FormatRelative(p.PublishedAt, now))
	}
	lines = append(lines, v.styles.Muted.Render("Published: "+published))

	if len(p.Topics) > 0 {
		lines = append(lines, v.styles.Muted.Render("Topics:    "+strings.Join(p.Topics, ", ")))
	}
	if len(p.Keywords) > 0 {
		lines = append(lines, v.styles.Muted.Render("Keywords:  "+strings.Join(p.Keywords, ", ")))
	}
	if p.DOI != "" {
		lines = append(lines, v.styles.Muted.Render("DOI:       "+p.DOI))
	}
	return strings.Join(lines, "\n")
}

func (v *View) renderStats() string {
	if v.stats == nil {
		return ""
	}
	if v.loading {
		return v.styles.Muted.Render("Loading zaps and comments...")
	}

	var zaps string
	switch {
	case v.zapErr != nil:
		zaps = v.styles.Error.Render("zaps unavailable")
	case v.zaps != nil:
		zaps = v.styles.Zap.Render(fmt.Sprintf("⚡ %s sats", humanize.Commaf(v.zaps.TotalSats))) +
			v.styles.Muted.Render(fmt.Sprintf(" from %d zaps by %d zappers",
				v.zaps.TotalZaps, v.zaps.UniqueZappers))
	default:
		zaps = v.styles.Muted.Render("no zaps")
	}

	var comments string
	if v.commentErr != nil {
		comments = v.styles.Error.Render("comments unavailable")
	} else {
		noun := "comments"
		if v.comments == 1 {
			noun = "comment"
		}
		comments = v.styles.Normal.Render(fmt.Sprintf("%d %s", v.comments, noun))
	}
	return zaps + v.styles.Muted.Render("  ·  ") + comments
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.wrapBody()
}

// Paper returns the paper on screen.
func (v *View) Paper() *domain.Paper {
	return v.paper
}

// ShowingFullText reports whether the full content is shown instead of the abstract.
func (v *View) ShowingFullText() bool {
	return v.showFull
}

// From returns the view esc returns to.
func (v *View) From() messages.ViewType {
	return v.from
}
