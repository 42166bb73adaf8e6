// Package feed provides the newest-papers view for the TUI.
package feed

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/scholarstr/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/scholarstr/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/scholarstr/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/scholarstr/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/scholarstr/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/scholarstr/internal/core/domain"
	"github.com/custodia-labs/scholarstr/internal/core/ports/driving"
)

// ErrNoPaperService indicates that no paper service was provided.
var ErrNoPaperService = errors.New("paper service is required")

// View lists the newest papers.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	list      *list.PaperList
	statusbar *status.Bar

	papers driving.PaperService
	limit  int
	ctx    context.Context
	now    func() time.Time

	width   int
	height  int
	ready   bool
	loading bool
	loaded  bool
	err     error
}

// NewView creates a feed view that requests limit papers at a time.
func NewView(s *styles.Styles, km *keymap.KeyMap, papers driving.PaperService, limit int) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	if limit <= 0 {
		limit = domain.DefaultFeedLimit
	}

	l := list.NewPaperList(s)
	l.SetTitle("Latest papers")
	bar := status.NewBar(s, km)
	bar.SetContext(status.ContextFeed)

	return &View{
		styles:    s,
		keymap:    km,
		list:      l,
		statusbar: bar,
		papers:    papers,
		limit:     limit,
		ctx:       context.Background(),
		now:       time.Now,
		width:     80,
		height:    24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetClock replaces the clock used for anonymity and dates.
func (v *View) SetClock(now func() time.Time) {
	if now == nil {
		return
	}
	v.now = now
	v.list.SetClock(now)
}

// Init loads the feed on first display.
func (v *View) Init() tea.Cmd {
	if v.loaded || v.loading {
		return nil
	}
	return v.Load()
}

// Load requests the feed from the relays.
func (v *View) Load() tea.Cmd {
	v.loading = true
	v.statusbar.SetState(status.StateLoading)
	papers, ctx, limit := v.papers, v.ctx, v.limit
	return func() tea.Msg {
		if papers == nil {
			return messages.FeedLoaded{Err: ErrNoPaperService}
		}
		found, err := papers.Feed(ctx, limit)
		return messages.FeedLoaded{Papers: found, Err: err}
	}
}

// Update handles messages for the feed view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.FeedLoaded:
		v.handleLoaded(msg)
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keymap.Back):
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		case key.Matches(msg, v.keymap.Refresh):
			if v.loading {
				return v, nil
			}
			return v, v.Load()
		case key.Matches(msg, v.keymap.Open):
			p := v.list.SelectedPaper()
			if p == nil {
				return v, nil
			}
			return v, func() tea.Msg {
				return messages.PaperSelected{Paper: p, From: messages.ViewFeed}
			}
		}
		v.list, _ = v.list.Update(msg)
	}
	return v, nil
}

// handleLoaded applies a feed result. A failed background refresh keeps the
// papers already on screen.
func (v *View) handleLoaded(msg messages.FeedLoaded) {
	v.loading = false
	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetError(msg.Err.Error(), domain.IsRetryable(msg.Err))
		return
	}

	v.err = nil
	v.loaded = true
	var keep string
	if p := v.list.SelectedPaper(); p != nil {
		keep = p.ID
	}
	v.list.SetPapers(msg.Papers)
	for i, p := range msg.Papers {
		if p.ID == keep {
			v.list.SetSelected(i)
			break
		}
	}
	v.statusbar.Clear()
	v.statusbar.SetPaperCount(len(msg.Papers))
	v.statusbar.SetMessage("updated " + v.now().Format("15:04"))
}

// View renders the feed.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := []string{v.styles.Title.Render("Feed"), ""}
	switch {
	case v.loading && v.list.IsEmpty():
		sections = append(sections, v.styles.Muted.Render("Fetching papers from relays..."))
	case v.err != nil && v.list.IsEmpty():
		sections = append(sections, v.styles.Error.Render("Could not load the feed: "+v.err.Error()))
	default:
		sections = append(sections, v.list.View())
	}
	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.list.SetDimensions(width, height-6)
	v.statusbar.SetWidth(width)
}

// SetRelayCount shows the number of configured relays in the status bar.
func (v *View) SetRelayCount(n int) {
	v.statusbar.SetRelayCount(n)
}

// Papers returns the papers on screen.
func (v *View) Papers() []*domain.Paper {
	return v.list.Papers()
}

// SelectedPaper returns the highlighted paper.
func (v *View) SelectedPaper() *domain.Paper {
	return v.list.SelectedPaper()
}

// Loading reports whether a request is in flight.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the last load error.
func (v *View) Err() error {
	return v.err
}
