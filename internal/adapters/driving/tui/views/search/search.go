// Package search provides the paper search view for the TUI.
package search

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/scholarstr/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/scholarstr/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/scholarstr/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/scholarstr/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/scholarstr/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/scholarstr/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/scholarstr/internal/core/domain"
	"github.com/custodia-labs/scholarstr/internal/core/ports/driving"
)

// ResultLimit caps the number of papers requested per search.
const ResultLimit = 50

// View represents the search view with input, results list, and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.SearchInput
	list      *list.PaperList
	statusbar *status.Bar

	papers driving.PaperService
	ctx    context.Context

	width      int
	height     int
	ready      bool
	err        error
	lastQuery  string
	focusInput bool // true = input mode (typing), false = results mode (navigating)
}

// NewView creates a new search view.
func NewView(s *styles.Styles, km *keymap.KeyMap, papers driving.PaperService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	l := list.NewPaperList(s)
	l.SetTitle("Results")

	return &View{
		styles:     s,
		keymap:     km,
		input:      input.NewSearchInput(s),
		list:       l,
		statusbar:  status.NewBar(s, km),
		papers:     papers,
		ctx:        context.Background(),
		width:      80,
		height:     24,
		focusInput: true,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	if v.focusInput {
		v.input, cmd = v.input.Update(msg)
	}
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	if v.focusInput {
		if msg.Type == tea.KeyEnter {
			query := v.input.Value()
			if query == "" || v.input.TooShort() {
				return v, nil
			}
			return v, v.startSearch(query)
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	switch {
	case key.Matches(msg, v.keymap.Open):
		p := v.list.SelectedPaper()
		if p == nil {
			return v, nil
		}
		return v, func() tea.Msg {
			return messages.PaperSelected{Paper: p, From: messages.ViewSearch}
		}
	case key.Matches(msg, v.keymap.NewSearch):
		v.focusInput = true
		v.input.SetValue("")
		v.statusbar.SetContext(status.ContextDefault)
		return v, v.input.Focus()
	case key.Matches(msg, v.keymap.Refresh):
		if v.err != nil && domain.IsRetryable(v.err) && v.lastQuery != "" {
			return v, v.startSearch(v.lastQuery)
		}
		return v, nil
	}

	v.list, _ = v.list.Update(msg)
	return v, nil
}

func (v *View) startSearch(query string) tea.Cmd {
	v.lastQuery = query
	v.err = nil
	v.statusbar.SetState(status.StateSearching)
	v.focusInput = false
	v.input.Blur()
	return v.performSearch(query)
}

func (v *View) performSearch(query string) tea.Cmd {
	papers, ctx := v.papers, v.ctx
	return func() tea.Msg {
		if papers == nil {
			return messages.ErrorOccurred{Err: ErrNoPaperService}
		}
		found, err := papers.Search(ctx, query, ResultLimit)
		return messages.SearchCompleted{Query: query, Papers: found, Err: err}
	}
}

func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}

	v.err = nil
	v.list.SetPapers(msg.Papers)
	v.statusbar.Clear()
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetContext(status.ContextResults)
	v.statusbar.SetPaperCount(len(msg.Papers))
	if len(msg.Papers) == 0 {
		v.statusbar.SetMessage("no results for " + msg.Query)
	}
	v.focusInput = false
	v.input.Blur()
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetError(err.Error(), domain.IsRetryable(err))
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)
	sections = append(sections, v.styles.Title.Render("Search papers"), "", v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	sections = append(sections, v.list.View(), "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetClock replaces the clock used for anonymity and dates.
func (v *View) SetClock(now func() time.Time) {
	v.list.SetClock(now)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-10) // header, input and status
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the current search query.
func (v *View) Query() string {
	return v.input.Value()
}

// SetQuery sets the search query.
func (v *View) SetQuery(query string) {
	v.input.SetValue(query)
}

// Papers returns the current results.
func (v *View) Papers() []*domain.Paper {
	return v.list.Papers()
}

// SelectedPaper returns the currently selected paper.
func (v *View) SelectedPaper() *domain.Paper {
	return v.list.SelectedPaper()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// Reset resets the view to input mode.
func (v *View) Reset() {
	v.focusInput = true
	v.input.Focus()
	v.input.SetValue("")
	v.list.SetPapers(nil)
	v.err = nil
	v.lastQuery = ""
	v.statusbar.Clear()
	v.statusbar.SetContext(status.ContextDefault)
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}
