// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/scholarstr/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/scholarstr/internal/adapters/driving/tui/styles"
)

// State represents the current application state for display.
type State string

const (
	StateReady     State = "ready"
	StateLoading   State = "loading"
	StateSearching State = "searching"
	StateError     State = "error"
	StateHelp      State = "help"
	StateResults   State = "results"
)

// Context selects which keybinding hints are shown.
type Context int

const (
	ContextDefault Context = iota
	ContextFeed
	ContextResults
	ContextPaper
)

// Bar displays application status and keybinding hints.
type Bar struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	state      State
	context    Context
	message    string
	paperCount int
	relayCount int
	retryable  bool
	width      int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	// Bar is passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	switch s.state {
	case StateLoading:
		return s.styles.Muted.Render("Loading from relays...")
	case StateSearching:
		return s.styles.Muted.Render("Searching...")
	case StateError:
		text := "Error"
		if s.message != "" {
			text = fmt.Sprintf("Error: %s", s.message)
		}
		if s.retryable {
			text += " (r to retry)"
		}
		return s.styles.Error.Render(text)
	case StateHelp:
		return s.styles.Normal.Render("Help")
	case StateReady, StateResults:
	}

	var parts []string
	if s.paperCount > 0 {
		noun := "papers"
		if s.paperCount == 1 {
			noun = "paper"
		}
		parts = append(parts, fmt.Sprintf("%d %s", s.paperCount, noun))
	}
	if s.relayCount > 0 {
		parts = append(parts, fmt.Sprintf("%d relays", s.relayCount))
	}
	if s.message != "" {
		parts = append(parts, s.message)
	}
	if len(parts) == 0 {
		return s.styles.Muted.Render("Ready")
	}
	return s.styles.Normal.Render(strings.Join(parts, " · "))
}

func (s *Bar) renderRight() string {
	var bindings []key.Binding
	switch s.context {
	case ContextFeed:
		bindings = s.keymap.FeedHelp()
	case ContextPaper:
		bindings = s.keymap.PaperHelp()
	case ContextResults:
		bindings = s.keymap.ResultsHelp()
	default:
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetContext selects the keybinding hints.
func (s *Bar) SetContext(c Context) {
	s.context = c
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetError switches to the error state. Retryable errors get a retry hint.
func (s *Bar) SetError(message string, retryable bool) {
	s.state = StateError
	s.message = message
	s.retryable = retryable
}

// SetPaperCount sets the number of papers on screen.
func (s *Bar) SetPaperCount(count int) {
	s.paperCount = count
}

// PaperCount returns the current paper count.
func (s *Bar) PaperCount() int {
	return s.paperCount
}

// SetRelayCount sets the number of configured relays.
func (s *Bar) SetRelayCount(count int) {
	s.relayCount = count
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to its ready state. The relay count is kept.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.paperCount = 0
	s.retryable = false
}
