// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/scholarstr/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewFeed lists the newest papers.
	ViewFeed
	// ViewSearch is the search input and results view.
	ViewSearch
	// ViewPaper shows one paper with its statistics.
	ViewPaper
	// ViewSettings is the settings configuration view.
	ViewSettings
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewFeed:
		return "feed"
	case ViewSearch:
		return "search"
	case ViewPaper:
		return "paper"
	case ViewSettings:
		return "settings"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// FeedLoaded carries the newest papers, from a request or a background refresh.
type FeedLoaded struct {
	Papers []*domain.Paper
	Err    error
}

// SearchCompleted carries search results back to the model.
type SearchCompleted struct {
	Query  string
	Papers []*domain.Paper
	Err    error
}

// PaperSelected opens a paper. From is the view to return to.
type PaperSelected struct {
	Paper *domain.Paper
	From  ViewType
}

// PaperStatsLoaded carries the zap and comment statistics of a paper.
// Each half fails independently.
type PaperStatsLoaded struct {
	EventID    string
	Zaps       *domain.ZapStats
	ZapErr     error
	Comments   int
	CommentErr error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved signals settings were saved.
type SettingsSaved struct {
	Err error
}
