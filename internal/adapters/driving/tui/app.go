package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/scholarstr/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/scholarstr/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/scholarstr/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/scholarstr/internal/adapters/driving/tui/views/feed"
	"github.com/custodia-labs/scholarstr/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/scholarstr/internal/adapters/driving/tui/views/paper"
	"github.com/custodia-labs/scholarstr/internal/adapters/driving/tui/views/search"
	"github.com/custodia-labs/scholarstr/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/scholarstr/internal/core/domain"
	"github.com/custodia-labs/scholarstr/internal/logger"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles is shared by every view; theme changes apply in place.
	styles *styles.Styles
	keymap *keymap.KeyMap
	help   help.Model

	menuView     *menu.View
	feedView     *feed.View
	searchView   *search.View
	paperView    *paper.View
	settingsView *settings.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w: %w", ErrInvalidPorts, err)
	}

	theme := "dark"
	if ports.Settings != nil {
		if current, err := ports.Settings.Get(); err == nil {
			theme = current.Theme
		}
	}
	s := styles.NewStyles(styles.ThemeByName(theme))
	km := keymap.DefaultKeyMap()

	a := &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		help:         help.New(),
		menuView:     menu.NewView(s),
		feedView:     feed.NewView(s, km, ports.Papers, ports.FeedLimit),
		searchView:   search.NewView(s, km, ports.Papers),
		paperView:    paper.NewView(s, ports.Stats),
		settingsView: settings.NewView(s, ports.Settings),
		currentView:  messages.ViewMenu,
	}
	if ports.ValidateKey != nil {
		a.settingsView.SetKeyValidator(ports.ValidateKey)
	}
	if ports.Now != nil {
		a.feedView.SetClock(ports.Now)
		a.searchView.SetClock(ports.Now)
		a.paperView.SetClock(ports.Now)
	}
	return a, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.feedView.WithContext(ctx)
	a.searchView.WithContext(ctx)
	a.paperView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("scholarstr - Research papers on Nostr"),
		a.loadSettings(),
	)
}

// loadSettings reads settings for the theme and relay count.
func (a *App) loadSettings() tea.Cmd {
	svc := a.ports.Settings
	if svc == nil {
		return nil
	}
	return func() tea.Msg {
		current, err := svc.Get()
		return messages.SettingsLoaded{Settings: current, Err: err}
	}
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a, a.updateCurrent(msg)

	case messages.ViewChanged:
		prev := a.currentView
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewFeed:
			return a, a.feedView.Init()
		case messages.ViewSearch:
			// Coming back from a paper keeps the results.
			if prev == messages.ViewPaper {
				return a, nil
			}
			a.searchView.Reset()
			return a, a.searchView.Init()
		case messages.ViewSettings:
			a.settingsView.Reset()
			return a, a.settingsView.Init()
		case messages.ViewMenu, messages.ViewPaper, messages.ViewHelp:
		}
		return a, nil

	case messages.PaperSelected:
		a.currentView = messages.ViewPaper
		return a, a.paperView.SetPaper(msg.Paper, msg.From)

	case messages.FeedLoaded:
		// Background refreshes arrive whichever view is active.
		a.feedView, cmd = a.feedView.Update(msg)
		if msg.Err != nil {
			a.err = msg.Err
		}
		return a, cmd

	case messages.SearchCompleted:
		a.searchView, cmd = a.searchView.Update(msg)
		a.err = a.searchView.Err()
		return a, cmd

	case messages.PaperStatsLoaded:
		a.paperView, cmd = a.paperView.Update(msg)
		return a, cmd

	case messages.SettingsLoaded:
		if msg.Err == nil && msg.Settings != nil {
			a.applySettings(msg.Settings)
		}
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.SettingsSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		logger.Debug("tui error: %v", msg.Err)
		if a.currentView == messages.ViewSearch {
			a.searchView, cmd = a.searchView.Update(msg)
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	return a, a.updateCurrent(msg)
}

// updateCurrent forwards msg to the active view.
func (a *App) updateCurrent(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewFeed:
		a.feedView, cmd = a.feedView.Update(msg)
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
	case messages.ViewPaper:
		a.paperView, cmd = a.paperView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
		if k, ok := msg.(tea.KeyMsg); ok && (k.Type == tea.KeyEsc || k.String() == "q") {
			a.currentView = messages.ViewMenu
		}
	}
	return cmd
}

func (a *App) applySettings(s *domain.AppSettings) {
	if s.Theme != "" && s.Theme != a.styles.Theme().Name {
		a.styles.Apply(styles.ThemeByName(s.Theme))
	}
	a.feedView.SetRelayCount(len(s.RelayURLs))
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewFeed:
		return a.feedView.View()
	case messages.ViewSearch:
		return a.searchView.View()
	case messages.ViewPaper:
		return a.paperView.View()
	case messages.ViewSettings:
		return a.settingsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	a.help.Width = a.width
	return a.styles.Title.Render("Help") + "\n\n" +
		a.help.FullHelpView(a.keymap.FullHelp()) + `

Search:
  (type)      Query titles, abstracts and keywords
  enter       Submit search, then open a result
  r           Retry after a relay error

Paper:
  c           Toggle abstract / full text
  j/k, ↑/↓    Scroll
  r           Reload zaps and comments

Settings:
  enter       Edit relays, key or theme
  t           Toggle theme

Authors stay hidden as "` + domain.AnonymousAuthor + `" for 90 days after publication.

[esc] back to menu`
}

// Run starts the TUI application. A configured refresher runs for the
// lifetime of the program and feeds its results to the feed view.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(a.ctx)
	defer cancel()
	a.WithContext(ctx)

	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(ctx))
	stop := a.startRefresher(ctx, p.Send)
	defer stop()

	_, err := p.Run()
	return err
}

// startRefresher runs the refresher until the returned stop is called,
// delivering each result through send.
func (a *App) startRefresher(ctx context.Context, send func(tea.Msg)) (stop func()) {
	r := a.ports.Refresher
	if r == nil {
		return func() {}
	}

	r.OnResult(func(papers []*domain.Paper, err error) {
		send(messages.FeedLoaded{Papers: papers, Err: err})
	})

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := r.Start(ctx); err != nil && ctx.Err() == nil {
			logger.Warn("feed refresher stopped: %v", err)
		}
	}()

	return func() {
		cancel()
		_ = r.Stop()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			logger.Warn("feed refresher did not stop in time")
		}
	}
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Styles returns the shared styles.
func (a *App) Styles() *styles.Styles {
	return a.styles
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on the app and every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.feedView.SetDimensions(width, height)
	a.searchView.SetDimensions(width, height)
	a.paperView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
}
