package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scholarstr/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/scholarstr/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/scholarstr/internal/core/domain"
	"github.com/custodia-labs/scholarstr/internal/core/services"
)

func newTestPorts() *Ports {
	return &Ports{
		Papers:   &mockPaperService{feed: testPapers()},
		Stats:    mockStatsService{},
		Settings: services.NewSettingsService(memory.NewConfigStore()),
		Now:      func() time.Time { return testNow },
	}
}

func newTestApp(t *testing.T, ports *Ports) *App {
	t.Helper()
	app, err := NewApp(ports)
	require.NoError(t, err)
	app.SetDimensions(120, 40)
	return app
}

// drive feeds msg to the app, then every app message its commands produce.
// Commands that block, such as cursor blink ticks, are abandoned.
func drive(app *App, msg tea.Msg) {
	queue := []tea.Msg{msg}
	for i := 0; len(queue) > 0 && i < 100; i++ {
		next := queue[0]
		queue = queue[1:]
		_, cmd := app.Update(next)
		queue = append(queue, collect(cmd)...)
	}
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	var out tea.Msg
	select {
	case out = <-ch:
	case <-time.After(100 * time.Millisecond):
		return nil
	}

	switch m := out.(type) {
	case tea.BatchMsg:
		var msgs []tea.Msg
		for _, c := range m {
			msgs = append(msgs, collect(c)...)
		}
		return msgs
	case messages.ViewChanged, messages.FeedLoaded, messages.SearchCompleted,
		messages.PaperSelected, messages.PaperStatsLoaded, messages.SettingsLoaded,
		messages.SettingsSaved, messages.ErrorOccurred:
		return []tea.Msg{m}
	}
	return nil
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewApp(t *testing.T) {
	app, err := NewApp(newTestPorts())

	require.NoError(t, err)
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())
	assert.NotNil(t, app.Init())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{})

	assert.Nil(t, app)
	assert.ErrorIs(t, err, ErrInvalidPorts)
	assert.ErrorIs(t, err, ErrMissingPaperService)
}

func TestNewApp_ThemeFromSettings(t *testing.T) {
	ports := newTestPorts()
	require.NoError(t, ports.Settings.SetTheme("light"))

	app, err := NewApp(ports)

	require.NoError(t, err)
	assert.Equal(t, "light", app.Styles().Theme().Name)
}

func TestApp_WindowSize(t *testing.T) {
	app, _ := NewApp(newTestPorts())

	app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	assert.True(t, app.Ready())
	assert.Contains(t, app.View(), "scholarstr")
}

func TestApp_FeedToPaperAndBack(t *testing.T) {
	app := newTestApp(t, newTestPorts())

	drive(app, key("enter"))
	require.Equal(t, messages.ViewFeed, app.CurrentView())
	assert.Contains(t, app.View(), "Sparse attention at scale")
	assert.Contains(t, app.View(), domain.AnonymousAuthor)

	drive(app, key("down"))
	drive(app, key("enter"))
	require.Equal(t, messages.ViewPaper, app.CurrentView())
	view := app.View()
	assert.Contains(t, view, "Coral reef acoustics")
	assert.Contains(t, view, "42 sats")
	assert.Contains(t, view, "7 comments")
	assert.NotContains(t, view, "Grace")

	drive(app, key("esc"))
	assert.Equal(t, messages.ViewFeed, app.CurrentView())

	drive(app, key("esc"))
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_SearchToPaper(t *testing.T) {
	ports := newTestPorts()
	app := newTestApp(t, ports)

	drive(app, messages.ViewChanged{View: messages.ViewSearch})
	for _, r := range "reef" {
		drive(app, key(string(r)))
	}
	drive(app, key("enter"))

	assert.Equal(t, []string{"reef"}, ports.Papers.(*mockPaperService).searched)
	assert.Contains(t, app.View(), "Results (2)")

	drive(app, key("enter"))
	require.Equal(t, messages.ViewPaper, app.CurrentView())

	drive(app, key("esc"))
	assert.Equal(t, messages.ViewSearch, app.CurrentView())
	assert.Contains(t, app.View(), "Results (2)")
}

func TestApp_BackgroundFeedRefresh(t *testing.T) {
	app := newTestApp(t, newTestPorts())

	drive(app, messages.FeedLoaded{Papers: testPapers()[:1]})
	assert.Equal(t, messages.ViewMenu, app.CurrentView())

	drive(app, messages.ViewChanged{View: messages.ViewFeed})
	assert.Contains(t, app.View(), "Latest papers (1)")
}

func TestApp_FeedErrorRecorded(t *testing.T) {
	app := newTestApp(t, newTestPorts())

	drive(app, messages.FeedLoaded{Err: domain.ErrQueryTimeout})

	assert.ErrorIs(t, app.Err(), domain.ErrQueryTimeout)
}

func TestApp_SettingsThemeToggle(t *testing.T) {
	ports := newTestPorts()
	app := newTestApp(t, ports)
	require.Equal(t, "dark", app.Styles().Theme().Name)

	drive(app, messages.ViewChanged{View: messages.ViewSettings})
	assert.Contains(t, app.View(), "Relays: 3 configured")

	drive(app, key("t"))

	current, err := ports.Settings.Get()
	require.NoError(t, err)
	assert.Equal(t, "light", current.Theme)
	assert.Equal(t, "light", app.Styles().Theme().Name)
}

func TestApp_SettingsLoadedShowsRelayCount(t *testing.T) {
	app := newTestApp(t, newTestPorts())

	drive(app, app.loadSettings()())
	drive(app, messages.ViewChanged{View: messages.ViewFeed})

	assert.Contains(t, app.View(), "3 relays")
}

func TestApp_HelpView(t *testing.T) {
	app := newTestApp(t, newTestPorts())

	drive(app, messages.ViewChanged{View: messages.ViewHelp})
	assert.Contains(t, app.View(), "Toggle abstract / full text")
	assert.Contains(t, app.View(), "new search")
	assert.Contains(t, app.View(), domain.AnonymousAuthor)

	drive(app, key("esc"))
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_ErrorOccurred(t *testing.T) {
	app := newTestApp(t, newTestPorts())
	drive(app, messages.ViewChanged{View: messages.ViewSearch})

	boom := errors.New("boom")
	app.Update(messages.ErrorOccurred{Err: boom})

	assert.ErrorIs(t, app.Err(), boom)
	assert.Contains(t, app.View(), "boom")
}

func TestApp_Quit(t *testing.T) {
	app := newTestApp(t, newTestPorts())

	_, cmd := app.Update(key("ctrl+c"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = app.Update(messages.Quit{})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_WithContext(t *testing.T) {
	app, _ := NewApp(newTestPorts())

	type ctxKey string
	ctx := context.WithValue(context.Background(), ctxKey("k"), "v")

	assert.Same(t, app, app.WithContext(ctx))
}

func TestApp_KeyValidatorWired(t *testing.T) {
	ports := newTestPorts()
	ports.ValidateKey = func(string) (string, error) { return "", errors.New("not a key") }
	app := newTestApp(t, ports)

	drive(app, messages.ViewChanged{View: messages.ViewSettings})
	drive(app, key("down"))
	drive(app, key("enter"))
	for _, r := range "junk" {
		drive(app, key(string(r)))
	}
	drive(app, key("enter"))

	assert.Contains(t, app.View(), "invalid key: not a key")
	assert.Equal(t, "", ports.Settings.SecretKey())
}

func TestApp_StartRefresher(t *testing.T) {
	ports := newTestPorts()
	r := &mockRefresher{}
	ports.Refresher = r
	app := newTestApp(t, ports)

	sent := make(chan tea.Msg, 1)
	stop := app.startRefresher(context.Background(), func(m tea.Msg) { sent <- m })

	require.Eventually(t, func() bool {
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.started && r.fn != nil
	}, time.Second, 10*time.Millisecond)

	r.mu.Lock()
	fn := r.fn
	r.mu.Unlock()
	fn(testPapers(), nil)

	msg := <-sent
	loaded, ok := msg.(messages.FeedLoaded)
	require.True(t, ok)
	assert.Len(t, loaded.Papers, 2)

	stop()
	r.mu.Lock()
	defer r.mu.Unlock()
	assert.True(t, r.stopped)
}

func TestApp_StartRefresherWithoutRefresher(t *testing.T) {
	app := newTestApp(t, newTestPorts())

	stop := app.startRefresher(context.Background(), func(tea.Msg) { t.Fatal("unexpected send") })

	stop()
}
