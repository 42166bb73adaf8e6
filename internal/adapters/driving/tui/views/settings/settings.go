// Package settings provides the settings configuration view for the TUI.
package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/scholarstr/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/scholarstr/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/scholarstr/internal/core/domain"
	"github.com/custodia-labs/scholarstr/internal/core/ports/driving"
)

// ErrNoSettingsService indicates that no settings service was provided.
var ErrNoSettingsService = errors.New("settings service not available")

// Section tracks which settings section is active.
type Section int

const (
	SectionOverview Section = iota
	SectionRelays
	SectionKey
	SectionTheme
)

// Key constants for key handling.
const (
	keyDown  = "down"
	keyEnter = "enter"
)

var themes = []string{"dark", "light"}

// KeyValidator checks a secret key and returns its public key.
type KeyValidator func(secret string) (pubkey string, err error)

// View is the settings configuration view.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService
	validateKey     KeyValidator

	settings *domain.AppSettings
	err      error
	notice   string

	section  Section
	selected int

	relayInput textinput.Model
	keyInput   textinput.Model

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	relayInput := textinput.New()
	relayInput.Placeholder = "wss://relay.example.com, wss://..."
	relayInput.CharLimit = 1024
	relayInput.Width = 60

	keyInput := textinput.New()
	keyInput.Placeholder = "nsec1... or hex"
	keyInput.EchoMode = textinput.EchoPassword
	keyInput.CharLimit = 128

	return &View{
		styles:          s,
		settingsService: settingsService,
		section:         SectionOverview,
		relayInput:      relayInput,
		keyInput:        keyInput,
	}
}

// SetKeyValidator makes the key section reject keys fn cannot parse.
func (v *View) SetKeyValidator(fn KeyValidator) {
	v.validateKey = fn
}

// Init initialises the view and loads settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

func (v *View) loadSettings() tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsLoaded{Err: ErrNoSettingsService}
		}
		settings, err := svc.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.settings = msg.Settings
			v.err = nil
		}
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.section = SectionOverview
		v.selected = 0
		v.relayInput.Blur()
		v.keyInput.Blur()
		v.keyInput.SetValue("")
		return v, v.loadSettings()

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.String() == "esc" {
		if v.section == SectionOverview {
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		}
		v.section = SectionOverview
		v.selected = 0
		v.relayInput.Blur()
		v.keyInput.Blur()
		return v, nil
	}

	switch v.section {
	case SectionOverview:
		return v.handleOverviewKeys(msg)
	case SectionRelays:
		return v.handleRelayKeys(msg)
	case SectionKey:
		return v.handleKeyKeys(msg)
	case SectionTheme:
		return v.handleThemeKeys(msg)
	}
	return v, nil
}

func (v *View) handleOverviewKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	const items = 3

	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < items-1 {
			v.selected++
		}
	case "t":
		return v, v.toggleTheme()
	case keyEnter:
		v.notice = ""
		switch v.selected {
		case 0:
			v.section = SectionRelays
			if v.settings != nil {
				v.relayInput.SetValue(strings.Join(v.settings.RelayURLs, ", "))
			}
			return v, v.relayInput.Focus()
		case 1:
			v.section = SectionKey
			v.keyInput.SetValue("")
			return v, v.keyInput.Focus()
		case 2:
			v.section = SectionTheme
			v.selected = v.themeIndex()
		}
	}
	return v, nil
}

func (v *View) handleRelayKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.String() == keyEnter {
		return v, v.saveRelays(SplitRelays(v.relayInput.Value()))
	}
	var cmd tea.Cmd
	v.relayInput, cmd = v.relayInput.Update(msg)
	return v, cmd
}

func (v *View) handleKeyKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.String() == keyEnter {
		return v, v.saveKey(strings.TrimSpace(v.keyInput.Value()))
	}
	var cmd tea.Cmd
	v.keyInput, cmd = v.keyInput.Update(msg)
	return v, cmd
}

func (v *View) handleThemeKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < len(themes)-1 {
			v.selected++
		}
	case keyEnter:
		return v, v.saveTheme(themes[v.selected])
	}
	return v, nil
}

func (v *View) saveRelays(urls []string) tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsSaved{Err: ErrNoSettingsService}
		}
		return messages.SettingsSaved{Err: svc.SetRelays(urls)}
	}
}

func (v *View) saveKey(secret string) tea.Cmd {
	if v.validateKey != nil && secret != "" {
		pub, err := v.validateKey(secret)
		if err != nil {
			v.err = fmt.Errorf("invalid key: %w", err)
			return nil
		}
		v.notice = "Public key: " + pub
	}
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsSaved{Err: ErrNoSettingsService}
		}
		return messages.SettingsSaved{Err: svc.SetSecretKey(secret)}
	}
}

func (v *View) saveTheme(theme string) tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsSaved{Err: ErrNoSettingsService}
		}
		return messages.SettingsSaved{Err: svc.SetTheme(theme)}
	}
}

func (v *View) toggleTheme() tea.Cmd {
	next := "light"
	if v.settings != nil && v.settings.Theme == "light" {
		next = "dark"
	}
	return v.saveTheme(next)
}

func (v *View) themeIndex() int {
	if v.settings != nil && v.settings.Theme == "light" {
		return 1
	}
	return 0
}

// SplitRelays splits a comma or whitespace separated relay list.
func SplitRelays(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}
	if v.notice != "" {
		b.WriteString(v.styles.Success.Render(v.notice))
		b.WriteString("\n\n")
	}

	if v.settings == nil {
		b.WriteString(v.styles.Muted.Render("Loading settings..."))
		return b.String()
	}

	switch v.section {
	case SectionOverview:
		b.WriteString(v.renderOverview())
	case SectionRelays:
		b.WriteString(v.styles.Subtitle.Render("Relays"))
		b.WriteString("\n")
		b.WriteString(v.relayInput.View())
		b.WriteString("\n")
	case SectionKey:
		b.WriteString(v.styles.Subtitle.Render("Signing key"))
		b.WriteString("\n")
		b.WriteString(v.keyInput.View())
		b.WriteString("\n")
	case SectionTheme:
		b.WriteString(v.renderThemeSelect())
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *View) renderOverview() string {
	var b strings.Builder

	keyStatus := v.styles.Warning.Render("[not set, read-only]")
	if v.settings.HasSecretKey {
		keyStatus = v.styles.Success.Render("[configured]")
	}

	items := []struct {
		label  string
		value  string
		status string
	}{
		{label: "Relays", value: fmt.Sprintf("%d configured", len(v.settings.RelayURLs))},
		{label: "Signing key", status: keyStatus},
		{label: "Theme", value: v.settings.Theme},
	}

	for i, item := range items {
		indicator := "  "
		if i == v.selected {
			indicator = "> "
		}
		line := indicator + item.label
		if item.value != "" {
			line += ": " + item.value
		}
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		if item.status != "" {
			b.WriteString(" " + item.status)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	for _, u := range v.settings.RelayURLs {
		b.WriteString(v.styles.Muted.Render("  " + u))
		b.WriteString("\n")
	}
	return b.String()
}

func (v *View) renderThemeSelect() string {
	var b strings.Builder
	b.WriteString(v.styles.Subtitle.Render("Theme"))
	b.WriteString("\n")
	for i, name := range themes {
		line := "  " + name
		if name == v.settings.Theme {
			line += " (current)"
		}
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render("> " + line[2:]))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (v *View) renderHelp() string {
	switch v.section {
	case SectionOverview:
		return v.styles.Help.Render("[j/k] navigate  [enter] edit  [t] toggle theme  [esc] back")
	case SectionRelays:
		return v.styles.Help.Render("[enter] save  [esc] cancel  separate relays with commas")
	case SectionKey:
		return v.styles.Help.Render("[enter] save  [esc] cancel")
	case SectionTheme:
		return v.styles.Help.Render("[j/k] navigate  [enter] select  [esc] back")
	default:
		return ""
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.relayInput.Width = max(20, width-6)
}

// Section returns the active section.
func (v *View) Section() Section {
	return v.section
}

// Reset resets the view to initial state.
func (v *View) Reset() {
	v.section = SectionOverview
	v.selected = 0
	v.err = nil
	v.notice = ""
	v.relayInput.Blur()
	v.keyInput.SetValue("")
	v.keyInput.Blur()
}
