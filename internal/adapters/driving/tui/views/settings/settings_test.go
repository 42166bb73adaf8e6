package settings

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scholarstr/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/scholarstr/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/scholarstr/internal/core/domain"
)

// MockSettingsService is a mock implementation of driving.SettingsService.
type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) Get() (*domain.AppSettings, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AppSettings), args.Error(1)
}

func (m *MockSettingsService) SetRelays(urls []string) error {
	return m.Called(urls).Error(0)
}

func (m *MockSettingsService) SetSecretKey(key string) error {
	return m.Called(key).Error(0)
}

func (m *MockSettingsService) SecretKey() string {
	return m.Called().String(0)
}

func (m *MockSettingsService) SetTheme(theme string) error {
	return m.Called(theme).Error(0)
}

func (m *MockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultSettings()
}

func testSettings() *domain.AppSettings {
	s := domain.DefaultSettings()
	s.Theme = "dark"
	return &s
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	down  = tea.KeyMsg{Type: tea.KeyDown}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
)

// loadedView returns a view that has received settings.
func loadedView(t *testing.T, svc *MockSettingsService) *View {
	t.Helper()
	svc.On("Get").Return(testSettings(), nil)
	v := NewView(styles.DefaultStyles(), svc)
	v.SetDimensions(120, 40)
	cmd := v.Init()
	require.NotNil(t, cmd)
	v.Update(cmd())
	require.NotNil(t, v.settings)
	return v
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil)

	require.NotNil(t, v)
	assert.Equal(t, SectionOverview, v.Section())
	assert.Contains(t, v.View(), "Loading settings")
}

func TestView_NilService(t *testing.T) {
	v := NewView(nil, nil)

	v.Update(v.Init()())

	assert.ErrorIs(t, v.err, ErrNoSettingsService)
	assert.Contains(t, v.View(), "settings service not available")
}

func TestView_Overview(t *testing.T) {
	svc := &MockSettingsService{}
	v := loadedView(t, svc)

	out := v.View()

	assert.Contains(t, out, "Relays: 3 configured")
	assert.Contains(t, out, "wss://relay.damus.io")
	assert.Contains(t, out, "not set, read-only")
	assert.Contains(t, out, "Theme: dark")
}

func TestView_EditRelays(t *testing.T) {
	svc := &MockSettingsService{}
	v := loadedView(t, svc)
	want := []string{"wss://a.example", "wss://b.example"}
	svc.On("SetRelays", want).Return(nil)

	v.Update(enter)
	require.Equal(t, SectionRelays, v.Section())
	assert.Contains(t, v.relayInput.Value(), "wss://relay.damus.io")

	v.relayInput.SetValue("wss://a.example, wss://b.example")
	_, cmd := v.Update(enter)
	require.NotNil(t, cmd)
	saved := cmd()
	assert.Equal(t, messages.SettingsSaved{}, saved)

	_, reload := v.Update(saved)
	assert.NotNil(t, reload)
	assert.Equal(t, SectionOverview, v.Section())
	svc.AssertExpectations(t)
}

func TestView_EditRelaysRejected(t *testing.T) {
	svc := &MockSettingsService{}
	v := loadedView(t, svc)
	svc.On("SetRelays", []string{"http://bad"}).Return(domain.ErrInvalidInput)

	v.Update(enter)
	v.relayInput.SetValue("http://bad")
	_, cmd := v.Update(enter)
	v.Update(cmd())

	assert.ErrorIs(t, v.err, domain.ErrInvalidInput)
	assert.Equal(t, SectionRelays, v.Section())
}

func TestView_SetKey(t *testing.T) {
	svc := &MockSettingsService{}
	v := loadedView(t, svc)
	svc.On("SetSecretKey", "nsec1abc").Return(nil)
	v.SetKeyValidator(func(s string) (string, error) { return "pub-" + s, nil })

	v.Update(down)
	v.Update(enter)
	require.Equal(t, SectionKey, v.Section())

	v.keyInput.SetValue(" nsec1abc ")
	_, cmd := v.Update(enter)
	require.NotNil(t, cmd)
	v.Update(cmd())

	assert.Contains(t, v.View(), "Public key: pub-nsec1abc")
	assert.Equal(t, "", v.keyInput.Value())
	svc.AssertExpectations(t)
}

func TestView_SetKeyInvalid(t *testing.T) {
	svc := &MockSettingsService{}
	v := loadedView(t, svc)
	v.SetKeyValidator(func(string) (string, error) { return "", errors.New("bad checksum") })

	v.Update(down)
	v.Update(enter)
	v.keyInput.SetValue("nsec1zzz")
	_, cmd := v.Update(enter)

	assert.Nil(t, cmd)
	assert.Contains(t, v.View(), "invalid key: bad checksum")
	svc.AssertNotCalled(t, "SetSecretKey", mock.Anything)
}

func TestView_ThemeSelect(t *testing.T) {
	svc := &MockSettingsService{}
	v := loadedView(t, svc)
	svc.On("SetTheme", "light").Return(nil)

	v.Update(down)
	v.Update(down)
	v.Update(enter)
	require.Equal(t, SectionTheme, v.Section())
	assert.Contains(t, v.View(), "dark (current)")

	v.Update(down)
	_, cmd := v.Update(enter)
	require.NotNil(t, cmd)
	assert.Equal(t, messages.SettingsSaved{}, cmd())
	svc.AssertExpectations(t)
}

func TestView_ToggleTheme(t *testing.T) {
	svc := &MockSettingsService{}
	v := loadedView(t, svc)
	svc.On("SetTheme", "light").Return(nil)

	_, cmd := v.Update(runes("t"))

	require.NotNil(t, cmd)
	cmd()
	svc.AssertCalled(t, "SetTheme", "light")
}

func TestView_Esc(t *testing.T) {
	svc := &MockSettingsService{}
	v := loadedView(t, svc)

	v.Update(enter)
	_, cmd := v.Update(esc)
	assert.Nil(t, cmd)
	assert.Equal(t, SectionOverview, v.Section())

	_, cmd = v.Update(esc)
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}

func TestView_Reset(t *testing.T) {
	svc := &MockSettingsService{}
	v := loadedView(t, svc)
	v.Update(down)
	v.Update(enter)
	v.keyInput.SetValue("secret")

	v.Reset()

	assert.Equal(t, SectionOverview, v.Section())
	assert.Equal(t, 0, v.selected)
	assert.Equal(t, "", v.keyInput.Value())
}

func TestSplitRelays(t *testing.T) {
	assert.Equal(t,
		[]string{"wss://a", "wss://b", "wss://c"},
		SplitRelays(" wss://a,wss://b\twss://c ,"))
	assert.Empty(t, SplitRelays(" , "))
}
