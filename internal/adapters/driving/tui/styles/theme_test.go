package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func palette(t *Theme) []lipgloss.Color {
	return []lipgloss.Color{t.Primary, t.Secondary, t.Background, t.Foreground,
		t.Muted, t.Success, t.Warning, t.Error, t.Border}
}

func TestThemes_Complete(t *testing.T) {
	for _, theme := range []*Theme{DefaultTheme(), LightTheme()} {
		t.Run(theme.Name, func(t *testing.T) {
			for i, c := range palette(theme) {
				assert.NotEmpty(t, string(c), "colour %d", i)
			}
		})
	}
}

func TestThemes_Differ(t *testing.T) {
	dark, light := DefaultTheme(), LightTheme()

	assert.Equal(t, "dark", dark.Name)
	assert.Equal(t, "light", light.Name)
	assert.NotEqual(t, dark.Background, light.Background)
	assert.NotEqual(t, dark.Foreground, light.Foreground)
}

func TestThemeByName(t *testing.T) {
	assert.Equal(t, "light", ThemeByName("light").Name)
	assert.Equal(t, "dark", ThemeByName("dark").Name)
	assert.Equal(t, "dark", ThemeByName("solarized").Name)
	assert.Equal(t, "dark", ThemeByName("").Name)
}

func TestNewStyles(t *testing.T) {
	theme := DefaultTheme()
	s := NewStyles(theme)

	require.NotNil(t, s)
	assert.Same(t, theme, s.Theme())
	assert.Equal(t, theme.Warning, s.Zap.GetForeground())
	assert.True(t, s.Anonymous.GetItalic())
}

func TestNewStyles_NilTheme(t *testing.T) {
	s := NewStyles(nil)

	require.NotNil(t, s.Theme())
	assert.Equal(t, "dark", s.Theme().Name)
}

func TestDefaultStyles(t *testing.T) {
	assert.Equal(t, "dark", DefaultStyles().Theme().Name)
}

func TestStyles_Apply(t *testing.T) {
	s := DefaultStyles()
	shared := s

	s.Apply(LightTheme())

	assert.Equal(t, "light", shared.Theme().Name)
	assert.Equal(t, LightTheme().Primary, shared.Theme().Primary)
	assert.Equal(t, LightTheme().Warning, shared.Zap.GetForeground())
}
