package driving

import "github.com/custodia-labs/scholarstr/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// SetRelays replaces the configured relay list.
	SetRelays(urls []string) error

	// SetSecretKey stores the signing key (nsec or hex).
	SetSecretKey(key string) error

	// SecretKey returns the stored signing key, or empty string.
	SecretKey() string

	// SetTheme updates the TUI theme.
	SetTheme(theme string) error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
