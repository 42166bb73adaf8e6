package services

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/custodia-labs/scholarstr/internal/core/domain"
	"github.com/custodia-labs/scholarstr/internal/core/ports/driven"
	"github.com/custodia-labs/scholarstr/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyRelayURLs       = "relay.urls"
	KeyQueryTimeoutMS  = "relay.query_timeout_ms"
	KeyStatsTimeoutMS  = "relay.stats_timeout_ms"
	KeyRatePerSecond   = "relay.rate_per_second"
	KeySecretKey       = "signer.secret_key"
	KeyHTTPAddr        = "http.addr"
	KeyTheme           = "ui.theme"
	KeyCacheDir        = "cache.dir"
	KeyRefreshInterval = "feed.refresh_interval_s"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultSettings()

	settings := &domain.AppSettings{
		RelayURLs:       s.getStrings(KeyRelayURLs, defaults.RelayURLs),
		QueryTimeout:    s.getMillis(KeyQueryTimeoutMS, defaults.QueryTimeout),
		StatsTimeout:    s.getMillis(KeyStatsTimeoutMS, defaults.StatsTimeout),
		RatePerSecond:   s.getFloat(KeyRatePerSecond, defaults.RatePerSecond),
		HTTPAddr:        s.getString(KeyHTTPAddr, defaults.HTTPAddr),
		Theme:           s.getString(KeyTheme, defaults.Theme),
		CacheDir:        s.getString(KeyCacheDir, defaults.CacheDir),
		RefreshInterval: time.Duration(s.getInt(KeyRefreshInterval, int(defaults.RefreshInterval/time.Second))) * time.Second,
		HasSecretKey:    s.configStore.GetString(KeySecretKey) != "",
	}

	return settings, nil
}

// SetRelays replaces the configured relay list.
// Every URL must use the ws or wss scheme.
func (s *SettingsService) SetRelays(urls []string) error {
	cleaned, err := ValidateRelayURLs(urls)
	if err != nil {
		return err
	}
	if err := s.configStore.Set(KeyRelayURLs, cleaned); err != nil {
		return fmt.Errorf("save relay urls: %w", err)
	}
	return nil
}

// SetSecretKey stores the signing key.
func (s *SettingsService) SetSecretKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("secret key is empty: %w", domain.ErrInvalidInput)
	}
	if err := s.configStore.Set(KeySecretKey, key); err != nil {
		return fmt.Errorf("save secret key: %w", err)
	}
	return nil
}

// SecretKey returns the stored signing key, or empty string.
func (s *SettingsService) SecretKey() string {
	return s.configStore.GetString(KeySecretKey)
}

// SetTheme updates the TUI theme.
func (s *SettingsService) SetTheme(theme string) error {
	if theme != "dark" && theme != "light" {
		return fmt.Errorf("unknown theme %q: %w", theme, domain.ErrInvalidInput)
	}
	if err := s.configStore.Set(KeyTheme, theme); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultSettings()
}

// ValidateRelayURLs trims, de-duplicates and checks relay URLs.
func ValidateRelayURLs(urls []string) ([]string, error) {
	seen := make(map[string]bool, len(urls))
	out := make([]string, 0, len(urls))
	for _, raw := range urls {
		raw = strings.TrimSpace(raw)
		if raw == "" || seen[raw] {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") || u.Host == "" {
			return nil, fmt.Errorf("relay url %q must be ws:// or wss://: %w", raw, domain.ErrInvalidInput)
		}
		seen[raw] = true
		out = append(out, raw)
	}
	if len(out) == 0 {
		return nil, domain.ErrNoRelays
	}
	return out, nil
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val := s.configStore.GetFloat(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getMillis(key string, defaultVal time.Duration) time.Duration {
	ms := s.getInt(key, int(defaultVal/time.Millisecond))
	return time.Duration(ms) * time.Millisecond
}

func (s *SettingsService) getStrings(key string, defaultVal []string) []string {
	val := s.configStore.GetStringSlice(key)
	if len(val) == 0 {
		return defaultVal
	}
	return val
}
