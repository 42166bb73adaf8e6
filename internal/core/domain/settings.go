package domain

import "time"

// Default relay set used when none is configured.
var DefaultRelayURLs = []string{
	"wss://relay.damus.io",
	"wss://nos.lol",
	"wss://relay.nostr.band",
}

// Default timings and limits.
const (
	DefaultQueryTimeout    = 5 * time.Second
	DefaultStatsTimeout    = 3 * time.Second
	DefaultRatePerSecond   = 5.0
	DefaultHTTPAddr        = "127.0.0.1:8787"
	DefaultTheme           = "dark"
	DefaultRefreshInterval = 60 * time.Second
	DefaultFeedLimit       = 20
)

// AppSettings is the resolved runtime configuration.
type AppSettings struct {
	// RelayURLs lists the relays queried and published to.
	RelayURLs []string

	// QueryTimeout bounds paper queries.
	QueryTimeout time.Duration

	// StatsTimeout bounds zap and comment queries.
	StatsTimeout time.Duration

	// RatePerSecond limits requests per relay.
	RatePerSecond float64

	// HTTPAddr is the listen address of `serve`.
	HTTPAddr string

	// Theme selects the TUI colour theme ("dark" or "light").
	Theme string

	// CacheDir is the directory of the paper cache database.
	CacheDir string

	// RefreshInterval is the background feed refresh period.
	RefreshInterval time.Duration

	// HasSecretKey reports whether a signing key is configured.
	// The key itself is never exposed through settings.
	HasSecretKey bool
}

// DefaultSettings returns settings with every default applied.
func DefaultSettings() AppSettings {
	relays := make([]string, len(DefaultRelayURLs))
	copy(relays, DefaultRelayURLs)
	return AppSettings{
		RelayURLs:       relays,
		QueryTimeout:    DefaultQueryTimeout,
		StatsTimeout:    DefaultStatsTimeout,
		RatePerSecond:   DefaultRatePerSecond,
		HTTPAddr:        DefaultHTTPAddr,
		Theme:           DefaultTheme,
		RefreshInterval: DefaultRefreshInterval,
	}
}
