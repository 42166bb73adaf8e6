// Package tui provides an interactive terminal user interface for scholarstr.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"time"

	"github.com/custodia-labs/scholarstr/internal/core/domain"
	"github.com/custodia-labs/scholarstr/internal/core/ports/driving"
)

// FeedRefresher refreshes the feed in the background and reports each result.
type FeedRefresher interface {
	driving.Scheduler
	OnResult(fn func([]*domain.Paper, error))
}

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Papers lists, searches and fetches papers. Required.
	Papers driving.PaperService

	// Stats provides zap totals and comment counts. Optional.
	Stats driving.StatsService

	// Settings manages application settings. Optional.
	Settings driving.SettingsService

	// Refresher pushes background feed refreshes into the feed view. Optional.
	Refresher FeedRefresher

	// ValidateKey parses a secret key and returns its public key. Optional.
	ValidateKey func(secret string) (pubkey string, err error)

	// Now is the clock used for anonymity and dates. Defaults to time.Now.
	Now func() time.Time

	// FeedLimit is the number of papers the feed requests.
	FeedLimit int
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Papers == nil {
		return ErrMissingPaperService
	}
	return nil
}
