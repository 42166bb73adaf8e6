// Package cli implements the scholarstr command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scholarstr/internal/core/ports/driving"
	"github.com/custodia-labs/scholarstr/internal/logger"
)

// RelaySelector switches the relays a running process talks to.
type RelaySelector interface {
	Relays() []string
	SetRelays(urls []string) error
}

// Watcher runs until ctx is cancelled, reacting to configuration changes.
type Watcher interface {
	Run(ctx context.Context) error
}

// Services holds everything the commands drive.
// Nil fields disable the commands that need them.
type Services struct {
	Papers     driving.PaperService
	Stats      driving.StatsService
	Annotation driving.AnnotationService
	Settings   driving.SettingsService
	Relays     RelaySelector
	Refresher  driving.Scheduler
	Watcher    Watcher

	// ValidateKey checks a secret key before it is stored and returns its
	// public key. Nil accepts any non-empty key.
	ValidateKey func(key string) (pubkey string, err error)
}

var (
	version = "dev"

	paperService      driving.PaperService
	statsService      driving.StatsService
	annotationService driving.AnnotationService
	settingsService   driving.SettingsService
	relaySelector     RelaySelector
	feedRefresher     driving.Scheduler
	configWatcher     Watcher
	validateKey       func(string) (string, error)

	now = time.Now
)

var (
	verbose   bool
	relayURLs []string
)

var rootCmd = &cobra.Command{
	Use:   "scholarstr",
	Short: "Read, publish and discuss research papers on Nostr",
	Long: `scholarstr is a client for scientific publishing on Nostr.

Papers are long-form events tagged with a research topic. Authors stay
anonymous for 90 days after publication, readers support them with
Lightning zaps and discuss them in threaded or text-anchored comments.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if len(relayURLs) == 0 {
			return nil
		}
		if relaySelector == nil {
			return errors.New("relay client not configured")
		}
		if err := relaySelector.SetRelays(relayURLs); err != nil {
			return fmt.Errorf("using --relay: %w", err)
		}
		logger.Debug("using relays %v", relayURLs)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringArrayVar(&relayURLs, "relay", nil,
		"relay URL to use for this invocation (repeatable)")
}

// SetServices wires the services used by the commands.
func SetServices(s Services) {
	paperService = s.Papers
	statsService = s.Stats
	annotationService = s.Annotation
	settingsService = s.Settings
	relaySelector = s.Relays
	feedRefresher = s.Refresher
	configWatcher = s.Watcher
	validateKey = s.ValidateKey
}

// SetVersion sets the version reported by `scholarstr version`.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// commandContext returns the command's context, or Background when unset.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
