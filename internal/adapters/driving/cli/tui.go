package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scholarstr/internal/adapters/driving/tui"
	"github.com/custodia-labs/scholarstr/internal/core/domain"
	"github.com/custodia-labs/scholarstr/internal/logger"
)

var (
	tuiLogFile   string
	tuiNoRefresh bool
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface.

Browse the feed, search papers, read abstracts or full text with their zap
totals and comment counts, and edit relays, signing key and theme. The feed
refreshes in the background while the TUI is open.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Open / Search
  r        - Refresh or retry
  c        - Toggle abstract / full text
  Esc      - Back
  ctrl+c   - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&tuiLogFile, "log-file", "", "write logs to this file while the TUI runs")
	tuiCmd.Flags().BoolVar(&tuiNoRefresh, "no-refresh", false, "disable background feed refresh")
	rootCmd.AddCommand(tuiCmd)
}

// tuiPorts builds the TUI ports from the configured services.
func tuiPorts() *tui.Ports {
	ports := &tui.Ports{
		Papers:      paperService,
		Stats:       statsService,
		Settings:    settingsService,
		ValidateKey: validateKey,
		Now:         now,
		FeedLimit:   domain.DefaultFeedLimit,
	}
	if r, ok := feedRefresher.(tui.FeedRefresher); ok && !tuiNoRefresh {
		ports.Refresher = r
	}
	return ports
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	if paperService == nil {
		return errors.New("paper service not configured")
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tui panic: %v\n%s", r, debug.Stack())
		}
	}()

	// Log lines would corrupt the alternate screen.
	var logOut io.Writer = io.Discard
	if tuiLogFile != "" {
		f, ferr := os.OpenFile(tuiLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if ferr != nil {
			return fmt.Errorf("opening log file: %w", ferr)
		}
		defer f.Close()
		logOut = f
	}
	logger.SetOutput(logOut)
	defer logger.SetOutput(os.Stderr)

	app, err := tui.NewApp(tuiPorts())
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	ctx := commandContext(cmd)
	app.WithContext(ctx)

	if configWatcher != nil {
		go func() {
			if werr := configWatcher.Run(ctx); werr != nil {
				logger.Warn("config watcher: %v", werr)
			}
		}()
	}

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
