package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/scholarstr/internal/adapters/driving/api"
	"github.com/custodia-labs/scholarstr/internal/logger"
)

var (
	serveAddr      string
	serveJSONLogs  bool
	serveNoRefresh bool
	serveOrigins   []string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serves papers and statistics as JSON over HTTP, refreshes the feed in
the background and reloads relay settings when the config file changes.

Metrics are exposed in the Prometheus format at /metrics.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from settings)")
	serveCmd.Flags().BoolVar(&serveJSONLogs, "json-logs", false, "write logs as JSON")
	serveCmd.Flags().BoolVar(&serveNoRefresh, "no-refresh", false, "disable background feed refresh")
	serveCmd.Flags().StringSliceVar(&serveOrigins, "cors-origin", nil, "allowed CORS origins (default any)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if paperService == nil {
		return errors.New("paper service not configured")
	}
	logger.SetJSON(serveJSONLogs)

	addr := serveAddr
	if addr == "" && settingsService != nil {
		if s, err := settingsService.Get(); err == nil {
			addr = s.HTTPAddr
		}
	}

	server, err := api.NewServer(api.Ports{Papers: paperService, Stats: statsService}, api.Config{
		Addr:           addr,
		AllowedOrigins: serveOrigins,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(ctx)
	})
	if feedRefresher != nil && !serveNoRefresh {
		g.Go(func() error {
			err := feedRefresher.Start(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}
	if configWatcher != nil {
		g.Go(func() error {
			return configWatcher.Run(ctx)
		})
	}

	err = g.Wait()
	logger.Sync()
	return err
}
