// Command scholarstr reads, publishes and discusses research papers on Nostr.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/scholarstr/internal/adapters/driven/config/file"
	"github.com/custodia-labs/scholarstr/internal/adapters/driven/relay/nostr"
	"github.com/custodia-labs/scholarstr/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/scholarstr/internal/adapters/driving/cli"
	"github.com/custodia-labs/scholarstr/internal/core/domain"
	"github.com/custodia-labs/scholarstr/internal/core/ports/driven"
	"github.com/custodia-labs/scholarstr/internal/core/services"
	"github.com/custodia-labs/scholarstr/internal/logger"
	"github.com/custodia-labs/scholarstr/internal/normalisers/paper"
)

var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	cancel()
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	configStore, err := file.NewConfigStore(os.Getenv("SCHOLARSTR_CONFIG_DIR"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		return err
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading settings: %v\n", err)
		return err
	}

	pool, err := nostr.NewPool(settings.RelayURLs, nostr.Config{
		RatePerSecond: settings.RatePerSecond,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "connecting relays: %v\n", err)
		return err
	}
	defer pool.Close()

	var paperStore driven.PaperStore
	var refreshStore driven.RefreshStore
	store, err := sqlite.NewStore(settings.CacheDir)
	if err != nil {
		logger.Warn("paper cache disabled: %v", err)
	} else {
		defer store.Close()
		paperStore = store.PaperStore()
		refreshStore = store.RefreshStore()
	}

	signer := loadSigner(settingsService.SecretKey())

	paperService := services.NewPaperService(pool, paper.New(), paperStore, signer, settings.QueryTimeout)
	statsService := services.NewStatsService(pool, settings.StatsTimeout)
	annotationService := services.NewAnnotationService(pool, signer, settings.QueryTimeout)

	refresher := services.NewFeedRefresher(paperService, settings.RefreshInterval, domain.DefaultFeedLimit)
	if refreshStore != nil {
		refresher.SetStore(ctx, refreshStore)
	}

	watcher := file.NewWatcher(configStore, 0)
	watcher.OnChange(func(*file.ConfigStore) {
		updated, err := settingsService.Get()
		if err != nil {
			logger.Warn("reading settings: %v", err)
			return
		}
		if err := pool.SetRelays(updated.RelayURLs); err != nil {
			logger.Warn("switching relays: %v", err)
		}
		s := loadSigner(settingsService.SecretKey())
		paperService.SetSigner(s)
		annotationService.SetSigner(s)
	})

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Papers:      paperService,
		Stats:       statsService,
		Annotation:  annotationService,
		Settings:    settingsService,
		Relays:      pool,
		Refresher:   refresher,
		Watcher:     watcher,
		ValidateKey: validateKey,
	})
	return cli.Execute(ctx)
}

// loadSigner returns a signer for key, or nil when no usable key is set.
// Without a signer the client is read-only.
func loadSigner(key string) driven.Signer {
	if key == "" {
		return nil
	}
	s, err := nostr.NewKeySigner(key)
	if err != nil {
		logger.Warn("ignoring configured secret key: %v", err)
		return nil
	}
	return s
}

func validateKey(key string) (string, error) {
	s, err := nostr.NewKeySigner(key)
	if err != nil {
		return "", err
	}
	return s.PublicKey(), nil
}
