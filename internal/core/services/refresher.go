package services

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/scholarstr/internal/core/domain"
	"github.com/custodia-labs/scholarstr/internal/core/ports/driven"
	"github.com/custodia-labs/scholarstr/internal/core/ports/driving"
	"github.com/custodia-labs/scholarstr/internal/logger"
)

// Ensure FeedRefresher implements the interface.
var _ driving.Scheduler = (*FeedRefresher)(nil)

// RefreshName identifies the feed refresher in a driven.RefreshStore.
const RefreshName = "feed"

// FeedRefresher periodically refreshes the paper feed, which writes results
// through to the paper cache.
type FeedRefresher struct {
	papers   driving.PaperService
	interval time.Duration
	limit    int
	onResult func([]*domain.Paper, error)
	store    driven.RefreshStore

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
	status  domain.RefreshStatus
}

// NewFeedRefresher creates a refresher. A non-positive interval uses the default.
func NewFeedRefresher(papers driving.PaperService, interval time.Duration, limit int) *FeedRefresher {
	if interval <= 0 {
		interval = domain.DefaultRefreshInterval
	}
	return &FeedRefresher{
		papers:   papers,
		interval: interval,
		limit:    limit,
	}
}

// OnResult registers a callback invoked after every refresh.
func (r *FeedRefresher) OnResult(fn func([]*domain.Paper, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onResult = fn
}

// SetStore makes the refresher persist every outcome under RefreshName.
// The last persisted status is loaded immediately.
func (r *FeedRefresher) SetStore(ctx context.Context, store driven.RefreshStore) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.store = store
	if store == nil {
		return
	}
	if prev, err := store.GetRefresh(ctx, RefreshName); err == nil {
		r.status = *prev
	}
}

// Start begins the refresh loop. This method blocks until Stop is called
// or ctx is cancelled.
func (r *FeedRefresher) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil // Already running
	}
	r.running = true
	r.stopCh = make(chan struct{})
	stopCh := r.stopCh
	// Added under mu so a concurrent Stop never waits on an empty group.
	r.wg.Add(1)
	r.mu.Unlock()
	defer r.wg.Done()

	return r.run(ctx, stopCh)
}

// Stop gracefully shuts down the loop and waits for it to exit, including
// any in-flight refresh.
func (r *FeedRefresher) Stop() error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = false
	close(r.stopCh)
	r.mu.Unlock()

	r.wg.Wait()
	return nil
}

// Status returns the outcome of the most recent refresh.
func (r *FeedRefresher) Status() domain.RefreshStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

func (r *FeedRefresher) run(ctx context.Context, stopCh <-chan struct{}) error {
	r.refresh(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.markStopped()
			return ctx.Err()
		case <-stopCh:
			return nil
		case <-ticker.C:
			select {
			case <-stopCh:
				return nil
			default:
			}
			r.refresh(ctx)
		}
	}
}

func (r *FeedRefresher) markStopped() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		r.running = false
		close(r.stopCh)
	}
}

// refresh runs one feed query. Refreshes never overlap: the loop waits for
// each one to finish before the next tick is read.
func (r *FeedRefresher) refresh(ctx context.Context) {
	started := time.Now()
	papers, err := r.papers.Feed(ctx, r.limit)

	r.mu.Lock()
	r.status.LastRun = started
	if err != nil {
		r.status.LastError = err.Error()
	} else {
		r.status.LastError = ""
		r.status.LastSuccess = time.Now()
		r.status.Papers = len(papers)
	}
	fn, store, status := r.onResult, r.store, r.status
	r.mu.Unlock()

	if store != nil {
		if serr := store.SaveRefresh(ctx, RefreshName, status); serr != nil {
			logger.Warn("saving refresh status: %v", serr)
		}
	}

	if err != nil {
		logger.Warn("feed refresh failed: %v", err)
	} else {
		logger.Debug("feed refresh: %d papers", len(papers))
	}
	if fn != nil {
		fn(papers, err)
	}
}
