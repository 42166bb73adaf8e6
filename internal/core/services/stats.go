package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/custodia-labs/scholarstr/internal/core/domain"
	"github.com/custodia-labs/scholarstr/internal/core/ports/driven"
	"github.com/custodia-labs/scholarstr/internal/core/ports/driving"
	"github.com/custodia-labs/scholarstr/internal/logger"
	"github.com/custodia-labs/scholarstr/internal/stats"
)

// Ensure StatsService implements the interface.
var _ driving.StatsService = (*StatsService)(nil)

// Memo lifetimes.
const (
	EventStatsTTL = 30 * time.Second
	UserStatsTTL  = 60 * time.Second
)

type memoEntry struct {
	value   any
	expires time.Time
}

// StatsService aggregates zap and comment statistics with a short-lived memo
// per target. Concurrent requests for the same key share one relay query.
type StatsService struct {
	relay   driven.RelayClient
	timeout time.Duration
	now     func() time.Time

	mu    sync.Mutex
	memo  map[string]memoEntry
	group singleflight.Group
}

// NewStatsService creates a stats service.
func NewStatsService(relay driven.RelayClient, timeout time.Duration) *StatsService {
	if timeout <= 0 {
		timeout = domain.DefaultStatsTimeout
	}
	return &StatsService{
		relay:   relay,
		timeout: timeout,
		now:     time.Now,
		memo:    make(map[string]memoEntry),
	}
}

// ZapStats aggregates zap receipts referencing eventID.
func (s *StatsService) ZapStats(ctx context.Context, eventID string) (*domain.ZapStats, error) {
	if eventID == "" {
		return nil, fmt.Errorf("event id is required: %w", domain.ErrInvalidInput)
	}
	v, err := s.memoised(ctx, "zaps:"+eventID, EventStatsTTL, func(ctx context.Context) (any, error) {
		events, err := queryRelays(ctx, s.relay, s.timeout, domain.Filter{
			Kinds: []int{domain.KindZapReceipt},
			Tags:  map[string][]string{"e": {eventID}},
			Limit: stats.ZapQueryLimit,
		})
		if err != nil {
			return nil, fmt.Errorf("zap stats for %s: %w", eventID, err)
		}
		zs := stats.AggregateZaps(eventID, events)
		logger.Debug("zap stats %s: %d receipts of %d events", eventID, zs.TotalZaps, len(events))
		return &zs, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.ZapStats), nil
}

// CommentCount counts thread comments referencing eventID.
// The count is capped at stats.CommentQueryLimit.
func (s *StatsService) CommentCount(ctx context.Context, eventID string) (int, error) {
	if eventID == "" {
		return 0, fmt.Errorf("event id is required: %w", domain.ErrInvalidInput)
	}
	v, err := s.memoised(ctx, "comments:"+eventID, EventStatsTTL, func(ctx context.Context) (any, error) {
		events, err := queryRelays(ctx, s.relay, s.timeout, domain.Filter{
			Kinds: []int{domain.KindComment},
			Tags:  map[string][]string{"e": {eventID}},
			Limit: stats.CommentQueryLimit,
		})
		if err != nil {
			return nil, fmt.Errorf("comment count for %s: %w", eventID, err)
		}
		return stats.CountComments(eventID, events), nil
	})
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}

// UserZapStats counts zap receipts naming pubkey as sender (P) and
// recipient (p). Both queries must succeed.
func (s *StatsService) UserZapStats(ctx context.Context, pubkey string) (*domain.UserZapStats, error) {
	if pubkey == "" {
		return nil, fmt.Errorf("pubkey is required: %w", domain.ErrInvalidInput)
	}
	v, err := s.memoised(ctx, "user:"+pubkey, UserStatsTTL, func(ctx context.Context) (any, error) {
		out := &domain.UserZapStats{PubKey: pubkey}
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			events, err := s.userReceipts(gctx, "P", pubkey)
			out.SentCount = len(events)
			return err
		})
		g.Go(func() error {
			events, err := s.userReceipts(gctx, "p", pubkey)
			out.ReceivedCount = len(events)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, fmt.Errorf("user zap stats for %s: %w", pubkey, err)
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.UserZapStats), nil
}

func (s *StatsService) userReceipts(ctx context.Context, tag, pubkey string) ([]*domain.Event, error) {
	return queryRelays(ctx, s.relay, s.timeout, domain.Filter{
		Kinds: []int{domain.KindZapReceipt},
		Tags:  map[string][]string{tag: {pubkey}},
		Limit: stats.UserZapQueryLimit,
	})
}

// Invalidate drops every memoised value for eventID or pubkey.
func (s *StatsService) Invalidate(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.memo, "zaps:"+key)
	delete(s.memo, "comments:"+key)
	delete(s.memo, "user:"+key)
}

// memoised returns a fresh memo entry for key or computes it once.
// Failures are not memoised. The shared fetch is detached from any single
// caller's cancellation; each caller stops waiting when its own ctx ends.
func (s *StatsService) memoised(ctx context.Context, key string, ttl time.Duration, fetch func(context.Context) (any, error)) (any, error) {
	s.mu.Lock()
	if e, ok := s.memo[key]; ok && s.now().Before(e.expires) {
		s.mu.Unlock()
		return e.value, nil
	}
	s.mu.Unlock()

	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (any, error) {
		value, err := fetch(shared)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.memo[key] = memoEntry{value: value, expires: s.now().Add(ttl)}
		s.mu.Unlock()
		return value, nil
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", domain.ErrQueryTimeout, ctx.Err())
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrQueryFailed, ctx.Err())
	}
}
