package nostr

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/scholarstr/internal/core/domain"
	"github.com/custodia-labs/scholarstr/internal/core/ports/driven"
	"github.com/custodia-labs/scholarstr/internal/logger"
)

// Ensure Pool implements the interface.
var _ driven.RelayClient = (*Pool)(nil)

// Config holds pool settings.
type Config struct {
	// RatePerSecond is the sustained request rate per relay.
	RatePerSecond float64
	// Burst is the token bucket size per relay.
	Burst int
	// Breaker configures the per-relay circuit breaker.
	Breaker BreakerConfig
	// Dial opens relay sessions. Defaults to a websocket connection.
	Dial Dialer
}

// Pool fans queries and publishes out to a set of relays.
type Pool struct {
	cfg Config

	mu     sync.RWMutex
	urls   []string
	conns  map[string]*relayConn
	closed bool
}

// NewPool creates a pool for urls. Connections are opened on first use.
func NewPool(urls []string, cfg Config) (*Pool, error) {
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = domain.DefaultRatePerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = int(cfg.RatePerSecond) * 2
	}
	if cfg.Breaker.MinRequests == 0 {
		cfg.Breaker = DefaultBreakerConfig()
	}
	if cfg.Dial == nil {
		cfg.Dial = dialRelay
	}
	p := &Pool{cfg: cfg, conns: make(map[string]*relayConn)}
	if err := p.SetRelays(urls); err != nil {
		return nil, err
	}
	return p, nil
}

// Query returns the merged, de-duplicated results of every relay, newest
// first and truncated to filter.Limit. It fails only when all relays fail.
func (p *Pool) Query(ctx context.Context, filter domain.Filter) ([]*domain.Event, error) {
	conns, err := p.snapshot()
	if err != nil {
		return nil, err
	}
	wire := toFilter(filter)

	var (
		mu     sync.Mutex
		seen   = make(map[string]*domain.Event)
		errs   []error
		failed int
	)
	var g errgroup.Group
	for _, c := range conns {
		g.Go(func() error {
			events, err := c.query(ctx, wire)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				errs = append(errs, fmt.Errorf("%s: %w", c.url, err))
				logger.Debug("relay %s: query failed: %v", c.url, err)
				return nil
			}
			for _, ev := range events {
				if _, ok := seen[ev.ID]; !ok {
					seen[ev.ID] = fromEvent(ev)
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	if failed == len(conns) {
		joined := errors.Join(errs...)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", domain.ErrQueryTimeout, joined)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrQueryFailed, joined)
	}

	out := make([]*domain.Event, 0, len(seen))
	for _, ev := range seen {
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt == out[j].CreatedAt {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt > out[j].CreatedAt
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// Publish sends ev to every relay and succeeds when at least one accepts.
func (p *Pool) Publish(ctx context.Context, ev *domain.Event) error {
	conns, err := p.snapshot()
	if err != nil {
		return err
	}
	wire := toEvent(ev)

	var (
		mu       sync.Mutex
		accepted int
		errs     []error
	)
	var g errgroup.Group
	for _, c := range conns {
		g.Go(func() error {
			err := c.publish(ctx, wire)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", c.url, err))
				return nil
			}
			accepted++
			return nil
		})
	}
	_ = g.Wait()

	if accepted == 0 {
		return fmt.Errorf("%w: %w", domain.ErrPublishFailed, errors.Join(errs...))
	}
	logger.Debug("published %s to %d/%d relays", ev.ID, accepted, len(conns))
	return nil
}

// Relays returns the relay URLs in use.
func (p *Pool) Relays() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]string, len(p.urls))
	copy(out, p.urls)
	return out
}

// SetRelays replaces the relay set, keeping connections to relays that stay.
func (p *Pool) SetRelays(urls []string) error {
	if len(urls) == 0 {
		return domain.ErrNoRelays
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return domain.ErrRelayClosed
	}

	next := make(map[string]*relayConn, len(urls))
	ordered := make([]string, 0, len(urls))
	for _, u := range urls {
		if _, dup := next[u]; dup {
			continue
		}
		if c, ok := p.conns[u]; ok {
			next[u] = c
		} else {
			next[u] = newRelayConn(u, p.cfg.Dial, p.cfg.RatePerSecond, p.cfg.Burst, p.cfg.Breaker)
		}
		ordered = append(ordered, u)
	}
	for u, c := range p.conns {
		if _, keep := next[u]; !keep {
			c.close()
		}
	}
	p.conns = next
	p.urls = ordered
	return nil
}

// Close closes every connection. The pool cannot be reused.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range p.conns {
		c.close()
	}
	p.conns = nil
	p.closed = true
	return nil
}

func (p *Pool) snapshot() ([]*relayConn, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return nil, domain.ErrRelayClosed
	}
	if len(p.conns) == 0 {
		return nil, domain.ErrNoRelays
	}
	out := make([]*relayConn, 0, len(p.urls))
	for _, u := range p.urls {
		out = append(out, p.conns[u])
	}
	return out, nil
}
