package nostr

import (
	"context"
	"fmt"
	"sync"
	"time"

	gonostr "github.com/nbd-wtf/go-nostr"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/scholarstr/internal/logger"
)

// Session is the subset of *gonostr.Relay the pool uses.
type Session interface {
	QuerySync(ctx context.Context, filter gonostr.Filter, opts ...gonostr.SubscriptionOption) ([]*gonostr.Event, error)
	Publish(ctx context.Context, ev gonostr.Event) error
	Close() error
}

// Dialer opens a session to one relay.
type Dialer func(ctx context.Context, url string) (Session, error)

func dialRelay(ctx context.Context, url string) (Session, error) {
	r, err := gonostr.RelayConnect(ctx, url)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// BreakerConfig controls the per-relay circuit breaker.
type BreakerConfig struct {
	// MaxRequests allowed while half-open.
	MaxRequests uint32
	// Interval after which closed-state counts reset.
	Interval time.Duration
	// Timeout spent open before probing again.
	Timeout time.Duration
	// FailureThreshold is the failure ratio that trips the breaker.
	FailureThreshold float64
	// MinRequests before the ratio is considered.
	MinRequests uint32
}

// DefaultBreakerConfig returns the breaker settings used for public relays.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      1,
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      3,
	}
}

// relayConn is one relay: a lazily dialled session behind a limiter and a breaker.
type relayConn struct {
	url     string
	dial    Dialer
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker

	mu   sync.Mutex
	sess Session
}

func newRelayConn(url string, dial Dialer, rps float64, burst int, bc BreakerConfig) *relayConn {
	return &relayConn{
		url:     url,
		dial:    dial,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        url,
			MaxRequests: bc.MaxRequests,
			Interval:    bc.Interval,
			Timeout:     bc.Timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				if counts.Requests < bc.MinRequests {
					return false
				}
				return float64(counts.TotalFailures)/float64(counts.Requests) >= bc.FailureThreshold
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("relay %s: circuit %s -> %s", name, from, to)
			},
		}),
	}
}

// open returns the open session, dialling if needed.
func (c *relayConn) open(ctx context.Context) (Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess != nil {
		return c.sess, nil
	}
	sess, err := c.dial(ctx, c.url)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", c.url, err)
	}
	c.sess = sess
	logger.Debug("relay %s: connected", c.url)
	return sess, nil
}

// reset drops the session so the next call re-dials.
func (c *relayConn) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess != nil {
		_ = c.sess.Close()
		c.sess = nil
	}
}

// query runs filter on this relay. A query cut short by ctx is a failure,
// never a partial result.
func (c *relayConn) query(ctx context.Context, filter gonostr.Filter) ([]*gonostr.Event, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	v, err := c.breaker.Execute(func() (any, error) {
		sess, err := c.open(ctx)
		if err != nil {
			return nil, err
		}
		events, err := sess.QuerySync(ctx, filter)
		if err != nil {
			c.reset()
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return events, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*gonostr.Event), nil
}

// publish sends ev to this relay.
func (c *relayConn) publish(ctx context.Context, ev gonostr.Event) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err := c.breaker.Execute(func() (any, error) {
		sess, err := c.open(ctx)
		if err != nil {
			return nil, err
		}
		if err := sess.Publish(ctx, ev); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}

func (c *relayConn) close() {
	c.reset()
}
