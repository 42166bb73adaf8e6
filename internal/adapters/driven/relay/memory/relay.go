// Package memory provides an in-process relay for tests and offline demos.
package memory

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/scholarstr/internal/core/domain"
	"github.com/custodia-labs/scholarstr/internal/core/ports/driven"
)

// Ensure Relay implements the interface.
var _ driven.RelayClient = (*Relay)(nil)

// Relay is an in-memory implementation of driven.RelayClient.
// Query honours the filter and limit, returning newest events first.
type Relay struct {
	mu         sync.RWMutex
	events     map[string]*domain.Event
	urls       []string
	closed     bool
	queryErr   error
	publishErr error
	queries    []domain.Filter
	blockQuery bool
}

// NewRelay creates an empty relay seeded with events.
func NewRelay(events ...*domain.Event) *Relay {
	r := &Relay{
		events: make(map[string]*domain.Event),
		urls:   []string{"memory://"},
	}
	for _, ev := range events {
		r.Add(ev)
	}
	return r
}

// Add stores ev, assigning an id if it has none.
func (r *Relay) Add(ev *domain.Event) {
	if ev.ID == "" {
		ev.ID = eventID(ev)
	}
	ev.Reindex()
	r.mu.Lock()
	r.events[ev.ID] = ev
	r.mu.Unlock()
}

// FailQueries makes every subsequent Query return err (nil restores).
func (r *Relay) FailQueries(err error) {
	r.mu.Lock()
	r.queryErr = err
	r.mu.Unlock()
}

// FailPublish makes every subsequent Publish return err (nil restores).
func (r *Relay) FailPublish(err error) {
	r.mu.Lock()
	r.publishErr = err
	r.mu.Unlock()
}

// BlockQueries makes Query wait for its context to end.
func (r *Relay) BlockQueries(block bool) {
	r.mu.Lock()
	r.blockQuery = block
	r.mu.Unlock()
}

// Queries returns the filters received so far.
func (r *Relay) Queries() []domain.Filter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Filter, len(r.queries))
	copy(out, r.queries)
	return out
}

// Query returns stored events matching filter.
func (r *Relay) Query(ctx context.Context, filter domain.Filter) ([]*domain.Event, error) {
	r.mu.Lock()
	r.queries = append(r.queries, filter)
	closed, qerr, block := r.closed, r.queryErr, r.blockQuery
	r.mu.Unlock()

	if closed {
		return nil, domain.ErrRelayClosed
	}
	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if qerr != nil {
		return nil, qerr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	out := make([]*domain.Event, 0)
	for _, ev := range r.events {
		if filter.Matches(ev) {
			out = append(out, ev)
		}
	}
	r.mu.RUnlock()

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

// Publish stores a signed event.
func (r *Relay) Publish(_ context.Context, ev *domain.Event) error {
	r.mu.RLock()
	closed, perr := r.closed, r.publishErr
	r.mu.RUnlock()

	if closed {
		return domain.ErrRelayClosed
	}
	if perr != nil {
		return perr
	}
	if ev.ID == "" || ev.Sig == "" {
		return fmt.Errorf("event is not signed: %w", domain.ErrInvalidInput)
	}
	r.Add(ev)
	return nil
}

// Relays returns the relay URLs in use.
func (r *Relay) Relays() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.urls))
	copy(out, r.urls)
	return out
}

// SetRelays records urls; the stored events are shared by all of them.
func (r *Relay) SetRelays(urls []string) error {
	if len(urls) == 0 {
		return domain.ErrNoRelays
	}
	r.mu.Lock()
	r.urls = append([]string(nil), urls...)
	r.mu.Unlock()
	return nil
}

// Close marks the relay closed.
func (r *Relay) Close() error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	return nil
}

func eventID(ev *domain.Event) string {
	raw, _ := json.Marshal([]any{0, ev.PubKey, ev.CreatedAt, ev.Kind, ev.Tags, ev.Content})
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// Signer is a deterministic test signer. It does not produce valid
// signatures.
type Signer struct {
	PubKey string
	Now    func() int64
}

// Ensure Signer implements the interface.
var _ driven.Signer = (*Signer)(nil)

// PublicKey returns the configured public key.
func (s *Signer) PublicKey() string {
	return s.PubKey
}

// Sign fills PubKey, CreatedAt, ID and a placeholder Sig.
func (s *Signer) Sign(ev *domain.Event) error {
	ev.PubKey = s.PubKey
	if ev.CreatedAt == 0 && s.Now != nil {
		ev.CreatedAt = s.Now()
	}
	ev.ID = eventID(ev)
	ev.Sig = "sig-" + ev.ID[:16]
	return nil
}
