package driven

import (
	"context"

	"github.com/custodia-labs/scholarstr/internal/core/domain"
)

// RelayClient queries and publishes events on a set of relays.
// Implementations fan out to every relay and merge results by event id.
type RelayClient interface {
	// Query returns events matching filter from all reachable relays.
	// It fails only when every relay fails. Errors wrap domain.ErrQueryTimeout
	// when the context deadline elapsed and domain.ErrQueryFailed otherwise.
	Query(ctx context.Context, filter domain.Filter) ([]*domain.Event, error)

	// Publish sends a signed event to every relay.
	// It succeeds when at least one relay accepts; otherwise the error wraps
	// domain.ErrPublishFailed.
	Publish(ctx context.Context, ev *domain.Event) error

	// Relays returns the relay URLs in use.
	Relays() []string

	// SetRelays replaces the relay set. Connections to removed relays are closed.
	SetRelays(urls []string) error

	// Close releases all connections.
	Close() error
}

// Signer signs events with the user's key.
type Signer interface {
	// PublicKey returns the hex public key.
	PublicKey() string

	// Sign sets PubKey, ID and Sig on ev. CreatedAt is set to now when zero.
	Sign(ev *domain.Event) error
}
