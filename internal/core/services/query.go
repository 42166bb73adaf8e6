package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/scholarstr/internal/core/domain"
	"github.com/custodia-labs/scholarstr/internal/core/ports/driven"
)

// queryRelays runs filter with timeout layered on ctx and classifies failures.
func queryRelays(ctx context.Context, relay driven.RelayClient, timeout time.Duration, filter domain.Filter) ([]*domain.Event, error) {
	if relay == nil {
		return nil, domain.ErrNoRelays
	}

	qctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	events, err := relay.Query(qctx, filter)
	if err == nil {
		return events, nil
	}

	switch {
	case errors.Is(err, domain.ErrQueryTimeout), errors.Is(err, domain.ErrQueryFailed), errors.Is(err, domain.ErrNoRelays):
		return nil, err
	case errors.Is(qctx.Err(), context.DeadlineExceeded):
		return nil, fmt.Errorf("%w after %s: %v", domain.ErrQueryTimeout, timeout, err)
	default:
		return nil, fmt.Errorf("%w: %w", domain.ErrQueryFailed, err)
	}
}
