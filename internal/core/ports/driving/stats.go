package driving

import (
	"context"

	"github.com/custodia-labs/scholarstr/internal/core/domain"
)

// StatsService provides derived statistics for events and users.
type StatsService interface {
	// ZapStats aggregates zap receipts referencing eventID.
	ZapStats(ctx context.Context, eventID string) (*domain.ZapStats, error)

	// CommentCount counts thread comments referencing eventID.
	CommentCount(ctx context.Context, eventID string) (int, error)

	// UserZapStats counts zaps sent and received by pubkey.
	UserZapStats(ctx context.Context, pubkey string) (*domain.UserZapStats, error)
}
