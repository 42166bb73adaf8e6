package driven

import (
	"context"

	"github.com/custodia-labs/scholarstr/internal/core/domain"
)

// RefreshStore persists the outcome of background feed refreshes so that a
// later process can tell how fresh the paper cache is.
type RefreshStore interface {
	// SaveRefresh records status under name, replacing the previous record.
	SaveRefresh(ctx context.Context, name string, status domain.RefreshStatus) error

	// GetRefresh returns the record for name.
	// Returns domain.ErrNotFound if nothing was recorded yet.
	GetRefresh(ctx context.Context, name string) (*domain.RefreshStatus, error)
}
