package driven

import (
	"context"

	"github.com/custodia-labs/scholarstr/internal/core/domain"
)

// PaperStore caches papers for offline reads.
type PaperStore interface {
	// SavePaper stores or replaces a paper, keyed by its address.
	// A paper older than the cached revision of the same address is ignored.
	SavePaper(ctx context.Context, paper *domain.Paper) error

	// GetPaper retrieves the cached revision for an author and slug.
	// Returns domain.ErrNotFound if absent.
	GetPaper(ctx context.Context, author, slug string) (*domain.Paper, error)

	// GetPaperByID retrieves a cached paper by event id.
	// Returns domain.ErrNotFound if absent.
	GetPaperByID(ctx context.Context, id string) (*domain.Paper, error)

	// ListPapers returns cached papers newest first, optionally filtered by topic.
	ListPapers(ctx context.Context, topic string, limit int) ([]*domain.Paper, error)

	// DeletePaper removes a cached paper by event id.
	DeletePaper(ctx context.Context, id string) error
}
