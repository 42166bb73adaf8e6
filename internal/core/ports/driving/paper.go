package driving

import (
	"context"

	"github.com/custodia-labs/scholarstr/internal/core/domain"
)

// PaperService provides paper discovery and publishing.
type PaperService interface {
	// Feed returns the newest research papers.
	Feed(ctx context.Context, limit int) ([]*domain.Paper, error)

	// Get returns the paper with the given author and slug.
	// Returns domain.ErrNotFound if no qualifying event exists.
	Get(ctx context.Context, author, slug string) (*domain.Paper, error)

	// GetByID returns a paper by event id.
	GetByID(ctx context.Context, id string) (*domain.Paper, error)

	// ByTopic returns papers tagged with topic.
	ByTopic(ctx context.Context, topic string, limit int) ([]*domain.Paper, error)

	// Search returns papers whose title, abstract or keywords contain query.
	// Queries shorter than three characters return no results.
	Search(ctx context.Context, query string, limit int) ([]*domain.Paper, error)

	// Submit validates and publishes a new paper.
	Submit(ctx context.Context, sub domain.PaperSubmission) (*domain.Paper, error)
}
