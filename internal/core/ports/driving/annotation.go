package driving

import (
	"github.com/custodia-labs/scholarstr/internal/anchoring"
	"github.com/custodia-labs/scholarstr/internal/core/domain"
)

// AnnotationService opens anchored-comment sessions on papers.
type AnnotationService interface {
	// NewSession returns a detached session for paper shown in region.
	NewSession(paper *domain.Paper, region anchoring.Region) *anchoring.Session
}
