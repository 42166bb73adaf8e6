package driven

import (
	"github.com/custodia-labs/scholarstr/internal/core/domain"
)

// PaperNormaliser classifies relay events and converts qualifying ones to papers.
type PaperNormaliser interface {
	// Kind returns the event kind this normaliser handles.
	Kind() int

	// Accepts reports whether ev qualifies as a paper. It has no side effects.
	Accepts(ev *domain.Event) bool

	// Normalise converts ev into a paper.
	// Returns an error wrapping domain.ErrInvalidInput when ev does not qualify.
	Normalise(ev *domain.Event) (*domain.Paper, error)
}
