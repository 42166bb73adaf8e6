package search

import "errors"

// Error definitions for the search view.
var (
	// ErrNoPaperService indicates that no paper service was provided.
	ErrNoPaperService = errors.New("paper service is required")
)
