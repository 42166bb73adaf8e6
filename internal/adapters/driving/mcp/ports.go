package mcp

import (
	"github.com/custodia-labs/scholarstr/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Papers provides paper discovery.
	Papers driving.PaperService

	// Stats provides zap and comment statistics. Optional: the stats tools
	// are not registered without it.
	Stats driving.StatsService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Papers == nil {
		return ErrMissingPaperService
	}
	return nil
}
