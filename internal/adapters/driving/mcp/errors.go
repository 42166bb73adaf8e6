// Package mcp provides an MCP (Model Context Protocol) server adapter for scholarstr.
// It lets AI assistants discover research papers and read their zap and comment statistics.
package mcp

import "errors"

// ErrMissingPaperService is returned when the paper service is not provided.
var ErrMissingPaperService = errors.New("mcp: paper service is required")
