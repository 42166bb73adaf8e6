package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/scholarstr/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for scholarstr resources.
	uriScheme = "scholarstr://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "papers",
		Name:        "papers",
		Description: "The newest research papers",
		MIMEType:    "application/json",
	}, s.handleFeedResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "topics",
		Name:        "topics",
		Description: "Research topics accepted on submission",
		MIMEType:    "application/json",
	}, s.handleTopicsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "papers/{author}/{slug}",
		Name:        "paper-content",
		Description: "Markdown body of a specific paper",
		MIMEType:    "text/markdown",
	}, s.handlePaperContentResource)
}

// handleFeedResource returns summaries of the newest papers.
func (s *Server) handleFeedResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	papers, err := s.ports.Papers.Feed(ctx, domain.DefaultFeedLimit)
	if err != nil {
		return nil, fmt.Errorf("loading feed: %w", err)
	}

	now := s.now()
	infos := make([]PaperSummary, len(papers))
	for i, p := range papers {
		infos[i] = summarise(p, now)
	}

	return jsonResource(req.Params.URI, infos)
}

// handleTopicsResource returns the topic catalogue.
func (s *Server) handleTopicsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return jsonResource(req.Params.URI, domain.ResearchTopics)
}

// handlePaperContentResource returns the body of a specific paper.
func (s *Server) handlePaperContentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	author, slug := extractPaperAddress(req.Params.URI)
	if author == "" || slug == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	p, err := s.ports.Papers.Get(ctx, author, slug)
	if err != nil {
		return nil, fmt.Errorf("getting paper: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     p.Content,
		}},
	}, nil
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractPaperAddress extracts author and slug from scholarstr://papers/{author}/{slug}.
func extractPaperAddress(uri string) (author, slug string) {
	const prefix = uriScheme + "papers/"

	if !strings.HasPrefix(uri, prefix) {
		return "", ""
	}

	parts := strings.SplitN(strings.TrimPrefix(uri, prefix), "/", 2)
	if len(parts) != 2 {
		return "", ""
	}
	return parts[0], parts[1]
}
