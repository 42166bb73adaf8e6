package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/scholarstr/internal/core/domain"
	"github.com/custodia-labs/scholarstr/internal/timestamp"
)

// defaultLimit applies when a tool call omits limit.
const defaultLimit = 10

// SearchInput is the input schema for the search_papers tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"text to find in paper titles, abstracts and keywords (at least 3 characters)"`
	Topic string `json:"topic,omitempty" jsonschema:"restrict to one topic such as physics; query may then be empty"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// PaperListOutput is the output schema for paper listings.
type PaperListOutput struct {
	Papers []PaperSummary `json:"papers"`
	Count  int            `json:"count"`
}

// PaperSummary is a paper without its body.
type PaperSummary struct {
	ID          string   `json:"id"`
	Author      string   `json:"author"`
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Abstract    string   `json:"abstract"`
	Authors     string   `json:"authors"`
	Topics      []string `json:"topics"`
	PublishedAt string   `json:"published_at"`
	Anonymous   bool     `json:"anonymous"`
}

// GetPaperInput is the input schema for the get_paper tool.
type GetPaperInput struct {
	Author string `json:"author" jsonschema:"hex public key of the publishing author"`
	Slug   string `json:"slug" jsonschema:"the paper's d tag"`
}

// GetPaperOutput is the output schema for the get_paper tool.
type GetPaperOutput struct {
	PaperSummary
	Keywords    []string `json:"keywords,omitempty"`
	DOI         string   `json:"doi,omitempty"`
	Institution string   `json:"institution,omitempty"`
	Content     string   `json:"content"`
}

// EventInput names a target event.
type EventInput struct {
	EventID string `json:"event_id" jsonschema:"hex id of the paper event"`
}

// ZapStatsOutput is the output schema for the zap_stats tool.
type ZapStatsOutput struct {
	TotalZaps     int     `json:"total_zaps"`
	TotalSats     float64 `json:"total_sats"`
	AverageSats   int64   `json:"average_sats"`
	UniqueZappers int     `json:"unique_zappers"`
}

// CommentCountOutput is the output schema for the comment_count tool.
type CommentCountOutput struct {
	EventID string `json:"event_id"`
	Count   int    `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_papers",
		Description: "Search research papers published on Nostr relays",
	}, s.handleSearchPapers)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_paper",
		Description: "Fetch one research paper, including its full markdown body",
	}, s.handleGetPaper)

	if s.ports.Stats == nil {
		return
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "zap_stats",
		Description: "Lightning zap totals for a paper, in sats",
	}, s.handleZapStats)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "comment_count",
		Description: "Number of thread comments on a paper",
	}, s.handleCommentCount)
}

// handleSearchPapers handles the search_papers tool invocation.
func (s *Server) handleSearchPapers(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, PaperListOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	var (
		papers []*domain.Paper
		err    error
	)
	if input.Topic != "" && input.Query == "" {
		papers, err = s.ports.Papers.ByTopic(ctx, input.Topic, limit)
	} else {
		papers, err = s.ports.Papers.Search(ctx, input.Query, limit)
	}
	if err != nil {
		return nil, PaperListOutput{}, err
	}

	now := s.now()
	output := PaperListOutput{Papers: make([]PaperSummary, 0, len(papers))}
	for _, p := range papers {
		if input.Topic != "" && input.Query != "" && !hasTopic(p, input.Topic) {
			continue
		}
		output.Papers = append(output.Papers, summarise(p, now))
	}
	output.Count = len(output.Papers)

	return nil, output, nil
}

// handleGetPaper handles the get_paper tool invocation.
func (s *Server) handleGetPaper(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetPaperInput,
) (*mcp.CallToolResult, GetPaperOutput, error) {
	p, err := s.ports.Papers.Get(ctx, input.Author, input.Slug)
	if err != nil {
		return nil, GetPaperOutput{}, err
	}

	return nil, GetPaperOutput{
		PaperSummary: summarise(p, s.now()),
		Keywords:     p.Keywords,
		DOI:          p.DOI,
		Institution:  p.Institution,
		Content:      p.Content,
	}, nil
}

// handleZapStats handles the zap_stats tool invocation.
func (s *Server) handleZapStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input EventInput,
) (*mcp.CallToolResult, ZapStatsOutput, error) {
	zs, err := s.ports.Stats.ZapStats(ctx, input.EventID)
	if err != nil {
		return nil, ZapStatsOutput{}, err
	}

	return nil, ZapStatsOutput{
		TotalZaps:     zs.TotalZaps,
		TotalSats:     zs.TotalSats,
		AverageSats:   zs.AverageSats,
		UniqueZappers: zs.UniqueZappers,
	}, nil
}

// handleCommentCount handles the comment_count tool invocation.
func (s *Server) handleCommentCount(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input EventInput,
) (*mcp.CallToolResult, CommentCountOutput, error) {
	n, err := s.ports.Stats.CommentCount(ctx, input.EventID)
	if err != nil {
		return nil, CommentCountOutput{}, err
	}
	return nil, CommentCountOutput{EventID: input.EventID, Count: n}, nil
}

// summarise hides the author list while the anonymity window is open.
func summarise(p *domain.Paper, now time.Time) PaperSummary {
	published := timestamp.FormatDate(p.PublishedAt.Unix(), timestamp.DefaultLayout)
	if !p.PublishedAtValid {
		published = timestamp.InvalidDate
	}
	return PaperSummary{
		ID:          p.ID,
		Author:      p.Author,
		Slug:        p.Slug,
		Title:       p.Title,
		Abstract:    p.Abstract,
		Authors:     p.DisplayAuthor(now),
		Topics:      p.Topics,
		PublishedAt: published,
		Anonymous:   p.Anonymity(now).Anonymous,
	}
}

func hasTopic(p *domain.Paper, topic string) bool {
	for _, t := range p.Topics {
		if t == topic {
			return true
		}
	}
	return false
}
