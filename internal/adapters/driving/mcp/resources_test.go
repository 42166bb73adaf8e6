package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scholarstr/internal/core/domain"
)

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}}
}

func TestServer_handleFeedResource(t *testing.T) {
	papers := &mockPaperService{papers: []*domain.Paper{testPaper("a", testNow, "research")}}
	server := newTestServer(t, papers, nil)

	res, err := server.handleFeedResource(context.Background(), readRequest("scholarstr://papers"))
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	assert.Equal(t, "application/json", res.Contents[0].MIMEType)

	var got []PaperSummary
	require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}

func TestServer_handleTopicsResource(t *testing.T) {
	server := newTestServer(t, &mockPaperService{}, nil)

	res, err := server.handleTopicsResource(context.Background(), readRequest("scholarstr://topics"))
	require.NoError(t, err)

	var got []string
	require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &got))
	assert.Equal(t, domain.ResearchTopics, got)
}

func TestServer_handlePaperContentResource(t *testing.T) {
	server := newTestServer(t, &mockPaperService{paper: testPaper("a", testNow)}, nil)

	res, err := server.handlePaperContentResource(context.Background(), readRequest("scholarstr://papers/pk-a/slug-a"))
	require.NoError(t, err)
	assert.Equal(t, "# Body", res.Contents[0].Text)
	assert.Equal(t, "text/markdown", res.Contents[0].MIMEType)

	_, err = server.handlePaperContentResource(context.Background(), readRequest("scholarstr://papers/only-author"))
	assert.Error(t, err)
}

func TestExtractPaperAddress(t *testing.T) {
	tests := []struct {
		uri          string
		author, slug string
	}{
		{"scholarstr://papers/pk/slug", "pk", "slug"},
		{"scholarstr://papers/pk/paper-1700000000000-abc", "pk", "paper-1700000000000-abc"},
		{"scholarstr://papers/pk", "", ""},
		{"other://papers/pk/slug", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			author, slug := extractPaperAddress(tt.uri)
			assert.Equal(t, tt.author, author)
			assert.Equal(t, tt.slug, slug)
		})
	}
}
