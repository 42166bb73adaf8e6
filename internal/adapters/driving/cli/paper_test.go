package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scholarstr/internal/core/domain"
)

func TestFeedCmd(t *testing.T) {
	env, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "feed", "-n", "5")
	require.NoError(t, err)

	assert.Equal(t, 5, env.papers.lastLimit)
	assert.Contains(t, out, "[1] Title new")
	assert.Contains(t, out, "by Anonymous Researcher, May 22, 2024 (1 week ago)")
	assert.Contains(t, out, "[2] Title old")
	assert.Contains(t, out, "by Ada Lovelace, Jun 1, 2023")
	assert.Contains(t, out, "topics: research, physics")
	assert.Contains(t, out, "pk-new/slug-new")
}

func TestFeedCmd_JSON(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "feed", "--json")
	require.NoError(t, err)

	var papers []domain.Paper
	require.NoError(t, json.Unmarshal([]byte(out), &papers))
	assert.Len(t, papers, 2)
}

func TestFeedCmd_Empty(t *testing.T) {
	env, cleanup := setupTestServices()
	defer cleanup()
	env.papers.papers = nil

	out, err := execute(t, "feed")
	require.NoError(t, err)
	assert.Contains(t, out, "No papers found.")
}

func TestFeedCmd_RelayFailure(t *testing.T) {
	env, cleanup := setupTestServices()
	defer cleanup()
	env.papers.err = domain.ErrQueryTimeout

	_, err := execute(t, "feed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
	assert.Contains(t, err.Error(), "hint:")
}

func TestFeedCmd_InvalidPublishDate(t *testing.T) {
	env, cleanup := setupTestServices()
	defer cleanup()
	p := testPaper("bad", testNow)
	p.PublishedAtValid = false
	env.papers.papers = []*domain.Paper{p}

	out, err := execute(t, "feed")
	require.NoError(t, err)
	assert.Contains(t, out, "by Ada Lovelace, Invalid date")
}

func TestPaperGetCmd(t *testing.T) {
	env, cleanup := setupTestServices()
	defer cleanup()
	env.papers.paper.Keywords = []string{"qubits", "noise"}
	env.papers.paper.DOI = "10.1000/xyz"

	out, err := execute(t, "paper", "get", "pk-new", "slug-new", "--content")
	require.NoError(t, err)

	assert.Contains(t, out, "Title new\n=========")
	assert.Contains(t, out, "Authors:     Anonymous Researcher")
	assert.Contains(t, out, "Anonymity:   until Aug 20, 2024")
	assert.Contains(t, out, "Keywords:    qubits, noise")
	assert.Contains(t, out, "DOI:         10.1000/xyz")
	assert.Contains(t, out, "Zap limit:   10 sats")
	assert.Contains(t, out, "The quick brown fox")
}

func TestPaperGetCmd_NotFound(t *testing.T) {
	env, cleanup := setupTestServices()
	defer cleanup()
	env.papers.err = domain.ErrNotFound

	_, err := execute(t, "paper", "get", "pk", "missing")
	require.Error(t, err)
	assert.Equal(t, "paper not found", err.Error())
}

func TestPaperTopicCmd(t *testing.T) {
	env, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "paper", "topic", "physics", "-n", "3")
	require.NoError(t, err)
	assert.Equal(t, "physics", env.papers.lastTopic)
	assert.Equal(t, 3, env.papers.lastLimit)
	assert.Contains(t, out, "Title new")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a b c", truncate("a\n  b\tc", 10))
	long := strings.Repeat("é", 20)
	got := truncate(long, 10)
	assert.Equal(t, 10, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "..."))
}
