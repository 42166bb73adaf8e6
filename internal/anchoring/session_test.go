package anchoring

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scholarstr/internal/core/domain"
)

type fakePublisher struct {
	events []*domain.Event
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, ev *domain.Event) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	signed := *ev
	signed.ID = "published-id"
	signed.PubKey = "reviewer"
	f.events = append(f.events, &signed)
	return &signed, nil
}

func testPaper() *domain.Paper {
	return &domain.Paper{
		ID:      "paper-id",
		Author:  "author-pk",
		Slug:    "paper-1",
		Content: "The quick brown fox",
	}
}

func newTestSession(pub Publisher) (*Session, *TextRegion) {
	p := testPaper()
	region := NewTextRegion(p.Content)
	return NewSession(p, region, pub), region
}

func TestSession_AttachDetach(t *testing.T) {
	s, region := newTestSession(&fakePublisher{})

	s.Attach()
	s.Attach()
	assert.True(t, s.Attached())
	assert.Equal(t, 1, region.Subscribers())

	s.Detach()
	assert.False(t, s.Attached())
	assert.Zero(t, region.Subscribers())
}

func TestSession_SubmitAnchoredComment(t *testing.T) {
	pub := &fakePublisher{}
	s, region := newTestSession(pub)
	s.Attach()

	require.NoError(t, region.Select(4, 9))
	sel, ok := s.Selection()
	require.True(t, ok)
	assert.Equal(t, domain.Selection{Start: 4, End: 9, Text: "quick"}, sel)

	c, err := s.Submit(context.Background(), "  nice word  ")
	require.NoError(t, err)

	assert.Equal(t, "nice word", c.Content)
	assert.Equal(t, "published-id", c.EventID)
	assert.Equal(t, "reviewer", c.Author)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, sel, c.Selection)

	_, pending := s.Selection()
	assert.False(t, pending)
	assert.Len(t, s.Comments(), 1)
	assert.Equal(t, "The "+span(c.ID, "quick")+" brown fox", s.Render())

	require.Len(t, pub.events, 1)
	ev := pub.events[0]
	assert.Equal(t, domain.KindComment, ev.Kind)
	assert.Equal(t, "nice word", ev.Content)
}

func TestSession_RejectsOverlap(t *testing.T) {
	s, region := newTestSession(&fakePublisher{})
	s.Attach()

	require.NoError(t, region.Select(4, 9))
	_, err := s.Submit(context.Background(), "first")
	require.NoError(t, err)

	require.NoError(t, region.Select(6, 15))
	_, err = s.Submit(context.Background(), "second")
	assert.True(t, errors.Is(err, domain.ErrOverlappingSelection))
	assert.Len(t, s.Comments(), 1)

	require.NoError(t, region.Select(10, 15))
	_, err = s.Submit(context.Background(), "third")
	require.NoError(t, err)
	assert.Len(t, s.Comments(), 2)
}

func TestSession_SubmitErrors(t *testing.T) {
	s, region := newTestSession(&fakePublisher{})

	_, err := s.Submit(context.Background(), "text")
	assert.True(t, errors.Is(err, domain.ErrSessionDetached))

	s.Attach()
	_, err = s.Submit(context.Background(), "text")
	assert.True(t, errors.Is(err, domain.ErrEmptySelection))

	require.NoError(t, region.Select(0, 3))
	_, err = s.Submit(context.Background(), "   ")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestSession_PublishFailureKeepsSelection(t *testing.T) {
	pub := &fakePublisher{err: domain.ErrPublishFailed}
	s, region := newTestSession(pub)
	s.Attach()

	require.NoError(t, region.Select(4, 9))
	_, err := s.Submit(context.Background(), "comment")

	assert.True(t, errors.Is(err, domain.ErrPublishFailed))
	assert.Empty(t, s.Comments())
	_, pending := s.Selection()
	assert.True(t, pending)
}

func TestSession_DetachDiscardsComments(t *testing.T) {
	s, region := newTestSession(&fakePublisher{})
	s.Attach()

	require.NoError(t, region.Select(4, 9))
	_, err := s.Submit(context.Background(), "comment")
	require.NoError(t, err)

	s.Detach()
	assert.Empty(t, s.Comments())

	// events after detach are ignored
	require.NoError(t, region.Select(0, 3))
	_, pending := s.Selection()
	assert.False(t, pending)
}

func TestBuildCommentEvent(t *testing.T) {
	ev := BuildCommentEvent(testPaper(), domain.Selection{Start: 4, End: 9, Text: "quick"}, "comment")

	assert.Equal(t, domain.KindComment, ev.Kind)
	assert.Equal(t, []domain.Tag{
		{"A", "30023:author-pk:paper-1"},
		{"K", "30023"},
		{"P", "author-pk"},
		{"a", "30023:author-pk:paper-1"},
		{"k", "30023"},
		{"p", "author-pk"},
		{"e", "paper-id"},
		{"selection", "4", "9", "quick"},
	}, ev.Tags)

	sel, ok := SelectionFromEvent(ev)
	require.True(t, ok)
	assert.Equal(t, domain.Selection{Start: 4, End: 9, Text: "quick"}, sel)
}

func TestSelectionFromEvent_Invalid(t *testing.T) {
	tests := []domain.Tag{
		{"selection", "4", "9"},
		{"selection", "x", "9", "t"},
		{"selection", "4", "y", "t"},
		{"selection", "9", "4", "t"},
	}
	for _, tag := range tests {
		_, ok := SelectionFromEvent(&domain.Event{Tags: []domain.Tag{tag}})
		assert.False(t, ok, tag)
	}
}
