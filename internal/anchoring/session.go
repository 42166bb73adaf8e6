package anchoring

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/scholarstr/internal/core/domain"
	"github.com/custodia-labs/scholarstr/internal/logger"
)

// Publisher signs and publishes an event, returning the published form.
type Publisher interface {
	Publish(ctx context.Context, ev *domain.Event) (*domain.Event, error)
}

// Session owns the anchored comments made on one paper in one region.
type Session struct {
	submitMu    sync.Mutex
	mu          sync.Mutex
	paper       *domain.Paper
	region      Region
	publisher   Publisher
	unsubscribe func()
	pending     *domain.Selection
	comments    []domain.AnchoredComment
	now         func() time.Time
}

// NewSession creates a detached session for paper shown in region.
func NewSession(paper *domain.Paper, region Region, publisher Publisher) *Session {
	return &Session{
		paper:     paper,
		region:    region,
		publisher: publisher,
		now:       time.Now,
	}
}

// Paper returns the annotated paper.
func (s *Session) Paper() *domain.Paper {
	return s.paper
}

// Attach subscribes to the region's selection events.
// Attaching an attached session is a no-op.
func (s *Session) Attach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unsubscribe != nil {
		return
	}
	s.unsubscribe = s.region.Subscribe(s.handleSelection)
}

// Detach unsubscribes from the region and discards the session's comments
// and pending selection.
func (s *Session) Detach() {
	s.mu.Lock()
	unsub := s.unsubscribe
	s.unsubscribe = nil
	s.pending = nil
	s.comments = nil
	s.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

// Attached reports whether the session is listening to its region.
func (s *Session) Attached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unsubscribe != nil
}

func (s *Session) handleSelection(ev SelectionEvent) {
	sel, err := Capture(s.region.Segments(), ev)
	if err != nil {
		if !errors.Is(err, domain.ErrEmptySelection) {
			logger.Debug("ignoring selection: %v", err)
		}
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unsubscribe == nil {
		return
	}
	s.pending = &sel
}

// Selection returns the pending selection, if any.
func (s *Session) Selection() (domain.Selection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return domain.Selection{}, false
	}
	return *s.pending, true
}

// ClearSelection drops the pending selection.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	s.pending = nil
	s.mu.Unlock()
}

// Submit publishes text as a comment anchored at the pending selection.
// On success the comment is kept locally and the selection is cleared.
// Nothing is retried on publish failure.
func (s *Session) Submit(ctx context.Context, text string) (domain.AnchoredComment, error) {
	text = strings.TrimSpace(text)

	s.submitMu.Lock()
	defer s.submitMu.Unlock()

	s.mu.Lock()
	if s.unsubscribe == nil {
		s.mu.Unlock()
		return domain.AnchoredComment{}, domain.ErrSessionDetached
	}
	if s.pending == nil {
		s.mu.Unlock()
		return domain.AnchoredComment{}, domain.ErrEmptySelection
	}
	if text == "" {
		s.mu.Unlock()
		return domain.AnchoredComment{}, fmt.Errorf("comment text is empty: %w", domain.ErrInvalidInput)
	}
	sel := *s.pending
	for _, c := range s.comments {
		if c.Selection.Overlaps(sel) {
			s.mu.Unlock()
			return domain.AnchoredComment{}, fmt.Errorf("%s overlaps %s: %w", sel, c.Selection, domain.ErrOverlappingSelection)
		}
	}
	s.mu.Unlock()

	published, err := s.publisher.Publish(ctx, BuildCommentEvent(s.paper, sel, text))
	if err != nil {
		return domain.AnchoredComment{}, fmt.Errorf("publish anchored comment: %w", err)
	}

	comment := domain.AnchoredComment{
		ID:        uuid.NewString(),
		EventID:   published.ID,
		Content:   text,
		Author:    published.PubKey,
		CreatedAt: s.now(),
		Selection: sel,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unsubscribe == nil {
		// detached while publishing; the comment is on the relays but not kept here
		return comment, nil
	}
	s.comments = append(s.comments, comment)
	if s.pending != nil && *s.pending == sel {
		s.pending = nil
	}
	return comment, nil
}

// Comments returns a copy of the session's anchored comments in submission order.
func (s *Session) Comments() []domain.AnchoredComment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.AnchoredComment, len(s.comments))
	copy(out, s.comments)
	return out
}

// Render returns the paper content with the session's anchors highlighted.
func (s *Session) Render() string {
	return Render(s.paper.Content, s.Comments())
}
