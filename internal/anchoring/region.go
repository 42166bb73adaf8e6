package anchoring

import (
	"fmt"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/custodia-labs/scholarstr/internal/core/domain"
)

// SelectionEvent reports a selection made inside a region.
// Segment and Offset locate the selection start; Text is the raw selected
// text, possibly with surrounding whitespace.
type SelectionEvent struct {
	Segment int
	Offset  int
	Text    string
}

// Region is a bounded content area that reports reader selections.
type Region interface {
	// Segments returns the rendered text of the region in display order.
	Segments() []string

	// Subscribe registers fn for selection events and returns a function
	// that removes the registration.
	Subscribe(fn func(SelectionEvent)) (unsubscribe func())
}

// Capture converts a selection event into a trimmed rune range relative to
// the start of the region's rendered text.
func Capture(segments []string, ev SelectionEvent) (domain.Selection, error) {
	if ev.Segment < 0 || ev.Segment >= len(segments) {
		return domain.Selection{}, fmt.Errorf("segment %d out of range: %w", ev.Segment, domain.ErrInvalidInput)
	}
	if ev.Offset < 0 || ev.Offset > utf8.RuneCountInString(segments[ev.Segment]) {
		return domain.Selection{}, fmt.Errorf("offset %d out of range: %w", ev.Offset, domain.ErrInvalidInput)
	}

	trimmed := strings.TrimSpace(ev.Text)
	if trimmed == "" {
		return domain.Selection{}, domain.ErrEmptySelection
	}

	start := ev.Offset
	for _, seg := range segments[:ev.Segment] {
		start += utf8.RuneCountInString(seg)
	}
	start += utf8.RuneCountInString(ev.Text) - utf8.RuneCountInString(strings.TrimLeftFunc(ev.Text, unicode.IsSpace))

	return domain.Selection{
		Start: start,
		End:   start + utf8.RuneCountInString(trimmed),
		Text:  trimmed,
	}, nil
}

// TextRegion is an in-memory Region over fixed text. It splits the text into
// one segment per line and lets callers emit selections by absolute offset.
type TextRegion struct {
	mu       sync.Mutex
	segments []string
	subs     map[int]func(SelectionEvent)
	nextID   int
}

// NewTextRegion creates a region over text.
func NewTextRegion(text string) *TextRegion {
	return &TextRegion{
		segments: strings.SplitAfter(text, "\n"),
		subs:     make(map[int]func(SelectionEvent)),
	}
}

// Segments returns the region's lines, each keeping its trailing newline.
func (r *TextRegion) Segments() []string {
	return r.segments
}

// Subscribe registers fn for selection events.
func (r *TextRegion) Subscribe(fn func(SelectionEvent)) func() {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.subs[id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.subs, id)
		r.mu.Unlock()
	}
}

// Subscribers returns the number of active subscriptions.
func (r *TextRegion) Subscribers() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}

// Select emits a selection of the runes [start, end) of the full text.
func (r *TextRegion) Select(start, end int) error {
	text := []rune(strings.Join(r.segments, ""))
	if start < 0 || end > len(text) || start >= end {
		return fmt.Errorf("selection [%d,%d) outside text of %d runes: %w", start, end, len(text), domain.ErrInvalidInput)
	}

	ev := SelectionEvent{Text: string(text[start:end])}
	offset := start
	for i, seg := range r.segments {
		n := utf8.RuneCountInString(seg)
		if offset < n || i == len(r.segments)-1 {
			ev.Segment, ev.Offset = i, offset
			break
		}
		offset -= n
	}

	r.mu.Lock()
	subs := make([]func(SelectionEvent), 0, len(r.subs))
	for _, fn := range r.subs {
		subs = append(subs, fn)
	}
	r.mu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}
	return nil
}
