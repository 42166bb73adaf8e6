package domain

import (
	"fmt"
	"time"
)

// Selection is a half-open rune range [Start, End) of a paper's rendered
// content together with the literal selected text.
type Selection struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// Len returns the number of runes covered by the selection.
func (s Selection) Len() int {
	return s.End - s.Start
}

// Valid reports whether the range is non-empty and non-negative.
func (s Selection) Valid() bool {
	return s.Start >= 0 && s.End > s.Start
}

// Overlaps reports whether two half-open ranges intersect.
func (s Selection) Overlaps(o Selection) bool {
	return s.Start < o.End && o.Start < s.End
}

// String formats the range for display.
func (s Selection) String() string {
	return fmt.Sprintf("[%d,%d) %q", s.Start, s.End, s.Text)
}

// AnchoredComment is a comment bound to a selection of a paper.
// Anchored comments are client-local: they exist only in the session that published them.
type AnchoredComment struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id,omitempty"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
	Selection Selection `json:"selection"`
}

// Comment is a threaded comment event referencing a root entity.
// Thread comments are counted only.
type Comment struct {
	ID        string    `json:"id"`
	RootID    string    `json:"root_id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
