package domain

import (
	"strconv"
	"strings"
)

// Event kinds used by the research client.
const (
	// KindLongForm is the NIP-23 long-form content kind used for papers.
	KindLongForm = 30023

	// KindZapReceipt is the NIP-57 zap receipt kind.
	KindZapReceipt = 9735

	// KindComment is the NIP-22 threaded comment kind.
	KindComment = 1111
)

// Tag is a single protocol tag tuple: name followed by values.
type Tag []string

// Name returns the tag name, or empty string for an empty tag.
func (t Tag) Name() string {
	if len(t) == 0 {
		return ""
	}
	return t[0]
}

// Value returns the first value of the tag, or empty string if absent.
func (t Tag) Value() string {
	if len(t) < 2 {
		return ""
	}
	return t[1]
}

// At returns the value at position i (0 is the name), or empty string.
func (t Tag) At(i int) string {
	if i < 0 || i >= len(t) {
		return ""
	}
	return t[i]
}

// Event is a protocol event as delivered by a relay.
// Tags are indexed on first access; ingestion code calls Reindex so the
// index is built once before the event is shared between goroutines.
type Event struct {
	// ID is the event id (hex sha256 of the serialised event).
	ID string `json:"id"`

	// PubKey is the author's public key (hex).
	PubKey string `json:"pubkey"`

	// CreatedAt is the creation time in unix seconds.
	CreatedAt int64 `json:"created_at"`

	// Kind is the event kind.
	Kind int `json:"kind"`

	// Tags is the raw tag list in publication order.
	Tags []Tag `json:"tags"`

	// Content is the event body.
	Content string `json:"content"`

	// Sig is the schnorr signature (hex).
	Sig string `json:"sig"`

	index TagIndex
}

// Reindex rebuilds the tag index from Tags.
// Call after mutating Tags.
func (e *Event) Reindex() {
	e.index = NewTagIndex(e.Tags)
}

// Index returns the tag index, building it if needed.
func (e *Event) Index() TagIndex {
	if e.index == nil {
		e.Reindex()
	}
	return e.index
}

// AddTag appends a tag and keeps the index current.
func (e *Event) AddTag(tag ...string) {
	e.Tags = append(e.Tags, Tag(tag))
	if e.index != nil {
		e.index.add(Tag(tag))
	}
}

// Address returns the NIP-33 address "kind:pubkey:d" for addressable events,
// or empty string when the event has no d tag.
func (e *Event) Address() string {
	d := e.Index().Value("d")
	if d == "" {
		return ""
	}
	return Address(e.Kind, e.PubKey, d)
}

// Address formats a NIP-33 address.
func Address(kind int, pubkey, slug string) string {
	return strings.Join([]string{strconv.Itoa(kind), pubkey, slug}, ":")
}

// Filter describes a relay query.
// Tags maps a single-letter tag name (without '#') to accepted values.
type Filter struct {
	IDs     []string
	Kinds   []int
	Authors []string
	Tags    map[string][]string
	Search  string
	Limit   int
}

// Matches reports whether ev satisfies the filter, ignoring Limit.
// Search matches case-insensitively against content and title-like tags.
func (f Filter) Matches(ev *Event) bool {
	if len(f.IDs) > 0 && !containsString(f.IDs, ev.ID) {
		return false
	}
	if len(f.Kinds) > 0 && !containsInt(f.Kinds, ev.Kind) {
		return false
	}
	if len(f.Authors) > 0 && !containsString(f.Authors, ev.PubKey) {
		return false
	}
	idx := ev.Index()
	for name, values := range f.Tags {
		found := false
		for _, v := range idx.Values(name) {
			if containsString(values, v) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		haystack := strings.ToLower(ev.Content + " " + idx.Value("title") + " " + idx.Value("summary"))
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func containsInt(list []int, v int) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
