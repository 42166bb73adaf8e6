package nostr

import (
	gonostr "github.com/nbd-wtf/go-nostr"

	"github.com/custodia-labs/scholarstr/internal/core/domain"
)

// toFilter converts a domain filter into a protocol filter.
func toFilter(f domain.Filter) gonostr.Filter {
	out := gonostr.Filter{
		IDs:     f.IDs,
		Kinds:   f.Kinds,
		Authors: f.Authors,
		Search:  f.Search,
		Limit:   f.Limit,
	}
	if len(f.Tags) > 0 {
		out.Tags = make(gonostr.TagMap, len(f.Tags))
		for name, values := range f.Tags {
			out.Tags[name] = values
		}
	}
	return out
}

// fromEvent converts a relay event into a domain event with its tag index built.
func fromEvent(ev *gonostr.Event) *domain.Event {
	tags := make([]domain.Tag, 0, len(ev.Tags))
	for _, t := range ev.Tags {
		tags = append(tags, domain.Tag(t))
	}
	out := &domain.Event{
		ID:        ev.ID,
		PubKey:    ev.PubKey,
		CreatedAt: int64(ev.CreatedAt),
		Kind:      ev.Kind,
		Tags:      tags,
		Content:   ev.Content,
		Sig:       ev.Sig,
	}
	out.Reindex()
	return out
}

// toEvent converts a domain event into its wire form.
func toEvent(ev *domain.Event) gonostr.Event {
	tags := make(gonostr.Tags, 0, len(ev.Tags))
	for _, t := range ev.Tags {
		tags = append(tags, gonostr.Tag(t))
	}
	return gonostr.Event{
		ID:        ev.ID,
		PubKey:    ev.PubKey,
		CreatedAt: gonostr.Timestamp(ev.CreatedAt),
		Kind:      ev.Kind,
		Tags:      tags,
		Content:   ev.Content,
		Sig:       ev.Sig,
	}
}
