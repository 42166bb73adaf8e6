package anchoring

import (
	"strconv"

	"github.com/custodia-labs/scholarstr/internal/core/domain"
)

// SelectionTag is the tag name carrying an anchored range.
const SelectionTag = "selection"

// BuildCommentEvent builds an unsigned top-level comment on paper anchored
// at sel. Root and parent references both point at the paper. The e tag
// lets comment counting find the comment by paper id.
func BuildCommentEvent(paper *domain.Paper, sel domain.Selection, text string) *domain.Event {
	addr := paper.Address()
	kind := strconv.Itoa(domain.KindLongForm)

	ev := &domain.Event{
		Kind:    domain.KindComment,
		Content: text,
	}
	ev.AddTag("A", addr)
	ev.AddTag("K", kind)
	ev.AddTag("P", paper.Author)
	ev.AddTag("a", addr)
	ev.AddTag("k", kind)
	ev.AddTag("p", paper.Author)
	ev.AddTag("e", paper.ID)
	ev.AddTag(SelectionTag, strconv.Itoa(sel.Start), strconv.Itoa(sel.End), sel.Text)
	return ev
}

// SelectionFromEvent reads the anchored range of a comment event.
func SelectionFromEvent(ev *domain.Event) (domain.Selection, bool) {
	tag, ok := ev.Index().First(SelectionTag)
	if !ok || len(tag) < 4 {
		return domain.Selection{}, false
	}
	start, err := strconv.Atoi(tag[1])
	if err != nil {
		return domain.Selection{}, false
	}
	end, err := strconv.Atoi(tag[2])
	if err != nil {
		return domain.Selection{}, false
	}
	sel := domain.Selection{Start: start, End: end, Text: tag[3]}
	return sel, sel.Valid()
}
