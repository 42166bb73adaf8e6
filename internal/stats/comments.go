package stats

import "github.com/custodia-labs/scholarstr/internal/core/domain"

// CommentQueryLimit caps how many comment events are requested per target.
// Counts at this value mean "at least", not an exact network-wide total.
const CommentQueryLimit = 1000

// CountComments returns the number of thread comments in events that
// reference targetID through an e tag.
func CountComments(targetID string, events []*domain.Event) int {
	n := 0
	for _, ev := range events {
		if ev == nil || ev.Kind != domain.KindComment {
			continue
		}
		if ev.Index().HasValue("e", targetID) {
			n++
		}
	}
	return n
}
