package anchoring

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/custodia-labs/scholarstr/internal/core/domain"
)

// AnnotationTitle is the hover text of a highlighted range.
const AnnotationTitle = "Click to view comment"

// Render wraps each anchored range of content in an annotation span.
//
// Comments are applied in ascending start order. A comment whose range
// overlaps one already applied, or falls outside content, is skipped, so the
// earliest-starting anchor wins.
func Render(content string, comments []domain.AnchoredComment) string {
	if len(comments) == 0 {
		return content
	}

	sorted := make([]domain.AnchoredComment, len(comments))
	copy(sorted, comments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Selection.Start < sorted[j].Selection.Start
	})

	runes := []rune(content)
	var b strings.Builder
	b.Grow(len(content) + len(sorted)*96)

	cursor := 0
	for _, c := range sorted {
		sel := c.Selection
		if !sel.Valid() || sel.End > len(runes) || sel.Start < cursor {
			continue
		}
		b.WriteString(string(runes[cursor:sel.Start]))
		fmt.Fprintf(&b, `<span class="annotation" data-comment-id="%s" title="%s">`,
			html.EscapeString(c.ID), html.EscapeString(AnnotationTitle))
		b.WriteString(string(runes[sel.Start:sel.End]))
		b.WriteString("</span>")
		cursor = sel.End
	}
	b.WriteString(string(runes[cursor:]))
	return b.String()
}
