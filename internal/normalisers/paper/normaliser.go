// Package paper classifies long-form events as research papers.
package paper

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/scholarstr/internal/core/domain"
	"github.com/custodia-labs/scholarstr/internal/core/ports/driven"
	"github.com/custodia-labs/scholarstr/internal/timestamp"
)

// Ensure Normaliser implements the interface.
var _ driven.PaperNormaliser = (*Normaliser)(nil)

// Normaliser handles NIP-23 long-form research papers.
type Normaliser struct{}

// New creates a new paper normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Kind returns the long-form content kind.
func (n *Normaliser) Kind() int {
	return domain.KindLongForm
}

// Accepts reports whether ev is a research paper.
func (n *Normaliser) Accepts(ev *domain.Event) bool {
	return IsResearchPaper(ev)
}

// Normalise converts ev into a paper.
func (n *Normaliser) Normalise(ev *domain.Event) (*domain.Paper, error) {
	return Normalise(ev)
}

// IsResearchPaper reports whether ev is a long-form event with a non-empty
// d tag, a non-empty title tag and at least one research marker topic.
func IsResearchPaper(ev *domain.Event) bool {
	if ev == nil || ev.Kind != domain.KindLongForm {
		return false
	}
	idx := ev.Index()
	if idx.Value("d") == "" || idx.Value("title") == "" {
		return false
	}
	for _, topic := range idx.Values("t") {
		if domain.IsResearchMarker(topic) {
			return true
		}
	}
	return false
}

// Normalise converts a qualifying event into a paper, applying fallbacks for
// optional tags.
func Normalise(ev *domain.Event) (*domain.Paper, error) {
	if !IsResearchPaper(ev) {
		return nil, fmt.Errorf("event is not a research paper: %w", domain.ErrInvalidInput)
	}
	idx := ev.Index()

	created := time.Unix(ev.CreatedAt, 0)
	p := &domain.Paper{
		ID:          ev.ID,
		Author:      ev.PubKey,
		CreatedAt:   created,
		Slug:        idx.Value("d"),
		Title:       idx.Value("title"),
		Abstract:    idx.ValueOr("summary", idx.Value("abstract")),
		Authors:     idx.ValueOr("authors", domain.DefaultAuthors),
		Topics:      idx.Values("t"),
		Keywords:    splitKeywords(idx.Value("keywords")),
		DOI:         idx.Value("doi"),
		Institution: idx.Value("institution"),
		Funding:     idx.Value("funding"),
		Content:     ev.Content,
		ZapLimit:    intOr(idx.Value("zap_limit"), domain.DefaultZapLimit),
		Price:       intOr(idx.Value("price"), 0),
	}

	// published_at wins over created_at; an unparseable value marks the
	// date invalid and the paper is never treated as anonymous.
	var published any = ev.CreatedAt
	if v := idx.Value("published_at"); v != "" {
		published = v
	}
	if t, st := timestamp.Normalize(published); st == timestamp.Valid {
		p.PublishedAt = t
		p.PublishedAtValid = true
	} else {
		p.PublishedAt = created
	}

	return p, nil
}

// NormaliseAll converts every qualifying event and silently drops the rest.
func NormaliseAll(events []*domain.Event) []*domain.Paper {
	papers := make([]*domain.Paper, 0, len(events))
	for _, ev := range events {
		p, err := Normalise(ev)
		if err != nil {
			continue
		}
		papers = append(papers, p)
	}
	return papers
}

func splitKeywords(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	keywords := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			keywords = append(keywords, p)
		}
	}
	return keywords
}

func intOr(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return n
}
