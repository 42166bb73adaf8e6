package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/scholarstr/internal/core/domain"
	"github.com/custodia-labs/scholarstr/internal/core/ports/driven"
	"github.com/custodia-labs/scholarstr/internal/core/ports/driving"
	"github.com/custodia-labs/scholarstr/internal/logger"
)

// Ensure PaperService implements the interface.
var _ driving.PaperService = (*PaperService)(nil)

// MinSearchLength is the shortest query Search will send to relays.
const MinSearchLength = 3

// PaperService discovers and publishes research papers.
type PaperService struct {
	relay      driven.RelayClient
	normaliser driven.PaperNormaliser
	store      driven.PaperStore
	validate   *validator.Validate
	timeout    time.Duration
	now        func() time.Time

	mu     sync.RWMutex
	signer driven.Signer
}

// NewPaperService creates a paper service.
// The store and signer parameters are optional (can be nil).
func NewPaperService(
	relay driven.RelayClient,
	normaliser driven.PaperNormaliser,
	store driven.PaperStore,
	signer driven.Signer,
	timeout time.Duration,
) *PaperService {
	if timeout <= 0 {
		timeout = domain.DefaultQueryTimeout
	}
	return &PaperService{
		relay:      relay,
		normaliser: normaliser,
		store:      store,
		signer:     signer,
		validate:   newSubmissionValidator(),
		timeout:    timeout,
		now:        time.Now,
	}
}

// SetSigner replaces the signer, e.g. after a key is configured.
func (s *PaperService) SetSigner(signer driven.Signer) {
	s.mu.Lock()
	s.signer = signer
	s.mu.Unlock()
}

func (s *PaperService) currentSigner() driven.Signer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.signer
}

// Feed returns the newest research papers.
func (s *PaperService) Feed(ctx context.Context, limit int) ([]*domain.Paper, error) {
	limit = feedLimit(limit)
	logger.Section("Feed")

	filter := domain.Filter{
		Kinds: []int{domain.KindLongForm},
		Tags:  map[string][]string{"t": domain.FeedTopics},
		Limit: limit,
	}
	return s.list(ctx, filter, "", limit)
}

// ByTopic returns papers tagged with topic.
func (s *PaperService) ByTopic(ctx context.Context, topic string, limit int) ([]*domain.Paper, error) {
	topic = strings.ToLower(strings.TrimSpace(topic))
	if topic == "" {
		return nil, fmt.Errorf("topic is required: %w", domain.ErrInvalidInput)
	}
	limit = feedLimit(limit)

	filter := domain.Filter{
		Kinds: []int{domain.KindLongForm},
		Tags:  map[string][]string{"t": {topic}},
		Limit: limit,
	}
	return s.list(ctx, filter, topic, limit)
}

// Search returns papers whose title, abstract or keywords contain query.
// The relay's own search narrows candidates; the substring match decides.
func (s *PaperService) Search(ctx context.Context, query string, limit int) ([]*domain.Paper, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinSearchLength {
		return []*domain.Paper{}, nil
	}
	limit = feedLimit(limit)

	events, err := queryRelays(ctx, s.relay, s.timeout, domain.Filter{
		Kinds:  []int{domain.KindLongForm},
		Search: query,
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	byID := make(map[string]*domain.Event, len(events))
	for _, ev := range events {
		byID[ev.ID] = ev
	}
	needle := strings.ToLower(query)
	papers := s.normaliseAll(events)
	matched := papers[:0]
	for _, p := range papers {
		if matchesSearch(byID[p.ID], p, needle) {
			matched = append(matched, p)
		}
	}
	s.cache(ctx, matched)
	return matched, nil
}

// matchesSearch reports whether needle occurs in the title, the raw abstract
// or summary tag, or the keywords tag exactly as published.
func matchesSearch(ev *domain.Event, p *domain.Paper, needle string) bool {
	fields := []string{p.Title, p.Abstract}
	if ev != nil {
		idx := ev.Index()
		fields = append(fields, idx.Value("abstract"), idx.Value("keywords"))
	} else {
		fields = append(fields, strings.Join(p.Keywords, ", "))
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// Get returns the newest qualifying revision of author's paper slug.
// On relay failure a cached revision is returned instead, if one exists.
func (s *PaperService) Get(ctx context.Context, author, slug string) (*domain.Paper, error) {
	if author == "" || slug == "" {
		return nil, fmt.Errorf("author and slug are required: %w", domain.ErrInvalidInput)
	}

	events, err := queryRelays(ctx, s.relay, s.timeout, domain.Filter{
		Kinds:   []int{domain.KindLongForm},
		Authors: []string{author},
		Tags:    map[string][]string{"d": {slug}},
		Limit:   1,
	})
	if err != nil {
		if s.store != nil {
			if cached, cerr := s.store.GetPaper(ctx, author, slug); cerr == nil {
				logger.Warn("relays unavailable, serving cached paper %s: %v", slug, err)
				return cached, nil
			}
		}
		return nil, fmt.Errorf("get paper %s: %w", slug, err)
	}

	papers := s.normaliseAll(events)
	if len(papers) == 0 {
		return nil, fmt.Errorf("paper %s by %s: %w", slug, author, domain.ErrNotFound)
	}
	s.cache(ctx, papers[:1])
	return papers[0], nil
}

// GetByID returns a paper by event id, preferring the cache.
func (s *PaperService) GetByID(ctx context.Context, id string) (*domain.Paper, error) {
	if id == "" {
		return nil, fmt.Errorf("id is required: %w", domain.ErrInvalidInput)
	}
	if s.store != nil {
		if cached, err := s.store.GetPaperByID(ctx, id); err == nil {
			return cached, nil
		}
	}

	events, err := queryRelays(ctx, s.relay, s.timeout, domain.Filter{
		IDs:   []string{id},
		Kinds: []int{domain.KindLongForm},
		Limit: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("get paper %s: %w", id, err)
	}
	papers := s.normaliseAll(events)
	if len(papers) == 0 {
		return nil, fmt.Errorf("paper %s: %w", id, domain.ErrNotFound)
	}
	s.cache(ctx, papers[:1])
	return papers[0], nil
}

// Submit validates sub, signs and publishes it, and caches the result.
// A failed publish is not retried.
func (s *PaperService) Submit(ctx context.Context, sub domain.PaperSubmission) (*domain.Paper, error) {
	sub = cleanSubmission(sub)
	if err := validateSubmission(s.validate, sub); err != nil {
		return nil, err
	}
	signer := s.currentSigner()
	if signer == nil {
		return nil, domain.ErrSignerUnavailable
	}
	if s.relay == nil {
		return nil, domain.ErrNoRelays
	}

	now := s.now()
	ev := buildPaperEvent(sub, newSlug(now), now)
	if err := signer.Sign(ev); err != nil {
		return nil, fmt.Errorf("sign paper: %w", err)
	}

	pctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.relay.Publish(pctx, ev); err != nil {
		if errors.Is(err, domain.ErrPublishFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrPublishFailed, err)
	}

	paper, err := s.normaliser.Normalise(ev)
	if err != nil {
		return nil, fmt.Errorf("normalise published paper: %w", err)
	}
	logger.Info("published paper %s (%s)", paper.Slug, paper.ID)
	s.cache(ctx, []*domain.Paper{paper})
	return paper, nil
}

// list queries relays and falls back to cached papers on failure.
func (s *PaperService) list(ctx context.Context, filter domain.Filter, topic string, limit int) ([]*domain.Paper, error) {
	events, err := queryRelays(ctx, s.relay, s.timeout, filter)
	if err != nil {
		if s.store != nil {
			cached, cerr := s.store.ListPapers(ctx, topic, limit)
			if cerr == nil && len(cached) > 0 {
				logger.Warn("relays unavailable, serving %d cached papers: %v", len(cached), err)
				return cached, nil
			}
		}
		return nil, fmt.Errorf("list papers: %w", err)
	}

	papers := s.normaliseAll(events)
	if len(papers) > limit {
		papers = papers[:limit]
	}
	logger.Debug("received %d events, %d qualifying papers", len(events), len(papers))
	s.cache(ctx, papers)
	return papers, nil
}

// normaliseAll drops non-qualifying events and sorts newest first.
func (s *PaperService) normaliseAll(events []*domain.Event) []*domain.Paper {
	papers := make([]*domain.Paper, 0, len(events))
	for _, ev := range events {
		if !s.normaliser.Accepts(ev) {
			continue
		}
		p, err := s.normaliser.Normalise(ev)
		if err != nil {
			continue
		}
		papers = append(papers, p)
	}
	sort.SliceStable(papers, func(i, j int) bool {
		return papers[i].CreatedAt.After(papers[j].CreatedAt)
	})
	return papers
}

// cache writes papers through to the store, logging failures.
func (s *PaperService) cache(ctx context.Context, papers []*domain.Paper) {
	if s.store == nil {
		return
	}
	for _, p := range papers {
		if err := s.store.SavePaper(ctx, p); err != nil {
			logger.Warn("failed to cache paper %s: %v", p.ID, err)
		}
	}
}

func feedLimit(limit int) int {
	if limit <= 0 {
		return domain.DefaultFeedLimit
	}
	return limit
}
