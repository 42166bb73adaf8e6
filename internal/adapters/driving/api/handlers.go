package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/custodia-labs/scholarstr/internal/core/domain"
	"github.com/custodia-labs/scholarstr/internal/timestamp"
)

// maxBodyBytes bounds submission bodies.
const maxBodyBytes = 1 << 20

// paperView is a paper as shown to readers at a given instant.
type paperView struct {
	*domain.Paper
	Address          string    `json:"address"`
	DisplayAuthor    string    `json:"display_author"`
	Anonymous        bool      `json:"anonymous"`
	AnonymousUntil   time.Time `json:"anonymous_until"`
	PublishedLabel   string    `json:"published_label"`
	PublishedRelative string    `json:"published_relative"`
}

type paperList struct {
	Papers []paperView `json:"papers"`
	Count  int         `json:"count"`
}

type commentCount struct {
	EventID string `json:"event_id"`
	Count   int    `json:"count"`
}

func (s *Server) view(p *domain.Paper) paperView {
	now := s.now()
	win := p.Anonymity(now)

	shown := *p
	if win.Anonymous {
		shown.Authors = p.DisplayAuthor(now)
	}

	label := timestamp.FormatDate(p.PublishedAt.Unix(), timestamp.DefaultLayout)
	relative := timestamp.FormatRelative(p.PublishedAt.Unix(), now)
	if !p.PublishedAtValid {
		label, relative = timestamp.InvalidDate, timestamp.Recently
	}

	return paperView{
		Paper:            &shown,
		Address:          p.Address(),
		DisplayAuthor:    p.DisplayAuthor(now),
		Anonymous:        win.Anonymous,
		AnonymousUntil:   win.EndsAt.UTC(),
		PublishedLabel:   label,
		PublishedRelative: relative,
	}
}

func (s *Server) writePapers(w http.ResponseWriter, papers []*domain.Paper) {
	out := paperList{Papers: make([]paperView, 0, len(papers))}
	for _, p := range papers {
		out.Papers = append(out.Papers, s.view(p))
	}
	out.Count = len(out.Papers)
	writeJSON(w, http.StatusOK, out)
}

// limitParam reads ?limit=, returning 0 when absent.
func limitParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: limit must be a non-negative integer", domain.ErrInvalidInput)
	}
	return n, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	papers, err := s.ports.Papers.Feed(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writePapers(w, papers)
}

func (s *Server) handleGetPaper(w http.ResponseWriter, r *http.Request) {
	p, err := s.ports.Papers.Get(r.Context(), chi.URLParam(r, "pubkey"), chi.URLParam(r, "slug"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.view(p))
}

func (s *Server) handleTopics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"topics": domain.ResearchTopics})
}

func (s *Server) handleByTopic(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	papers, err := s.ports.Papers.ByTopic(r.Context(), chi.URLParam(r, "topic"), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writePapers(w, papers)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	papers, err := s.ports.Papers.Search(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writePapers(w, papers)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var sub domain.PaperSubmission
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&sub); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
		return
	}

	p, err := s.ports.Papers.Submit(r.Context(), sub)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.view(p))
}

func (s *Server) handleZapStats(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	zs, err := s.ports.Stats.ZapStats(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.metrics.ZapSats.Observe(zs.TotalSats)
	writeJSON(w, http.StatusOK, zs)
}

func (s *Server) handleCommentCount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	n, err := s.ports.Stats.CommentCount(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, commentCount{EventID: id, Count: n})
}

func (s *Server) handleUserZaps(w http.ResponseWriter, r *http.Request) {
	us, err := s.ports.Stats.UserZapStats(r.Context(), chi.URLParam(r, "pubkey"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, us)
}
