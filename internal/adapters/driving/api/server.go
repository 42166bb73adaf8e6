package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/custodia-labs/scholarstr/internal/core/domain"
	"github.com/custodia-labs/scholarstr/internal/core/ports/driving"
	"github.com/custodia-labs/scholarstr/internal/logger"
)

// ErrMissingPaperService is returned when Ports.Papers is nil.
var ErrMissingPaperService = errors.New("paper service is required")

// Ports holds the driving ports served over HTTP.
type Ports struct {
	Papers driving.PaperService
	Stats  driving.StatsService // optional
}

// Config configures the HTTP server.
type Config struct {
	Addr           string
	AllowedOrigins []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// DefaultAddr is the listen address used when Config.Addr is empty.
const DefaultAddr = domain.DefaultHTTPAddr

// Server is the JSON HTTP API.
type Server struct {
	cfg     Config
	ports   Ports
	metrics *Metrics
	router  chi.Router
	now     func() time.Time
}

// NewServer builds the router for ports.
func NewServer(ports Ports, cfg Config) (*Server, error) {
	if ports.Papers == nil {
		return nil, ErrMissingPaperService
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 15 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 30 * time.Second
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	s := &Server{
		cfg:     cfg,
		ports:   ports,
		metrics: NewMetrics("scholarstr"),
		now:     time.Now,
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Metrics returns the collectors of this server.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(s.metrics.Middleware)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/papers", s.handleFeed)
		r.Post("/papers", s.handleSubmit)
		r.Get("/papers/{pubkey}/{slug}", s.handleGetPaper)
		r.Get("/topics", s.handleTopics)
		r.Get("/topics/{topic}", s.handleByTopic)
		r.Get("/search", s.handleSearch)

		if s.ports.Stats != nil {
			r.Get("/events/{id}/zaps", s.handleZapStats)
			r.Get("/events/{id}/comments", s.handleCommentCount)
			r.Get("/users/{pubkey}/zaps", s.handleUserZaps)
		}
	})

	return r
}

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http shutdown: %v", err)
		}
	}()

	logger.Info("HTTP API listening on %s", s.cfg.Addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
