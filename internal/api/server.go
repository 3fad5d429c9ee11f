package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jvillalba/docunir/internal/catalog"
	"github.com/jvillalba/docunir/internal/config"
	"github.com/jvillalba/docunir/internal/jobs"
)

// Server is the HTTP API server for docunir.
type Server struct {
	router       chi.Router
	orchestrator *jobs.Orchestrator
	catalog      *catalog.Catalog
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *jobs.Orchestrator, cat *catalog.Catalog, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		catalog:      cat,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// API endpoints, token-protected when a key is configured.
	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/api/headings", s.handleHeadings)
		r.Post("/api/merge", s.handleMerge)
		r.Post("/api/group", s.handleGroup)

		r.Post("/api/jobs", s.handleCreateJob)
		r.Get("/api/jobs/{jobID}", s.handleJobStatus)
		r.Get("/api/jobs/{jobID}/files/{name}", s.handleJobFile)
		r.Get("/api/stats/jobs", s.handleJobStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":      "ok",
		"queue_depth": s.orchestrator.QueueDepth(),
	})
}
