// Package server provides the HTTP REST API for the scholar directory service.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/helixir/scholar-directory/internal/cache"
	"github.com/helixir/scholar-directory/internal/database"
	"github.com/helixir/scholar-directory/internal/observability"
	"github.com/helixir/scholar-directory/internal/repository"
)

// Config holds HTTP server configuration.
type Config struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// RateLimitEnabled guards the per-client request limiter.
	RateLimitEnabled bool
	RateLimitRPS     float64
	RateLimitBurst   int
}

// Server is the HTTP REST API server.
type Server struct {
	router          chi.Router
	httpServer      *http.Server
	cache           *cache.Cache
	sessions        *sessionManager
	researcherRepo  repository.ResearcherRepository
	departmentRepo  repository.DepartmentRepository
	publicationRepo repository.PublicationRepository
	engagementRepo  repository.EngagementRepository
	db              *database.DB
	metrics         *observability.Metrics
	logger          zerolog.Logger
	cfg             Config
}

// NewServer creates a new HTTP server with all dependencies.
func NewServer(
	cfg Config,
	dataCache *cache.Cache,
	researcherRepo repository.ResearcherRepository,
	departmentRepo repository.DepartmentRepository,
	publicationRepo repository.PublicationRepository,
	engagementRepo repository.EngagementRepository,
	db *database.DB,
	metrics *observability.Metrics,
	logger zerolog.Logger,
) *Server {
	s := &Server{
		cache:           dataCache,
		sessions:        newSessionManager(dataCache, logger),
		researcherRepo:  researcherRepo,
		departmentRepo:  departmentRepo,
		publicationRepo: publicationRepo,
		engagementRepo:  engagementRepo,
		db:              db,
		metrics:         metrics,
		logger:          logger.With().Str("component", "http-server").Logger(),
		cfg:             cfg,
	}

	s.router = s.buildRouter()

	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// buildRouter creates the chi router with all middleware and routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(correlationIDMiddleware)
	r.Use(identityMiddleware)
	if s.cfg.RateLimitEnabled {
		r.Use(newRateLimiter(s.cfg.RateLimitRPS, s.cfg.RateLimitBurst).middleware)
	}

	// Health endpoints (no identity required)
	r.Get("/healthz", s.healthHandler)
	r.Get("/readyz", s.readinessHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(jsonContentTypeMiddleware)

		r.Post("/search", s.search)
		r.Get("/facets", s.getFacets)
		r.Get("/departments", s.listDepartments)
		r.Get("/departments/{departmentID}", s.getDepartment)
		r.Get("/researchers/{researcherID}/profile", s.getResearcherProfile)
		r.Get("/researchers/{researcherID}/publications", s.listResearcherPublications)
		r.Get("/researchers/{researcherID}/publications/{publicationID}/citation", s.getCitation)
		r.Get("/researchers/{researcherID}/publications/{publicationID}/likes", s.getLikeCount)
		r.Post("/researchers/{researcherID}/publications/{publicationID}/like", s.addLike)
		r.Delete("/researchers/{researcherID}/publications/{publicationID}/like", s.removeLike)
		r.Post("/export/csv", s.exportCSV)

		r.Get("/bookmarks", s.listBookmarks)
		r.Post("/bookmarks", s.addBookmark)
		r.Delete("/bookmarks/{ownerID}/{publicationID}", s.removeBookmark)

		r.Post("/admin/reload", s.reloadSnapshot)
		r.Put("/admin/researchers/{researcherID}", s.upsertResearcher)
		r.Put("/admin/researchers/{researcherID}/publications/{publicationID}", s.upsertPublication)
	})

	return r
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info().Str("address", s.httpServer.Addr).Msg("HTTP server starting")
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on HTTP address: %w", err)
	}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// healthHandler returns basic liveness status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	health := s.db.Health(r.Context())
	if health.Status == "healthy" {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "database": health.Status})
		return
	}
	writeJSON(w, http.StatusServiceUnavailable, map[string]string{
		"status":   "unhealthy",
		"database": health.Status,
		"error":    health.Error,
	})
}

// readinessHandler returns readiness status including snapshot availability.
func (s *Server) readinessHandler(w http.ResponseWriter, r *http.Request) {
	health := s.db.Health(r.Context())
	if health.Status != "healthy" {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "not_ready",
			"database": health.Status,
			"error":    health.Error,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":          "ready",
		"database":        "healthy",
		"snapshot_loaded": s.cache.Loaded(),
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Best-effort; headers already sent.
		_ = err
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{
		"error": message,
	})
}
