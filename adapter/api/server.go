// Package api exposes the task service as a JSON HTTP API.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	insightsQueries "github.com/felixgeelhaar/taskpilot/internal/insights/application/queries"
	"github.com/felixgeelhaar/taskpilot/internal/productivity/application/commands"
	"github.com/felixgeelhaar/taskpilot/internal/productivity/application/queries"
	"github.com/felixgeelhaar/taskpilot/internal/productivity/application/services"
	"github.com/felixgeelhaar/taskpilot/pkg/observability"
)

// Handlers are the application use cases the API dispatches to.
type Handlers struct {
	CreateTask      *commands.CreateTaskHandler
	UpdateTask      *commands.UpdateTaskHandler
	DeleteTask      *commands.DeleteTaskHandler
	GetTask         *queries.GetTaskHandler
	ListTasks       *queries.ListTasksHandler
	ListPending     *queries.ListPendingHandler
	GetOverview     *queries.GetOverviewHandler
	GetProductivity *insightsQueries.GetProductivityHandler
	SmartSort       *services.SmartSortEngine
	Suggestions     *services.SuggestionEngine
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:         "0.0.0.0:5000",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// Options carries the optional collaborators of the server.
type Options struct {
	Health  *observability.HealthRegistry
	Metrics observability.Metrics
	Logger  *slog.Logger
	// Clock supplies the wall-clock time the AI endpoints reason about.
	Clock func() time.Time
}

// Server is the HTTP API server.
type Server struct {
	router   chi.Router
	server   *http.Server
	handlers Handlers
	health   *observability.HealthRegistry
	metrics  observability.Metrics
	logger   *slog.Logger
	clock    func() time.Time
}

// NewServer creates a new API server.
func NewServer(cfg ServerConfig, handlers Handlers, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = observability.NoopMetrics{}
	}
	if opts.Health == nil {
		opts.Health = observability.NewHealthRegistry()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	s := &Server{
		router:   chi.NewRouter(),
		handlers: handlers,
		health:   opts.Health,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
		clock:    opts.Clock,
	}

	s.registerRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// registerRoutes sets up the API routes.
func (s *Server) registerRoutes() {
	r := s.router
	r.Use(middleware.RealIP)
	r.Use(requestContext)
	r.Use(s.accessLog)
	r.Use(s.recoverer)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, msgNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
	})

	r.Get("/healthz", s.handleLiveness)
	r.Get("/readyz", s.handleReadiness)

	r.Route("/api", func(r chi.Router) {
		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", s.listTasks)
			r.Post("/", s.createTask)
			r.Get("/{id:[0-9]+}", s.getTask)
			r.Put("/{id:[0-9]+}", s.updateTask)
			r.Delete("/{id:[0-9]+}", s.deleteTask)
		})

		r.Get("/stats/overview", s.statsOverview)
		r.Get("/stats/productivity", s.statsProductivity)

		r.Get("/ai/suggestions", s.suggestions)
		r.Post("/ai/smart-sort", s.smartSort)
	})
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the API server.
func (s *Server) Start() error {
	s.logger.Info("starting API server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	return s.server.Shutdown(ctx)
}

func (s *Server) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	overall := s.health.GetOverallHealth(r.Context())
	status := http.StatusOK
	if overall.Status == observability.HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, overall)
}
