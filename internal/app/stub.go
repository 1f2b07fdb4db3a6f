package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/vadim/nested-seeder/internal/config"
	httpcontroller "github.com/vadim/nested-seeder/internal/controller/http"
	postservice "github.com/vadim/nested-seeder/internal/domain/post/service"
	"github.com/vadim/nested-seeder/internal/httpx/response"
)

// Stub is the application container for the local posts API
type Stub struct {
	cfg        config.Stub
	httpServer *http.Server
	router     *chi.Mux
	logger     *slog.Logger

	posts *postservice.Service
}

// NewStub creates the stub API server
func NewStub(cfg config.Stub, logger *slog.Logger) (*Stub, error) {
	// Initialize router with middleware
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.Timeout(30 * time.Second))

	s := &Stub{
		cfg:    cfg,
		router: r,
		logger: logger,
		posts:  postservice.New(),
	}

	if err := s.registerRoutes(); err != nil {
		return nil, err
	}

	s.httpServer = &http.Server{
		Addr:         cfg.Address(),
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s, nil
}

// registerRoutes registers all HTTP routes
func (s *Stub) registerRoutes() error {
	s.router.Get("/healthz", s.healthHandler)

	swaggerHandler, err := httpcontroller.NewSwaggerHandler("Nested Posts API (stub)", OpenAPISpec)
	if err != nil {
		return err
	}
	swaggerHandler.RegisterRoutes(s.router)

	var limiter *rate.Limiter
	if s.cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(s.cfg.RateLimit), max(s.cfg.Burst, 1))
	}

	s.router.Route("/api", func(r chi.Router) {
		r.Use(httpcontroller.RateLimit(limiter))
		r.Use(httpcontroller.BearerAuth(s.cfg.Token))

		httpcontroller.NewPostHandler(s.posts).RegisterRoutes(r)
	})

	return nil
}

// Handler returns the stub's HTTP handler
func (s *Stub) Handler() http.Handler {
	return s.router
}

// healthHandler handles health check requests
func (s *Stub) healthHandler(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]any{
		"status": "ok",
		"posts":  s.posts.Count(),
	})
}

// Run starts the server and blocks until ctx is cancelled or the server fails
func (s *Stub) Run(ctx context.Context) error {
	// Channel to receive errors from server
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("starting stub API", "addr", s.cfg.Address(), "rate_limit", s.cfg.RateLimit)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutdown requested")
	}

	return s.Shutdown(context.Background())
}

// Shutdown gracefully shuts down the server
func (s *Stub) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down HTTP server: %w", err)
	}

	s.logger.Info("shutdown complete", "posts", s.posts.Count())
	return nil
}
