package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/red-maple-labs/proxherald/internal/api/logs"
	"github.com/red-maple-labs/proxherald/internal/api/middleware"
	"github.com/red-maple-labs/proxherald/internal/api/notify"
)

// setupRouter creates and configures the chi router with all routes.
func (s *Server) setupRouter() (*chi.Mux, error) {
	r := chi.NewRouter()

	logsHandler, err := logs.NewHandler(s.store)
	if err != nil {
		return nil, err
	}
	notifyHandler := notify.NewHandler(s.store, s.deliverer, s.config.DefaultWebhook, s.config.BaseURL)

	// Rate limiter for the notify endpoint
	ipLimiter := middleware.NewRateLimiter(s.config.RateLimitPerIP)

	// Global middleware
	r.Use(middleware.RequestLogger(s.config.Verbose))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.Recoverer)
	r.Use(middleware.PrometheusMiddleware)

	// Unknown routes get the same JSON error envelope as the handlers.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		JSONError(w, ErrRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		JSONError(w, ErrMethodNotAllowed)
	})

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimitByIP(ipLimiter))
			r.Post("/notify", notifyHandler.Notify)
		})

		r.Get("/logs/{id}", logsHandler.Get)
		r.Get("/openapi.json", s.handleOpenAPI)
	})

	// API docs page
	r.Get("/docs", s.handleDocs)

	// Health check (public, no rate limit)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		OK(w, map[string]string{"status": "ok"})
	})

	return r, nil
}
