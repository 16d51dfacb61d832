// Package api provides the HTTP REST API server.
package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/red-maple-labs/proxherald/internal/api/notify"
	"github.com/red-maple-labs/proxherald/internal/logstore"
)

// Config contains HTTP API server configuration.
type Config struct {
	Address        string
	BaseURL        string // externally visible base URL, e.g. behind a proxy
	DefaultWebhook string // default Discord webhook, may be empty
	RateLimitPerIP int    // notify requests per minute per IP
	Verbose        bool
}

// SetDefaults applies default values for missing configuration.
func (c *Config) SetDefaults() {
	if c.Address == "" {
		c.Address = ":6068"
	}
	if c.RateLimitPerIP == 0 {
		c.RateLimitPerIP = 60 // 60 requests per minute
	}
}

// Server is the HTTP API server.
type Server struct {
	config    *Config
	store     *logstore.Store
	deliverer notify.Deliverer
	server    *http.Server
}

// New creates a new API server.
func New(cfg *Config, store *logstore.Store, deliverer notify.Deliverer) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if store == nil {
		return nil, fmt.Errorf("log store is required")
	}
	if deliverer == nil {
		return nil, fmt.Errorf("deliverer is required")
	}

	cfg.SetDefaults()

	s := &Server{
		config:    cfg,
		store:     store,
		deliverer: deliverer,
	}

	router, err := s.setupRouter()
	if err != nil {
		return nil, err
	}

	s.server = &http.Server{
		Addr:    cfg.Address,
		Handler: router,
		// ReadTimeout must accommodate alert bodies up to the 10 MiB
		// message limit arriving over slow links.
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Run starts the HTTP server and blocks until context is canceled.
func (s *Server) Run(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		log.Printf("HTTP API listening on %s", s.config.Address)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Printf("shutting down HTTP API server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}

// Address returns the configured listen address.
func (s *Server) Address() string {
	return s.config.Address
}
