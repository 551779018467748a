// Package server assembles the gin engine and runs the HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/api"
	"github.com/foodgram/backend/internal/metrics"
	"github.com/foodgram/backend/internal/middleware"
)

// Options tune the engine beyond the API routes
type Options struct {
	// MediaDir is served at /media when set
	MediaDir string
	Recorder metrics.Recorder
}

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	cfg    *config.Config
	log    *slog.Logger
}

// New builds the engine with the middleware chain and every route
func New(cfg *config.Config, log *slog.Logger, deps api.Dependencies, opts Options) *Server {
	if cfg.Env == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.Nop{}
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(
		middleware.Recovery(log),
		middleware.RequestLogger(log),
		middleware.Metrics(opts.Recorder),
		middleware.CORS(cfg.CORSOrigins),
		middleware.ErrorHandler(log),
	)
	if opts.MediaDir != "" {
		router.Static("/media", opts.MediaDir)
	}
	api.RegisterRoutes(router, deps)

	return &Server{
		router: router,
		cfg:    cfg,
		log:    log,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}
}

// Handler exposes the engine, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", slog.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
