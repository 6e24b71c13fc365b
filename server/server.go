// Package server exposes recommendations, the risk table and line geometry over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/theoremus-urban-solutions/gtfs-insurance-advisor/config"
	"github.com/theoremus-urban-solutions/gtfs-insurance-advisor/gtfsrt"
	"github.com/theoremus-urban-solutions/gtfs-insurance-advisor/policy"
	"github.com/theoremus-urban-solutions/gtfs-insurance-advisor/recommend"
	"github.com/theoremus-urban-solutions/gtfs-insurance-advisor/risk"
)

const shutdownTimeout = 10 * time.Second

// Recommender builds a recommendation for one trip.
type Recommender interface {
	Recommend(ctx context.Context, tripID string) (recommend.Recommendation, error)
}

// Deps are the read-only values handlers serve from. Delays may be nil.
type Deps struct {
	Recommender Recommender
	Risks       *risk.Table
	Catalog     *policy.Catalog
	Delays      *gtfsrt.DelaySnapshot
	LinesPath   string
	Log         *slog.Logger
}

// Server wraps a gin engine in an http.Server.
type Server struct {
	deps   Deps
	log    *slog.Logger
	engine *gin.Engine
	http   *http.Server
}

// New builds the server and its routes.
func New(cfg config.ServerConfig, deps Deps) *Server {
	log := deps.Log
	if log == nil {
		log = slog.Default()
	}
	s := &Server{deps: deps, log: log.With("component", "server")}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), accessLog(s.log), allowAllOrigins())
	r.GET("/", s.handleRoot)
	r.GET("/api/health", s.handleHealth)
	r.GET("/recommendation/:trip_id", s.handleRecommendation)
	r.GET("/route_probs", s.handleRouteProbs)
	r.GET("/lines", s.handleLines)
	s.engine = r

	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler { return s.engine }

// Addr returns the listen address.
func (s *Server) Addr() string { return s.http.Addr }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.http.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.Serve(ln)
	}()
	s.log.Info("server listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	s.log.Info("server shut down successfully")
	return nil
}
