// Package server exposes the host orchestrator over HTTP: one run endpoint,
// an administrative directory refresh trigger, and a health probe. Typed
// orchestration errors are translated to HTTP status semantics here and
// nowhere else.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/hupe1980/a2ahost/core"
	"github.com/hupe1980/a2ahost/executor"
	"github.com/hupe1980/a2ahost/host"
	"github.com/hupe1980/a2ahost/logging"
)

// Refresher triggers an immediate directory reload, reporting the resulting
// agent count. Implemented by registry.Loader.
type Refresher interface {
	Refresh(ctx context.Context) (int, error)
}

// Options holds configuration overrides passed to New().
type Options struct {
	// EnableCORS installs a permissive CORS middleware for browser clients.
	EnableCORS bool
	// Debug leaves gin in debug mode instead of release mode.
	Debug bool
	// ReadTimeout / WriteTimeout bound the HTTP server.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// Logger receives request-level diagnostics.
	Logger logging.Logger
}

// Server wires the host, loader and directory into a gin HTTP API.
type Server struct {
	host       *host.Host
	refresher  Refresher
	directory  core.Directory
	engine     *gin.Engine
	httpServer *http.Server
	logger     logging.Logger
}

// New constructs a Server with optional overrides.
func New(h *host.Host, refresher Refresher, directory core.Directory, optFns ...func(o *Options)) *Server {
	opts := Options{
		EnableCORS:   true,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		Logger:       logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if !opts.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	if opts.EnableCORS {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
		engine.Use(cors.New(corsConfig))
	}

	s := &Server{
		host:      h,
		refresher: refresher,
		directory: directory,
		engine:    engine,
		logger:    opts.Logger,
	}

	engine.GET("/health", s.handleHealth)
	engine.POST("/host/run", s.handleRun)
	engine.POST("/agents/refresh", s.handleRefresh)

	s.httpServer = &http.Server{
		Handler:      engine,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}

	return s
}

// Handler exposes the underlying http.Handler (e.g. for tests).
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until Shutdown is called or the listener fails.
func (s *Server) Run(addr string) error {
	s.httpServer.Addr = addr
	s.logger.Info("http server listening", "addr", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "healthy",
		"agents_loaded": len(s.directory.List()),
	})
}

func (s *Server) handleRun(c *gin.Context) {
	var req core.RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}
	if req.Prompt == "" || req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "prompt and token are required"})
		return
	}

	resp, err := s.host.Handle(c.Request.Context(), &req)
	if err != nil {
		status := statusForError(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error("host run failed", "token", req.Token, "error", err)
		}
		c.JSON(status, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleRefresh(c *gin.Context) {
	count, err := s.refresher.Refresh(c.Request.Context())
	if err != nil {
		s.logger.Error("directory refresh failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": fmt.Sprintf("failed to refresh agents: %v", err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       "success",
		"agents_count": count,
		"message":      fmt.Sprintf("Loaded %d agents from registry", count),
	})
}

// statusForError maps orchestration errors to HTTP status semantics: depth
// exceeded and malformed delegate payloads are client errors, a missing
// agent is 404, remote execution failures are 503, everything else is 500.
func statusForError(err error) int {
	var badDelegate *host.BadDelegateError
	var agentErr *executor.AgentError

	switch {
	case errors.Is(err, host.ErrMaxDepth):
		return http.StatusBadRequest
	case errors.As(err, &badDelegate):
		return http.StatusBadRequest
	case errors.Is(err, host.ErrNoSuitableAgent):
		return http.StatusNotFound
	case errors.As(err, &agentErr):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
