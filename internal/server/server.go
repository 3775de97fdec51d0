// Package server exposes the checklist services as an HTTP JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/thenoetrevino/checklist/internal/app"
	"github.com/thenoetrevino/checklist/internal/config"
)

// Server is the checklist HTTP server
type Server struct {
	app     *app.App
	router  *gin.Engine
	http    *http.Server
	metrics *Metrics
	logger  *slog.Logger

	cookieName   string
	cookieTTL    time.Duration
	cookieSecure bool

	shutdownTimeout time.Duration

	mu           sync.Mutex
	addr         string // bound address, set once listening
	shutdownOnce sync.Once
}

// NewServer creates a server for a over the settings in cfg
func NewServer(a *app.App, cfg *config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		app:             a,
		router:          gin.New(),
		metrics:         NewMetrics(a.Sessions().Len),
		logger:          logger,
		cookieName:      cfg.Session.CookieName,
		cookieTTL:       cfg.Session.TTL,
		cookieSecure:    cfg.Session.Secure,
		shutdownTimeout: cfg.Server.ShutdownTimeout,
	}

	s.router.Use(requestID(), s.accessLog(), s.recovery())
	s.routes(cfg.Server.RequestTimeout)

	s.http = &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           s.router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}
	return s
}

func (s *Server) routes(timeout time.Duration) {
	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	api := s.router.Group("/api", requestTimeout(timeout))

	auth := api.Group("/auth")
	{
		auth.POST("/register", s.handleRegister)
		auth.POST("/login", s.handleLogin)
		auth.POST("/logout", s.handleLogout)
		auth.GET("/me", s.requireAuth(), s.handleMe)
	}

	projects := api.Group("/projects", s.requireAuth())
	{
		projects.GET("", s.handleListProjects)
		projects.POST("", s.handleCreateProject)
		projects.GET("/:id", s.handleGetProject)
		projects.PATCH("/:id", s.handleUpdateProject)
		projects.DELETE("/:id", s.handleDeleteProject)
	}

	tasks := api.Group("/tasks", s.requireAuth())
	{
		tasks.GET("", s.handleListTasks)
		tasks.POST("", s.handleCreateTask)
		tasks.GET("/:id", s.handleGetTask)
		tasks.PATCH("/:id", s.handleUpdateTask)
		tasks.DELETE("/:id", s.handleDeleteTask)
	}

	s.router.NoRoute(func(c *gin.Context) {
		respondMessage(c, http.StatusNotFound, "Not found")
	})
}

// Handler returns the router, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Metrics returns the server's collectors
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Addr returns the bound listen address, or "" before Start has bound it
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Start listens and serves until ctx is cancelled or the listener fails,
// then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	lc := net.ListenConfig{}
	listener, err := lc.Listen(ctx, "tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.http.Addr, err)
	}

	s.mu.Lock()
	s.addr = listener.Addr().String()
	s.mu.Unlock()
	s.logger.Info("server listening", "addr", s.Addr())

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.http.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("server context cancelled, shutting down")
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve error: %w", err)
		}
		return nil
	}

	return s.Shutdown()
}

// Shutdown stops accepting connections and waits for in-flight requests
// up to the configured shutdown timeout
func (s *Server) Shutdown() error {
	var err error
	s.shutdownOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if shutdownErr := s.http.Shutdown(ctx); shutdownErr != nil {
			err = fmt.Errorf("failed to shut down http server: %w", shutdownErr)
		}
	})
	return err
}
