// Package web exposes the pipeline over HTTP with a small embedded
// chat page. It is a driving adapter: handlers translate requests into
// calls on the core services.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/calyx-labs/duet-cli/internal/core/ports/driven"
	"github.com/calyx-labs/duet-cli/internal/core/ports/driving"
	"github.com/calyx-labs/duet-cli/internal/logger"
)

// DefaultPort is the default HTTP listen port.
const DefaultPort = 8080

// Config holds server configuration.
type Config struct {
	// Host is the listen address. Defaults to 127.0.0.1.
	Host string

	// Port is the listen port. Defaults to DefaultPort.
	Port int

	// AllowedOrigins configures CORS. Empty means same-origin only
	// plus localhost development ports.
	AllowedOrigins []string
}

// Services bundles the core services the handlers need.
type Services struct {
	Pipeline      driving.PipelineService
	Ingest        driving.IngestService
	DocumentStore driven.DocumentStore
	VectorIndex   driven.VectorIndex
}

// Server is the HTTP server.
type Server struct {
	cfg      Config
	services *Services
	engine   *gin.Engine
}

// NewServer creates a configured server with all routes registered.
func NewServer(cfg Config, services *Services) (*Server, error) {
	if services == nil || services.Pipeline == nil {
		return nil, errors.New("web: pipeline service is required")
	}
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsCfg.AllowOrigins = []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}
	}
	corsCfg.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	engine.Use(cors.New(corsCfg))

	s := &Server{
		cfg:      cfg,
		services: services,
		engine:   engine,
	}
	s.registerRoutes()

	return s, nil
}

// Engine exposes the router, mainly for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
}

func (s *Server) registerRoutes() {
	s.engine.GET("/", s.handleIndex)
	s.engine.GET("/healthz", s.handleHealthz)

	api := s.engine.Group("/api")
	api.POST("/chat", s.handleChat)
	api.POST("/retrieve", s.handleRetrieve)
	api.GET("/history/:session", s.handleGetHistory)
	api.DELETE("/history/:session", s.handleClearHistory)
	api.GET("/documents", s.handleListDocuments)
	api.POST("/documents", s.handleUploadDocument)
	api.DELETE("/documents", s.handleRemoveDocument)
	api.GET("/status", s.handleStatus)
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logger.Info("web server listening on http://%s", s.Addr())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
