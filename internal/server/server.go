// Package server provides the REST API server for the tracking backend.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/datalift/datalift/internal/metrics"
	"github.com/datalift/datalift/internal/store"
	"github.com/datalift/datalift/pkg/tracker"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// Server represents the tracking API server.
type Server struct {
	echo    *echo.Echo
	store   store.Store
	metrics *metrics.Collector
	logger  *zap.Logger
}

// Config holds server configuration.
type Config struct {
	Store   store.Store
	Metrics *metrics.Collector
	Logger  *zap.Logger
}

// NewServer creates a new API server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Store == nil {
		return nil, errors.New("server config requires a store")
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(loggingMiddleware(cfg.Logger))
	e.Use(middleware.CORS())

	s := &Server{
		echo:    e,
		store:   cfg.Store,
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
	}

	s.setupRoutes()

	return s, nil
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check endpoints
	s.echo.GET("/healthz", s.healthz)
	s.echo.GET("/ready", s.ready)

	if s.metrics != nil {
		s.echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
	}

	v1 := s.echo.Group("/api/v1")

	// Runs
	v1.GET("/runs", s.listRuns)
	v1.GET("/runs/:id", s.getRun)
	v1.POST("/runs", s.createRun)
	v1.POST("/runs/:id/finish", s.finishRun)

	// Artifacts
	v1.POST("/runs/:id/artifacts", s.createArtifact)
	v1.GET("/artifacts", s.listArtifacts)
	v1.GET("/artifacts/:id", s.getArtifact)

	// Artifact files
	v1.PUT("/artifacts/:id/files/:name", s.uploadFile)
	v1.GET("/artifacts/:id/files/:name", s.downloadFile)
}

// Start starts the API server.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the root handler for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// loggingMiddleware logs one line per request through zap.
func loggingMiddleware(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogError:     true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("id", v.RequestID),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.Error(v.Error),
			)
			return nil
		},
	})
}

// errorResponse represents an error response.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// handleError maps store errors to HTTP responses.
func (s *Server) handleError(c echo.Context, err error) error {
	if errors.Is(err, tracker.ErrNotFound) {
		return c.JSON(http.StatusNotFound, errorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
	}

	if errors.Is(err, tracker.ErrAlreadyExists) {
		return c.JSON(http.StatusConflict, errorResponse{
			Error:   "already_exists",
			Message: err.Error(),
		})
	}

	if errors.Is(err, tracker.ErrInvalidInput) {
		return c.JSON(http.StatusBadRequest, errorResponse{
			Error:   "invalid_input",
			Message: err.Error(),
		})
	}

	s.logger.Error("internal server error", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, errorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}

// healthz handles GET /healthz.
func (s *Server) healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// ready handles GET /ready.
func (s *Server) ready(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}
