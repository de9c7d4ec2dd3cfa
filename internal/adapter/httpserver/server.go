// Package httpserver is the operator HTTP front end: a status page, a JSON API
// for submitting commands and reading membership, a live client-list websocket,
// health probes and Prometheus metrics.
package httpserver

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/BitFracture/squirrel-lighting-control/internal/adapter/metrics"
	"github.com/BitFracture/squirrel-lighting-control/internal/config"
	"github.com/BitFracture/squirrel-lighting-control/internal/domain"
	"github.com/BitFracture/squirrel-lighting-control/web"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
)

// clientDirectory is the registry as the front end needs it.
type clientDirectory interface {
	Snapshot() []domain.ClientEntry
	Subscribe() (<-chan struct{}, func())
}

// Dependencies are the collaborators the server reads from and writes to.
type Dependencies struct {
	Clients  clientDirectory
	Commands domain.CommandSource
	Clock    clockwork.Clock

	HealthChecks   []HealthCheck
	HTTPMetrics    *metrics.HTTPMetrics
	StreamMetrics  *metrics.StatusStreamMetrics
	MetricsHandler http.Handler
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	clients  clientDirectory
	commands domain.CommandSource
	clock    clockwork.Clock

	templates      *template.Template
	healthChecks   []HealthCheck
	httpMetrics    *metrics.HTTPMetrics
	streamMetrics  *metrics.StatusStreamMetrics
	metricsHandler http.Handler
	startTime      time.Time

	shutdownCh   chan struct{}
	shutdownOnce sync.Once
}

func NewServer(cfg *config.Config, deps Dependencies) (*Server, error) {
	templates, err := template.ParseFS(web.TemplateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	clock := deps.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:           e,
		config:         cfg,
		clients:        deps.Clients,
		commands:       deps.Commands,
		clock:          clock,
		templates:      templates,
		healthChecks:   deps.HealthChecks,
		httpMetrics:    deps.HTTPMetrics,
		streamMetrics:  deps.StreamMetrics,
		metricsHandler: deps.MetricsHandler,
		startTime:      clock.Now(),
		shutdownCh:     make(chan struct{}),
	}

	srv.registerRoutes()

	return srv, nil
}

// Start serves until Shutdown is called. It returns http.ErrServerClosed (wrapped) after a clean shutdown.
func (s *Server) Start() error {
	slog.Info("Starting HTTP server", "port", s.config.HTTPPort)
	if err := s.echo.Start(":" + s.config.HTTPPort); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests, closes open client streams and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() { close(s.shutdownCh) })
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

// ServeHTTP lets tests and embedders drive the router directly.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

func (s *Server) renderTemplate(c echo.Context, name string, data any) error {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("Template execution failed", "path", c.Request().URL.Path, "error", err)
		if err := c.String(http.StatusInternalServerError, "Failed to render page"); err != nil {
			return fmt.Errorf("failed to send error response: %w", err)
		}
		return nil
	}
	if err := c.HTMLBlob(http.StatusOK, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to send HTML response: %w", err)
	}
	return nil
}
