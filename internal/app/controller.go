package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/BitFracture/squirrel-lighting-control/internal/adapter/httpserver"
	"github.com/BitFracture/squirrel-lighting-control/internal/adapter/metrics"
	"github.com/BitFracture/squirrel-lighting-control/internal/broadcast"
	"github.com/BitFracture/squirrel-lighting-control/internal/command"
	"github.com/BitFracture/squirrel-lighting-control/internal/config"
	"github.com/BitFracture/squirrel-lighting-control/internal/console"
	"github.com/BitFracture/squirrel-lighting-control/internal/discovery"
	"github.com/BitFracture/squirrel-lighting-control/internal/platform/version"
	"github.com/BitFracture/squirrel-lighting-control/internal/registry"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// Sockets are the UDP endpoints the controller owns. Both are closed by Run.
type Sockets struct {
	// Discovery receives announcements from nodes.
	Discovery net.PacketConn
	// Sender writes commands to nodes.
	Sender net.PacketConn
}

// ConsoleFunc runs an operator console until ctx is done or the operator quits.
type ConsoleFunc func(ctx context.Context, deps console.Dependencies) error

// Controller owns every unit of the lighting controller.
type Controller struct {
	cfg     *config.Config
	sockets Sockets

	Registry    *registry.Registry
	Commands    *command.Cell
	Listener    *discovery.Listener
	Broadcaster *broadcast.Broadcaster
	Server      *httpserver.Server
}

// New builds the controller and registers its metrics on reg.
func New(cfg *config.Config, sockets Sockets, clock clockwork.Clock, reg *prometheus.Registry) (*Controller, error) {
	metrics.RegisterBuildInfo(reg, version.Get())

	clients := registry.New(metrics.NewRegistryMetrics(reg))
	commands := command.NewCell(cfg.DefaultCommand, clock)

	listener := discovery.NewListener(sockets.Discovery, clients, cfg.FirmwareID, clock, metrics.NewDiscoveryMetrics(reg))
	broadcaster := broadcast.NewBroadcaster(clients, commands, sockets.Sender, clock, metrics.NewBroadcastMetrics(reg), broadcast.Options{
		Interval:    cfg.BroadcastInterval,
		StaleAfter:  cfg.StaleAfter,
		CommandPort: uint16(cfg.CommandPort),
	})

	srv, err := httpserver.NewServer(cfg, httpserver.Dependencies{
		Clients:        clients,
		Commands:       commands,
		Clock:          clock,
		HealthChecks:   healthChecks(listener, broadcaster, clock),
		HTTPMetrics:    metrics.NewHTTPMetrics(reg),
		StreamMetrics:  metrics.NewStatusStreamMetrics(reg),
		MetricsHandler: metrics.Handler(reg),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP server: %w", err)
	}

	return &Controller{
		cfg:         cfg,
		sockets:     sockets,
		Registry:    clients,
		Commands:    commands,
		Listener:    listener,
		Broadcaster: broadcaster,
		Server:      srv,
	}, nil
}

// Run starts all units and blocks until ctx is cancelled, the operator quits,
// or a unit fails. runConsole may be nil.
func (c *Controller) Run(ctx context.Context, runConsole ConsoleFunc) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer func() { _ = c.sockets.Sender.Close() }()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return c.Listener.Run(gctx) })
	g.Go(func() error { return c.Broadcaster.Run(gctx) })

	g.Go(func() error {
		if err := c.Server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()
		if err := c.Server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		return nil
	})

	if runConsole != nil {
		g.Go(func() error {
			return runConsole(gctx, console.Dependencies{
				Clients:  c.Registry,
				Commands: c.Commands,
				OnQuit:   cancel,
			})
		})
	}

	slog.Info("Controller running",
		"discovery_addr", c.sockets.Discovery.LocalAddr().String(),
		"command_port", c.cfg.CommandPort,
		"http_port", c.cfg.HTTPPort,
	)

	err := g.Wait()
	slog.Info("Controller stopped", "clients", c.Registry.Len())
	if err != nil {
		return fmt.Errorf("controller unit failed: %w", err)
	}
	return nil
}
