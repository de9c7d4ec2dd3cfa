package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/BitFracture/squirrel-lighting-control/internal/adapter/metrics"
	"github.com/BitFracture/squirrel-lighting-control/internal/app"
	"github.com/BitFracture/squirrel-lighting-control/internal/config"
	"github.com/BitFracture/squirrel-lighting-control/internal/console"
	"github.com/BitFracture/squirrel-lighting-control/internal/logging"
	"github.com/BitFracture/squirrel-lighting-control/internal/platform/version"
	"github.com/jonboulle/clockwork"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatalf("controller: %v", err)
	}
}

// setupLogging writes to stdout, except in TUI mode where the screen belongs to
// the console and logs go to LOG_FILE instead.
func setupLogging(cfg *config.Config, consoleMode string) (func(), error) {
	var w io.Writer = os.Stdout
	closeLog := func() {}

	if consoleMode == config.ConsoleTUI {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", cfg.LogFile, err)
		}
		w = f
		closeLog = func() { _ = f.Close() }
	}

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat, w)
	return closeLog, nil
}

func runController(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	consoleMode := console.ResolveMode(cfg.ConsoleMode, os.Stdin)

	closeLog, err := setupLogging(cfg, consoleMode)
	if err != nil {
		return err
	}
	defer closeLog()

	info := version.Get()
	slog.Info("Controller starting",
		"env", cfg.AppEnv,
		"version", info.Version,
		"commit", info.Commit,
		"instance_id", info.InstanceID,
		"console", consoleMode,
	)

	clock := clockwork.NewRealClock()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sockets, err := app.BindSockets(ctx, clock, app.BindPolicy, cfg.DiscoveryAddr)
	if err != nil {
		slog.Error("Failed to bind sockets", "error", err)
		return err
	}

	ctrl, err := app.New(cfg, sockets, clock, metrics.NewRegistry())
	if err != nil {
		slog.Error("Failed to create controller", "error", err)
		return err
	}

	runConsole := func(ctx context.Context, deps console.Dependencies) error {
		return console.Run(ctx, consoleMode, deps)
	}

	if err := ctrl.Run(ctx, runConsole); err != nil {
		slog.Error("Controller error", "error", err)
		return err
	}
	slog.Info("Shutdown complete")
	return nil
}
