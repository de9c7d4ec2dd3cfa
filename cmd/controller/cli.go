package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/BitFracture/squirrel-lighting-control/internal/config"
	"github.com/BitFracture/squirrel-lighting-control/internal/platform/version"
	"github.com/urfave/cli/v2"
)

func newApp() *cli.App {
	return &cli.App{
		Name:    "controller",
		Usage:   "discover squirrel lighting nodes on the LAN and keep them on the current command",
		Version: version.Get().String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "console",
				Aliases: []string{"c"},
				Usage:   "operator console: auto, tui, line or off (overrides CONSOLE_MODE)",
			},
			&cli.StringFlag{
				Name:  "command",
				Usage: "initial command sent to nodes (overrides DEFAULT_COMMAND)",
			},
		},
		Action: runController,
		Commands: []*cli.Command{
			{
				Name:   "check-config",
				Usage:  "load and validate configuration, then print the effective values",
				Action: checkConfig,
			},
			{
				Name:  "version",
				Usage: "print build information",
				Action: func(c *cli.Context) error {
					info := version.Get()
					_, err := fmt.Fprintf(c.App.Writer, "version:     %s\ncommit:      %s\nbuilt:       %s\ngo:          %s\n",
						info.Version, info.Commit, info.BuildTime, info.GoVersion)
					return err
				},
			},
		},
	}
}

// loadConfig reads the environment and applies command-line overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if c.IsSet("console") {
		cfg.ConsoleMode = c.String("console")
	}
	if c.IsSet("command") {
		cfg.DefaultCommand = c.String("command")
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func checkConfig(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	rows := [][2]string{
		{"APP_ENV", cfg.AppEnv},
		{"HTTP_PORT", cfg.HTTPPort},
		{"DISCOVERY_ADDR", cfg.DiscoveryAddr},
		{"COMMAND_PORT", fmt.Sprint(cfg.CommandPort)},
		{"FIRMWARE_ID", cfg.FirmwareID},
		{"STALE_AFTER", cfg.StaleAfter.String()},
		{"BROADCAST_INTERVAL", cfg.BroadcastInterval.String()},
		{"DEFAULT_COMMAND", fmt.Sprintf("%q", cfg.DefaultCommand)},
		{"CONSOLE_MODE", cfg.ConsoleMode},
		{"LOG_LEVEL", cfg.LogLevel},
		{"LOG_FORMAT", cfg.LogFormat},
		{"LOG_FILE", cfg.LogFile},
		{"COMMAND_RATE_LIMIT", fmt.Sprint(cfg.CommandRateLimit)},
		{"COMMAND_RATE_BURST", fmt.Sprint(cfg.CommandRateBurst)},
		{"STATUS_PUSH_INTERVAL", cfg.StatusPushInterval.String()},
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", r[0], r[1]); err != nil {
			return err
		}
	}
	return tw.Flush()
}
