package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"slices"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

// Console modes.
const (
	ConsoleAuto = "auto"
	ConsoleTUI  = "tui"
	ConsoleLine = "line"
	ConsoleOff  = "off"
)

type Config struct {
	AppEnv   string `env:"APP_ENV" default:"development"`
	HTTPPort string `env:"HTTP_PORT" default:"8081"`

	DiscoveryAddr string `env:"DISCOVERY_ADDR" default:":2323"`
	CommandPort   int    `env:"COMMAND_PORT" default:"2323"`
	FirmwareID    string `env:"FIRMWARE_ID" default:"squirrel"`

	StaleAfter        time.Duration `env:"STALE_AFTER" default:"90s"`
	BroadcastInterval time.Duration `env:"BROADCAST_INTERVAL" default:"900ms"`
	DefaultCommand    string        `env:"DEFAULT_COMMAND"`

	ConsoleMode string `env:"CONSOLE_MODE" default:"auto"`

	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`
	LogFile   string `env:"LOG_FILE" default:"controller.log"`

	CommandRateLimit   float64       `env:"COMMAND_RATE_LIMIT" default:"5"`
	CommandRateBurst   int           `env:"COMMAND_RATE_BURST" default:"10"`
	StatusPushInterval time.Duration `env:"STATUS_PUSH_INTERVAL" default:"2s"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks ranges and enumerations. Load calls it; callers that override
// fields afterwards should call it again.
func Validate(cfg *Config) error {
	if cfg.FirmwareID == "" {
		return errors.New("FIRMWARE_ID must not be empty")
	}
	if _, _, err := net.SplitHostPort(cfg.DiscoveryAddr); err != nil {
		return fmt.Errorf("DISCOVERY_ADDR must be host:port: %w", err)
	}
	if cfg.CommandPort < 1 || cfg.CommandPort > 65535 {
		return fmt.Errorf("COMMAND_PORT must be between 1 and 65535, got %d", cfg.CommandPort)
	}
	if cfg.BroadcastInterval <= 0 {
		return errors.New("BROADCAST_INTERVAL must be positive")
	}
	if cfg.StaleAfter <= cfg.BroadcastInterval {
		return fmt.Errorf("STALE_AFTER (%s) must be longer than BROADCAST_INTERVAL (%s)", cfg.StaleAfter, cfg.BroadcastInterval)
	}
	if cfg.StatusPushInterval <= 0 {
		return errors.New("STATUS_PUSH_INTERVAL must be positive")
	}
	if cfg.CommandRateLimit <= 0 || cfg.CommandRateBurst < 1 {
		return errors.New("COMMAND_RATE_LIMIT and COMMAND_RATE_BURST must be positive")
	}
	if !slices.Contains([]string{ConsoleAuto, ConsoleTUI, ConsoleLine, ConsoleOff}, cfg.ConsoleMode) {
		return fmt.Errorf("CONSOLE_MODE must be one of auto, tui, line, off; got %q", cfg.ConsoleMode)
	}
	return nil
}
