package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "8081", cfg.HTTPPort)
	assert.Equal(t, ":2323", cfg.DiscoveryAddr)
	assert.Equal(t, 2323, cfg.CommandPort)
	assert.Equal(t, "squirrel", cfg.FirmwareID)
	assert.Equal(t, 90*time.Second, cfg.StaleAfter)
	assert.Equal(t, 900*time.Millisecond, cfg.BroadcastInterval)
	assert.Equal(t, "", cfg.DefaultCommand)
	assert.Equal(t, ConsoleAuto, cfg.ConsoleMode)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DISCOVERY_ADDR", "0.0.0.0:23")
	t.Setenv("COMMAND_PORT", "24")
	t.Setenv("FIRMWARE_ID", "lumen")
	t.Setenv("STALE_AFTER", "2m")
	t.Setenv("BROADCAST_INTERVAL", "1s")
	t.Setenv("DEFAULT_COMMAND", "persist")
	t.Setenv("CONSOLE_MODE", "off")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, "0.0.0.0:23", cfg.DiscoveryAddr)
	assert.Equal(t, 24, cfg.CommandPort)
	assert.Equal(t, "lumen", cfg.FirmwareID)
	assert.Equal(t, 2*time.Minute, cfg.StaleAfter)
	assert.Equal(t, time.Second, cfg.BroadcastInterval)
	assert.Equal(t, "persist", cfg.DefaultCommand)
	assert.Equal(t, ConsoleOff, cfg.ConsoleMode)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"command port too large", "COMMAND_PORT", "70000", "COMMAND_PORT must be between 1 and 65535"},
		{"discovery addr without port", "DISCOVERY_ADDR", "0.0.0.0", "DISCOVERY_ADDR must be host:port"},
		{"stale shorter than interval", "STALE_AFTER", "500ms", "must be longer than BROADCAST_INTERVAL"},
		{"zero interval", "BROADCAST_INTERVAL", "0s", "BROADCAST_INTERVAL must be positive"},
		{"unknown console", "CONSOLE_MODE", "gui", "CONSOLE_MODE must be one of"},
		{"zero burst", "COMMAND_RATE_BURST", "0", "COMMAND_RATE_BURST must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
