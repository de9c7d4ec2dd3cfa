package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestInitLogger_JSONWithCycleID(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	InitLogger("info", "json", &buf)

	ctx := WithCycleID(context.Background(), "deadbeef")
	slog.InfoContext(ctx, "Broadcast cycle", "sent", 3)
	slog.Debug("hidden")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "Broadcast cycle", rec["msg"])
	assert.Equal(t, "deadbeef", rec["cycle_id"])
	assert.InDelta(t, 3, rec["sent"], 0)
}

func TestInitLogger_TextWithoutCycleID(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	InitLogger("debug", "text", &buf)
	WithClient("lamp1", "10.0.0.5").Debug("Pairing client")

	out := buf.String()
	assert.Contains(t, out, "name=lamp1")
	assert.Contains(t, out, "address=10.0.0.5")
	assert.NotContains(t, out, "cycle_id")
}

func TestNewCycleID(t *testing.T) {
	a, b := NewCycleID(), NewCycleID()
	assert.Len(t, a, 8)
	assert.NotEqual(t, a, b)

	_, ok := CycleID(context.Background())
	assert.False(t, ok)
}
