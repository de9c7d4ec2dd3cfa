package httpserver

import (
	"net/netip"
	"sync"
	"testing"
	"time"

	"github.com/BitFracture/squirrel-lighting-control/internal/command"
	"github.com/BitFracture/squirrel-lighting-control/internal/config"
	"github.com/BitFracture/squirrel-lighting-control/internal/domain"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

// --- Mock implementations ---

type mockClients struct {
	mu      sync.Mutex
	entries []domain.ClientEntry
	subs    []chan struct{}
}

func (m *mockClients) Snapshot() []domain.ClientEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.ClientEntry(nil), m.entries...)
}

func (m *mockClients) Subscribe() (<-chan struct{}, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan struct{}, 1)
	m.subs = append(m.subs, ch)
	return ch, func() {}
}

func (m *mockClients) set(entries ...domain.ClientEntry) {
	m.mu.Lock()
	m.entries = entries
	subs := m.subs
	m.mu.Unlock()
	for _, ch := range subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (m *mockClients) subscriberCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

// --- Test helpers ---

var testSeen = time.Date(2018, 6, 13, 12, 0, 0, 0, time.UTC)

func client(name, addr string) domain.ClientEntry {
	return domain.ClientEntry{Name: name, Address: netip.MustParseAddr(addr), LastSeen: testSeen}
}

func testConfig() *config.Config {
	return &config.Config{
		HTTPPort:           "0",
		CommandRateLimit:   100,
		CommandRateBurst:   100,
		StatusPushInterval: time.Hour,
	}
}

func newTestServer(t *testing.T, clients *mockClients, opts ...func(*Dependencies, *config.Config)) (*Server, *command.Cell) {
	t.Helper()

	cell := command.NewCell("", clockwork.NewRealClock())
	deps := Dependencies{
		Clients:  clients,
		Commands: cell,
		Clock:    clockwork.NewRealClock(),
	}
	cfg := testConfig()
	for _, opt := range opts {
		opt(&deps, cfg)
	}

	srv, err := NewServer(cfg, deps)
	require.NoError(t, err)
	return srv, cell
}

func withHealthChecks(checks ...HealthCheck) func(*Dependencies, *config.Config) {
	return func(d *Dependencies, _ *config.Config) {
		d.HealthChecks = checks
	}
}

func withRateLimit(rate float64, burst int) func(*Dependencies, *config.Config) {
	return func(_ *Dependencies, cfg *config.Config) {
		cfg.CommandRateLimit = rate
		cfg.CommandRateBurst = burst
	}
}
