package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BitFracture/squirrel-lighting-control/internal/config"
	"github.com/BitFracture/squirrel-lighting-control/internal/console"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listenLoopback(t *testing.T) net.PacketConn {
	t.Helper()
	conn, err := net.ListenPacket("udp4", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func testConfig(commandPort int) *config.Config {
	return &config.Config{
		HTTPPort:           "0",
		CommandPort:        commandPort,
		FirmwareID:         "squirrel",
		StaleAfter:         90 * time.Second,
		BroadcastInterval:  20 * time.Millisecond,
		DefaultCommand:     "off",
		CommandRateLimit:   5,
		CommandRateBurst:   10,
		StatusPushInterval: time.Second,
	}
}

type fixture struct {
	ctrl *Controller
	node net.PacketConn
	disc net.PacketConn
	reg  *prometheus.Registry
	quit chan func()
	done chan error
}

func startController(t *testing.T, ctx context.Context) *fixture {
	t.Helper()
	node := listenLoopback(t)
	disc := listenLoopback(t)
	sender := listenLoopback(t)

	reg := prometheus.NewRegistry()
	cfg := testConfig(node.LocalAddr().(*net.UDPAddr).Port)
	ctrl, err := New(cfg, Sockets{Discovery: disc, Sender: sender}, clockwork.NewRealClock(), reg)
	require.NoError(t, err)

	f := &fixture{ctrl: ctrl, node: node, disc: disc, reg: reg, quit: make(chan func(), 1), done: make(chan error, 1)}
	go func() {
		f.done <- ctrl.Run(ctx, func(ctx context.Context, deps console.Dependencies) error {
			f.quit <- deps.OnQuit
			<-ctx.Done()
			return nil
		})
	}()
	return f
}

func (f *fixture) wait(t *testing.T) error {
	t.Helper()
	select {
	case err := <-f.done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("controller did not stop")
		return nil
	}
}

func TestController_PairsNodeAndSendsCommand(t *testing.T) {
	f := startController(t, testContext(t))

	_, err := f.node.WriteTo([]byte(`{"firmware":"squirrel","action":"discover","name":"lamp1"}`), f.disc.LocalAddr())
	require.NoError(t, err)

	require.Eventually(t, func() bool { return f.ctrl.Registry.Len() == 1 }, 2*time.Second, 5*time.Millisecond)
	entry := f.ctrl.Registry.Snapshot()[0]
	assert.Equal(t, "lamp1", entry.Name)
	assert.Equal(t, "127.0.0.1", entry.Address.String())

	buf := make([]byte, 64)
	require.NoError(t, f.node.SetReadDeadline(time.Now().Add(2*time.Second)))
	n, _, err := f.node.ReadFrom(buf)
	require.NoError(t, err)
	assert.Equal(t, "off\n", string(buf[:n]))

	f.ctrl.Commands.SetCommand("color 255 0 0")
	require.Eventually(t, func() bool {
		n, _, err := f.node.ReadFrom(buf)
		return err == nil && string(buf[:n]) == "color 255 0 0\n"
	}, 2*time.Second, time.Millisecond)

	(<-f.quit)()
	require.NoError(t, f.wait(t))
}

func TestController_ReadyOnceUnitsRun(t *testing.T) {
	f := startController(t, testContext(t))

	require.Eventually(t, func() bool {
		rec := httptest.NewRecorder()
		f.ctrl.Server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		return rec.Code == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	rec := httptest.NewRecorder()
	f.ctrl.Server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "squirrel_build_info")

	(<-f.quit)()
	require.NoError(t, f.wait(t))
}

func TestController_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(testContext(t))
	f := startController(t, ctx)
	<-f.quit

	cancel()

	require.NoError(t, f.wait(t))
	assert.False(t, f.ctrl.Listener.Running())
	_, _, err := f.disc.ReadFrom(make([]byte, 1))
	assert.True(t, errors.Is(err, net.ErrClosed))
}

func TestController_RejectedAnnouncementIsCounted(t *testing.T) {
	f := startController(t, testContext(t))

	_, err := f.node.WriteTo([]byte(`{"firmware":"other","action":"discover","name":"x"}`), f.disc.LocalAddr())
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		count, err := testutil.GatherAndCount(f.reg, "squirrel_discovery_datagrams_total")
		return err == nil && count == 1
	}, 2*time.Second, 5*time.Millisecond)
	assert.Zero(t, f.ctrl.Registry.Len())

	(<-f.quit)()
	require.NoError(t, f.wait(t))
}
