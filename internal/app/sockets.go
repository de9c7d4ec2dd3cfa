package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"syscall"
	"time"

	"github.com/BitFracture/squirrel-lighting-control/internal/platform/retry"
	"github.com/jonboulle/clockwork"
)

// BindPolicy retries while a previous controller still holds the discovery port.
var BindPolicy = retry.Policy{
	MaxAttempts:    5,
	InitialBackoff: 500 * time.Millisecond,
	MaxBackoff:     4 * time.Second,
	OnRetry: func(attempt int, err error, backoff time.Duration) {
		slog.Warn("Socket bind failed, retrying", "attempt", attempt, "backoff", backoff, "error", err)
	},
}

// BindSockets opens the discovery socket on discoveryAddr and an ephemeral
// socket for outgoing commands.
func BindSockets(ctx context.Context, clock clockwork.Clock, p retry.Policy, discoveryAddr string) (Sockets, error) {
	discovery, err := listenUDP(ctx, clock, p, discoveryAddr)
	if err != nil {
		return Sockets{}, fmt.Errorf("failed to bind discovery socket %s: %w", discoveryAddr, err)
	}

	sender, err := listenUDP(ctx, clock, p, ":0")
	if err != nil {
		_ = discovery.Close()
		return Sockets{}, fmt.Errorf("failed to bind command socket: %w", err)
	}

	return Sockets{Discovery: discovery, Sender: sender}, nil
}

func listenUDP(ctx context.Context, clock clockwork.Clock, p retry.Policy, addr string) (net.PacketConn, error) {
	return retry.Do(ctx, clock, p, classifyBindError, func() (net.PacketConn, error) {
		var lc net.ListenConfig
		return lc.ListenPacket(ctx, "udp4", addr)
	})
}

func classifyBindError(err error) retry.Action {
	if errors.Is(err, syscall.EADDRINUSE) {
		return retry.Retry
	}
	return retry.Stop
}
