// Package discovery receives node announcements on the discovery port and
// keeps the registry up to date.
//
// A node sends a small JSON payload {"firmware","action","name"}. Anything that
// does not decode, names another firmware, or carries an unknown action is
// dropped without a reply; the port may be shared with unrelated traffic.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/netip"
	"sync/atomic"
	"time"

	"github.com/BitFracture/squirrel-lighting-control/internal/adapter/metrics"
	"github.com/BitFracture/squirrel-lighting-control/internal/domain"
	"github.com/jonboulle/clockwork"
)

// Pause after a failed read so a persistent socket error cannot spin the loop.
const readErrorBackoff = 100 * time.Millisecond

// Listener reads announcements from a packet socket and upserts the registry.
type Listener struct {
	conn       net.PacketConn
	membership domain.Membership
	firmware   string
	clock      clockwork.Clock
	metrics    *metrics.DiscoveryMetrics
	running    atomic.Bool
}

// NewListener creates a listener. m may be nil.
func NewListener(conn net.PacketConn, membership domain.Membership, firmware string, clock clockwork.Clock, m *metrics.DiscoveryMetrics) *Listener {
	return &Listener{
		conn:       conn,
		membership: membership,
		firmware:   firmware,
		clock:      clock,
		metrics:    m,
	}
}

// Running reports whether Run is currently receiving.
func (l *Listener) Running() bool {
	return l.running.Load()
}

// Run receives datagrams until ctx is cancelled. The socket is closed on return.
func (l *Listener) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { _ = l.conn.Close() })
	defer stop()

	l.running.Store(true)
	defer l.running.Store(false)

	slog.Info("Discovery listener started", "addr", l.conn.LocalAddr().String(), "firmware", l.firmware)

	buf := make([]byte, domain.MaxDatagramSize)
	for {
		n, addr, err := l.conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				slog.Info("Discovery listener stopped")
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return fmt.Errorf("discovery socket closed: %w", err)
			}
			slog.Warn("Discovery read failed", "error", err)
			if l.metrics != nil {
				l.metrics.ReadErrors.Inc()
			}
			l.clock.Sleep(readErrorBackoff)
			continue
		}

		_, _ = l.handle(buf[:n], addr)
	}
}

// handle validates one datagram and records the sender. Rejected datagrams
// return an error for tests and metrics only; they are never fatal.
func (l *Listener) handle(data []byte, from net.Addr) (domain.ClientEntry, error) {
	ip, err := senderIP(from)
	if err != nil {
		l.discard(metrics.ResultAddress, from, err)
		return domain.ClientEntry{}, err
	}

	ann, err := domain.ParseAnnouncement(data, l.firmware)
	if err != nil {
		l.discard(resultFor(err), from, err)
		return domain.ClientEntry{}, err
	}

	entry := domain.ClientEntry{
		Name:     ann.Name,
		Address:  ip,
		LastSeen: l.clock.Now(),
	}
	l.membership.Upsert(entry)

	if l.metrics != nil {
		l.metrics.Datagrams.WithLabelValues(metrics.ResultAccepted).Inc()
	}
	return entry, nil
}

func (l *Listener) discard(result string, from net.Addr, err error) {
	if l.metrics != nil {
		l.metrics.Datagrams.WithLabelValues(result).Inc()
	}
	sender := "<nil>"
	if from != nil {
		sender = from.String()
	}
	slog.Debug("Discarding datagram", "from", sender, "reason", result, "error", err)
}

func resultFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnknownFirmware):
		return metrics.ResultFirmware
	case errors.Is(err, domain.ErrUnknownAction):
		return metrics.ResultAction
	default:
		return metrics.ResultMalformed
	}
}

// senderIP extracts the IP of a datagram source; the source port is irrelevant.
func senderIP(from net.Addr) (netip.Addr, error) {
	if udp, ok := from.(*net.UDPAddr); ok {
		ap := udp.AddrPort()
		if ap.Addr().IsValid() {
			return ap.Addr().Unmap(), nil
		}
	}
	if from != nil {
		if ap, err := netip.ParseAddrPort(from.String()); err == nil {
			return ap.Addr().Unmap(), nil
		}
	}
	return netip.Addr{}, domain.ErrInvalidSender
}
