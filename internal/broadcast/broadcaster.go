package broadcast

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/netip"
	"sync/atomic"
	"time"

	"github.com/BitFracture/squirrel-lighting-control/internal/adapter/metrics"
	"github.com/BitFracture/squirrel-lighting-control/internal/domain"
	"github.com/BitFracture/squirrel-lighting-control/internal/logging"
	"github.com/jonboulle/clockwork"
)

const (
	DefaultInterval   = 900 * time.Millisecond
	DefaultStaleAfter = 90 * time.Second

	// Cycles slower than this are logged; sends are non-blocking so this indicates a problem.
	slowCycleThreshold = 100 * time.Millisecond
)

// CommandReader supplies the command sent on each cycle.
type CommandReader interface {
	Current() domain.Command
}

// Options controls broadcaster timing and addressing.
type Options struct {
	Interval    time.Duration
	StaleAfter  time.Duration
	CommandPort uint16
}

// CycleResult summarizes one prune-and-send cycle.
type CycleResult struct {
	Pruned []domain.ClientEntry
	Sent   int
	Failed int
}

// Broadcaster periodically prunes the registry and re-sends the current command.
type Broadcaster struct {
	membership domain.Membership
	commands   CommandReader
	sender     domain.Sender
	clock      clockwork.Clock
	metrics    *metrics.BroadcastMetrics
	opts       Options

	lastCycle atomic.Pointer[time.Time]
}

// NewBroadcaster creates a broadcaster. Zero Interval or StaleAfter take the defaults. m may be nil.
func NewBroadcaster(membership domain.Membership, commands CommandReader, sender domain.Sender, clock clockwork.Clock, m *metrics.BroadcastMetrics, opts Options) *Broadcaster {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.StaleAfter <= 0 {
		opts.StaleAfter = DefaultStaleAfter
	}
	return &Broadcaster{
		membership: membership,
		commands:   commands,
		sender:     sender,
		clock:      clock,
		metrics:    m,
		opts:       opts,
	}
}

// Run ticks until ctx is cancelled.
func (b *Broadcaster) Run(ctx context.Context) error {
	ticker := b.clock.NewTicker(b.opts.Interval)
	defer ticker.Stop()

	slog.Info("Broadcaster started",
		"interval", b.opts.Interval,
		"stale_after", b.opts.StaleAfter,
		"command_port", b.opts.CommandPort,
	)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Broadcaster stopped")
			return nil
		case <-ticker.Chan():
			b.safeCycle(ctx)
		}
	}
}

// LastCycle returns when the most recent cycle finished, or the zero time.
func (b *Broadcaster) LastCycle() time.Time {
	if t := b.lastCycle.Load(); t != nil {
		return *t
	}
	return time.Time{}
}

// Interval returns the configured tick period.
func (b *Broadcaster) Interval() time.Duration {
	return b.opts.Interval
}

func (b *Broadcaster) safeCycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Broadcast cycle panic recovered", "panic", r)
			if b.metrics != nil {
				b.metrics.Panics.Inc()
			}
		}
	}()

	b.Cycle(logging.WithCycleID(ctx, logging.NewCycleID()))
}

// Cycle prunes stale clients, then sends the current command to every live client.
// The registry lock is only held while pruning and copying; sends happen outside it.
func (b *Broadcaster) Cycle(ctx context.Context) CycleResult {
	start := b.clock.Now()
	var res CycleResult

	defer func() {
		elapsed := b.clock.Since(start)
		finished := b.clock.Now()
		b.lastCycle.Store(&finished)
		if b.metrics != nil {
			b.metrics.Cycles.Inc()
			b.metrics.CycleDuration.Observe(elapsed.Seconds())
			b.metrics.Pruned.Add(float64(len(res.Pruned)))
			b.metrics.Sends.Add(float64(res.Sent))
			b.metrics.SendErrors.Add(float64(res.Failed))
		}
		if elapsed > slowCycleThreshold {
			slog.WarnContext(ctx, "Broadcast cycle slow", "duration", elapsed, "sent", res.Sent)
		}
	}()

	res.Pruned = b.membership.PruneExpired(start, b.opts.StaleAfter)

	cmd := b.commands.Current()
	if cmd.Empty() {
		return res
	}

	payload := []byte(cmd.Text)
	for _, entry := range b.membership.Snapshot() {
		if err := b.send(payload, entry.Address); err != nil {
			res.Failed++
			slog.WarnContext(ctx, "Command send failed",
				"name", entry.Name,
				"address", entry.Address.String(),
				"error", err,
			)
			continue
		}
		res.Sent++
	}

	slog.DebugContext(ctx, "Broadcast cycle",
		"sent", res.Sent,
		"failed", res.Failed,
		"pruned", len(res.Pruned),
	)
	return res
}

func (b *Broadcaster) send(payload []byte, ip netip.Addr) error {
	dst := net.UDPAddrFromAddrPort(netip.AddrPortFrom(ip, b.opts.CommandPort))
	n, err := b.sender.WriteTo(payload, dst)
	if err != nil {
		return fmt.Errorf("write to %s: %w", dst, err)
	}
	if n != len(payload) {
		return fmt.Errorf("short write to %s: %d of %d bytes", dst, n, len(payload))
	}
	return nil
}
