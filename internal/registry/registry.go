// Package registry holds the controller's table of known lighting nodes.
//
// Entries are keyed by IP address, so a node reconnecting from the same address
// replaces its prior entry. All access goes through a single mutex; callers only
// ever receive copies.
package registry

import (
	"net/netip"
	"slices"
	"sync"
	"time"

	"github.com/BitFracture/squirrel-lighting-control/internal/adapter/metrics"
	"github.com/BitFracture/squirrel-lighting-control/internal/domain"
	"github.com/BitFracture/squirrel-lighting-control/internal/logging"
)

// Registry is a mutex-guarded map of client entries.
type Registry struct {
	mu      sync.Mutex
	entries map[netip.Addr]domain.ClientEntry
	metrics *metrics.RegistryMetrics

	subMu       sync.Mutex
	subscribers map[chan struct{}]struct{}
}

// New creates an empty registry. m may be nil.
func New(m *metrics.RegistryMetrics) *Registry {
	return &Registry{
		entries:     make(map[netip.Addr]domain.ClientEntry),
		metrics:     m,
		subscribers: make(map[chan struct{}]struct{}),
	}
}

// Upsert inserts entry or replaces the entry with the same address.
// Returns true when an existing entry was replaced.
func (r *Registry) Upsert(entry domain.ClientEntry) bool {
	r.mu.Lock()
	_, replaced := r.entries[entry.Address]
	r.entries[entry.Address] = entry
	size := len(r.entries)
	r.mu.Unlock()

	logger := logging.WithClient(entry.Name, entry.Address.String())
	if replaced {
		logger.Info("Renewing client")
	} else {
		logger.Info("Pairing client")
	}

	if r.metrics != nil {
		if replaced {
			r.metrics.Renewals.Inc()
		} else {
			r.metrics.Pairings.Inc()
		}
		r.metrics.Clients.Set(float64(size))
	}
	r.notify()
	return replaced
}

// Remove deletes the entry for addr if present.
func (r *Registry) Remove(addr netip.Addr) (domain.ClientEntry, bool) {
	r.mu.Lock()
	entry, ok := r.entries[addr]
	if ok {
		delete(r.entries, addr)
	}
	size := len(r.entries)
	r.mu.Unlock()

	if !ok {
		return domain.ClientEntry{}, false
	}

	r.logRemoved(entry, "removed")
	r.recordRemovals(1, size)
	r.notify()
	return entry, true
}

// PruneExpired removes and returns every entry not seen for longer than threshold.
func (r *Registry) PruneExpired(now time.Time, threshold time.Duration) []domain.ClientEntry {
	r.mu.Lock()
	var expired []domain.ClientEntry
	for addr, entry := range r.entries {
		if now.Sub(entry.LastSeen) > threshold {
			expired = append(expired, entry)
			delete(r.entries, addr)
		}
	}
	size := len(r.entries)
	r.mu.Unlock()

	if len(expired) == 0 {
		return nil
	}

	for _, entry := range expired {
		r.logRemoved(entry, "stale")
	}
	r.recordRemovals(len(expired), size)
	r.notify()
	return expired
}

// Snapshot returns a copy of all entries ordered by address.
func (r *Registry) Snapshot() []domain.ClientEntry {
	r.mu.Lock()
	out := make([]domain.ClientEntry, 0, len(r.entries))
	for _, entry := range r.entries {
		out = append(out, entry)
	}
	r.mu.Unlock()

	slices.SortFunc(out, func(a, b domain.ClientEntry) int {
		return a.Address.Compare(b.Address)
	})
	return out
}

// Len returns the number of registered clients.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Subscribe returns a channel that receives a signal after membership changes.
// Signals are coalesced: a slow reader sees at most one pending signal.
// The returned function cancels the subscription.
func (r *Registry) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	r.subMu.Lock()
	r.subscribers[ch] = struct{}{}
	r.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			r.subMu.Lock()
			delete(r.subscribers, ch)
			r.subMu.Unlock()
		})
	}
}

func (r *Registry) notify() {
	r.subMu.Lock()
	defer r.subMu.Unlock()
	for ch := range r.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (r *Registry) logRemoved(entry domain.ClientEntry, reason string) {
	logging.WithClient(entry.Name, entry.Address.String()).Info("Removing client",
		"reason", reason,
		"last_seen", entry.LastSeen,
	)
}

func (r *Registry) recordRemovals(n, size int) {
	if r.metrics == nil {
		return
	}
	r.metrics.Removals.Add(float64(n))
	r.metrics.Clients.Set(float64(size))
}
