package domain

import (
	"net"
	"net/netip"
	"time"
)

// --- Interfaces ---

// Membership is the registry as seen by the listener and the broadcaster.
type Membership interface {
	Upsert(entry ClientEntry) bool
	Remove(addr netip.Addr) (ClientEntry, bool)
	PruneExpired(now time.Time, threshold time.Duration) []ClientEntry
	Snapshot() []ClientEntry
}

// ClientLister is the read-only registry view used by status front ends.
type ClientLister interface {
	Snapshot() []ClientEntry
}

// CommandSource accepts new commands from an operator front end.
type CommandSource interface {
	SetCommand(text string) Command
	Current() Command
}

// Sender writes one datagram to a node. *net.UDPConn satisfies it.
type Sender interface {
	WriteTo(p []byte, addr net.Addr) (int, error)
}
