package domain

import (
	"net/netip"
	"time"
)

// --- Model types ---

// ClientEntry is a lighting node known to the controller, keyed by its IP.
type ClientEntry struct {
	Name     string
	Address  netip.Addr
	LastSeen time.Time
}

// ClientView is the read-only rendering of a ClientEntry used by status views.
type ClientView struct {
	Name     string    `json:"name"`
	Address  string    `json:"address"`
	LastSeen time.Time `json:"last_seen"`
}

// View converts the entry for display.
func (e ClientEntry) View() ClientView {
	return ClientView{Name: e.Name, Address: e.Address.String(), LastSeen: e.LastSeen}
}

// Views converts a snapshot for display, preserving order.
func Views(entries []ClientEntry) []ClientView {
	views := make([]ClientView, 0, len(entries))
	for _, e := range entries {
		views = append(views, e.View())
	}
	return views
}

// Command is the value held by the shared command cell.
type Command struct {
	// Text is the exact payload sent to nodes, terminated by '\n' once set.
	Text      string    `json:"command"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Empty reports whether there is nothing to send.
func (c Command) Empty() bool {
	return c.Text == ""
}
