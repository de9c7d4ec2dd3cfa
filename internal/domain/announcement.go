package domain

import (
	"encoding/json"
	"fmt"
)

// MaxDatagramSize bounds a discovery or keep-alive datagram.
const MaxDatagramSize = 512

// Announcement actions a node may send on the discovery port.
const (
	ActionDiscover  = "discover"
	ActionKeepAlive = "keep-alive"
)

// Announcement is the payload a node sends to pair with or stay registered on the controller.
type Announcement struct {
	Firmware string `json:"firmware"`
	Action   string `json:"action"`
	Name     string `json:"name"`
}

// ParseAnnouncement decodes a datagram and checks it belongs to the given firmware.
func ParseAnnouncement(data []byte, firmware string) (Announcement, error) {
	var a Announcement
	if err := json.Unmarshal(data, &a); err != nil {
		return Announcement{}, fmt.Errorf("%w: %w", ErrMalformedAnnouncement, err)
	}
	if a.Firmware != firmware {
		return Announcement{}, fmt.Errorf("%w: %q", ErrUnknownFirmware, a.Firmware)
	}
	switch a.Action {
	case ActionDiscover, ActionKeepAlive:
	default:
		return Announcement{}, fmt.Errorf("%w: %q", ErrUnknownAction, a.Action)
	}
	return a, nil
}
