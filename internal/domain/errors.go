package domain

import "errors"

var (
	ErrMalformedAnnouncement = errors.New("malformed announcement")
	ErrUnknownFirmware       = errors.New("unknown firmware")
	ErrUnknownAction         = errors.New("unknown action")
	ErrInvalidSender         = errors.New("sender is not an IP endpoint")
)
