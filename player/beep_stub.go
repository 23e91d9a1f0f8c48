//go:build !((linux && cgo) || windows || darwin)

package player

import "errors"

// NewBeep fails on builds without native audio support.
func NewBeep() (Backend, error) {
	return nil, errors.New("beep player requires cgo on this platform, use mpv or headless")
}
