// Package player owns the single audio playback resource.
//
// An Engine serializes every command against one Backend (mpv over JSON-IPC,
// in-process beep decoding, or a simulated headless clock) and publishes the
// transport state as independent streams.
package player

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/keypoint-cli/keypoint/key"
	"github.com/keypoint-cli/keypoint/media"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

var (
	// ErrClosed is returned by commands issued after Close.
	ErrClosed = errors.New("player closed")

	// ErrNoItem is returned by transport commands while nothing is loaded.
	ErrNoItem = errors.New("no item loaded")
)

// Backend names accepted by New.
const (
	BackendMPV      = "mpv"
	BackendBeep     = "beep"
	BackendHeadless = "headless"
)

// Backends lists the backend names in preference order.
func Backends() []string {
	return []string{BackendMPV, BackendBeep, BackendHeadless}
}

// Backend is a single media resource. Engines call it from one goroutine.
type Backend interface {
	// Open replaces the current item with ref, paused at position zero.
	Open(ctx context.Context, ref media.Reference) error

	// Unload clears the current item.
	Unload() error

	// Play starts or continues the transport at the given speed multiplier.
	Play(speed float64) error

	// Pause stops the transport.
	Pause() error

	// Seek moves to an absolute position.
	Seek(position time.Duration) error

	// Position is the current playback position.
	Position() (time.Duration, error)

	// Duration is the length of the current item, zero when unknown.
	Duration() (time.Duration, error)

	// Events delivers end-of-item and buffering notifications.
	Events() <-chan Event

	// Close releases the resource.
	Close() error
}

// EventKind classifies backend notifications.
type EventKind int

const (
	// EventEnded is sent when the item played to completion.
	EventEnded EventKind = iota
	// EventStalled is sent when playback waits for data.
	EventStalled
	// EventResumed is sent when stalled playback continues.
	EventResumed
)

// Event is a backend notification.
type Event struct {
	Kind EventKind
}

// Status is the transport state.
type Status int

const (
	Idle Status = iota
	Paused
	Buffering
	Playing
)

// Active reports whether the transport is moving or trying to.
func (s Status) Active() bool {
	return s == Playing || s == Buffering
}

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Paused:
		return "paused"
	case Buffering:
		return "buffering"
	case Playing:
		return "playing"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Item describes what is loaded after a Load completes.
type Item struct {
	Media    mo.Option[media.Reference]
	Duration time.Duration
}

// Empty reports whether nothing is loaded.
func (i Item) Empty() bool {
	return i.Media.IsAbsent()
}

// New creates the named backend.
func New(name string) (Backend, error) {
	switch name {
	case BackendMPV:
		return NewMPV(viper.GetString(key.PlayerMpvPath)), nil
	case BackendBeep:
		return NewBeep()
	case BackendHeadless:
		return NewHeadless(), nil
	default:
		return nil, fmt.Errorf("unknown player %q, available: %v", name, Backends())
	}
}
