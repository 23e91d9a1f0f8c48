package player

import (
	"context"
	"sync"
	"time"

	"github.com/keypoint-cli/keypoint/media"
)

// DefaultHeadlessDuration is the length given to every item when no probe is set.
const DefaultHeadlessDuration = 3 * time.Minute

// Probe reports the duration of ref.
type Probe func(ctx context.Context, ref media.Reference) (time.Duration, error)

// Headless is a backend that plays nothing and advances a clock instead.
// It backs tests and terminals without audio output.
type Headless struct {
	probe Probe
	now   func() time.Time

	mu       sync.Mutex
	loaded   bool
	duration time.Duration
	offset   time.Duration
	anchor   time.Time
	speed    float64
	playing  bool
	timer    *time.Timer
	events   chan Event
	closed   bool
}

// HeadlessOption configures a Headless backend.
type HeadlessOption func(*Headless)

// WithDuration gives every item the same duration.
func WithDuration(d time.Duration) HeadlessOption {
	return func(h *Headless) {
		h.probe = func(context.Context, media.Reference) (time.Duration, error) {
			return d, nil
		}
	}
}

// WithProbe resolves durations per item. A probe error fails Open.
func WithProbe(probe Probe) HeadlessOption {
	return func(h *Headless) {
		h.probe = probe
	}
}

func NewHeadless(options ...HeadlessOption) *Headless {
	h := &Headless{
		now:    time.Now,
		speed:  1,
		events: make(chan Event, eventBuffer),
	}

	WithDuration(DefaultHeadlessDuration)(h)
	for _, option := range options {
		option(h)
	}

	return h
}

func (h *Headless) Open(ctx context.Context, ref media.Reference) error {
	d, err := h.probe(ctx, ref)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.halt()
	h.loaded = true
	h.duration = d
	h.offset = 0
	return nil
}

func (h *Headless) Unload() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.halt()
	h.loaded = false
	h.duration = 0
	h.offset = 0
	return nil
}

func (h *Headless) Play(speed float64) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.loaded {
		return ErrNoItem
	}

	h.halt()
	h.speed = speed
	h.playing = true
	h.anchor = h.now()
	h.arm()
	return nil
}

func (h *Headless) Pause() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.halt()
	return nil
}

func (h *Headless) Seek(position time.Duration) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.loaded {
		return ErrNoItem
	}

	wasPlaying := h.playing
	h.halt()
	h.offset = min(max(position, 0), h.duration)

	if wasPlaying {
		h.playing = true
		h.anchor = h.now()
		h.arm()
	}
	return nil
}

func (h *Headless) Position() (time.Duration, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.position(), nil
}

func (h *Headless) Duration() (time.Duration, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.duration, nil
}

func (h *Headless) Events() <-chan Event {
	return h.events
}

func (h *Headless) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}

	h.halt()
	h.closed = true
	close(h.events)
	return nil
}

// Finish jumps to the end of the item and reports it as ended.
func (h *Headless) Finish() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.loaded {
		return
	}

	h.halt()
	h.offset = h.duration
	h.emit(Event{Kind: EventEnded})
}

// Stall reports a buffering stall, or its end when stalled is false.
func (h *Headless) Stall(stalled bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if stalled {
		h.emit(Event{Kind: EventStalled})
	} else {
		h.emit(Event{Kind: EventResumed})
	}
}

func (h *Headless) position() time.Duration {
	if !h.playing {
		return h.offset
	}

	elapsed := time.Duration(float64(h.now().Sub(h.anchor)) * h.speed)
	return min(h.offset+elapsed, h.duration)
}

// halt freezes the clock at the current position.
func (h *Headless) halt() {
	h.offset = h.position()
	h.playing = false
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
}

func (h *Headless) arm() {
	remaining := time.Duration(float64(h.duration-h.offset) / h.speed)

	var timer *time.Timer
	timer = time.AfterFunc(remaining, func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		if h.timer != timer {
			return
		}

		h.timer = nil
		h.playing = false
		h.offset = h.duration
		h.emit(Event{Kind: EventEnded})
	})
	h.timer = timer
}

func (h *Headless) emit(ev Event) {
	if h.closed {
		return
	}

	select {
	case h.events <- ev:
	default:
	}
}
