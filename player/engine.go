package player

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/keypoint-cli/keypoint/log"
	"github.com/keypoint-cli/keypoint/media"
	"github.com/keypoint-cli/keypoint/rate"
	"github.com/keypoint-cli/keypoint/stream"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// TimeInterval is the cadence of the current-time stream.
const TimeInterval = 100 * time.Millisecond

// state is owned by the engine goroutine.
type state struct {
	item     mo.Option[media.Reference]
	duration time.Duration
	rate     rate.Rate
	status   Status
	stalled  bool
}

type command struct {
	name  string
	apply func(*state) error
	reply chan error
}

// Engine serializes commands against a single Backend and publishes its state.
type Engine struct {
	backend  Backend
	interval time.Duration
	logger   *log.Entry

	commands  chan command
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	statuses *stream.Hub[Status]
	rates    *stream.Hub[rate.Rate]
	items    *stream.Hub[Item]
	ends     *stream.Hub[Item]

	st state
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithRate sets the initial playback rate.
func WithRate(r rate.Rate) EngineOption {
	return func(e *Engine) {
		e.st.rate = r
	}
}

// WithTimeInterval overrides the current-time cadence.
func WithTimeInterval(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.interval = d
	}
}

// NewEngine takes ownership of backend and starts the engine goroutine.
func NewEngine(backend Backend, options ...EngineOption) *Engine {
	e := &Engine{
		backend:  backend,
		interval: TimeInterval,
		logger:   log.Component("engine"),
		commands: make(chan command),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		st:       state{rate: rate.Normal, status: Idle},
	}

	for _, option := range options {
		option(e)
	}

	e.statuses = stream.NewReplayHub(e.st.status)
	e.rates = stream.NewReplayHub(e.st.rate)
	e.items = stream.NewReplayHub(Item{})
	e.ends = stream.NewHub[Item]()

	go e.run()
	return e
}

func (e *Engine) run() {
	defer close(e.done)

	events := e.backend.Events()
	for {
		select {
		case <-e.quit:
			return
		case cmd := <-e.commands:
			err := cmd.apply(&e.st)
			if err != nil {
				e.logger.Debugf("%s: %v", cmd.name, err)
			}
			cmd.reply <- err
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			e.handle(ev)
		}
	}
}

func (e *Engine) handle(ev Event) {
	if e.st.item.IsAbsent() {
		return
	}

	switch ev.Kind {
	case EventEnded:
		if err := e.backend.Pause(); err != nil {
			e.logger.Warnf("pause after end: %v", err)
		}
		e.st.stalled = false
		e.setStatus(Paused)
		e.ends.Publish(e.currentItem())
	case EventStalled:
		e.st.stalled = true
		if e.st.status.Active() {
			e.setStatus(Buffering)
		}
	case EventResumed:
		e.st.stalled = false
		if e.st.status.Active() {
			e.setStatus(Playing)
		}
	}
}

func (e *Engine) setStatus(s Status) {
	e.st.status = s
	e.statuses.Publish(s)
}

func (e *Engine) currentItem() Item {
	return Item{Media: e.st.item, Duration: e.st.duration}
}

// do runs apply on the engine goroutine and waits for it to finish.
func (e *Engine) do(ctx context.Context, name string, apply func(*state) error) error {
	reply := make(chan error, 1)

	select {
	case e.commands <- command{name: name, apply: apply, reply: reply}:
	case <-e.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Load pauses the transport and swaps the item in one step. An absent
// reference clears the item. When the backend cannot open ref the engine is
// left with no item and the error is returned.
func (e *Engine) Load(ctx context.Context, ref mo.Option[media.Reference]) error {
	return e.do(ctx, "load", func(s *state) error {
		if s.item.IsPresent() {
			if err := e.backend.Pause(); err != nil {
				e.logger.Warnf("pause before load: %v", err)
			}
		}

		target, ok := ref.Get()
		if !ok {
			e.unload(s)
			return nil
		}

		if err := e.backend.Open(ctx, target); err != nil {
			e.unload(s)
			return fmt.Errorf("open %s: %w", target, err)
		}

		s.item = ref
		s.stalled = false
		s.duration = e.duration()
		e.logger.Infof("loaded %s (%s)", target, s.duration)

		e.setStatus(Paused)
		e.items.Publish(e.currentItem())
		return nil
	})
}

func (e *Engine) duration() time.Duration {
	d, err := e.backend.Duration()
	if err != nil {
		e.logger.Debugf("duration unknown: %v", err)
		return 0
	}
	return lo.Max([]time.Duration{d, 0})
}

func (e *Engine) unload(s *state) {
	if err := e.backend.Unload(); err != nil {
		e.logger.Warnf("unload: %v", err)
	}

	s.item = mo.None[media.Reference]()
	s.duration = 0
	s.stalled = false

	e.setStatus(Idle)
	e.items.Publish(e.currentItem())
}

// Play starts the transport at the configured rate.
// The status is always republished so optimistic observers converge.
func (e *Engine) Play(ctx context.Context) error {
	return e.do(ctx, "play", func(s *state) error {
		if s.item.IsAbsent() {
			e.setStatus(s.status)
			return ErrNoItem
		}

		if err := e.backend.Play(s.rate.Multiplier()); err != nil {
			e.setStatus(s.status)
			return err
		}

		if s.stalled {
			e.setStatus(Buffering)
		} else {
			e.setStatus(Playing)
		}
		return nil
	})
}

// Pause stops the transport. Pausing a paused engine is a no-op.
func (e *Engine) Pause(ctx context.Context) error {
	return e.do(ctx, "pause", func(s *state) error {
		if s.item.IsAbsent() {
			e.setStatus(s.status)
			return nil
		}

		if err := e.backend.Pause(); err != nil {
			e.setStatus(s.status)
			return err
		}

		e.setStatus(Paused)
		return nil
	})
}

// SetPlaybackRate stores r and applies it immediately while playing.
func (e *Engine) SetPlaybackRate(ctx context.Context, r rate.Rate) error {
	return e.do(ctx, "rate", func(s *state) error {
		if !r.Valid() {
			return fmt.Errorf("invalid rate %d", int(r))
		}

		s.rate = r
		e.rates.Publish(r)

		if s.item.IsPresent() && s.status.Active() {
			return e.backend.Play(r.Multiplier())
		}
		return nil
	})
}

// SeekTo moves to an absolute position, clamped to the item.
func (e *Engine) SeekTo(ctx context.Context, position time.Duration) error {
	return e.do(ctx, "seek", func(s *state) error {
		if s.item.IsAbsent() {
			return ErrNoItem
		}
		return e.backend.Seek(e.clamp(s, position))
	})
}

// SeekBy moves relative to the current position, clamped to the item.
func (e *Engine) SeekBy(ctx context.Context, delta time.Duration) error {
	return e.do(ctx, "seek", func(s *state) error {
		if s.item.IsAbsent() {
			return ErrNoItem
		}

		position, err := e.backend.Position()
		if err != nil {
			return err
		}

		return e.backend.Seek(e.clamp(s, position+delta))
	})
}

func (e *Engine) clamp(s *state, position time.Duration) time.Duration {
	if position < 0 {
		return 0
	}
	if s.duration > 0 && position > s.duration {
		return s.duration
	}
	return position
}

// Position is the current playback position, zero without an item.
func (e *Engine) Position(ctx context.Context) (time.Duration, error) {
	var position time.Duration
	err := e.do(ctx, "position", func(s *state) error {
		if s.item.IsAbsent() {
			position = 0
			return nil
		}

		var err error
		position, err = e.backend.Position()
		return err
	})
	return position, err
}

// Duration is the length of the loaded item, zero without an item.
func (e *Engine) Duration(ctx context.Context) (time.Duration, error) {
	var d time.Duration
	err := e.do(ctx, "duration", func(s *state) error {
		d = s.duration
		return nil
	})
	return d, err
}

// Status is the current transport status.
func (e *Engine) Status(ctx context.Context) (Status, error) {
	var status Status
	err := e.do(ctx, "status", func(s *state) error {
		status = s.status
		return nil
	})
	return status, err
}

// Rate is the configured playback rate.
func (e *Engine) Rate(ctx context.Context) (rate.Rate, error) {
	var r rate.Rate
	err := e.do(ctx, "rate", func(s *state) error {
		r = s.rate
		return nil
	})
	return r, err
}

// StatusStream emits the transport status, starting with the current one.
func (e *Engine) StatusStream() *stream.Subscription[Status] {
	return e.statuses.Subscribe()
}

// TimeStream emits the playback position every TimeInterval while attached.
func (e *Engine) TimeStream() *stream.Subscription[time.Duration] {
	return stream.Ticker(e.interval, e.Position)
}

// RateStream emits rate changes, starting with the current rate.
func (e *Engine) RateStream() *stream.Subscription[rate.Rate] {
	return e.rates.Subscribe()
}

// ItemStream emits the loaded item after every Load, starting with the current one.
func (e *Engine) ItemStream() *stream.Subscription[Item] {
	return e.items.Subscribe()
}

// EndStream emits the item each time it plays to completion.
func (e *Engine) EndStream() *stream.Subscription[Item] {
	return e.ends.Subscribe()
}

// Close stops the engine, ends all streams and closes the backend.
func (e *Engine) Close() error {
	var err error
	e.closeOnce.Do(func() {
		close(e.quit)
		<-e.done

		e.statuses.Close()
		e.rates.Close()
		e.items.Close()
		e.ends.Close()

		err = e.backend.Close()
	})
	return err
}
