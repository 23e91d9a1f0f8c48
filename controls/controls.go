// Package controls folds playback engine signals into view state and turns
// user intents into engine commands.
package controls

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/keypoint-cli/keypoint/log"
	"github.com/keypoint-cli/keypoint/player"
	"github.com/keypoint-cli/keypoint/rate"
	"github.com/keypoint-cli/keypoint/stream"
	"github.com/samber/mo"
)

const (
	// SeekBackStep is how far SeekBackMsg rewinds.
	SeekBackStep = 5 * time.Second
	// SeekForwardStep is how far SeekForwardMsg skips ahead.
	SeekForwardStep = 10 * time.Second
)

// Engine is the part of the playback engine the controls drive.
type Engine interface {
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	SetPlaybackRate(ctx context.Context, r rate.Rate) error
	SeekTo(ctx context.Context, position time.Duration) error
	SeekBy(ctx context.Context, delta time.Duration) error

	StatusStream() *stream.Subscription[player.Status]
	TimeStream() *stream.Subscription[time.Duration]
	RateStream() *stream.Subscription[rate.Rate]
	ItemStream() *stream.Subscription[player.Item]
	EndStream() *stream.Subscription[player.Item]
}

// Model is the audio controls state. It must only be updated from one goroutine.
type Model struct {
	IsPlaying   bool
	CurrentTime time.Duration
	Duration    time.Duration
	Rate        rate.Rate

	engine Engine
	ctx    context.Context
	logger *log.Entry

	// generation tags stream messages so values from a previous attachment are dropped
	generation int
	subs       *subscriptions

	// intent is the play or pause in flight. Status echoes that disagree with
	// it are held until it is confirmed or fails.
	intent mo.Option[bool]
	held   mo.Option[bool]
}

type subscriptions struct {
	status *stream.Subscription[player.Status]
	time   *stream.Subscription[time.Duration]
	rate   *stream.Subscription[rate.Rate]
	item   *stream.Subscription[player.Item]
	end    *stream.Subscription[player.Item]
}

func (s *subscriptions) cancel() {
	s.status.Cancel()
	s.time.Cancel()
	s.rate.Cancel()
	s.item.Cancel()
	s.end.Cancel()
}

// New returns detached controls for engine. Engine commands run under ctx.
func New(ctx context.Context, engine Engine) *Model {
	return &Model{
		Rate:   rate.Normal,
		engine: engine,
		ctx:    ctx,
		logger: log.Component("controls"),
	}
}

// Attached reports whether the model is subscribed to the engine.
func (m *Model) Attached() bool {
	return m.subs != nil
}

// Attach subscribes to every engine stream. Attaching twice is a no-op.
func (m *Model) Attach() tea.Cmd {
	if m.subs != nil {
		return nil
	}

	m.generation++
	m.subs = &subscriptions{
		status: m.engine.StatusStream(),
		time:   m.engine.TimeStream(),
		rate:   m.engine.RateStream(),
		item:   m.engine.ItemStream(),
		end:    m.engine.EndStream(),
	}

	return tea.Batch(
		m.waitForStatus(),
		m.waitForTime(),
		m.waitForRate(),
		m.waitForItem(),
		m.waitForEnd(),
	)
}

// Detach cancels every subscription. No stream message is folded afterwards.
func (m *Model) Detach() {
	if m.subs == nil {
		return
	}

	m.subs.cancel()
	m.subs = nil
	m.generation++
	m.settle()
}

// Reset clears the time and duration before a new key point is loaded.
func (m *Model) Reset() {
	m.CurrentTime = 0
	m.Duration = 0
}

// Progress is the played fraction of the current item, in [0, 1].
func (m *Model) Progress() float64 {
	if m.Duration <= 0 {
		return 0
	}
	return min(max(float64(m.CurrentTime)/float64(m.Duration), 0), 1)
}

// Update folds msg into the model.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PlayPauseMsg:
		return m.Update(SetPlayingMsg{Playing: !m.IsPlaying, Passthrough: true})

	case SetPlayingMsg:
		m.IsPlaying = msg.Playing
		if !msg.Passthrough {
			m.settle()
			return nil
		}

		m.intent = mo.Some(msg.Playing)
		m.held = mo.None[bool]()
		if msg.Playing {
			return m.run(transportCommand(true), m.engine.Play)
		}
		return m.run(transportCommand(false), m.engine.Pause)

	case SpeedCycleMsg:
		next := m.Rate.Next()
		return m.run("rate", func(ctx context.Context) error {
			return m.engine.SetPlaybackRate(ctx, next)
		})

	case ScrubMsg:
		return m.run("scrub", func(ctx context.Context) error {
			return m.engine.SeekTo(ctx, msg.To)
		})

	case SeekBackMsg:
		return m.run("seek back", func(ctx context.Context) error {
			return m.engine.SeekBy(ctx, -SeekBackStep)
		})

	case SeekForwardMsg:
		return m.run("seek forward", func(ctx context.Context) error {
			return m.engine.SeekBy(ctx, SeekForwardStep)
		})

	case PrevKeyPointMsg, NextKeyPointMsg:
		// index changes belong to the parent
		return nil

	case CommandFailedMsg:
		m.logger.Warnf("%s: %v", msg.Command, msg.Err)
		if want, ok := m.intent.Get(); ok && msg.Command == transportCommand(want) {
			if active, ok := m.held.Get(); ok {
				m.IsPlaying = active
			}
			m.settle()
		}
		return nil

	case statusMsg:
		if msg.generation != m.generation {
			return nil
		}
		m.fold(msg.status.Active())
		return m.waitForStatus()

	case timeMsg:
		if msg.generation != m.generation {
			return nil
		}
		m.CurrentTime = msg.position
		return m.waitForTime()

	case rateMsg:
		if msg.generation != m.generation {
			return nil
		}
		m.Rate = msg.rate
		return m.waitForRate()

	case itemMsg:
		if msg.generation != m.generation {
			return nil
		}
		m.Duration = msg.item.Duration
		if msg.item.Empty() {
			m.Duration = 0
		}
		return m.waitForItem()

	case endMsg:
		if msg.generation != m.generation {
			return nil
		}
		return tea.Batch(m.waitForEnd(), func() tea.Msg {
			return NextKeyPointMsg{}
		})
	}

	return nil
}

// fold applies a status echo.
func (m *Model) fold(active bool) {
	if want, ok := m.intent.Get(); ok && want != active {
		m.held = mo.Some(active)
		return
	}

	m.settle()
	m.IsPlaying = active
}

func (m *Model) settle() {
	m.intent = mo.None[bool]()
	m.held = mo.None[bool]()
}

func transportCommand(playing bool) string {
	if playing {
		return "play"
	}
	return "pause"
}

func (m *Model) run(name string, command func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		if err := command(ctx); err != nil {
			return CommandFailedMsg{Command: name, Err: err}
		}
		return nil
	}
}
