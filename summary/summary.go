// Package summary coordinates a book's key points, the audio controls and
// the subscription overlay.
package summary

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/keypoint-cli/keypoint/book"
	"github.com/keypoint-cli/keypoint/controls"
	"github.com/keypoint-cli/keypoint/log"
	"github.com/keypoint-cli/keypoint/media"
	"github.com/keypoint-cli/keypoint/payment"
	"github.com/keypoint-cli/keypoint/player"
	"github.com/keypoint-cli/keypoint/store"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Engine is the playback engine as the summary needs it.
type Engine interface {
	controls.Engine
	Load(ctx context.Context, ref mo.Option[media.Reference]) error
}

// Model is the summary state. Index is always a valid key point index.
type Model struct {
	Book      *book.Book
	Index     int
	Autoplay  bool
	AudioMode bool
	Controls  *controls.Model
	Payment   mo.Option[*payment.Model]
	Closed    bool

	// resume is set when autoplay was withheld behind the overlay
	resume bool

	engine   Engine
	ctx      context.Context
	gate     *loadGate
	onSelect func(index int)
	logger   *log.Entry
}

type Option func(*Model)

// WithIndex starts at index instead of the first key point, clamped to the book.
func WithIndex(index int) Option {
	return func(m *Model) {
		m.Index = lo.Clamp(index, 0, m.Book.Len()-1)
	}
}

// WithAutoplay plays the first loaded key point too.
func WithAutoplay(autoplay bool) Option {
	return func(m *Model) {
		m.Autoplay = autoplay
	}
}

// OnSelect registers fn to be called with every newly selected index.
func OnSelect(fn func(index int)) Option {
	return func(m *Model) {
		m.onSelect = fn
	}
}

// Locked puts the subscription overlay in front of the summary.
func Locked(client store.Client) Option {
	return func(m *Model) {
		m.Payment = mo.Some(payment.New(m.ctx, client))
	}
}

// New returns a summary of b. The book must have at least one key point.
func New(ctx context.Context, engine Engine, b *book.Book, options ...Option) (*Model, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	m := &Model{
		Book:      b,
		AudioMode: true,
		Controls:  controls.New(ctx, engine),
		engine:    engine,
		ctx:       ctx,
		gate:      &loadGate{},
		logger:    log.Component("summary").With("book", b.Name()),
	}

	for _, option := range options {
		option(m)
	}

	return m, nil
}

// Entitled reports whether the overlay is gone.
func (m *Model) Entitled() bool {
	return m.Payment.IsAbsent()
}

// KeyPoint is the current key point.
func (m *Model) KeyPoint() book.KeyPoint {
	return m.Book.At(m.Index)
}

// Init attaches the controls and loads the current key point.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.Controls.Attach(), m.load()}

	if p, ok := m.Payment.Get(); ok {
		cmds = append(cmds, p.Update(payment.AppearMsg{}))
	}

	return tea.Batch(cmds...)
}

func (m *Model) Update(msg tea.Msg) tea.Cmd {
	if m.Closed {
		return nil
	}

	if !m.Entitled() && userIntent(msg) {
		return nil
	}

	switch msg := msg.(type) {
	case SelectIndexMsg:
		if !m.Book.Contains(msg.Index) {
			return m.Controls.Update(controls.ScrubMsg{To: 0})
		}

		m.Index = msg.Index
		if m.onSelect != nil {
			m.onSelect(m.Index)
		}
		return m.load()

	case loadedMsg:
		if !m.gate.current(msg.seq) {
			return nil
		}

		var cmd tea.Cmd
		switch {
		case msg.err != nil:
			m.logger.Warnf("load key point %d: %v", msg.index, msg.err)
			cmd = m.unload(msg.seq)
		case m.Autoplay && m.Entitled():
			cmd = m.play()
		case m.Autoplay:
			m.resume = true
		}

		m.Autoplay = true
		return cmd

	case controls.PrevKeyPointMsg:
		return m.Update(SelectIndexMsg{Index: m.Index - 1})

	case controls.NextKeyPointMsg:
		next := m.Index + 1
		if m.Book.Contains(next) {
			return m.Update(SelectIndexMsg{Index: next})
		}

		m.Controls.Update(controls.SetPlayingMsg{Playing: false})
		return m.rewind()

	case ModeToggleMsg:
		m.AudioMode = !m.AudioMode
		return nil

	case payment.FinishedMsg:
		m.logger.Infof("subscription active (%s)", msg.Transaction.ID)
		m.Payment = mo.None[*payment.Model]()
		if m.resume {
			m.resume = false
			return m.play()
		}
		return nil

	case payment.CancelMsg, CloseMsg:
		return m.Teardown()
	}

	var cmds []tea.Cmd
	cmds = append(cmds, m.Controls.Update(msg))
	if p, ok := m.Payment.Get(); ok {
		cmds = append(cmds, p.Update(msg))
	}
	return tea.Batch(cmds...)
}

// Teardown pauses playback and cancels every subscription. The returned
// command reports ClosedMsg once the engine is paused.
func (m *Model) Teardown() tea.Cmd {
	if m.Closed {
		return nil
	}

	m.Closed = true
	m.Controls.Detach()
	m.Controls.IsPlaying = false

	ctx, engine, logger := m.ctx, m.engine, m.logger
	return func() tea.Msg {
		if err := engine.Pause(ctx); err != nil {
			logger.Warnf("pause on close: %v", err)
		}
		return ClosedMsg{}
	}
}

func (m *Model) play() tea.Cmd {
	return m.Controls.Update(controls.SetPlayingMsg{Playing: true, Passthrough: true})
}

func (m *Model) load() tea.Cmd {
	m.Controls.Reset()

	seq := m.gate.next()
	index := m.Index
	ref := m.KeyPoint().Media()
	if ref.IsAbsent() {
		m.logger.Warnf("key point %d has no playable media", index)
	}

	ctx, engine, gate := m.ctx, m.engine, m.gate
	return func() tea.Msg {
		err := gate.load(seq, func() error {
			return engine.Load(ctx, ref)
		})
		if errors.Is(err, errStale) {
			return nil
		}
		return loadedMsg{seq: seq, index: index, err: err}
	}
}

func (m *Model) unload(seq int64) tea.Cmd {
	ctx, engine, gate, logger := m.ctx, m.engine, m.gate, m.logger
	return func() tea.Msg {
		err := gate.load(seq, func() error {
			return engine.Load(ctx, mo.None[media.Reference]())
		})
		if err != nil && !errors.Is(err, errStale) {
			logger.Warnf("unload: %v", err)
		}
		return nil
	}
}

// rewind pauses, then seeks to the start.
func (m *Model) rewind() tea.Cmd {
	ctx, engine, logger := m.ctx, m.engine, m.logger
	return func() tea.Msg {
		if err := engine.Pause(ctx); err != nil {
			logger.Warnf("pause at end: %v", err)
		}
		if err := engine.SeekTo(ctx, 0); err != nil && !errors.Is(err, player.ErrNoItem) {
			logger.Warnf("rewind: %v", err)
		}
		return nil
	}
}

func userIntent(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case controls.PlayPauseMsg,
		controls.SpeedCycleMsg,
		controls.ScrubMsg,
		controls.SeekBackMsg,
		controls.SeekForwardMsg,
		controls.PrevKeyPointMsg,
		controls.NextKeyPointMsg,
		SelectIndexMsg:
		return true
	case controls.SetPlayingMsg:
		return msg.Passthrough
	}
	return false
}

var errStale = errors.New("superseded by a newer load")

// loadGate keeps engine loads in selection order: a load runs only while it
// is the most recent one requested.
type loadGate struct {
	mu     sync.Mutex
	latest atomic.Int64
}

func (g *loadGate) next() int64 {
	return g.latest.Add(1)
}

func (g *loadGate) current(seq int64) bool {
	return g.latest.Load() == seq
}

func (g *loadGate) load(seq int64, fn func() error) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.current(seq) {
		return errStale
	}
	return fn()
}
