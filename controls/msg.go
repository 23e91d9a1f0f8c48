package controls

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/keypoint-cli/keypoint/player"
	"github.com/keypoint-cli/keypoint/rate"
	"github.com/keypoint-cli/keypoint/stream"
)

// PlayPauseMsg toggles playback.
type PlayPauseMsg struct{}

// SetPlayingMsg assigns is-playing. With Passthrough the engine is told as well;
// without it only the view state changes.
type SetPlayingMsg struct {
	Playing     bool
	Passthrough bool
}

// SpeedCycleMsg moves to the next playback rate.
type SpeedCycleMsg struct{}

// ScrubMsg seeks to an absolute position.
type ScrubMsg struct {
	To time.Duration
}

type SeekBackMsg struct{}

type SeekForwardMsg struct{}

// PrevKeyPointMsg and NextKeyPointMsg are handled by the parent.
type PrevKeyPointMsg struct{}

type NextKeyPointMsg struct{}

// CommandFailedMsg reports an engine command that returned an error.
type CommandFailedMsg struct {
	Command string
	Err     error
}

type statusMsg struct {
	generation int
	status     player.Status
}

type timeMsg struct {
	generation int
	position   time.Duration
}

type rateMsg struct {
	generation int
	rate       rate.Rate
}

type itemMsg struct {
	generation int
	item       player.Item
}

type endMsg struct {
	generation int
}

// waitFor blocks on the next value of sub. A closed subscription yields no message.
func waitFor[T any](sub *stream.Subscription[T], wrap func(T) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		v, ok := <-sub.C()
		if !ok {
			return nil
		}
		return wrap(v)
	}
}

func (m *Model) waitForStatus() tea.Cmd {
	gen := m.generation
	return waitFor(m.subs.status, func(s player.Status) tea.Msg {
		return statusMsg{generation: gen, status: s}
	})
}

func (m *Model) waitForTime() tea.Cmd {
	gen := m.generation
	return waitFor(m.subs.time, func(d time.Duration) tea.Msg {
		return timeMsg{generation: gen, position: d}
	})
}

func (m *Model) waitForRate() tea.Cmd {
	gen := m.generation
	return waitFor(m.subs.rate, func(r rate.Rate) tea.Msg {
		return rateMsg{generation: gen, rate: r}
	})
}

func (m *Model) waitForItem() tea.Cmd {
	gen := m.generation
	return waitFor(m.subs.item, func(i player.Item) tea.Msg {
		return itemMsg{generation: gen, item: i}
	})
}

func (m *Model) waitForEnd() tea.Cmd {
	gen := m.generation
	return waitFor(m.subs.end, func(player.Item) tea.Msg {
		return endMsg{generation: gen}
	})
}
