package tui

import (
	"fmt"

	"github.com/keypoint-cli/keypoint/controls"
	"github.com/keypoint-cli/keypoint/log"
	"github.com/keypoint-cli/keypoint/payment"
	"github.com/keypoint-cli/keypoint/summary"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// notifications arrive as plain strings
	if uiCmd := b.notifier.Update(msg); uiCmd != nil {
		cmd = uiCmd
	}

	switch msg := msg.(type) {
	case error:
		b.stopLoading()
		b.raiseError(msg)
		return b, cmd
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case spinner.TickMsg:
		if b.loading || b.locked() {
			var spinnerCmd tea.Cmd
			b.spinnerC, spinnerCmd = b.spinnerC.Update(msg)
			cmd = tea.Batch(cmd, spinnerCmd)
		}
	case controls.CommandFailedMsg:
		cmd = tea.Batch(cmd, notify(fmt.Sprintf("%s failed", msg.Command)))
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			return b, tea.Quit
		}
	}

	var stateCmd tea.Cmd
	switch b.state {
	case libraryState:
		stateCmd = b.updateLibrary(msg)
	case summaryState:
		stateCmd = b.updateSummary(msg)
	case errorState:
		stateCmd = b.updateError(msg)
	}

	return b, tea.Batch(cmd, stateCmd)
}

func (b *statefulBubble) updateLibrary(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case libraryLoadedMsg:
		b.stopLoading()
		items := lo.Map(b.listItems(msg.entries), func(item *listItem, _ int) list.Item {
			return item
		})
		cmd = b.libraryC.SetItems(items)
		return cmd
	case entitlementMsg:
		b.stopLoading()
		return b.openSummary(msg)
	case tea.KeyMsg:
		if b.libraryC.FilterState() == list.Filtering {
			break
		}

		switch {
		case bubblesKey.Matches(msg, b.keymap.quit):
			return tea.Quit
		case bubblesKey.Matches(msg, b.keymap.confirm):
			item, ok := b.libraryC.SelectedItem().(*listItem)
			if !ok || b.loading {
				return nil
			}
			return tea.Batch(b.startLoading(), b.open(item.entry, b.options.Index))
		}
	}

	b.libraryC, cmd = b.libraryC.Update(msg)
	return cmd
}

func (b *statefulBubble) updateSummary(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case entitlementMsg:
		b.stopLoading()
		return b.openSummary(msg)
	case summary.ClosedMsg:
		log.Infof("closed %s", b.entry.Book.Name())
		b.summary = nil
		b.entry = nil
		b.keymap.locked = false
		// Index only applies to the book the session was started with
		b.options.Index = mo.None[int]()

		if len(b.trail) == 0 {
			b.setState(libraryState)
			return tea.Batch(b.startLoading(), b.loadLibrary())
		}
		b.previousState()
		return nil
	case tea.KeyMsg:
		if b.summary == nil {
			return nil
		}
		return b.summaryKey(msg)
	}

	if b.summary == nil {
		return nil
	}

	cmd := b.summary.Update(msg)
	b.keymap.locked = b.locked()
	return cmd
}

// summaryKey translates a key press into the summary's vocabulary.
func (b *statefulBubble) summaryKey(msg tea.KeyMsg) tea.Cmd {
	s := b.summary
	k := b.keymap

	if p, ok := s.Payment.Get(); ok {
		switch {
		case p.Alert.IsPresent() && bubblesKey.Matches(msg, k.dismiss):
			return s.Update(payment.AlertDismissedMsg{})
		case bubblesKey.Matches(msg, k.buy):
			return s.Update(payment.BuyMsg{})
		case bubblesKey.Matches(msg, k.back, k.quit):
			return s.Update(payment.CancelMsg{})
		}
		return nil
	}

	var out tea.Msg
	switch {
	case bubblesKey.Matches(msg, k.back):
		out = summary.CloseMsg{}
	case bubblesKey.Matches(msg, k.quit):
		return tea.Sequence(s.Teardown(), tea.Quit)
	case bubblesKey.Matches(msg, k.playPause):
		out = controls.PlayPauseMsg{}
	case bubblesKey.Matches(msg, k.speed):
		out = controls.SpeedCycleMsg{}
	case bubblesKey.Matches(msg, k.seekBack):
		out = controls.SeekBackMsg{}
	case bubblesKey.Matches(msg, k.seekForward):
		out = controls.SeekForwardMsg{}
	case bubblesKey.Matches(msg, k.prev):
		out = controls.PrevKeyPointMsg{}
	case bubblesKey.Matches(msg, k.next):
		out = controls.NextKeyPointMsg{}
	case bubblesKey.Matches(msg, k.rewind):
		out = controls.ScrubMsg{To: 0}
	case bubblesKey.Matches(msg, k.mode):
		out = summary.ModeToggleMsg{}
	case bubblesKey.Matches(msg, k.openCover):
		return b.openCover()
	case bubblesKey.Matches(msg, k.showHelp):
		b.helpC.ShowAll = !b.helpC.ShowAll
		return nil
	default:
		return nil
	}

	return s.Update(out)
}

func (b *statefulBubble) updateError(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.quit):
			return tea.Quit
		case bubblesKey.Matches(msg, b.keymap.back):
			b.previousState()
			if b.state == summaryState && b.summary == nil {
				b.setState(libraryState)
			}
			if b.state == libraryState && len(b.libraryC.Items()) == 0 {
				return tea.Batch(b.startLoading(), b.loadLibrary())
			}
		}
	}

	return nil
}

func notify(message string) tea.Cmd {
	return func() tea.Msg {
		return message
	}
}
