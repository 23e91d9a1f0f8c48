package tui

import (
	"github.com/keypoint-cli/keypoint/color"
	"github.com/keypoint-cli/keypoint/style"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
)

// statefulKeymap holds every binding and reports the ones active in the current state.
type statefulKeymap struct {
	state state

	// set while the subscription overlay covers the summary
	locked bool

	quit, forceQuit,
	confirm,
	back,
	filter,
	up, down, left, right,
	top, bottom,
	playPause, speed,
	seekBack, seekForward,
	prev, next,
	rewind, mode,
	buy, dismiss,
	openCover,
	showHelp key.Binding
}

func (k *statefulKeymap) setState(newState state) {
	k.state = newState
}

// bind builds a binding whose help shows label and desc.
func bind(label, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(label, desc))
}

// primary is a binding highlighted in the help line.
func primary(label, desc string, keys ...string) key.Binding {
	accent := style.Fg(color.Amber)
	return bind(accent(label), accent(desc), keys...)
}

func newStatefulKeymap() *statefulKeymap {
	return &statefulKeymap{
		quit:      bind("q", "quit", "q"),
		forceQuit: bind("ctrl+c", "quit", "ctrl+c", "ctrl+d"),
		confirm:   primary("enter", "listen", "enter"),
		back:      bind("esc", "back", "esc"),
		filter:    bind("/", "filter", "/"),

		up:     bind("↑", "up", "up", "k"),
		down:   bind("↓", "down", "down", "j"),
		left:   bind("←", "left", "left", "h"),
		right:  bind("→", "right", "right", "l"),
		top:    bind("g", "top", "g", "home"),
		bottom: bind("G", "bottom", "G", "end"),

		playPause:   primary("space", "play/pause", " "),
		speed:       bind("s", "speed", "s"),
		seekBack:    bind("←", "-5s", "left", "h"),
		seekForward: bind("→", "+10s", "right", "l"),
		prev:        bind("p", "previous", "p", "up", "k"),
		next:        bind("n", "next", "n", "down", "j"),
		rewind:      bind("0", "restart", "0", "home"),
		mode:        bind("t", "read/listen", "t"),
		openCover:   bind("o", "open cover", "o"),

		buy:     primary("enter", "subscribe", "enter"),
		dismiss: bind("enter", "dismiss", "enter", "esc"),

		showHelp: bind("?", "help", "?"),
	}
}

func (k *statefulKeymap) help() ([]key.Binding, []key.Binding) {
	same := func(bindings ...key.Binding) ([]key.Binding, []key.Binding) {
		return bindings, bindings
	}

	switch {
	case k.state == libraryState:
		return same(k.confirm, k.filter, k.quit)
	case k.state == summaryState && k.locked:
		return same(k.buy, withDescription(k.back, "not now"), k.forceQuit)
	case k.state == summaryState:
		return []key.Binding{k.playPause, k.next, k.prev, k.speed, k.back, k.showHelp},
			[]key.Binding{k.playPause, k.seekBack, k.seekForward, k.next, k.prev, k.rewind, k.speed, k.mode, k.openCover, k.back, k.quit}
	case k.state == errorState:
		return same(k.back, k.quit)
	default:
		return same()
	}
}

func (k *statefulKeymap) ShortHelp() []key.Binding {
	short, _ := k.help()
	return short
}

func (k *statefulKeymap) FullHelp() [][]key.Binding {
	_, full := k.help()
	return [][]key.Binding{full}
}

func (k *statefulKeymap) forList() list.KeyMap {
	return list.KeyMap{
		CursorUp:             k.up,
		CursorDown:           k.down,
		NextPage:             k.right,
		PrevPage:             k.left,
		GoToStart:            k.top,
		GoToEnd:              k.bottom,
		Filter:               k.filter,
		ClearFilter:          k.back,
		CancelWhileFiltering: k.back,
		AcceptWhileFiltering: k.confirm,
		ShowFullHelp:         k.showHelp,
		CloseFullHelp:        k.showHelp,
		Quit:                 k.quit,
		ForceQuit:            k.forceQuit,
	}
}

func withDescription(k key.Binding, description string) key.Binding {
	return bind(k.Help().Key, description, k.Keys()...)
}
