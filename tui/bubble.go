// Package tui is the interactive terminal player.
package tui

import (
	"context"
	"time"

	"github.com/keypoint-cli/keypoint/book"
	"github.com/keypoint-cli/keypoint/color"
	"github.com/keypoint-cli/keypoint/internal/ui"
	"github.com/keypoint-cli/keypoint/key"
	"github.com/keypoint-cli/keypoint/store"
	"github.com/keypoint-cli/keypoint/style"
	"github.com/keypoint-cli/keypoint/summary"
	"github.com/keypoint-cli/keypoint/util"
	"github.com/charmbracelet/bubbles/help"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"
)

// statefulBubble is the whole application: the library list, the open
// summary and the navigation history between them.
type statefulBubble struct {
	state   state
	trail   []state
	loading bool

	keymap *statefulKeymap

	// components
	spinnerC  spinner.Model
	libraryC  list.Model
	progressC progress.Model
	helpC     help.Model

	ctx     context.Context
	engine  summary.Engine
	client  store.Client
	summary *summary.Model
	entry   *book.Entry

	lastError error

	width, height int
	notifier      *ui.Model

	options *Options
}

func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.newState(errorState)
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

// newState moves to s. The error state is never returned to.
func (b *statefulBubble) newState(s state) {
	if b.state == s {
		return
	}

	if b.state != errorState {
		b.trail = append(b.trail, b.state)
	}

	b.setState(s)
}

func (b *statefulBubble) previousState() {
	if n := len(b.trail); n > 0 {
		s := b.trail[n-1]
		b.trail = b.trail[:n-1]
		b.setState(s)
	}
}

func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	xx, yy := listExtraPaddingStyle.GetFrameSize()

	listWidth := width - xx
	listHeight := height - yy

	b.libraryC.SetSize(listWidth, listHeight)
	b.libraryC.Help.Width = listWidth

	b.width = width - x
	b.height = height - y
	b.progressC.Width = b.width
	b.helpC.Width = b.width
}

func (b *statefulBubble) startLoading() tea.Cmd {
	b.loading = true
	return tea.Batch(b.libraryC.StartSpinner(), b.spinnerC.Tick)
}

func (b *statefulBubble) stopLoading() {
	b.loading = false
	b.libraryC.StopSpinner()
}

// locked reports whether the subscription overlay is in front of the summary.
func (b *statefulBubble) locked() bool {
	return b.summary != nil && !b.summary.Entitled()
}

func newBubble(ctx context.Context, engine summary.Engine, client store.Client, options *Options) *statefulBubble {
	keymap := newStatefulKeymap()
	bubble := statefulBubble{
		keymap:   keymap,
		ctx:      ctx,
		engine:   engine,
		client:   client,
		notifier: &ui.Model{},
		options:  options,
	}

	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(viper.GetInt(key.TUIItemSpacing))
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(style.Accent).
		Foreground(style.Accent).
		Padding(0, 0, 0, 1)
	delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(lipgloss.Color("7"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

	bubble.libraryC = list.New([]list.Item{}, delegate, 0, 0)
	bubble.libraryC.KeyMap = keymap.forList()
	bubble.libraryC.AdditionalShortHelpKeys = keymap.ShortHelp
	bubble.libraryC.AdditionalFullHelpKeys = func() []bubblesKey.Binding {
		return keymap.FullHelp()[0]
	}
	bubble.libraryC.Title = "Library"
	bubble.libraryC.Styles.Title = lipgloss.NewStyle().Foreground(color.Ink).Background(color.Amber).Padding(0, 1)
	bubble.libraryC.Styles.NoItems = paddingStyle
	bubble.libraryC.StatusMessageLifetime = time.Hour * 999
	bubble.libraryC.SetShowPagination(false)
	bubble.libraryC.SetShowStatusBar(false)
	bubble.libraryC.SetStatusBarItemName("book", "books")

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	bubble.progressC = progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	return &bubble
}
