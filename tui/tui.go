package tui

import (
	"context"

	"github.com/keypoint-cli/keypoint/book"
	"github.com/keypoint-cli/keypoint/history"
	"github.com/keypoint-cli/keypoint/player"
	"github.com/keypoint-cli/keypoint/rate"
	"github.com/keypoint-cli/keypoint/store"
	"github.com/keypoint-cli/keypoint/where"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/mo"
)

// Options configures a TUI session.
type Options struct {
	// Continue reopens the most recently listened book.
	Continue bool

	// Entry opens a book right away instead of showing the library.
	Entry mo.Option[*book.Entry]

	// Index overrides the remembered key point of Entry.
	Index mo.Option[int]

	Player string
	Rate   rate.Rate
}

// Run starts the interactive player and blocks until it quits.
func Run(ctx context.Context, options *Options) error {
	if options.Continue {
		entry, index, err := history.Resume()
		if err != nil {
			return err
		}
		options.Entry = mo.Some(entry)
		if options.Index.IsAbsent() {
			options.Index = mo.Some(index)
		}
	}

	backend, err := player.New(options.Player)
	if err != nil {
		return err
	}

	engine := player.NewEngine(backend, player.WithRate(options.Rate))
	defer engine.Close()

	client, err := store.FromConfig(where.Store())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go store.Observe(ctx, client)

	bubble := newBubble(ctx, engine, client, options)
	if options.Entry.IsPresent() {
		bubble.setState(summaryState)
	} else {
		bubble.setState(libraryState)
	}

	_, err = tea.NewProgram(bubble, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
