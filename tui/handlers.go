package tui

import (
	"github.com/keypoint-cli/keypoint/book"
	"github.com/keypoint-cli/keypoint/history"
	"github.com/keypoint-cli/keypoint/key"
	"github.com/keypoint-cli/keypoint/log"
	"github.com/keypoint-cli/keypoint/open"
	"github.com/keypoint-cli/keypoint/summary"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

type libraryLoadedMsg struct {
	entries []*book.Entry
}

type entitlementMsg struct {
	entry    *book.Entry
	index    mo.Option[int]
	entitled bool
}

func (b *statefulBubble) loadLibrary() tea.Cmd {
	return func() tea.Msg {
		log.Info("loading library")

		entries, err := book.List()
		if err != nil {
			log.Error(err)
			return err
		}

		// an empty library still has something to play
		if len(entries) == 0 {
			entries = append(entries, &book.Entry{Book: book.Sample()})
		}

		log.Infof("found %d books", len(entries))
		return libraryLoadedMsg{entries: entries}
	}
}

// open checks the entitlement before the summary is built, so the overlay
// is in place from the first frame.
func (b *statefulBubble) open(entry *book.Entry, index mo.Option[int]) tea.Cmd {
	ctx, client := b.ctx, b.client
	return func() tea.Msg {
		entitled, err := client.Entitled(ctx)
		if err != nil {
			log.Warnf("entitlement check: %v", err)
		}
		return entitlementMsg{entry: entry, index: index, entitled: entitled}
	}
}

func (b *statefulBubble) openSummary(msg entitlementMsg) tea.Cmd {
	entry := msg.entry

	index := msg.index.OrElse(history.Last(entry.Book, entry.Path).OrElse(0))
	options := []summary.Option{
		summary.WithIndex(index),
		summary.WithAutoplay(viper.GetBool(key.PlayerAutoplay)),
		summary.OnSelect(func(i int) { b.saveHistory(entry, i) }),
	}
	if !msg.entitled {
		options = append(options, summary.Locked(b.client))
	}

	s, err := summary.New(b.ctx, b.engine, entry.Book, options...)
	if err != nil {
		return func() tea.Msg { return err }
	}

	b.summary = s
	b.entry = entry
	b.keymap.locked = b.locked()
	b.saveHistory(entry, s.Index)
	b.newState(summaryState)
	if b.locked() {
		return tea.Batch(s.Init(), b.spinnerC.Tick)
	}
	return s.Init()
}

func (b *statefulBubble) saveHistory(entry *book.Entry, index int) {
	if !viper.GetBool(key.HistorySave) {
		return
	}

	if err := history.Save(entry.Book, entry.Path, index); err != nil {
		log.Warnf("save history: %v", err)
	}
}

func (b *statefulBubble) openCover() tea.Cmd {
	cover := b.entry.Book.Cover
	return func() tea.Msg {
		if cover == "" {
			return "No cover for this book"
		}
		if err := open.Start(cover); err != nil {
			log.Warnf("open cover: %v", err)
			return "Could not open the cover"
		}
		return nil
	}
}

func (b *statefulBubble) listItems(entries []*book.Entry) []*listItem {
	return lo.Map(entries, func(e *book.Entry, _ int) *listItem {
		return &listItem{entry: e}
	})
}
