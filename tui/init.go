package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

func (b *statefulBubble) Init() tea.Cmd {
	if entry, ok := b.options.Entry.Get(); ok {
		return tea.Batch(b.startLoading(), b.open(entry, b.options.Index))
	}

	return tea.Batch(b.startLoading(), b.loadLibrary())
}
