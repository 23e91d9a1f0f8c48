package tui

import (
	"fmt"
	"strings"

	"github.com/keypoint-cli/keypoint/book"
	"github.com/keypoint-cli/keypoint/color"
	"github.com/keypoint-cli/keypoint/history"
	"github.com/keypoint-cli/keypoint/icon"
	"github.com/keypoint-cli/keypoint/style"
	"github.com/keypoint-cli/keypoint/util"
	"github.com/charmbracelet/lipgloss"
)

// listItem wraps a library entry for the book list.
type listItem struct {
	entry *book.Entry
}

func (t *listItem) Title() string {
	return t.entry.Book.Name()
}

// Description shows the author, the key point count and the remembered position.
func (t *listItem) Description() string {
	b := t.entry.Book

	var parts []string
	if b.Author != "" {
		parts = append(parts, b.Author)
	}
	parts = append(parts, lipgloss.NewStyle().Foreground(style.Muted).Render(util.Quantify(b.Len(), "key point", "key points")))

	if index, ok := history.Last(b, t.entry.Path).Get(); ok {
		parts = append(parts, lipgloss.NewStyle().Foreground(color.Yellow).Render(
			fmt.Sprintf("%s %d / %d", icon.Get(icon.Mark), index+1, b.Len()),
		))
	}

	return strings.Join(parts, " • ")
}

func (t *listItem) FilterValue() string {
	return t.entry.Book.Name() + " " + t.entry.Book.Author
}
