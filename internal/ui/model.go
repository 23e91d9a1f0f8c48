// Package ui holds the transient notification line shown under the TUI.
package ui

import (
	"strings"
	"time"

	"github.com/keypoint-cli/keypoint/style"
	tea "github.com/charmbracelet/bubbletea"
)

// Lifetime is how long a notification stays on screen.
const Lifetime = 3 * time.Second

// Model displays the latest notification. Any string message replaces it.
type Model struct {
	notification string
	generation   int
}

// ClearNotificationMsg clears the notification it was scheduled for.
type ClearNotificationMsg struct {
	generation int
}

func (m *Model) clearAfter(d time.Duration) tea.Cmd {
	generation := m.generation
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearNotificationMsg{generation: generation}
	})
}

func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case string:
		m.notification = msg
		m.generation++
		return m.clearAfter(Lifetime)
	case ClearNotificationMsg:
		// a newer notification owns the line
		if msg.generation == m.generation {
			m.notification = ""
		}
	}
	return nil
}

// Notification is the text currently shown, empty when there is none.
func (m *Model) Notification() string {
	return m.notification
}

// View appends the notification to the last line of content.
func (m *Model) View(content string) string {
	if m.notification == "" {
		return content
	}

	lines := strings.Split(content, "\n")
	lines[len(lines)-1] += "  " + style.Faint(m.notification)
	return strings.Join(lines, "\n")
}
