// Package loop runs an Update function the way a bubbletea program does,
// without a terminal: commands execute concurrently and their messages are
// folded one at a time.
package loop

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrTimeout is returned when no message arrives in time.
var ErrTimeout = errors.New("loop: timed out waiting for a message")

// Loop owns the message queue of a single model.
type Loop struct {
	update func(tea.Msg) tea.Cmd
	msgs   chan tea.Msg
	done   chan struct{}
}

func New(update func(tea.Msg) tea.Cmd) *Loop {
	return &Loop{
		update: update,
		msgs:   make(chan tea.Msg, 64),
		done:   make(chan struct{}),
	}
}

// Send queues msg for the next Step.
func (l *Loop) Send(msg tea.Msg) {
	select {
	case l.msgs <- msg:
	case <-l.done:
	}
}

// Exec runs cmd in the background. Batches are flattened, nil messages dropped.
func (l *Loop) Exec(cmd tea.Cmd) {
	if cmd == nil {
		return
	}

	go func() {
		msg := cmd()
		if batch, ok := msg.(tea.BatchMsg); ok {
			for _, c := range batch {
				l.Exec(c)
			}
			return
		}

		if msg != nil {
			l.Send(msg)
		}
	}()
}

// Step folds the next message and schedules the command it returns.
func (l *Loop) Step(timeout time.Duration) (tea.Msg, error) {
	select {
	case msg := <-l.msgs:
		l.Exec(l.update(msg))
		return msg, nil
	case <-time.After(timeout):
		return nil, ErrTimeout
	}
}

// Until steps until match accepts a folded message, ctx ends or the model quits.
func (l *Loop) Until(ctx context.Context, match func(tea.Msg) bool) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-l.msgs:
			l.Exec(l.update(msg))

			if _, ok := msg.(tea.QuitMsg); ok {
				return nil
			}
			if match != nil && match(msg) {
				return nil
			}
		}
	}
}

// Settle folds messages until none arrives for quiet.
func (l *Loop) Settle(quiet time.Duration) {
	for {
		if _, err := l.Step(quiet); err != nil {
			return
		}
	}
}

// Stop releases goroutines blocked on Send.
func (l *Loop) Stop() {
	select {
	case <-l.done:
	default:
		close(l.done)
	}
}
