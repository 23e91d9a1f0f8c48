package loop

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/smartystreets/goconvey/convey"
)

type ping int

type pong int

// counter answers every ping with a pong carrying the same number.
type counter struct {
	pings, pongs []int
}

func (c *counter) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ping:
		c.pings = append(c.pings, int(msg))
		return func() tea.Msg { return pong(msg) }
	case pong:
		c.pongs = append(c.pongs, int(msg))
	}
	return nil
}

func TestLoop(t *testing.T) {
	Convey("Given a loop around a model", t, func() {
		c := &counter{}
		l := New(c.update)
		defer l.Stop()

		Convey("Step folds a sent message and schedules its command", func() {
			l.Send(ping(1))
			msg, err := l.Step(time.Second)
			So(err, ShouldBeNil)
			So(msg, ShouldEqual, ping(1))

			msg, err = l.Step(time.Second)
			So(err, ShouldBeNil)
			So(msg, ShouldEqual, pong(1))
			So(c.pongs, ShouldResemble, []int{1})
		})

		Convey("Step times out on an idle queue", func() {
			_, err := l.Step(10 * time.Millisecond)
			So(errors.Is(err, ErrTimeout), ShouldBeTrue)
		})

		Convey("Exec flattens batches", func() {
			l.Exec(tea.Batch(
				func() tea.Msg { return pong(1) },
				func() tea.Msg { return pong(2) },
				nil,
			))
			l.Settle(50 * time.Millisecond)
			So(c.pongs, ShouldHaveLength, 2)
			So(c.pongs, ShouldContain, 1)
			So(c.pongs, ShouldContain, 2)
		})

		Convey("Until stops once the match is folded", func() {
			l.Send(ping(7))
			err := l.Until(context.Background(), func(msg tea.Msg) bool {
				_, ok := msg.(pong)
				return ok
			})
			So(err, ShouldBeNil)
			So(c.pongs, ShouldResemble, []int{7})
		})

		Convey("Until stops on quit", func() {
			l.Exec(tea.Quit)
			So(l.Until(context.Background(), nil), ShouldBeNil)
		})

		Convey("Until returns the context error", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
			defer cancel()
			err := l.Until(ctx, func(tea.Msg) bool { return false })
			So(errors.Is(err, context.DeadlineExceeded), ShouldBeTrue)
		})

		Convey("Send after Stop does not block", func() {
			l.Stop()
			for i := 0; i < 100; i++ {
				l.Send(ping(i))
			}
			So(len(c.pings), ShouldEqual, 0)
		})
	})
}
