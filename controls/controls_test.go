package controls

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/keypoint-cli/keypoint/internal/loop"
	"github.com/keypoint-cli/keypoint/media"
	"github.com/keypoint-cli/keypoint/player"
	"github.com/keypoint-cli/keypoint/rate"
	"github.com/keypoint-cli/keypoint/stream"
	"github.com/samber/lo"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

const quiet = 50 * time.Millisecond

type fakeEngine struct {
	statuses *stream.Hub[player.Status]
	times    *stream.Hub[time.Duration]
	rates    *stream.Hub[rate.Rate]
	items    *stream.Hub[player.Item]
	ends     *stream.Hub[player.Item]

	mu      sync.Mutex
	calls   []string
	playErr error
	// gate, when set, holds Play until it is closed
	gate chan struct{}
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		statuses: stream.NewReplayHub(player.Idle),
		times:    stream.NewHub[time.Duration](),
		rates:    stream.NewReplayHub(rate.Normal),
		items:    stream.NewReplayHub(player.Item{}),
		ends:     stream.NewHub[player.Item](),
	}
}

func (f *fakeEngine) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeEngine) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeEngine) Play(context.Context) error {
	f.record("play")
	if f.gate != nil {
		<-f.gate
	}
	if f.playErr != nil {
		return f.playErr
	}
	f.statuses.Publish(player.Playing)
	return nil
}

func (f *fakeEngine) Pause(context.Context) error {
	f.record("pause")
	f.statuses.Publish(player.Paused)
	return nil
}

func (f *fakeEngine) SetPlaybackRate(_ context.Context, r rate.Rate) error {
	f.record("rate " + r.String())
	return nil
}

func (f *fakeEngine) SeekTo(_ context.Context, position time.Duration) error {
	f.record(fmt.Sprintf("seek to %s", position))
	return nil
}

func (f *fakeEngine) SeekBy(_ context.Context, delta time.Duration) error {
	f.record(fmt.Sprintf("seek by %s", delta))
	return nil
}

func (f *fakeEngine) StatusStream() *stream.Subscription[player.Status] { return f.statuses.Subscribe() }
func (f *fakeEngine) TimeStream() *stream.Subscription[time.Duration]   { return f.times.Subscribe() }
func (f *fakeEngine) RateStream() *stream.Subscription[rate.Rate]       { return f.rates.Subscribe() }
func (f *fakeEngine) ItemStream() *stream.Subscription[player.Item]     { return f.items.Subscribe() }
func (f *fakeEngine) EndStream() *stream.Subscription[player.Item]      { return f.ends.Subscribe() }

func TestControls(t *testing.T) {
	Convey("Given attached controls", t, func() {
		engine := newFakeEngine()
		m := New(context.Background(), engine)
		l := loop.New(m.Update)
		defer l.Stop()

		l.Exec(m.Attach())
		l.Settle(quiet)

		So(m.Attached(), ShouldBeTrue)
		So(m.IsPlaying, ShouldBeFalse)
		So(m.Rate, ShouldEqual, rate.Normal)

		Convey("Play/pause flips optimistically and commands the engine", func() {
			l.Send(PlayPauseMsg{})
			_, err := l.Step(time.Second)
			So(err, ShouldBeNil)
			So(m.IsPlaying, ShouldBeTrue)

			l.Settle(quiet)
			So(engine.Calls(), ShouldResemble, []string{"play"})

			Convey("and the status stream has the last word", func() {
				engine.statuses.Publish(player.Paused)
				l.Settle(quiet)
				So(m.IsPlaying, ShouldBeFalse)
				So(engine.Calls(), ShouldResemble, []string{"play"})
			})
		})

		Convey("SetPlaying is an assignment, not a toggle", func() {
			l.Send(SetPlayingMsg{Playing: true})
			l.Send(SetPlayingMsg{Playing: true})
			l.Settle(quiet)
			So(m.IsPlaying, ShouldBeTrue)
			So(engine.Calls(), ShouldBeEmpty)

			l.Send(SetPlayingMsg{Playing: false, Passthrough: true})
			l.Settle(quiet)
			So(m.IsPlaying, ShouldBeFalse)
			So(engine.Calls(), ShouldResemble, []string{"pause"})
		})

		Convey("Transport intents become engine commands", func() {
			l.Send(SpeedCycleMsg{})
			l.Settle(quiet)
			l.Send(ScrubMsg{To: 30 * time.Second})
			l.Settle(quiet)
			l.Send(SeekBackMsg{})
			l.Settle(quiet)
			l.Send(SeekForwardMsg{})
			l.Settle(quiet)

			So(engine.Calls(), ShouldResemble, []string{
				"rate 1.25",
				"seek to 30s",
				"seek by -5s",
				"seek by 10s",
			})
		})

		Convey("Stream values are folded into the state", func() {
			engine.rates.Publish(rate.Double)
			engine.times.Publish(12 * time.Second)
			engine.items.Publish(player.Item{
				Media:    mo.Some(lo.Must(media.Parse("https://example.com/a.mp3"))),
				Duration: time.Minute,
			})
			l.Settle(quiet)

			So(m.Rate, ShouldEqual, rate.Double)
			So(m.CurrentTime, ShouldEqual, 12*time.Second)
			So(m.Duration, ShouldEqual, time.Minute)
			So(m.Progress(), ShouldEqual, 0.2)

			Convey("and an empty item zeroes the duration", func() {
				engine.items.Publish(player.Item{Duration: time.Hour})
				l.Settle(quiet)
				So(m.Duration, ShouldEqual, 0)
			})

			Convey("and Reset clears time and duration", func() {
				m.Reset()
				So(m.CurrentTime, ShouldEqual, 0)
				So(m.Duration, ShouldEqual, 0)
				So(m.Rate, ShouldEqual, rate.Double)
			})
		})

		Convey("The end of an item asks the parent for the next key point", func() {
			engine.ends.Publish(player.Item{})

			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()

			err := l.Until(ctx, func(msg tea.Msg) bool {
				_, ok := msg.(NextKeyPointMsg)
				return ok
			})
			So(err, ShouldBeNil)
		})

		Convey("A failed command leaves the state as is", func() {
			engine.playErr = errors.New("device busy")

			l.Send(SetPlayingMsg{Playing: true, Passthrough: true})

			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()

			var failed CommandFailedMsg
			err := l.Until(ctx, func(msg tea.Msg) bool {
				failed, _ = msg.(CommandFailedMsg)
				return failed.Err != nil
			})
			So(err, ShouldBeNil)
			So(failed.Command, ShouldEqual, "play")
			So(m.IsPlaying, ShouldBeTrue)
		})

		Convey("An echo published before a play lands is held back", func() {
			engine.gate = make(chan struct{})

			l.Send(SetPlayingMsg{Playing: true, Passthrough: true})
			_, err := l.Step(time.Second)
			So(err, ShouldBeNil)

			engine.statuses.Publish(player.Paused)
			l.Settle(quiet)
			So(m.IsPlaying, ShouldBeTrue)

			close(engine.gate)
			l.Settle(quiet)
			So(m.IsPlaying, ShouldBeTrue)
			So(engine.Calls(), ShouldResemble, []string{"play"})

			Convey("and once confirmed the stream has the last word again", func() {
				engine.statuses.Publish(player.Paused)
				l.Settle(quiet)
				So(m.IsPlaying, ShouldBeFalse)
			})
		})

		Convey("A failed play falls back to the echo it held back", func() {
			engine.gate = make(chan struct{})
			engine.playErr = errors.New("no item")

			l.Send(SetPlayingMsg{Playing: true, Passthrough: true})
			_, err := l.Step(time.Second)
			So(err, ShouldBeNil)

			engine.statuses.Publish(player.Idle)
			l.Settle(quiet)
			So(m.IsPlaying, ShouldBeTrue)

			close(engine.gate)

			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			err = l.Until(ctx, func(msg tea.Msg) bool {
				_, ok := msg.(CommandFailedMsg)
				return ok
			})
			So(err, ShouldBeNil)
			So(m.IsPlaying, ShouldBeFalse)
		})

		Convey("After Detach nothing is folded", func() {
			m.Detach()
			So(m.Attached(), ShouldBeFalse)
			So(engine.statuses.Len(), ShouldEqual, 0)
			So(engine.times.Len(), ShouldEqual, 0)

			engine.statuses.Publish(player.Playing)
			engine.times.Publish(time.Minute)
			l.Settle(quiet)

			So(m.IsPlaying, ShouldBeFalse)
			So(m.CurrentTime, ShouldEqual, 0)

			Convey("and attaching again resumes from the latest values", func() {
				l.Exec(m.Attach())
				l.Settle(quiet)
				So(m.IsPlaying, ShouldBeTrue)
			})
		})
	})
}
