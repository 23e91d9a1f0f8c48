package summary

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/keypoint-cli/keypoint/book"
	"github.com/keypoint-cli/keypoint/controls"
	"github.com/keypoint-cli/keypoint/filesystem"
	"github.com/keypoint-cli/keypoint/internal/loop"
	"github.com/keypoint-cli/keypoint/media"
	"github.com/keypoint-cli/keypoint/payment"
	"github.com/keypoint-cli/keypoint/player"
	"github.com/keypoint-cli/keypoint/store"
	"github.com/zalando/go-keyring"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
	keyring.MockInit()
}

var testBook = &book.Book{
	Title: "Test",
	KeyPoints: []book.KeyPoint{
		{Text: "one", Audio: "https://example.com/1.mp3"},
		{Text: "two", Audio: "https://example.com/2.mp3"},
		{Text: "three", Audio: "https://example.com/3.mp3"},
	},
}

type harness struct {
	backend *player.Headless
	engine  *player.Engine
	model   *Model
	loop    *loop.Loop
}

func newHarness(b *book.Book, backend *player.Headless, options ...Option) *harness {
	engine := player.NewEngine(backend, player.WithTimeInterval(10*time.Millisecond))
	model, err := New(context.Background(), engine, b, options...)
	if err != nil {
		panic(err)
	}

	h := &harness{backend: backend, engine: engine, model: model, loop: loop.New(model.Update)}
	h.loop.Exec(model.Init())
	return h
}

func (h *harness) close() {
	h.loop.Stop()
	_ = h.engine.Close()
}

// eventually folds messages until cond holds or two seconds pass.
func (h *harness) eventually(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		_, _ = h.loop.Step(20 * time.Millisecond)
	}
	return cond()
}

func (h *harness) loaded() string {
	items := h.engine.ItemStream()
	defer items.Cancel()

	item := <-items.C()
	if ref, ok := item.Media.Get(); ok {
		return ref.String()
	}
	return ""
}

func (h *harness) status() player.Status {
	status, _ := h.engine.Status(context.Background())
	return status
}

func TestSummary(t *testing.T) {
	Convey("A book without key points is rejected", t, func() {
		_, err := New(context.Background(), nil, &book.Book{Title: "Empty"})
		So(errors.Is(err, book.ErrNoKeyPoints), ShouldBeTrue)
	})

	Convey("The starting index is clamped to the book", t, func() {
		for _, c := range []struct{ index, want int }{{-3, 0}, {1, 1}, {7, 2}} {
			m, err := New(context.Background(), nil, testBook, WithIndex(c.index))
			So(err, ShouldBeNil)
			So(m.Index, ShouldEqual, c.want)
		}
	})

	Convey("Given an entitled summary", t, func() {
		h := newHarness(testBook, player.NewHeadless(player.WithDuration(time.Minute)))
		defer h.close()
		m := h.model

		So(h.eventually(func() bool { return m.Autoplay }), ShouldBeTrue)

		Convey("The first key point is loaded but not played", func() {
			So(m.Index, ShouldEqual, 0)
			So(h.loaded(), ShouldEqual, "https://example.com/1.mp3")
			So(h.status(), ShouldEqual, player.Paused)
			So(m.Controls.IsPlaying, ShouldBeFalse)
			So(h.eventually(func() bool { return m.Controls.Duration == time.Minute }), ShouldBeTrue)
		})

		Convey("Next loads the following key point and plays it", func() {
			h.loop.Send(controls.NextKeyPointMsg{})

			So(h.eventually(func() bool { return h.status() == player.Playing }), ShouldBeTrue)
			So(m.Index, ShouldEqual, 1)
			So(h.loaded(), ShouldEqual, "https://example.com/2.mp3")
			So(h.eventually(func() bool { return m.Controls.IsPlaying }), ShouldBeTrue)
		})

		Convey("Prev at the first key point rewinds in place", func() {
			So(h.engine.SeekTo(context.Background(), 20*time.Second), ShouldBeNil)

			h.loop.Send(controls.PrevKeyPointMsg{})
			So(h.eventually(func() bool {
				position, _ := h.engine.Position(context.Background())
				return position == 0
			}), ShouldBeTrue)
			So(m.Index, ShouldEqual, 0)
		})

		Convey("Selecting an out of range index keeps the index", func() {
			h.loop.Send(SelectIndexMsg{Index: 7})
			h.loop.Settle(50 * time.Millisecond)
			So(m.Index, ShouldEqual, 0)
		})

		Convey("Reaching the end of a key point advances to the next one", func() {
			h.backend.Finish()

			So(h.eventually(func() bool { return m.Index == 1 && h.status() == player.Playing }), ShouldBeTrue)
			So(h.loaded(), ShouldEqual, "https://example.com/2.mp3")
		})

		Convey("Next at the last key point stops and rewinds", func() {
			h.loop.Send(SelectIndexMsg{Index: 2})
			So(h.eventually(func() bool { return h.status() == player.Playing }), ShouldBeTrue)

			h.loop.Send(controls.NextKeyPointMsg{})
			So(h.eventually(func() bool {
				position, _ := h.engine.Position(context.Background())
				return h.status() == player.Paused && position == 0 && !m.Controls.IsPlaying
			}), ShouldBeTrue)
			So(m.Index, ShouldEqual, 2)
		})

		Convey("Rapid navigation leaves the last selection loaded", func() {
			h.loop.Send(controls.NextKeyPointMsg{})
			h.loop.Send(controls.NextKeyPointMsg{})

			So(h.eventually(func() bool { return m.Index == 2 && h.status() == player.Playing }), ShouldBeTrue)
			So(h.loaded(), ShouldEqual, "https://example.com/3.mp3")
		})

		Convey("The mode can be toggled", func() {
			So(m.AudioMode, ShouldBeTrue)
			h.loop.Send(ModeToggleMsg{})
			So(h.eventually(func() bool { return !m.AudioMode }), ShouldBeTrue)
		})

		Convey("Closing pauses and detaches", func() {
			h.loop.Send(controls.PlayPauseMsg{})
			So(h.eventually(func() bool { return h.status() == player.Playing }), ShouldBeTrue)

			h.loop.Send(CloseMsg{})

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			err := h.loop.Until(ctx, func(msg tea.Msg) bool {
				_, ok := msg.(ClosedMsg)
				return ok
			})
			So(err, ShouldBeNil)
			So(h.status(), ShouldEqual, player.Paused)
			So(m.Controls.Attached(), ShouldBeFalse)
		})
	})

	Convey("Given a key point whose media cannot be opened", t, func() {
		backend := player.NewHeadless(player.WithProbe(func(_ context.Context, ref media.Reference) (time.Duration, error) {
			if strings.HasSuffix(ref.String(), "2.mp3") {
				return 0, errors.New("not found")
			}
			return time.Minute, nil
		}))
		h := newHarness(testBook, backend, WithIndex(1))
		defer h.close()
		m := h.model

		Convey("The engine is left empty and autoplay is still armed", func() {
			So(h.eventually(func() bool { return m.Autoplay }), ShouldBeTrue)
			So(h.eventually(func() bool { return h.loaded() == "" }), ShouldBeTrue)
			So(h.status(), ShouldEqual, player.Idle)

			Convey("and the next key point plays", func() {
				h.loop.Send(controls.NextKeyPointMsg{})
				So(h.eventually(func() bool { return h.status() == player.Playing }), ShouldBeTrue)
				So(m.Index, ShouldEqual, 2)
			})
		})
	})

	Convey("Given a summary that is not entitled yet", t, func() {
		client := store.NewLocal("/store/summary", store.WithSimulation(store.SimulateVerified))
		So(client.Reset(), ShouldBeNil)

		h := newHarness(testBook, player.NewHeadless(), Locked(client))
		defer h.close()
		m := h.model

		So(m.Entitled(), ShouldBeFalse)
		So(h.eventually(func() bool { return m.Payment.MustGet().Product.IsPresent() }), ShouldBeTrue)

		Convey("Playback intents are ignored", func() {
			h.loop.Send(controls.PlayPauseMsg{})
			h.loop.Send(controls.NextKeyPointMsg{})
			h.loop.Settle(50 * time.Millisecond)

			So(m.Index, ShouldEqual, 0)
			So(h.status(), ShouldNotEqual, player.Playing)
		})

		Convey("Buying removes the overlay", func() {
			h.loop.Send(payment.BuyMsg{})
			So(h.eventually(func() bool { return m.Entitled() }), ShouldBeTrue)

			entitled, err := client.Entitled(context.Background())
			So(err, ShouldBeNil)
			So(entitled, ShouldBeTrue)

			h.loop.Send(controls.PlayPauseMsg{})
			So(h.eventually(func() bool { return h.status() == player.Playing }), ShouldBeTrue)
		})

		Convey("Autoplay waits for the subscription", func() {
			a := newHarness(testBook, player.NewHeadless(player.WithDuration(time.Minute)), Locked(client), WithAutoplay(true))
			defer a.close()
			am := a.model

			So(a.eventually(func() bool {
				return am.resume && am.Payment.MustGet().Product.IsPresent()
			}), ShouldBeTrue)
			a.loop.Settle(50 * time.Millisecond)

			So(a.status(), ShouldNotEqual, player.Playing)
			So(am.Controls.IsPlaying, ShouldBeFalse)

			Convey("and buying starts the key point", func() {
				a.loop.Send(payment.BuyMsg{})
				So(a.eventually(func() bool { return am.Entitled() }), ShouldBeTrue)
				So(a.eventually(func() bool { return a.status() == player.Playing }), ShouldBeTrue)
				So(a.eventually(func() bool { return am.Controls.IsPlaying }), ShouldBeTrue)
				So(am.Index, ShouldEqual, 0)
			})
		})

		Convey("Cancelling tears the session down", func() {
			h.loop.Send(payment.CancelMsg{})

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			err := h.loop.Until(ctx, func(msg tea.Msg) bool {
				_, ok := msg.(ClosedMsg)
				return ok
			})
			So(err, ShouldBeNil)
			So(m.Closed, ShouldBeTrue)
			So(m.Controls.Attached(), ShouldBeFalse)
		})
	})
}
