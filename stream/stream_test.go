package stream

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func collect[T any](s *Subscription[T], n int) []T {
	var got []T
	timeout := time.After(2 * time.Second)
	for len(got) < n {
		select {
		case v, ok := <-s.C():
			if !ok {
				return got
			}
			got = append(got, v)
		case <-timeout:
			return got
		}
	}
	return got
}

func TestHub(t *testing.T) {
	Convey("Given a hub with two subscribers", t, func() {
		hub := NewHub[int]()
		a := hub.Subscribe()
		b := hub.Subscribe()
		defer a.Cancel()
		defer b.Cancel()

		Convey("Each receives the complete sequence in order", func() {
			for i := 0; i < 100; i++ {
				hub.Publish(i)
			}

			gotA := collect(a, 100)
			gotB := collect(b, 100)
			So(len(gotA), ShouldEqual, 100)
			So(gotA, ShouldResemble, gotB)
			So(gotA[0], ShouldEqual, 0)
			So(gotA[99], ShouldEqual, 99)
		})

		Convey("Cancelling one leaves the other attached", func() {
			a.Cancel()
			So(hub.Len(), ShouldEqual, 1)

			hub.Publish(7)
			So(collect(b, 1), ShouldResemble, []int{7})

			_, open := <-a.C()
			So(open, ShouldBeFalse)
		})

		Convey("Cancel is idempotent", func() {
			So(func() { a.Cancel(); a.Cancel() }, ShouldNotPanic)
		})

		Convey("Closing the hub ends subscriptions after draining", func() {
			hub.Publish(1)
			hub.Close()
			hub.Publish(2)

			So(collect(a, 5), ShouldResemble, []int{1})

			late := hub.Subscribe()
			_, open := <-late.C()
			So(open, ShouldBeFalse)
		})
	})

	Convey("A replay hub hands the latest value to new subscribers", t, func() {
		hub := NewReplayHub("idle")
		hub.Publish("playing")

		s := hub.Subscribe()
		defer s.Cancel()

		So(collect(s, 1), ShouldResemble, []string{"playing"})
		So(hub.Latest().MustGet(), ShouldEqual, "playing")
	})

	Convey("A backlog goes only to the subscriber that asked for it", t, func() {
		hub := NewHub[int]()
		plain := hub.Subscribe()
		defer plain.Cancel()

		s := hub.SubscribeWith(1, 2)
		defer s.Cancel()
		hub.Publish(3)

		So(collect(s, 3), ShouldResemble, []int{1, 2, 3})
		So(collect(plain, 1), ShouldResemble, []int{3})
	})
}

func TestTicker(t *testing.T) {
	Convey("Given a ticker subscription", t, func() {
		var calls atomic.Int64
		sample := func(ctx context.Context) (int64, error) {
			return calls.Add(1), nil
		}

		s := Ticker(5*time.Millisecond, sample)

		Convey("It emits at its cadence", func() {
			got := collect(s, 3)
			So(got, ShouldResemble, []int64{1, 2, 3})
			s.Cancel()
		})

		Convey("Cancel stops the timer synchronously", func() {
			collect(s, 1)
			s.Cancel()
			stopped := calls.Load()

			time.Sleep(30 * time.Millisecond)
			So(calls.Load(), ShouldEqual, stopped)

			_, open := <-s.C()
			So(open, ShouldBeFalse)
		})

		Convey("A new subscription starts a fresh sequence", func() {
			collect(s, 2)
			s.Cancel()

			again := Ticker(5*time.Millisecond, sample)
			defer again.Cancel()
			So(len(collect(again, 2)), ShouldEqual, 2)
		})
	})

	Convey("Failed samples are skipped", t, func() {
		var n atomic.Int64
		s := Ticker(2*time.Millisecond, func(ctx context.Context) (int64, error) {
			if v := n.Add(1); v%2 == 0 {
				return v, nil
			}
			return 0, errors.New("not ready")
		})
		defer s.Cancel()

		So(collect(s, 2), ShouldResemble, []int64{2, 4})
	})

	Convey("Cancel interrupts a blocked sample", t, func() {
		entered := make(chan struct{}, 1)
		s := Ticker(time.Millisecond, func(ctx context.Context) (int, error) {
			select {
			case entered <- struct{}{}:
			default:
			}
			<-ctx.Done()
			return 0, ctx.Err()
		})

		<-entered
		done := make(chan struct{})
		go func() {
			s.Cancel()
			close(done)
		}()

		var returned bool
		select {
		case <-done:
			returned = true
		case <-time.After(time.Second):
		}
		So(returned, ShouldBeTrue)
	})
}
