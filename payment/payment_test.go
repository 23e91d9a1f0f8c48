package payment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/keypoint-cli/keypoint/internal/loop"
	"github.com/keypoint-cli/keypoint/store"
	"github.com/keypoint-cli/keypoint/stream"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

const quiet = 30 * time.Millisecond

type fakeStore struct {
	products    []store.Product
	productsErr error
	result      store.PurchaseResult
	purchaseErr error

	mu       sync.Mutex
	finished []string
}

func (f *fakeStore) Products(context.Context) ([]store.Product, error) {
	return f.products, f.productsErr
}

func (f *fakeStore) Purchase(context.Context, store.Product) (store.PurchaseResult, error) {
	return f.result, f.purchaseErr
}

func (f *fakeStore) Finish(_ context.Context, tx store.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finished = append(f.finished, tx.ID)
	return nil
}

func (f *fakeStore) Finished() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.finished...)
}

func (f *fakeStore) Updates() *stream.Subscription[store.Update] {
	return stream.NewHub[store.Update]().Subscribe()
}

func (f *fakeStore) Entitled(context.Context) (bool, error) {
	return false, nil
}

var catalog = []store.Product{
	{ID: "lifetime", Kind: store.NonRenewable, Price: "$79.99"},
	{ID: "yearly", Kind: store.AutoRenewable, Price: "$29.99"},
}

func TestPayment(t *testing.T) {
	Convey("Given a payment overlay", t, func() {
		client := &fakeStore{products: catalog}
		m := New(context.Background(), client)
		l := loop.New(m.Update)
		defer l.Stop()

		Convey("Appearing loads the auto-renewable product", func() {
			l.Send(AppearMsg{})
			l.Step(time.Second)
			So(m.Loading, ShouldBeTrue)

			l.Settle(quiet)
			So(m.Loading, ShouldBeFalse)
			So(m.Product.MustGet().ID, ShouldEqual, "yearly")
			So(m.ButtonLabel(), ShouldEqual, "Start Listening • $29.99")
		})

		Convey("A failed product load shows an alert", func() {
			client.productsErr = errors.New("offline")
			l.Send(AppearMsg{})
			l.Settle(quiet)

			So(m.Alert.MustGet().Message, ShouldEqual, "Load products error. Please, try again later")
			So(m.Product.IsAbsent(), ShouldBeTrue)

			Convey("which can be dismissed", func() {
				l.Send(AlertDismissedMsg{})
				l.Settle(quiet)
				So(m.Alert.IsAbsent(), ShouldBeTrue)
			})
		})

		Convey("Without an auto-renewable product the load fails", func() {
			client.products = catalog[:1]
			l.Send(AppearMsg{})
			l.Settle(quiet)
			So(m.Alert.IsPresent(), ShouldBeTrue)
		})

		Convey("Buying before products are loaded does nothing", func() {
			So(m.Update(BuyMsg{}), ShouldBeNil)
		})

		Convey("Once products are loaded", func() {
			l.Send(AppearMsg{})
			l.Settle(quiet)

			Convey("a verified purchase is finished and reported", func() {
				client.result = store.PurchaseResult{
					Outcome:     store.Verified,
					Transaction: mo.Some(store.Transaction{ID: "tx-1", Verified: true}),
				}
				l.Send(BuyMsg{})

				ctx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()

				var finished FinishedMsg
				err := l.Until(ctx, func(msg tea.Msg) bool {
					var ok bool
					finished, ok = msg.(FinishedMsg)
					return ok
				})
				So(err, ShouldBeNil)
				So(finished.Transaction.ID, ShouldEqual, "tx-1")
				So(client.Finished(), ShouldResemble, []string{"tx-1"})
				So(m.Purchasing, ShouldBeFalse)
			})

			Convey("an unverified purchase shows a verification alert", func() {
				client.result = store.PurchaseResult{Outcome: store.Unverified, Reason: "bad signature"}
				l.Send(BuyMsg{})
				l.Settle(quiet)

				So(m.Alert.MustGet().Title, ShouldEqual, "Verification error")
				So(m.Alert.MustGet().Message, ShouldContainSubstring, "bad signature")
				So(client.Finished(), ShouldBeEmpty)
			})

			Convey("a pending purchase shows a notice and keeps the overlay", func() {
				client.result = store.PurchaseResult{Outcome: store.Pending}
				l.Send(BuyMsg{})
				l.Settle(quiet)

				So(m.Notice.MustGet(), ShouldEqual, PendingNotice)
				So(m.Alert.IsAbsent(), ShouldBeTrue)
			})

			Convey("a cancelled purchase is silent", func() {
				client.result = store.PurchaseResult{Outcome: store.Cancelled}
				l.Send(BuyMsg{})
				l.Settle(quiet)

				So(m.Alert.IsAbsent(), ShouldBeTrue)
				So(m.Notice.IsAbsent(), ShouldBeTrue)
			})

			Convey("a store error shows a payment alert", func() {
				client.purchaseErr = store.ErrFailed
				l.Send(BuyMsg{})
				l.Settle(quiet)

				So(m.Alert.MustGet().Title, ShouldEqual, "Payment error")
			})
		})
	})
}
