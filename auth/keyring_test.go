package auth

import (
	"errors"
	"testing"

	"github.com/zalando/go-keyring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestKeyring(t *testing.T) {
	keyring.MockInit()

	Convey("Given the keyring", t, func() {
		k := Keyring{}

		Convey("A stored receipt can be read back", func() {
			So(k.SetReceipt("tx-1", "token"), ShouldBeNil)

			token, err := k.Receipt("tx-1")
			So(err, ShouldBeNil)
			So(token, ShouldEqual, "token")

			Convey("and deleted", func() {
				So(k.DeleteReceipt("tx-1"), ShouldBeNil)

				_, err := k.Receipt("tx-1")
				So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("Deleting an unknown receipt succeeds", func() {
			So(k.DeleteReceipt("missing"), ShouldBeNil)
		})
	})
}
