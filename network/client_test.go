package network

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/keypoint-cli/keypoint/constant"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFetch(t *testing.T) {
	Convey("Given a media server", t, func() {
		var agent string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			agent = r.UserAgent()
			if r.URL.Path == "/missing.mp3" {
				http.NotFound(w, r)
				return
			}
			_, _ = w.Write([]byte("ID3"))
		}))
		defer server.Close()

		Convey("Fetch returns the body and identifies the client", func() {
			data, err := Fetch(context.Background(), server.URL+"/kp1.mp3")
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "ID3")
			So(agent, ShouldEqual, constant.UserAgent)
		})

		Convey("Fetch fails on non-2xx responses", func() {
			_, err := Fetch(context.Background(), server.URL+"/missing.mp3")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "404")
		})
	})
}
