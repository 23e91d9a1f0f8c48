package cache

import (
	"path/filepath"
	"testing"

	"github.com/keypoint-cli/keypoint/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func TestKeyed(t *testing.T) {
	filesystem.SetMemMapFs()

	Convey("Given an empty keyed cache", t, func() {
		c := New[string, int](filepath.Join("/cache", t.Name()+".json"), 0)
		So(c.Clear(), ShouldBeNil)

		Convey("Missing keys are absent", func() {
			So(c.Get("a").IsAbsent(), ShouldBeTrue)
		})

		Convey("Set values can be read back", func() {
			So(c.Set("a", 1), ShouldBeNil)
			So(c.Set("b", 2), ShouldBeNil)

			So(c.Get("a").MustGet(), ShouldEqual, 1)

			all, err := c.All()
			So(err, ShouldBeNil)
			So(all, ShouldResemble, map[string]int{"a": 1, "b": 2})

			Convey("and survive reopening the file", func() {
				reopened := New[string, int](filepath.Join("/cache", t.Name()+".json"), 0)
				So(reopened.Get("b").MustGet(), ShouldEqual, 2)
			})

			Convey("and deleted", func() {
				So(c.Delete("a"), ShouldBeNil)
				So(c.Get("a").IsAbsent(), ShouldBeTrue)
				So(c.Get("b").IsPresent(), ShouldBeTrue)
			})
		})
	})
}
