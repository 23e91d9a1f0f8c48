package filesystem

import (
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestApi(t *testing.T) {
	Convey("Filesystem API", t, func() {
		Convey("Should default to OsFs", func() {
			SetOsFs()
			So(API().Name(), ShouldEqual, "OsFs")
		})

		Convey("Should switch to MemMapFs", func() {
			SetMemMapFs()
			So(API().Name(), ShouldEqual, "MemMapFS")
		})
	})
}

func TestWithin(t *testing.T) {
	Convey("Given a file inside a directory", t, func() {
		SetMemMapFs()
		So(API().WriteFile("/library/book.toml", []byte("title = 'x'"), 0o644), ShouldBeNil)

		Convey("It is readable relative to the directory", func() {
			data, err := Within("/library").ReadFile("book.toml")
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "title = 'x'")
		})

		Convey("Escaping the directory fails", func() {
			_, err := Within("/library").ReadFile("../etc/passwd")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestGacheFs(t *testing.T) {
	Convey("GacheFs writes through the active backend", t, func() {
		SetMemMapFs()
		var fs GacheFs
		So(fs.MkdirAll("/cache/keypoint", 0o755), ShouldBeNil)

		f, err := fs.OpenFile("/cache/keypoint/version.json", os.O_CREATE|os.O_WRONLY, 0o644)
		So(err, ShouldBeNil)
		_, err = f.Write([]byte(`{}`))
		So(err, ShouldBeNil)
		So(f.Close(), ShouldBeNil)

		data, err := API().ReadFile("/cache/keypoint/version.json")
		So(err, ShouldBeNil)
		So(string(data), ShouldEqual, `{}`)
	})
}
