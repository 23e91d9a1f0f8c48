package book

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/keypoint-cli/keypoint/filesystem"
	"github.com/keypoint-cli/keypoint/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
	viper.Set(key.LibraryPath, "/library")
}

func TestBook(t *testing.T) {
	Convey("Given the sample book", t, func() {
		b := Sample()

		Convey("It is valid and has three key points", func() {
			So(b.Validate(), ShouldBeNil)
			So(b.Len(), ShouldEqual, 3)
		})

		Convey("Indices are bounded by the key point count", func() {
			So(b.Contains(0), ShouldBeTrue)
			So(b.Contains(2), ShouldBeTrue)
			So(b.Contains(3), ShouldBeFalse)
			So(b.Contains(-1), ShouldBeFalse)
		})

		Convey("Every key point resolves to remote media", func() {
			for _, kp := range b.KeyPoints {
				ref, ok := kp.Media().Get()
				So(ok, ShouldBeTrue)
				So(ref.Remote(), ShouldBeTrue)
			}
		})
	})

	Convey("A key point with a malformed locator has no media", t, func() {
		kp := KeyPoint{Text: "broken", Audio: "-not-a-url"}
		So(kp.Media().IsPresent(), ShouldBeFalse)
	})

	Convey("Books without key points are invalid", t, func() {
		b := &Book{Title: "Empty"}
		So(errors.Is(b.Validate(), ErrNoKeyPoints), ShouldBeTrue)
	})
}

func TestCatalog(t *testing.T) {
	Convey("Given the sample book", t, func() {
		sample := Sample()

		for _, format := range Formats {
			Convey("It survives a "+string(format)+" catalog file", func() {
				data, err := Encode(sample, format)
				So(err, ShouldBeNil)

				path := filepath.Join("/tmp", "sample."+string(format))
				So(filesystem.API().WriteFile(path, data, 0o644), ShouldBeNil)

				loaded, err := Load(path)
				So(err, ShouldBeNil)
				So(loaded, ShouldResemble, sample)
			})
		}
	})

	Convey("Hand written TOML catalogs are decoded", t, func() {
		data := []byte(`
title = "Deep Work"
author = "Cal Newport"

[[key_points]]
text = "Focus is a skill"
audio = "https://example.com/dw/1.mp3"

[[key_points]]
text = "Schedule shallow work"
audio = "https://example.com/dw/2.mp3"
`)
		b, err := Decode(data, TOML)
		So(err, ShouldBeNil)
		So(b.Title, ShouldEqual, "Deep Work")
		So(b.Len(), ShouldEqual, 2)
		So(b.At(1).Text, ShouldEqual, "Schedule shallow work")
	})

	Convey("Catalogs without key points are rejected", t, func() {
		_, err := Decode([]byte(`{"title": "Nothing"}`), JSON)
		So(errors.Is(err, ErrNoKeyPoints), ShouldBeTrue)
	})

	Convey("Unknown extensions are rejected", t, func() {
		_, err := Load("/library/book.yaml")
		So(err, ShouldNotBeNil)
	})
}

func TestLibrary(t *testing.T) {
	Convey("Given a library with two books and a broken catalog", t, func() {
		write := func(name string, b *Book) {
			data, err := Encode(b, TOML)
			So(err, ShouldBeNil)
			So(filesystem.API().WriteFile(filepath.Join("/library", name), data, 0o644), ShouldBeNil)
		}

		write("deep_work.toml", &Book{Title: "Deep Work", KeyPoints: []KeyPoint{{Text: "a", Audio: "a.mp3"}}})
		write("atomic.toml", &Book{Title: "Atomic Habits", KeyPoints: []KeyPoint{{Text: "b", Audio: "b.mp3"}}})
		So(filesystem.API().WriteFile("/library/broken.json", []byte("{"), 0o644), ShouldBeNil)

		Convey("List returns the valid books sorted by title", func() {
			entries, err := List()
			So(err, ShouldBeNil)
			So(len(entries), ShouldEqual, 2)
			So(entries[0].Book.Title, ShouldEqual, "Atomic Habits")
			So(entries[1].Book.Title, ShouldEqual, "Deep Work")
		})

		Convey("Find matches titles fuzzily", func() {
			entry, err := Find("atomic")
			So(err, ShouldBeNil)
			So(entry.Book.Title, ShouldEqual, "Atomic Habits")

			entry, err = Find("dwork")
			So(err, ShouldBeNil)
			So(entry.Book.Title, ShouldEqual, "Deep Work")
		})

		Convey("Find loads existing paths directly", func() {
			entry, err := Find("/library/deep_work.toml")
			So(err, ShouldBeNil)
			So(entry.Path, ShouldEqual, "/library/deep_work.toml")
		})

		Convey("Find reports unmatched queries", func() {
			_, err := Find("zzzz")
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		})
	})
}
