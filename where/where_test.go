package where

import (
	"path/filepath"
	"testing"

	"github.com/keypoint-cli/keypoint/filesystem"
	"github.com/keypoint-cli/keypoint/key"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Path functions", t, func() {
		for name, fn := range map[string]func() string{
			"Config":  Config,
			"Cache":   Cache,
			"Logs":    Logs,
			"Library": Library,
			"Store":   Store,
			"Temp":    Temp,
		} {
			Convey(name+"()", func() {
				path := fn()
				So(path, ShouldNotBeEmpty)
				So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
			})
		}

		Convey("History() lives in the config directory", func() {
			So(filepath.Dir(History()), ShouldEqual, Config())
		})

		Convey("Library() honours library.path", func() {
			viper.Set(key.LibraryPath, "/books")
			defer viper.Set(key.LibraryPath, "")

			So(Library(), ShouldEqual, "/books")
			So(lo.Must(filesystem.API().IsDir("/books")), ShouldBeTrue)
		})
	})
}

func TestConfigOverride(t *testing.T) {
	t.Setenv(EnvConfigPath, "/custom/keypoint")

	Convey("KEYPOINT_CONFIG_PATH moves the config directory and what lives under it", t, func() {
		So(Config(), ShouldEqual, "/custom/keypoint")
		So(Store(), ShouldEqual, filepath.Join("/custom/keypoint", "store"))
		So(History(), ShouldEqual, filepath.Join("/custom/keypoint", "history.json"))
	})
}
