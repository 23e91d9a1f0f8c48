package open

import (
	"runtime"
	"testing"

	"github.com/keypoint-cli/keypoint/constant"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCommand(t *testing.T) {
	Convey("A command is built for the current platform", t, func() {
		cmd, err := command("https://example.com/cover.png")

		switch runtime.GOOS {
		case constant.Windows, constant.Darwin, constant.Linux, constant.Android:
			So(err, ShouldBeNil)
			So(cmd.Args[len(cmd.Args)-1], ShouldEqual, "https://example.com/cover.png")
		default:
			So(err, ShouldNotBeNil)
		}
	})
}
