package icon

import (
	"fmt"
	"testing"

	"github.com/keypoint-cli/keypoint/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestGet(t *testing.T) {
	Convey("Every registered icon renders in each variant", t, func() {
		for i := range icons {
			for _, variant := range AvailableVariants() {
				viper.Set(key.IconsVariant, variant)
				So(Get(i), ShouldNotBeEmpty)
			}
		}
	})

	Convey("Unknown variants fall back to plain", t, func() {
		viper.Set(key.IconsVariant, "sparkles")
		So(Get(Play), ShouldEqual, icons[Play].plain)
	})

	Convey("Unknown icons render as nothing", t, func() {
		viper.Set(key.IconsVariant, "plain")
		So(Get(Icon(len(icons)+10)), ShouldBeEmpty)
	})

	Convey("Variants match the config options", t, func() {
		So(fmt.Sprint(AvailableVariants()), ShouldEqual, "[emoji kaomoji nerd plain squares]")
	})
}
