package config

import (
	"errors"
	"testing"

	"github.com/keypoint-cli/keypoint/filesystem"
	"github.com/keypoint-cli/keypoint/key"
	"github.com/samber/lo"
	c "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	c.Convey("Given no config file", t, func() {
		c.So(Setup(), c.ShouldBeNil)

		c.Convey("Every registered key has its factory value", func() {
			for _, k := range Keys() {
				c.So(viper.Get(k), c.ShouldNotBeNil)
			}
			c.So(viper.GetString(key.Player), c.ShouldEqual, "mpv")
			c.So(viper.GetString(key.PlayerRate), c.ShouldEqual, "1")
		})
	})
}

func TestLookup(t *testing.T) {
	c.Convey("Known keys resolve to their field", t, func() {
		field, err := Lookup(key.PlayerAutoplay)
		c.So(err, c.ShouldBeNil)
		c.So(field.Value, c.ShouldEqual, false)
	})

	c.Convey("Unknown keys suggest the closest known one", t, func() {
		_, err := Lookup("player.autoply")
		c.So(errors.Is(err, ErrUnknownKey), c.ShouldBeTrue)
		c.So(err.Error(), c.ShouldContainSubstring, key.PlayerAutoplay)
	})
}

func TestField(t *testing.T) {
	c.Convey("Given the player field", t, func() {
		field := Default[key.Player]

		c.Convey("It accepts only registered backends", func() {
			c.So(field.Accepts("beep"), c.ShouldBeTrue)
			c.So(field.Accepts("vlc"), c.ShouldBeFalse)
		})

		c.Convey("Its env name carries the application prefix", func() {
			c.So(field.Env(), c.ShouldEqual, "KEYPOINT_PLAYER_DEFAULT")
		})
	})

	c.Convey("Parse converts input to the field type", t, func() {
		autoplay := Default[key.PlayerAutoplay]
		v, err := autoplay.Parse([]string{"true"})
		c.So(err, c.ShouldBeNil)
		c.So(v, c.ShouldEqual, true)

		_, err = autoplay.Parse([]string{"maybe"})
		c.So(err, c.ShouldNotBeNil)

		spacing := Default[key.TUIItemSpacing]
		v, err = spacing.Parse([]string{"2"})
		c.So(err, c.ShouldBeNil)
		c.So(v, c.ShouldEqual, 2)

		rate := Default[key.PlayerRate]
		_, err = rate.Parse([]string{"3"})
		c.So(err, c.ShouldNotBeNil)

		_, err = rate.Parse(nil)
		c.So(err, c.ShouldNotBeNil)
	})
}

func TestSave(t *testing.T) {
	c.Convey("Given a fresh setup", t, func() {
		c.So(Setup(), c.ShouldBeNil)

		c.Convey("Set writes the config file", func() {
			c.So(Set(key.TUIShowText, false), c.ShouldBeNil)
			c.So(lo.Must(filesystem.API().Exists(Path())), c.ShouldBeTrue)
			c.So(viper.GetBool(key.TUIShowText), c.ShouldBeFalse)

			c.Convey("Reset restores the factory value", func() {
				c.So(Reset(key.TUIShowText), c.ShouldBeNil)
				c.So(viper.GetBool(key.TUIShowText), c.ShouldBeTrue)
			})
		})

		c.Convey("Reset rejects unknown keys", func() {
			c.So(errors.Is(Reset("nope"), ErrUnknownKey), c.ShouldBeTrue)
		})
	})
}
