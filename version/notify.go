package version

import (
	"context"
	"fmt"
	"time"

	"github.com/keypoint-cli/keypoint/color"
	"github.com/keypoint-cli/keypoint/constant"
	"github.com/keypoint-cli/keypoint/icon"
	"github.com/keypoint-cli/keypoint/key"
	"github.com/keypoint-cli/keypoint/style"
	"github.com/keypoint-cli/keypoint/util"
	"github.com/spf13/viper"
)

// Notify prints a notice when a newer release exists. Failures are silent.
func Notify() {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	erase := util.PrintErasable(icon.Get(icon.Progress) + " Checking for updates...")
	latest, err := Latest(ctx)
	erase()
	if err != nil {
		return
	}

	if newer, err := Compare(latest, constant.Version); err != nil || newer <= 0 {
		return
	}

	fmt.Printf("\n%s %s %s\n%s\n\n",
		style.Fg(color.Green)(icon.Get(icon.Success)),
		style.Bold("keypoint "+latest+" is out"),
		style.Faint("(installed "+constant.Version+")"),
		style.Faint(fmt.Sprintf("https://github.com/%s/releases/tag/v%s", constant.Repository, latest)),
	)
}
