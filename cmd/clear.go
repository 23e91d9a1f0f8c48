package cmd

import (
	"fmt"

	"github.com/keypoint-cli/keypoint/history"
	"github.com/keypoint-cli/keypoint/icon"
	"github.com/keypoint-cli/keypoint/util"
	"github.com/keypoint-cli/keypoint/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// clearable is something clear can delete.
type clearable struct {
	flag, short, what string
	clear             func() error
}

var clearables = []clearable{
	{"cache", "c", "cache", func() error { return util.Delete(where.Cache()) }},
	{"history", "s", "listening history", history.Clear},
	{"logs", "l", "logs", func() error { return util.Delete(where.Logs()) }},
	{"temp", "t", "temporary files", func() error { return util.Delete(where.Temp()) }},
}

func init() {
	rootCmd.AddCommand(clearCmd)
	for _, c := range clearables {
		clearCmd.Flags().BoolP(c.flag, c.short, false, "clear "+c.what)
	}
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete cached and temporary files",
	Run: func(cmd *cobra.Command, args []string) {
		selected := lo.Filter(clearables, func(c clearable, _ int) bool {
			return lo.Must(cmd.Flags().GetBool(c.flag))
		})
		if len(selected) == 0 {
			handleErr(cmd.Help())
			return
		}

		for _, c := range selected {
			erase := util.PrintErasable(fmt.Sprintf("%s Clearing %s...", icon.Get(icon.Progress), c.what))
			err := c.clear()
			erase()
			handleErr(err)
			fmt.Printf("%s %s cleared\n", icon.Get(icon.Success), util.Capitalize(c.what))
		}
	},
}
