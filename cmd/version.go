package cmd

import (
	"os"
	"runtime"
	"strings"

	"github.com/keypoint-cli/keypoint/color"
	"github.com/keypoint-cli/keypoint/constant"
	"github.com/keypoint-cli/keypoint/style"
	"github.com/keypoint-cli/keypoint/version"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolP("short", "s", false, "print the version number only")
	versionCmd.SetOut(os.Stdout)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and build information",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("short")) {
			cmd.Println(constant.Version)
			return
		}

		defer version.Notify()

		cmd.Printf("%s %s\n\n", style.Fg(color.Purple)(constant.Keypoint), style.Bold(constant.Version))

		info := []lo.Tuple2[string, string]{
			{A: "commit", B: constant.Revision},
			{A: "built", B: strings.TrimSpace(constant.BuiltAt)},
			{A: "by", B: constant.BuiltBy},
			{A: "go", B: runtime.Version()},
			{A: "platform", B: runtime.GOOS + "/" + runtime.GOARCH},
		}
		for _, row := range info {
			cmd.Printf("  %-10s %s\n", style.Faint(row.A), row.B)
		}
	},
}
