package cmd

import (
	"os"

	"github.com/keypoint-cli/keypoint/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

type location struct {
	flag, short string
	path        func() string
	hidden      bool
}

var locations = []location{
	{"config", "c", where.Config, false},
	{"library", "b", where.Library, false},
	{"store", "s", where.Store, false},
	{"logs", "l", where.Logs, false},
	{"history", "", where.History, true},
	{"cache", "", where.Cache, true},
	{"temp", "", where.Temp, true},
}

func init() {
	rootCmd.AddCommand(whereCmd)

	for _, l := range locations {
		whereCmd.Flags().BoolP(l.flag, l.short, false, "print the "+l.flag+" path only")
		if l.hidden {
			lo.Must0(whereCmd.Flags().MarkHidden(l.flag))
		}
	}
	whereCmd.MarkFlagsMutuallyExclusive(lo.Map(locations, func(l location, _ int) string { return l.flag })...)
	whereCmd.SetOut(os.Stdout)
}

var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where keypoint keeps its files",
	Run: func(cmd *cobra.Command, args []string) {
		if l, ok := lo.Find(locations, func(l location) bool {
			return lo.Must(cmd.Flags().GetBool(l.flag))
		}); ok {
			cmd.Println(l.path())
			return
		}

		rows := lo.FilterMap(locations, func(l location, _ int) ([]string, bool) {
			return []string{l.flag, l.path(), "--" + l.flag}, !l.hidden
		})
		renderTable(cmd.OutOrStdout(), []string{"What", "Path", "Flag"}, rows, nil, 0)
	},
}
