package cmd

import (
	"os"

	"github.com/keypoint-cli/keypoint/color"
	"github.com/keypoint-cli/keypoint/config"
	"github.com/keypoint-cli/keypoint/style"
	"github.com/keypoint-cli/keypoint/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolP("set-only", "s", false, "only variables that are set")
	envCmd.Flags().BoolP("unset-only", "u", false, "only variables that are not set")
	envCmd.MarkFlagsMutuallyExclusive("set-only", "unset-only")
	envCmd.SetOut(os.Stdout)
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "List the environment variables keypoint reads",
	Run: func(cmd *cobra.Command, args []string) {
		setOnly := lo.Must(cmd.Flags().GetBool("set-only"))
		unsetOnly := lo.Must(cmd.Flags().GetBool("unset-only"))

		names := lo.Map(config.EnvExposed, func(k string, _ int) string {
			field := config.Default[k]
			return field.Env()
		})
		names = append(names, where.EnvConfigPath)
		slices.Sort(names)

		var rows [][]string
		for _, name := range names {
			value, present := os.LookupEnv(name)
			if (setOnly && !present) || (unsetOnly && present) {
				continue
			}

			shown := style.Fg(color.Red)("unset")
			if present {
				shown = style.Fg(color.Green)(value)
			}
			rows = append(rows, []string{style.Fg(color.Purple)(name), shown})
		}

		renderTable(cmd.OutOrStdout(), []string{"Variable", "Value"}, rows, nil, 0)
	},
}
