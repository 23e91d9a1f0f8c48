package cmd

import (
	"os"
	"strconv"

	"github.com/keypoint-cli/keypoint/color"
	"github.com/keypoint-cli/keypoint/history"
	"github.com/keypoint-cli/keypoint/icon"
	"github.com/keypoint-cli/keypoint/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().Bool("clear", false, "Forget every book")
	historyCmd.SetOut(os.Stdout)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show where you stopped in every book",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("clear")) {
			handleErr(history.Clear())
			cmd.Printf("%s History cleared\n", style.Fg(color.Green)(icon.Get(icon.Success)))
			return
		}

		records, err := history.Get()
		handleErr(err)

		if len(records) == 0 {
			cmd.Println("Nothing listened yet")
			return
		}

		rows := lo.Map(records, func(r history.Record, _ int) []string {
			return []string{r.Title, strconv.Itoa(r.Index+1) + " / " + strconv.Itoa(r.Total), formatTime(r.UpdatedAt), r.Source}
		})
		renderTable(cmd.OutOrStdout(), []string{"Title", "Key point", "Updated", "Source"}, rows, []int{1}, 0)
	},
}
