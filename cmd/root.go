// Package cmd is the keypoint command line.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/keypoint-cli/keypoint/color"
	"github.com/keypoint-cli/keypoint/constant"
	"github.com/keypoint-cli/keypoint/icon"
	"github.com/keypoint-cli/keypoint/key"
	"github.com/keypoint-cli/keypoint/log"
	"github.com/keypoint-cli/keypoint/player"
	"github.com/keypoint-cli/keypoint/rate"
	"github.com/keypoint-cli/keypoint/style"
	"github.com/keypoint-cli/keypoint/tui"
	"github.com/keypoint-cli/keypoint/util"
	"github.com/keypoint-cli/keypoint/version"
	"github.com/keypoint-cli/keypoint/where"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// bindFlag ties a persistent flag to a setting, so the flag overrides the
// config file for this run only.
func bindFlag(name, configKey string, complete func() []string) {
	flag := rootCmd.PersistentFlags().Lookup(name)
	lo.Must0(viper.BindPFlag(configKey, flag))
	if complete != nil {
		lo.Must0(rootCmd.RegisterFlagCompletionFunc(name, func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return complete(), cobra.ShellCompDirectiveNoFileComp
		}))
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringP("icons", "I", "", "icons variant")
	flags.StringP("player", "P", "", "audio backend")
	flags.BoolP("write-history", "H", true, "remember the last key point of every book")

	bindFlag("icons", key.IconsVariant, icon.AvailableVariants)
	bindFlag("player", key.Player, player.Backends)
	bindFlag("write-history", key.HistorySave, nil)

	rootCmd.Flags().BoolP("version", "v", false, "print the version")
	rootCmd.Flags().BoolP("continue", "c", false, "reopen the most recently listened book")

	help := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		help(cmd, args)
		version.Notify()
	})
}

var rootCmd = &cobra.Command{
	Use:   constant.Keypoint,
	Short: "Listen to the key points of the world's best books",
	Long:  constant.Logo + "\n" + style.Faint("  The key points of a book in fifteen minutes."),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// stale mpv sockets from crashed sessions
		_ = util.Delete(where.Temp())
	},
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		backend := viper.GetString(key.Player)
		CheckDependencies(backend)

		options := tui.Options{
			Continue: lo.Must(cmd.Flags().GetBool("continue")),
			Player:   backend,
			Rate:     configuredRate(),
		}
		handleErr(tui.Run(cmd.Context(), &options))
	},
}

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiYellow + cc.Bold,
			Commands:      cc.Yellow,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		handleErr(err)
	}
}

func configuredRate() rate.Rate {
	r, err := rate.Parse(viper.GetString(key.PlayerRate))
	if err != nil {
		log.Warnf("%v, using %s", err, rate.Normal)
		return rate.Normal
	}
	return r
}

// handleErr reports err and exits. A nil err is a no-op.
func handleErr(err error) {
	if err == nil {
		return
	}
	log.Error(err)
	fmt.Fprintln(os.Stderr, style.Fg(color.Red)(icon.Get(icon.Fail)), strings.TrimSpace(err.Error()))
	os.Exit(1)
}
