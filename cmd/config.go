package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/keypoint-cli/keypoint/color"
	"github.com/keypoint-cli/keypoint/config"
	"github.com/keypoint-cli/keypoint/filesystem"
	"github.com/keypoint-cli/keypoint/icon"
	"github.com/keypoint-cli/keypoint/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func completionConfigKeys(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return config.Keys(), cobra.ShellCompDirectiveNoFileComp
}

// keyArg takes the key from the first argument or from --key.
func keyArg(cmd *cobra.Command, args []string) config.Field {
	k := lo.Must(cmd.Flags().GetString("key"))
	if len(args) > 0 {
		k = args[0]
	}
	if k == "" {
		handleErr(errors.New("key is required as an argument or with --key"))
	}

	field, err := config.Lookup(k)
	handleErr(err)
	return field
}

func success(format string, a ...any) {
	fmt.Printf("%s %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), fmt.Sprintf(format, a...))
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInfoCmd, configListCmd, configSetCmd, configGetCmd, configWriteCmd, configDeleteCmd, configResetCmd)

	configInfoCmd.Flags().StringSliceP("key", "k", nil, "keys to describe, all when omitted")
	configInfoCmd.Flags().BoolP("json", "j", false, "output as json")
	_ = configInfoCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
	configInfoCmd.SetOut(os.Stdout)

	configListCmd.SetOut(os.Stdout)

	configSetCmd.Flags().StringP("key", "k", "", "key to set")
	configSetCmd.Flags().StringSliceP("value", "v", nil, "value to assign")
	_ = configSetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)

	configGetCmd.Flags().StringP("key", "k", "", "key to print")
	_ = configGetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)

	configWriteCmd.Flags().BoolP("force", "f", false, "overwrite an existing config file")

	configResetCmd.Flags().StringP("key", "k", "", "key to reset")
	configResetCmd.Flags().BoolP("all", "a", false, "reset every key")
	configResetCmd.MarkFlagsMutuallyExclusive("key", "all")
	_ = configResetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and change settings",
}

var configInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Describe settings",
	Run: func(cmd *cobra.Command, args []string) {
		keys := lo.Must(cmd.Flags().GetStringSlice("key"))
		if len(keys) == 0 {
			keys = config.Keys()
		}

		fields := lo.Map(keys, func(k string, _ int) config.Field {
			field, err := config.Lookup(k)
			handleErr(err)
			return field
		})

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(lo.ToSlicePtr(fields)))
			return
		}

		for i := range fields {
			if i > 0 {
				cmd.Println()
			}
			cmd.Println(fields[i].Pretty())
		}
	},
}

var configListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List every setting with its current value",
	Aliases: []string{"ls"},
	Run: func(cmd *cobra.Command, args []string) {
		rows := lo.Map(config.Keys(), func(k string, _ int) []string {
			field := config.Default[k]
			current := viper.Get(k)
			mark := ""
			if fmt.Sprint(current) != fmt.Sprint(field.Value) {
				mark = "*"
			}
			return []string{k, config.Highlight(current) + mark, fmt.Sprint(field.Value)}
		})
		renderTable(cmd.OutOrStdout(), []string{"Key", "Value", "Default"}, rows, nil, 0)
	},
}

var configSetCmd = &cobra.Command{
	Use:               "set [key] [value...]",
	Short:             "Change a setting",
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		field := keyArg(cmd, args)

		raw := lo.Must(cmd.Flags().GetStringSlice("value"))
		if len(args) > 1 {
			raw = args[1:]
		}

		value, err := field.Parse(raw)
		handleErr(err)
		handleErr(config.Set(field.Key, value))

		success("set %s to %s", style.Fg(color.Purple)(field.Key), config.Highlight(value))
	},
}

var configGetCmd = &cobra.Command{
	Use:               "get [key]",
	Short:             "Print the value of a setting",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		field := keyArg(cmd, args)
		fmt.Println(viper.Get(field.Key))
	},
}

var configWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Write the current settings to the config file",
	Run: func(cmd *cobra.Command, args []string) {
		path := config.Path()

		if lo.Must(cmd.Flags().GetBool("force")) {
			if err := filesystem.API().Remove(path); err != nil && !os.IsNotExist(err) {
				handleErr(err)
			}
		}

		handleErr(viper.SafeWriteConfig())
		success("wrote config to %s", path)
	},
}

var configDeleteCmd = &cobra.Command{
	Use:     "delete",
	Short:   "Delete the config file",
	Aliases: []string{"remove"},
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(filesystem.API().Remove(config.Path()))
		success("deleted config")
	},
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore factory values",
	PreRun: func(cmd *cobra.Command, args []string) {
		if !cmd.Flags().Changed("key") && !cmd.Flags().Changed("all") {
			handleErr(errors.New("either --key or --all must be set"))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("all")) {
			handleErr(config.Reset())
			success("reset all settings")
			return
		}

		field := keyArg(cmd, nil)
		handleErr(config.Reset(field.Key))
		success("reset %s to %s", style.Fg(color.Purple)(field.Key), config.Highlight(field.Value))
	},
}
