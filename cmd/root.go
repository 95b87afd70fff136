// Package cmd implements the command-line interface for gurbani.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/gurbani-cli/gurbani/color"
	"github.com/gurbani-cli/gurbani/constant"
	"github.com/gurbani-cli/gurbani/icon"
	"github.com/gurbani-cli/gurbani/key"
	"github.com/gurbani-cli/gurbani/log"
	"github.com/gurbani-cli/gurbani/nitnem"
	"github.com/gurbani-cli/gurbani/style"
	"github.com/gurbani-cli/gurbani/tui"
	"github.com/gurbani-cli/gurbani/util"
	"github.com/gurbani-cli/gurbani/version"
	"github.com/gurbani-cli/gurbani/where"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, plain)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().BoolP("save-listening", "H", true, "Remember how far each track was listened to")
	lo.Must0(viper.BindPFlag(key.ProgressSaveListening, rootCmd.PersistentFlags().Lookup("save-listening")))

	rootCmd.Flags().BoolP("expanded", "e", false, "Open the full player instead of the mini player")
	lo.Must0(viper.BindPFlag(key.TUIStartExpanded, rootCmd.Flags().Lookup("expanded")))

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})

	// mpv sockets left behind by a crashed session
	go func() {
		_ = util.Delete(where.Temp())
	}()
}

// rootCmd starts the Nitnem in the player.
var rootCmd = &cobra.Command{
	Use:   constant.Gurbani,
	Short: "Listen to Nitnem and Gurbani from the terminal",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Listen to Nitnem and Gurbani from the terminal"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		CheckDependencies()

		first, ok := nitnem.Default().First().Get()
		if !ok {
			handleErr(fmt.Errorf("nitnem order is empty"))
		}

		ctrl, closeSession := newSession(true)
		defer closeSession()

		handleErr(tui.Run(cmd.Context(), ctrl, &tui.Options{
			Item:     first,
			Expanded: viper.GetBool(key.TUIStartExpanded),
		}))
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
