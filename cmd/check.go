package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/gurbani-cli/gurbani/constant"
	"github.com/gurbani-cli/gurbani/icon"
	"github.com/gurbani-cli/gurbani/key"
	"github.com/gurbani-cli/gurbani/player"
	"github.com/gurbani-cli/gurbani/style"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.SetOut(os.Stdout)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that mpv is available for playback",
	Run: func(cmd *cobra.Command, args []string) {
		CheckDependencies()

		v, err := player.Version(viper.GetString(key.PlayerMPVPath))
		handleErr(err)
		cmd.Printf("%s %s\n", icon.Get(icon.Success), v)
	},
}

// CheckDependencies exits with install instructions when mpv cannot be found.
func CheckDependencies() {
	mpv := viper.GetString(key.PlayerMPVPath)
	if mpv == "" {
		mpv = "mpv"
	}

	if _, err := exec.LookPath(mpv); err != nil {
		printMissingDependencyError(mpv)
		os.Exit(1)
	}
}

func printMissingDependencyError(dep string) {
	var installCmd string
	switch runtime.GOOS {
	case constant.Darwin:
		installCmd = "brew install mpv"
	case constant.Linux:
		installCmd = "sudo apt install mpv"
	case constant.Windows:
		installCmd = "scoop install mpv"
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.ErrorColor).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.ErrorColor).Render(fmt.Sprintf("%s Missing player", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("'%s' was not found in your PATH. It is needed to play audio.", dep))

	var suggestion string
	if installCmd != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(installCmd))
	}
	suggestion += fmt.Sprintf("\n\nOr point %s at an existing binary.", style.Bold(key.PlayerMPVPath))

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}
