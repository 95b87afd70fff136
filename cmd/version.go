package cmd

import (
	"os"
	"runtime"
	"strings"
	"text/template"

	"github.com/gurbani-cli/gurbani/color"
	"github.com/gurbani-cli/gurbani/constant"
	"github.com/gurbani-cli/gurbani/key"
	"github.com/gurbani-cli/gurbani/player"
	"github.com/gurbani-cli/gurbani/style"
	"github.com/gurbani-cli/gurbani/version"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.SetOut(os.Stdout)
	versionCmd.Flags().BoolP("short", "s", false, "Display only the version string without metadata")
}

var versionTemplate = lo.Must(template.New("version").Funcs(template.FuncMap{
	"faint":   style.Faint,
	"bold":    style.Bold,
	"saffron": style.Fg(color.Kesri),
}).Parse(`{{ saffron "▇▇▇" }} {{ saffron .App }}

  {{ faint "Version" }}         {{ bold .Version }}
  {{ faint "Git Commit" }}      {{ bold .Revision }}
  {{ faint "Build Date" }}      {{ bold .BuiltAt }}
  {{ faint "Built By" }}        {{ bold .BuiltBy }}
  {{ faint "Platform" }}        {{ bold .OS }}/{{ bold .Arch }}
  {{ faint "Player" }}          {{ bold .Player }}
`))

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version and build metadata",
	Long:  "Display the application version, build revision, platform and the mpv build used for playback.",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("short")) {
			cmd.Println(constant.Version)
			return
		}

		defer version.Notify()

		mpv, err := player.Version(viper.GetString(key.PlayerMPVPath))
		if err != nil {
			mpv = "not found"
		}

		handleErr(versionTemplate.Execute(cmd.OutOrStdout(), struct {
			App, Version, Revision, BuiltAt, BuiltBy, OS, Arch, Player string
		}{
			App:      constant.Gurbani,
			Version:  constant.Version,
			Revision: constant.Revision,
			BuiltAt:  strings.TrimSpace(constant.BuiltAt),
			BuiltBy:  constant.BuiltBy,
			OS:       runtime.GOOS,
			Arch:     runtime.GOARCH,
			Player:   mpv,
		}))
	},
}
