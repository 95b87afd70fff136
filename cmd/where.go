package cmd

import (
	"encoding/json"
	"os"

	"github.com/gurbani-cli/gurbani/color"
	"github.com/gurbani-cli/gurbani/filesystem"
	"github.com/gurbani-cli/gurbani/style"
	"github.com/gurbani-cli/gurbani/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

// location is a path `where` can print, selectable with its own flag.
type location struct {
	name   string
	flag   string
	short  mo.Option[string]
	path   func() string
	hidden bool
}

var locations = []location{
	{name: "Config", flag: "config", short: mo.Some("c"), path: where.Config},
	{name: "Progress", flag: "progress", short: mo.Some("p"), path: where.Progress},
	{name: "Bookmarks", flag: "bookmarks", short: mo.Some("b"), path: where.Bookmarks},
	{name: "Listening", flag: "listening", path: where.Listening},
	{name: "Logs", flag: "logs", short: mo.Some("l"), path: where.Logs},
	{name: "Cache", flag: "cache", path: where.Cache, hidden: true},
	{name: "Temp", flag: "temp", path: where.Temp, hidden: true},
}

func init() {
	rootCmd.AddCommand(whereCmd)

	for _, l := range locations {
		whereCmd.Flags().BoolP(l.flag, l.short.OrEmpty(), false, l.name+" path")

		if l.hidden {
			lo.Must0(whereCmd.Flags().MarkHidden(l.flag))
		}
	}

	whereCmd.MarkFlagsMutuallyExclusive(lo.Map(locations, func(l location, _ int) string {
		return l.flag
	})...)

	whereCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	whereCmd.SetOut(os.Stdout)
}

var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where configuration, progress and logs are kept",
	Run: func(cmd *cobra.Command, args []string) {
		if l, ok := lo.Find(locations, func(l location) bool {
			return lo.Must(cmd.Flags().GetBool(l.flag))
		}); ok {
			cmd.Println(l.path())
			return
		}

		visible := lo.Reject(locations, func(l location, _ int) bool {
			return l.hidden
		})

		if lo.Must(cmd.Flags().GetBool("json")) {
			paths := lo.SliceToMap(visible, func(l location) (string, string) {
				return l.flag, l.path()
			})
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(paths))
			return
		}

		header := style.New().Bold(true).Foreground(color.Purple).Render
		for i, l := range visible {
			path := l.path()

			missing := ""
			if exists, _ := filesystem.API().Exists(path); !exists {
				missing = " " + style.Faint("(not created yet)")
			}

			cmd.Printf("%s %s\n", header(l.name), style.Fg(color.Yellow)("--"+l.flag))
			cmd.Println(path + missing)

			if i < len(visible)-1 {
				cmd.Println()
			}
		}
	},
}
