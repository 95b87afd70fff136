package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gurbani-cli/gurbani/catalog"
	"github.com/gurbani-cli/gurbani/color"
	"github.com/gurbani-cli/gurbani/icon"
	"github.com/gurbani-cli/gurbani/nitnem"
	"github.com/gurbani-cli/gurbani/progress"
	"github.com/gurbani-cli/gurbani/style"
	"github.com/gurbani-cli/gurbani/util"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(tracksCmd)
	tracksCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	tracksCmd.SetOut(os.Stdout)

	rootCmd.AddCommand(nitnemCmd)
	nitnemCmd.SetOut(os.Stdout)
}

var tracksCmd = &cobra.Command{
	Use:     "tracks",
	Aliases: []string{"ls"},
	Short:   "List the available recordings",
	Run: func(cmd *cobra.Command, args []string) {
		tracks := catalog.Default().All()

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(tracks))
			return
		}

		listened := listenedByTrack()

		t := newTable(cmd)
		t.AppendHeader(table.Row{"Item", "ID", "Title", "ਨਾਮ", "Length", "Listened"})
		for _, track := range tracks {
			t.AppendRow(table.Row{
				style.Faint(track.ItemID()),
				style.Fg(color.Purple)(track.ID),
				track.Title,
				track.TitleGurmukhi,
				util.FormatTime(track.KnownDuration),
				listened[track.ID],
			})
		}
		t.Render()
	},
}

var nitnemCmd = &cobra.Command{
	Use:   "nitnem",
	Short: "Show the Nitnem order used for continuous play",
	Run: func(cmd *cobra.Command, args []string) {
		cat := catalog.Default()

		for i, itemID := range nitnem.Default().Order() {
			id := style.Fg(color.Red)("no audio")
			if track, ok := cat.Resolve(itemID).Get(); ok {
				id = style.Fg(color.Purple)(track.ID)
			}

			cmd.Printf(
				"%s %s %s\n",
				style.Faint(fmt.Sprintf("%d.", i+1)),
				nitnem.Names[itemID],
				id,
			)
		}

		cmd.Printf("\n%s start with %s\n", icon.Get(icon.Nitnem), style.Fg(color.Yellow)("gurbani"))
	},
}

// listenedByTrack formats the furthest listened percentage per track id.
func listenedByTrack() map[string]string {
	listens, err := progress.Default().Listening()
	if err != nil {
		return map[string]string{}
	}

	return lo.SliceToMap(listens, func(l *progress.Listen) (string, string) {
		return l.TrackID, fmt.Sprintf("%.0f%%", l.Percentage)
	})
}

func newTable(cmd *cobra.Command) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)

	if width, _, err := util.TerminalSize(); err == nil && width > 0 {
		t.SetAllowedRowLength(width)
	}

	return t
}
