package cmd

import (
	"fmt"
	"os"

	"github.com/gurbani-cli/gurbani/catalog"
	"github.com/gurbani-cli/gurbani/color"
	"github.com/gurbani-cli/gurbani/icon"
	"github.com/gurbani-cli/gurbani/progress"
	"github.com/gurbani-cli/gurbani/style"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func completionBanis(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return trackIDs(catalog.Default()), cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.AddCommand(bookmarksCmd)
}

var bookmarksCmd = &cobra.Command{
	Use:     "bookmarks",
	Aliases: []string{"bm"},
	Short:   "Manage bookmarked verses",
}

func init() {
	bookmarksCmd.AddCommand(bookmarksListCmd)
	bookmarksListCmd.Flags().StringP("bani", "b", "", "Only show bookmarks of this bani")
	_ = bookmarksListCmd.RegisterFlagCompletionFunc("bani", completionBanis)
	bookmarksListCmd.SetOut(os.Stdout)
}

var bookmarksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bookmarks, newest first",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			bani      = lo.Must(cmd.Flags().GetString("bani"))
			bookmarks []*progress.Bookmark
			err       error
		)

		if bani != "" {
			track, resolveErr := resolveTrack(catalog.Default(), bani)
			handleErr(resolveErr)
			bookmarks, err = progress.Default().BookmarksFor(track.ItemID())
		} else {
			bookmarks, err = progress.Default().Bookmarks()
		}
		handleErr(err)

		if len(bookmarks) == 0 {
			cmd.Println(style.Faint("No bookmarks yet"))
			return
		}

		t := newTable(cmd)
		t.AppendHeader(table.Row{"Verse", "Bani", "Text", "Added"})
		for _, b := range bookmarks {
			t.AppendRow(table.Row{
				style.Fg(color.Purple)(b.VerseID),
				b.BaniName,
				b.VerseText,
				b.CreatedAt.Format("2006-01-02 15:04"),
			})
		}
		t.Render()
	},
}

func init() {
	bookmarksCmd.AddCommand(bookmarksAddCmd)
	bookmarksAddCmd.Flags().StringP("text", "t", "", "Verse text to keep with the bookmark")
}

var bookmarksAddCmd = &cobra.Command{
	Use:               "add [bani] [verse]",
	Short:             "Bookmark a verse",
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completionBanis,
	Run: func(cmd *cobra.Command, args []string) {
		track, err := resolveTrack(catalog.Default(), args[0])
		handleErr(err)
		verse := args[1]

		handleErr(progress.Default().AddBookmark(progress.Bookmark{
			VerseID:   verse,
			BaniID:    track.ItemID(),
			BaniName:  track.Title,
			VerseText: lo.Must(cmd.Flags().GetString("text")),
		}))

		fmt.Printf(
			"%s bookmarked %s in %s\n",
			style.Fg(color.Green)(icon.Get(icon.Bookmark)),
			style.Fg(color.Purple)(verse),
			style.Fg(color.Yellow)(track.Title),
		)
	},
}

func init() {
	bookmarksCmd.AddCommand(bookmarksRemoveCmd)
}

var bookmarksRemoveCmd = &cobra.Command{
	Use:               "remove [bani] [verse]",
	Aliases:           []string{"rm"},
	Short:             "Remove a bookmark",
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completionBanis,
	Run: func(cmd *cobra.Command, args []string) {
		track, err := resolveTrack(catalog.Default(), args[0])
		handleErr(err)
		verse := args[1]

		marked, err := progress.Default().IsBookmarked(verse)
		handleErr(err)
		if !marked {
			handleErr(fmt.Errorf("verse %s is not bookmarked", verse))
		}

		handleErr(progress.Default().RemoveBookmark(verse, track.ItemID()))
		fmt.Printf("%s removed %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), style.Fg(color.Purple)(verse))
	},
}
