package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/gurbani-cli/gurbani/color"
	"github.com/gurbani-cli/gurbani/filesystem"
	"github.com/gurbani-cli/gurbani/icon"
	"github.com/gurbani-cli/gurbani/progress"
	"github.com/gurbani-cli/gurbani/style"
	"github.com/gurbani-cli/gurbani/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(progressCmd)
}

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show, back up and restore reading progress",
}

func init() {
	progressCmd.AddCommand(progressShowCmd)
	progressShowCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	progressShowCmd.SetOut(os.Stdout)
}

var progressShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Summarize reading progress and listening history",
	Run: func(cmd *cobra.Command, args []string) {
		store := progress.Default()

		stats, err := store.Stats()
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(stats))
			return
		}

		header := style.New().Bold(true).Foreground(color.Purple).Render

		cmd.Println(header("Reading"))
		cmd.Printf("  %s started, %s completed\n",
			util.Quantify(stats.BanisStarted, "bani", "banis"),
			style.Fg(color.Green)(fmt.Sprint(stats.BanisCompleted)),
		)
		cmd.Printf("  %s read, %s\n",
			util.Quantify(stats.VersesRead, "verse", "verses"),
			util.Quantify(stats.Bookmarks, "bookmark", "bookmarks"),
		)

		for _, r := range stats.RecentlyRead {
			cmd.Printf("  %s %s\n", style.Faint(r.LastReadAt.Format("2006-01-02")), r)
		}

		listens, err := store.Listening()
		handleErr(err)
		if len(listens) == 0 {
			return
		}

		cmd.Println()
		cmd.Println(header("Listening"))
		for _, l := range listens {
			cmd.Printf("  %s %s %s\n",
				style.Faint(l.ListenedAt.Format("2006-01-02")),
				l.Title,
				style.Fg(color.Yellow)(fmt.Sprintf("%.0f%%", l.Percentage)),
			)
		}
	},
}

func init() {
	progressCmd.AddCommand(progressExportCmd)
	progressExportCmd.Flags().StringP("output", "o", "", "Write to this file instead of stdout")
	progressExportCmd.SetOut(os.Stdout)
}

var progressExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a JSON backup of progress and bookmarks",
	Run: func(cmd *cobra.Command, args []string) {
		data, err := progress.Default().Export()
		handleErr(err)

		out := cmd.OutOrStdout()
		if path := lo.Must(cmd.Flags().GetString("output")); path != "" {
			file, err := filesystem.API().Create(path)
			handleErr(err)
			defer util.Ignore(file.Close)
			out = file
		}

		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		handleErr(encoder.Encode(data))
	},
}

func init() {
	progressCmd.AddCommand(progressImportCmd)
}

var progressImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Restore progress and bookmarks from a backup, replacing the current ones",
	Long:  "Restore progress and bookmarks from a backup, replacing the current ones.\nReads stdin when the file is -",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var in io.Reader = os.Stdin
		if args[0] != "-" {
			file, err := filesystem.API().Open(args[0])
			handleErr(err)
			defer util.Ignore(file.Close)
			in = file
		}

		var data progress.Export
		if err := json.NewDecoder(in).Decode(&data); err != nil {
			handleErr(fmt.Errorf("read backup: %w", err))
		}

		handleErr(progress.Default().Import(&data))
		fmt.Printf(
			"%s imported %s and %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			util.Quantify(len(data.Progress), "bani", "banis"),
			util.Quantify(len(data.Bookmarks), "bookmark", "bookmarks"),
		)
	},
}

func init() {
	progressCmd.AddCommand(progressClearCmd)
	progressClearCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}

var progressClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all reading progress and bookmarks",
	Run: func(cmd *cobra.Command, args []string) {
		if !lo.Must(cmd.Flags().GetBool("yes")) {
			var confirmed bool
			handleErr(survey.AskOne(&survey.Confirm{
				Message: "Delete all reading progress and bookmarks?",
				Default: false,
			}, &confirmed))

			if !confirmed {
				return
			}
		}

		handleErr(progress.Default().Clear())
		fmt.Printf("%s progress cleared\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}

func init() {
	progressCmd.AddCommand(progressSchemaCmd)
	progressSchemaCmd.SetOut(os.Stdout)
}

var progressSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the backup format",
	Run: func(cmd *cobra.Command, args []string) {
		schema, err := progress.Schema()
		handleErr(err)
		cmd.Println(string(schema))
	},
}
