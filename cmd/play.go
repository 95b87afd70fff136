package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"

	"github.com/AlecAivazis/survey/v2"
	"github.com/gurbani-cli/gurbani/catalog"
	"github.com/gurbani-cli/gurbani/icon"
	"github.com/gurbani-cli/gurbani/key"
	"github.com/gurbani-cli/gurbani/nitnem"
	"github.com/gurbani-cli/gurbani/session"
	"github.com/gurbani-cli/gurbani/style"
	"github.com/gurbani-cli/gurbani/tui"
	"github.com/gurbani-cli/gurbani/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().BoolP("plain", "p", false, "Print a status line instead of opening the player")
	playCmd.Flags().BoolP("expanded", "e", false, "Open the full player instead of the mini player")
	playCmd.Flags().Bool("no-advance", false, "Stop when the track ends instead of continuing the Nitnem")

	playCmd.ValidArgsFunction = func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return trackIDs(catalog.Default()), cobra.ShellCompDirectiveNoFileComp
	}
}

var playCmd = &cobra.Command{
	Use:   "play [bani]",
	Short: "Play a bani by id or title",
	Long: "Play a bani by id or title. When the bani belongs to the Nitnem, the next one\n" +
		"starts automatically once it finishes. Without arguments a picker is shown.",
	Example: "  gurbani play japji\n  gurbani play \"rehras\" --plain",
	Args:    cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		CheckDependencies()

		var (
			plain     = lo.Must(cmd.Flags().GetBool("plain"))
			expanded  = lo.Must(cmd.Flags().GetBool("expanded")) || viper.GetBool(key.TUIStartExpanded)
			noAdvance = lo.Must(cmd.Flags().GetBool("no-advance"))
		)

		var (
			track catalog.Track
			err   error
		)
		if len(args) == 0 {
			track, err = pickTrack(catalog.Default())
		} else {
			track, err = resolveTrack(catalog.Default(), args[0])
		}
		handleErr(err)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		ctrl, closeSession := newSession(!noAdvance)
		defer closeSession()

		if plain {
			handleErr(playPlain(ctx, ctrl, track, !noAdvance))
			return
		}

		handleErr(tui.Run(ctx, ctrl, &tui.Options{
			Item:     track.ItemID(),
			Expanded: expanded,
		}))
	},
}

func trackIDs(cat *catalog.Catalog) []string {
	return lo.Map(cat.All(), func(t catalog.Track, _ int) string {
		return t.ID
	})
}

// resolveTrack accepts an item id, a track id or a title query.
func resolveTrack(cat *catalog.Catalog, query string) (catalog.Track, error) {
	if track, ok := cat.Resolve(query).Get(); ok {
		return track, nil
	}

	if found := cat.Find(query); len(found) > 0 {
		return found[0], nil
	}

	return catalog.Track{}, errUnknown("bani", query, trackIDs(cat))
}

func pickTrack(cat *catalog.Catalog) (catalog.Track, error) {
	tracks := cat.All()
	if len(tracks) == 0 {
		return catalog.Track{}, errors.New("no tracks available")
	}

	var index int
	err := survey.AskOne(&survey.Select{
		Message: "Bani",
		Options: lo.Map(tracks, func(t catalog.Track, _ int) string {
			return t.Title
		}),
		PageSize: 10,
	}, &index)
	if err != nil {
		return catalog.Track{}, err
	}

	return tracks[index], nil
}

// playPlain prints one erasable line per snapshot until playback ends or ctx is done.
func playPlain(ctx context.Context, ctrl *session.Controller, track catalog.Track, advance bool) error {
	var (
		queue = newSnapQueue()
		ended = make(chan struct{}, 1)
		erase = func() {}
	)

	unsubscribe := ctrl.Subscribe(queue.push)
	defer unsubscribe()

	// A finished track that nothing follows ends the command.
	// The end of the Nitnem is reported through its notice instead.
	ctrl.OnComplete(func(t catalog.Track) {
		within := advance && viper.GetBool(key.PlayerAutoAdvance)
		if nitnem.Default().OnTrackCompleted(t.ItemID(), nitnem.Context{WithinLiturgy: within}).Kind == nitnem.NoAction {
			select {
			case ended <- struct{}{}:
			default:
			}
		}
	})

	if err := ctrl.PlayItem(ctx, track.ItemID()); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			erase()
			return nil
		case <-ended:
			erase()
			fmt.Printf("%s %s finished\n", icon.Get(icon.Success), ctrl.Snapshot().Track.OrEmpty().Title)
			return nil
		case <-queue.ready:
			for _, snap := range queue.take() {
				erase()

				if notice, ok := snap.Notice.Get(); ok {
					fmt.Printf("%s %s\n", icon.Get(icon.Notice), notice.Message)
					if notice.Kind == session.NoticeSequenceFinished {
						return nil
					}
				}

				if snap.Phase == session.Idle {
					return snap.LastError
				}

				erase = util.PrintErasable(statusLine(snap))
			}
		}
	}
}

type queued struct {
	snap session.Snapshot
	tick bool
}

// snapQueue hands snapshots from the session to the printer without blocking the session.
// Consecutive status ticks are coalesced; snapshots with a notice or a new phase are kept.
type snapQueue struct {
	mu      sync.Mutex
	pending []queued
	phase   session.Phase
	ready   chan struct{}
}

func newSnapQueue() *snapQueue {
	return &snapQueue{ready: make(chan struct{}, 1)}
}

func (q *snapQueue) push(snap session.Snapshot) {
	q.mu.Lock()
	tick := snap.Notice.IsAbsent() && snap.Phase == q.phase
	q.phase = snap.Phase

	if n := len(q.pending); tick && n > 0 && q.pending[n-1].tick {
		q.pending[n-1].snap = snap
	} else {
		q.pending = append(q.pending, queued{snap: snap, tick: tick})
	}
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

func (q *snapQueue) take() []session.Snapshot {
	q.mu.Lock()
	defer q.mu.Unlock()

	snaps := lo.Map(q.pending, func(e queued, _ int) session.Snapshot {
		return e.snap
	})
	q.pending = nil
	return snaps
}

func statusLine(snap session.Snapshot) string {
	t := snap.Track.OrEmpty()
	st := snap.Status

	return fmt.Sprintf(
		"%s %s  %s  %s / %s",
		icon.Get(icon.Track),
		t.Title,
		style.Transport(snap.Transport().String()),
		util.FormatTime(st.Position),
		util.FormatTime(st.Duration),
	)
}
