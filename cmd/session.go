package cmd

import (
	"context"
	"time"

	"github.com/gurbani-cli/gurbani/catalog"
	"github.com/gurbani-cli/gurbani/engine"
	"github.com/gurbani-cli/gurbani/key"
	"github.com/gurbani-cli/gurbani/log"
	"github.com/gurbani-cli/gurbani/nitnem"
	"github.com/gurbani-cli/gurbani/notify"
	"github.com/gurbani-cli/gurbani/player"
	"github.com/gurbani-cli/gurbani/progress"
	"github.com/gurbani-cli/gurbani/session"
	"github.com/spf13/viper"
)

// newSession wires the mpv platform, the catalog and the Nitnem order into a session
// with the desktop and listening-history listeners attached.
func newSession(autoAdvance bool) (ctrl *session.Controller, closeSession func()) {
	eng := engine.New(player.New())
	ctrl = session.New(eng, catalog.Default(), nitnem.Default())

	if !autoAdvance {
		ctrl.SetAutoAdvance(false)
	}

	ctrl.Subscribe(notify.Listener())
	ctrl.Subscribe(listeningRecorder(progress.Default()))
	ctrl.OnComplete(func(track catalog.Track) {
		log.Infof("finished %s", track.ID)
	})

	return ctrl, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		ctrl.Close(ctx)
	}
}

// listenWriter is the part of the progress store the recorder needs.
type listenWriter interface {
	SaveListen(trackID, itemID, title string, position, duration time.Duration) error
}

// listeningRecorder stores the furthest position of every loaded track.
// Writes happen at most once per whole second of playback per track.
func listeningRecorder(store listenWriter) func(session.Snapshot) {
	var (
		lastTrack  string
		lastSecond = time.Duration(-1)
	)

	return func(snap session.Snapshot) {
		if !viper.GetBool(key.ProgressSaveListening) || snap.Phase != session.Active {
			return
		}

		track, ok := snap.Track.Get()
		st := snap.Status
		if !ok || !st.IsLoaded || st.Duration <= 0 {
			return
		}

		second := st.Position.Truncate(time.Second)
		if track.ID == lastTrack && second == lastSecond {
			return
		}
		lastTrack, lastSecond = track.ID, second

		if err := store.SaveListen(track.ID, track.ItemID(), track.Title, st.Position, st.Duration); err != nil {
			log.Warnf("listening history: %v", err)
		}
	}
}
