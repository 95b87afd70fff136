package tui

import "github.com/gurbani-cli/gurbani/session"

type state int

const (
	idleState state = iota
	loadingState
	collapsedState
	expandedState
)

// stateOf maps a session snapshot to the view to render.
func stateOf(snap session.Snapshot) state {
	switch {
	case snap.Phase == session.Loading:
		return loadingState
	case !snap.Visible || snap.Track.IsAbsent():
		return idleState
	case snap.Expanded:
		return expandedState
	default:
		return collapsedState
	}
}
