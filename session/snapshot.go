package session

import (
	"strconv"

	"github.com/gurbani-cli/gurbani/catalog"
	"github.com/gurbani-cli/gurbani/engine"
	"github.com/samber/mo"
)

// Phase is the lifecycle stage of the session.
type Phase int

const (
	Idle Phase = iota
	Loading
	Active
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Active:
		return "active"
	default:
		return "idle"
	}
}

// Transport is the playback sub-state of an active session.
type Transport int

const (
	Stopped Transport = iota
	Buffering
	Playing
	Paused
)

func (t Transport) String() string {
	switch t {
	case Buffering:
		return "buffering"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// NoticeKind identifies a one-shot message for the UI.
type NoticeKind int

const (
	NoticeLoadFailed NoticeKind = iota + 1
	NoticeSequenceFinished
)

// Notice is delivered with exactly one snapshot.
type Notice struct {
	Kind    NoticeKind
	TrackID string
	Message string
}

// Snapshot is the published view of the session.
type Snapshot struct {
	Phase    Phase
	Track    mo.Option[catalog.Track]
	Visible  bool
	Expanded bool
	Status   engine.Status
	// LastError is the most recent load failure. Cleared by the next PlayItem.
	LastError error
	Notice    mo.Option[Notice]
}

// Transport derives the playback sub-state from the last engine status.
func (s Snapshot) Transport() Transport {
	if s.Phase != Active {
		return Stopped
	}

	switch {
	case s.Status.IsBuffering:
		return Buffering
	case s.Status.IsPlaying:
		return Playing
	default:
		return Paused
	}
}

// IsPlaying reports whether audio is audible right now.
func (s Snapshot) IsPlaying() bool {
	return s.Transport() == Playing
}

// FormatRate renders a rate without trailing zeros, e.g. 1.25 or 2.
func FormatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64)
}
