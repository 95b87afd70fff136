package engine

import (
	"time"

	"github.com/gurbani-cli/gurbani/util"
)

// Status is a point-in-time description of the audio resource.
type Status struct {
	// TrackID is the track that produced this snapshot. Empty when nothing is loaded.
	TrackID     string        `json:"track_id,omitempty"`
	IsLoaded    bool          `json:"is_loaded"`
	IsPlaying   bool          `json:"is_playing"`
	IsBuffering bool          `json:"is_buffering"`
	Position    time.Duration `json:"position"`
	Duration    time.Duration `json:"duration"`
	Volume      float64       `json:"volume"`
	Rate        float64       `json:"rate"`
	// DidJustFinish is the platform's end-of-stream signal, when it has one.
	DidJustFinish bool `json:"did_just_finish,omitempty"`
	// Err is set on the one status reporting that the resource died after loading.
	// The engine has already released it.
	Err error `json:"-"`
}

// Fraction returns the completed share of the track in [0, 1].
func (s Status) Fraction() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return util.Clamp(float64(s.Position)/float64(s.Duration), 0, 1)
}

// Remaining returns the time left until the end of the track.
func (s Status) Remaining() time.Duration {
	if s.Duration <= 0 {
		return 0
	}
	return max(s.Duration-s.Position, 0)
}

func idle(volume, rate float64) Status {
	return Status{Volume: volume, Rate: rate}
}

// normalize enforces the snapshot invariants: position within bounds and
// buffering taking precedence over playing.
func normalize(s Status, trackID string, volume, rate float64) Status {
	s.TrackID = trackID
	s.Volume = volume
	s.Rate = rate

	if s.IsBuffering {
		s.IsPlaying = false
	}

	s.Position = max(s.Position, 0)
	if s.Duration > 0 {
		s.Position = min(s.Position, s.Duration)
	} else {
		s.Duration = 0
	}

	return s
}
