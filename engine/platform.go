package engine

import (
	"context"
	"time"
)

// Options configures a newly created audio resource.
type Options struct {
	Volume          float64
	Rate            float64
	Looping         bool
	PitchCorrection bool
}

// DefaultOptions returns the settings every track starts with.
func DefaultOptions() Options {
	return Options{
		Volume:          MaxVolume,
		Rate:            1,
		PitchCorrection: true,
	}
}

// StatusFunc receives status pushes from a resource.
// TrackID, Volume and Rate are filled in by the engine.
type StatusFunc func(Status)

// Platform creates audio resources bound to a source URL.
type Platform interface {
	// Create acquires a resource for url. The resource starts paused.
	Create(ctx context.Context, url string, opts Options, onStatus StatusFunc) (Resource, error)
}

// Resource is a single loaded sound.
type Resource interface {
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	Stop(ctx context.Context) error
	// Unload releases the resource. It must be safe to call more than once.
	Unload(ctx context.Context) error
	SetPosition(ctx context.Context, position time.Duration) error
	SetVolume(ctx context.Context, volume float64) error
	SetRate(ctx context.Context, rate float64, pitchCorrect bool) error
	Status(ctx context.Context) (Status, error)
}
