// Package engine owns the single audio resource of the application.
// At most one resource is live at a time; replacing a track releases the old
// resource before the new one is acquired.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gurbani-cli/gurbani/catalog"
	"github.com/gurbani-cli/gurbani/key"
	"github.com/gurbani-cli/gurbani/log"
	"github.com/gurbani-cli/gurbani/util"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

const (
	MinVolume = 0.0
	MaxVolume = 1.0
	MinRate   = 0.5
	MaxRate   = 2.0
)

// Engine drives one audio resource at a time on top of a Platform.
type Engine struct {
	platform Platform

	// loadMu serializes LoadAndPlay.
	loadMu sync.Mutex
	// opMu serializes calls into the current resource.
	opMu sync.Mutex

	mu         sync.Mutex
	gen        uint64
	resource   Resource
	track      mo.Option[catalog.Track]
	volume     float64
	rate       float64
	last       Status
	subscriber func(Status)
}

// New returns an engine with nothing loaded.
func New(platform Platform) *Engine {
	return &Engine{
		platform: platform,
		track:    mo.None[catalog.Track](),
		volume:   MaxVolume,
		rate:     1,
		last:     idle(MaxVolume, 1),
	}
}

// Subscribe registers the status receiver, replacing any previous one.
// Passing nil unsubscribes. The receiver is never called with engine locks held.
func (e *Engine) Subscribe(fn func(Status)) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.subscriber = fn
}

// CurrentTrack returns the track owning the live (or loading) resource.
func (e *Engine) CurrentTrack() mo.Option[catalog.Track] {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.track
}

// LoadAndPlay releases the current resource, acquires one for track and starts playback.
// It returns a *LoadError when acquisition fails and ErrDiscarded when Stop
// or another load superseded it.
func (e *Engine) LoadAndPlay(ctx context.Context, track catalog.Track) error {
	e.loadMu.Lock()
	defer e.loadMu.Unlock()

	if timeout := time.Duration(viper.GetInt(key.PlayerLoadTimeout)) * time.Millisecond; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	e.opMu.Lock()
	e.mu.Lock()
	e.gen++
	gen := e.gen
	old := e.resource
	e.resource = nil
	e.track = mo.Some(track)
	e.volume = MaxVolume
	e.rate = 1
	e.last = normalize(Status{}, track.ID, e.volume, e.rate)
	e.mu.Unlock()

	e.release(ctx, old)
	e.opMu.Unlock()

	log.Infof("engine: loading %s from %s", track.ID, track.SourceURL)

	var res Resource
	err := safely(func() (err error) {
		res, err = e.platform.Create(ctx, track.SourceURL, DefaultOptions(), e.statusFunc(gen, track.ID))
		return err
	})
	if err == nil && res == nil {
		err = fmt.Errorf("platform returned no resource")
	}

	e.opMu.Lock()

	if !e.current(gen) {
		log.Infof("engine: load of %s discarded", track.ID)
		e.release(ctx, res)
		e.opMu.Unlock()
		return ErrDiscarded
	}

	if err == nil {
		e.mu.Lock()
		e.resource = res
		e.mu.Unlock()

		err = safely(func() error { return res.Play(ctx) })
	}
	if err == nil && !opened(ctx, res) {
		err = ErrResourceLost
	}

	if err != nil {
		log.Errorf("engine: load %s: %v", track.ID, err)
		e.release(ctx, res)
		st := e.reset(gen)
		e.opMu.Unlock()

		e.emit(st)
		return &LoadError{TrackID: track.ID, Cause: err}
	}

	st := e.refresh(ctx, res, gen)
	e.opMu.Unlock()

	e.emit(st)
	return nil
}

// Stop releases the current resource. A load in flight is marked for discard
// and Stop returns without waiting for it.
func (e *Engine) Stop(ctx context.Context) {
	e.opMu.Lock()

	e.mu.Lock()
	e.gen++
	r := e.resource
	e.resource = nil
	e.track = mo.None[catalog.Track]()
	e.last = idle(e.volume, e.rate)
	st := e.last
	e.mu.Unlock()

	e.release(ctx, r)
	e.opMu.Unlock()

	e.emit(st)
}

// Close stops playback and drops the subscriber.
func (e *Engine) Close(ctx context.Context) {
	e.Stop(ctx)
	e.Subscribe(nil)
}

// Play resumes playback. No-op when nothing is loaded.
func (e *Engine) Play(ctx context.Context) {
	e.transport(ctx, "play", func(r Resource) error {
		return r.Play(ctx)
	})
}

// Pause suspends playback. No-op when nothing is loaded.
func (e *Engine) Pause(ctx context.Context) {
	e.transport(ctx, "pause", func(r Resource) error {
		return r.Pause(ctx)
	})
}

// SeekTo moves playback to position, clamped to the track bounds.
func (e *Engine) SeekTo(ctx context.Context, position time.Duration) {
	e.transport(ctx, "seek", func(r Resource) error {
		e.mu.Lock()
		bound := e.last.Duration
		if bound <= 0 {
			bound = e.track.OrEmpty().KnownDuration
		}
		e.mu.Unlock()

		position = max(position, 0)
		if bound > 0 {
			position = min(position, bound)
		}

		return r.SetPosition(ctx, position)
	})
}

// SetVolume sets the output volume, clamped to [0, 1].
func (e *Engine) SetVolume(ctx context.Context, volume float64) {
	volume = util.Clamp(volume, MinVolume, MaxVolume)
	e.transport(ctx, "volume", func(r Resource) error {
		if err := r.SetVolume(ctx, volume); err != nil {
			return err
		}

		e.mu.Lock()
		e.volume = volume
		e.mu.Unlock()
		return nil
	})
}

// SetRate sets the playback rate, clamped to [0.5, 2], keeping pitch.
func (e *Engine) SetRate(ctx context.Context, rate float64) {
	rate = util.Clamp(rate, MinRate, MaxRate)
	e.transport(ctx, "rate", func(r Resource) error {
		if err := r.SetRate(ctx, rate, true); err != nil {
			return err
		}

		e.mu.Lock()
		e.rate = rate
		e.mu.Unlock()
		return nil
	})
}

// Status returns a fresh snapshot, querying the resource when one is live.
func (e *Engine) Status(ctx context.Context) Status {
	e.opMu.Lock()
	defer e.opMu.Unlock()

	e.mu.Lock()
	r, gen, last := e.resource, e.gen, e.last
	e.mu.Unlock()

	if r == nil {
		return last
	}

	return e.refresh(ctx, r, gen)
}

func (e *Engine) transport(ctx context.Context, name string, fn func(Resource) error) {
	e.opMu.Lock()

	e.mu.Lock()
	r, gen := e.resource, e.gen
	e.mu.Unlock()

	if r == nil {
		e.opMu.Unlock()
		return
	}

	if err := safely(func() error { return fn(r) }); err != nil {
		log.Warnf("engine: %s: %v", name, err)
	}

	st := e.refresh(ctx, r, gen)
	e.opMu.Unlock()

	e.emit(st)
}

// refresh queries the resource and records the result as the latest snapshot.
// Must be called with opMu held.
func (e *Engine) refresh(ctx context.Context, r Resource, gen uint64) Status {
	var raw Status
	err := safely(func() (err error) {
		raw, err = r.Status(ctx)
		return err
	})

	e.mu.Lock()
	defer e.mu.Unlock()

	if err != nil {
		log.Warnf("engine: status: %v", err)
		return e.last
	}

	if e.gen != gen {
		return e.last
	}

	e.last = normalize(raw, e.track.OrEmpty().ID, e.volume, e.rate)
	return e.last
}

// statusFunc wraps pushes from the resource of generation gen.
// Pushes from a released resource are dropped.
func (e *Engine) statusFunc(gen uint64, trackID string) StatusFunc {
	return func(raw Status) {
		e.mu.Lock()
		if e.gen != gen {
			e.mu.Unlock()
			return
		}

		if !raw.IsLoaded && !raw.DidJustFinish && e.resource != nil {
			e.mu.Unlock()
			e.lose(gen, trackID)
			return
		}

		e.last = normalize(raw, trackID, e.volume, e.rate)
		st := e.last
		e.mu.Unlock()

		e.emit(st)
	}
}

// lose releases the resource of generation gen after it stopped on its own,
// for example when the stream could not be read. The emitted status carries the failure.
func (e *Engine) lose(gen uint64, trackID string) {
	e.opMu.Lock()

	e.mu.Lock()
	if e.gen != gen || e.resource == nil {
		e.mu.Unlock()
		e.opMu.Unlock()
		return
	}

	e.gen++
	r := e.resource
	e.resource = nil
	e.track = mo.None[catalog.Track]()
	e.last = idle(e.volume, e.rate)
	st := e.last
	e.mu.Unlock()

	log.Errorf("engine: %s: %v", trackID, ErrResourceLost)
	e.release(context.Background(), r)
	e.opMu.Unlock()

	st.TrackID = trackID
	st.Err = &LoadError{TrackID: trackID, Cause: ErrResourceLost}
	e.emit(st)
}

// opened reports whether a started resource is still loaded.
// A failing status query does not count against it.
func opened(ctx context.Context, r Resource) bool {
	var st Status
	err := safely(func() (err error) {
		st, err = r.Status(ctx)
		return err
	})

	return err != nil || st.IsLoaded || st.DidJustFinish
}

func (e *Engine) current(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.gen == gen
}

// reset returns the engine to "no resource" after a failed load of generation gen.
func (e *Engine) reset(gen uint64) Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.gen == gen {
		e.resource = nil
		e.track = mo.None[catalog.Track]()
		e.last = idle(e.volume, e.rate)
	}

	return e.last
}

// release stops and unloads r. Transport commands are only sent to a resource
// that still reports itself loaded.
func (e *Engine) release(ctx context.Context, r Resource) {
	if r == nil {
		return
	}

	var st Status
	err := safely(func() (err error) {
		st, err = r.Status(ctx)
		return err
	})

	if err == nil && st.IsLoaded {
		if err := safely(func() error { return r.Stop(ctx) }); err != nil {
			log.Warnf("engine: stop: %v", err)
		}
	}

	if err := safely(func() error { return r.Unload(ctx) }); err != nil {
		log.Warnf("engine: unload: %v", err)
	}
}

func (e *Engine) emit(st Status) {
	e.mu.Lock()
	fn := e.subscriber
	e.mu.Unlock()

	if fn == nil {
		return
	}

	if err := safely(func() error { fn(st); return nil }); err != nil {
		log.Errorf("engine: subscriber: %v", err)
	}
}
