// Package session is the single source of truth for what is playing and how it is presented.
// It is the only subscriber of the engine and republishes snapshots to any number of listeners.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gurbani-cli/gurbani/catalog"
	"github.com/gurbani-cli/gurbani/engine"
	"github.com/gurbani-cli/gurbani/key"
	"github.com/gurbani-cli/gurbani/log"
	"github.com/gurbani-cli/gurbani/nitnem"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

// ErrNotFound is returned by PlayItem for items without audio.
var ErrNotFound = errors.New("no audio for item")

const (
	defaultCompletionEpsilon = time.Second
	defaultSeekStep          = 10 * time.Second
)

// Rates are the steps of CycleRate.
var Rates = []float64{0.5, 0.75, 1.0, 1.25, 1.5, 2.0}

// Engine is the playback engine the session drives.
type Engine interface {
	LoadAndPlay(ctx context.Context, track catalog.Track) error
	Play(ctx context.Context)
	Pause(ctx context.Context)
	Stop(ctx context.Context)
	SeekTo(ctx context.Context, position time.Duration)
	SetVolume(ctx context.Context, volume float64)
	SetRate(ctx context.Context, rate float64)
	Status(ctx context.Context) engine.Status
	Subscribe(fn func(engine.Status))
}

type listener struct {
	id int
	fn func(Snapshot)
}

// Controller owns the session state.
//
// Listeners are called in registration order with the controller's publish lock held;
// they must not call back into the controller synchronously.
type Controller struct {
	engine  Engine
	catalog *catalog.Catalog
	policy  nitnem.Policy

	ctx    context.Context
	cancel context.CancelFunc

	loadMu    sync.Mutex
	statusMu  sync.Mutex
	publishMu sync.Mutex
	advancing sync.WaitGroup

	mu          sync.Mutex
	token       uint64
	phase       Phase
	track       mo.Option[catalog.Track]
	visible     bool
	expanded    bool
	status      engine.Status
	lastErr     error
	notice      mo.Option[Notice]
	completed   bool
	muted       mo.Option[float64]
	autoAdvance bool
	closed      bool
	listeners   []listener
	nextID      int
	hooks       []func(catalog.Track)
}

// New creates a controller and subscribes it to eng.
func New(eng Engine, cat *catalog.Catalog, policy nitnem.Policy) *Controller {
	ctx, cancel := context.WithCancel(context.Background())

	c := &Controller{
		engine:      eng,
		catalog:     cat,
		policy:      policy,
		ctx:         ctx,
		cancel:      cancel,
		track:       mo.None[catalog.Track](),
		notice:      mo.None[Notice](),
		muted:       mo.None[float64](),
		status:      engine.Status{Volume: engine.MaxVolume, Rate: 1},
		autoAdvance: true,
	}

	eng.Subscribe(c.onEngineStatus)
	return c
}

// Subscribe adds a listener and returns its remover.
func (c *Controller) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID
	c.listeners = append(c.listeners, listener{id: id, fn: fn})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		c.listeners = lo.Reject(c.listeners, func(l listener, _ int) bool {
			return l.id == id
		})
	}
}

// OnComplete registers a hook run once per finished track, before any follow-up action.
func (c *Controller) OnComplete(fn func(catalog.Track)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.hooks = append(c.hooks, fn)
}

// SetAutoAdvance enables or disables following the liturgy order after a completion.
// The player.auto_advance setting must also be on.
func (c *Controller) SetAutoAdvance(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.autoAdvance = enabled
}

// Snapshot returns the current session view.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.snapshot()
}

// PlayItem starts the track for itemID.
// It returns ErrNotFound for items without audio and a *engine.LoadError when loading fails;
// in both cases the failure is also reflected in the published state.
// A request superseded by a later PlayItem or StopAndClose returns nil.
func (c *Controller) PlayItem(ctx context.Context, itemID string) error {
	return c.playItem(ctx, itemID, mo.None[uint64]())
}

func (c *Controller) playItem(ctx context.Context, itemID string, expect mo.Option[uint64]) error {
	track, ok := c.catalog.Resolve(itemID).Get()
	if !ok {
		log.Debugf("session: no audio for item %q", itemID)
		return fmt.Errorf("%w: %s", ErrNotFound, itemID)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	if want, ok := expect.Get(); ok && want != c.token {
		c.mu.Unlock()
		return nil
	}
	c.token++
	token := c.token
	c.mu.Unlock()

	c.loadMu.Lock()
	defer c.loadMu.Unlock()

	c.mu.Lock()
	if c.token != token {
		c.mu.Unlock()
		log.Debugf("session: request for %s superseded before loading", track.ID)
		return nil
	}

	c.phase = Loading
	c.track = mo.Some(track)
	c.visible = true
	c.expanded = false
	c.status = engine.Status{TrackID: track.ID, Duration: track.KnownDuration, Volume: engine.MaxVolume, Rate: 1}
	c.lastErr = nil
	c.completed = false
	c.muted = mo.None[float64]()
	c.commit()

	log.Infof("session: playing %s (item %s)", track.ID, itemID)
	err := c.engine.LoadAndPlay(ctx, track)

	var st engine.Status
	if err == nil {
		st = c.engine.Status(ctx)
	}

	c.mu.Lock()
	if c.token != token {
		idle := c.phase == Idle
		c.mu.Unlock()

		if err == nil && idle {
			// closed while loading
			c.engine.Stop(ctx)
		}
		return nil
	}

	switch {
	case errors.Is(err, engine.ErrDiscarded):
		c.reset()
		c.commit()
		return nil
	case err != nil:
		c.fail(track, err)
		return err
	}

	c.phase = Active
	if st.TrackID == track.ID {
		c.status = st
	}
	c.commit()
	return nil
}

// TogglePlayPause pauses a playing session and resumes a paused one.
func (c *Controller) TogglePlayPause(ctx context.Context) {
	switch c.Snapshot().Transport() {
	case Playing:
		c.engine.Pause(ctx)
	case Paused:
		c.engine.Play(ctx)
	}
}

// Play resumes a paused session.
func (c *Controller) Play(ctx context.Context) {
	if c.Snapshot().Transport() == Paused {
		c.engine.Play(ctx)
	}
}

// Pause suspends a playing session.
func (c *Controller) Pause(ctx context.Context) {
	if c.Snapshot().Transport() == Playing {
		c.engine.Pause(ctx)
	}
}

// Expand switches to the full presentation.
func (c *Controller) Expand() {
	c.present(true)
}

// Collapse switches to the mini presentation.
func (c *Controller) Collapse() {
	c.present(false)
}

// ToggleExpanded flips the presentation.
func (c *Controller) ToggleExpanded() {
	c.present(!c.Snapshot().Expanded)
}

func (c *Controller) present(expanded bool) {
	c.mu.Lock()
	if c.phase == Idle || !c.visible || c.expanded == expanded {
		c.mu.Unlock()
		return
	}

	c.expanded = expanded
	c.commit()
}

// StopAndClose stops playback and hides every surface.
// It is safe while a load is in flight; the late resource is released on arrival.
func (c *Controller) StopAndClose(ctx context.Context) {
	c.mu.Lock()
	c.token++
	c.reset()
	c.commit()

	c.engine.Stop(ctx)
}

// SeekTo moves playback to position.
func (c *Controller) SeekTo(ctx context.Context, position time.Duration) {
	if c.Snapshot().Phase != Active {
		return
	}

	c.engine.SeekTo(ctx, position)
}

// SeekBy moves playback relative to the current position.
func (c *Controller) SeekBy(ctx context.Context, delta time.Duration) {
	snap := c.Snapshot()
	if snap.Phase != Active {
		return
	}

	c.engine.SeekTo(ctx, snap.Status.Position+delta)
}

// SeekStep returns the skip distance used by the surfaces.
func SeekStep() time.Duration {
	if !viper.IsSet(key.PlayerSeekStep) {
		return defaultSeekStep
	}
	return time.Duration(viper.GetInt(key.PlayerSeekStep)) * time.Millisecond
}

// SetVolume sets the volume and forgets any muted level.
func (c *Controller) SetVolume(ctx context.Context, volume float64) {
	c.mu.Lock()
	active := c.phase == Active
	if active {
		c.muted = mo.None[float64]()
	}
	c.mu.Unlock()

	if active {
		c.engine.SetVolume(ctx, volume)
	}
}

// ToggleMute silences playback, restoring the previous volume on the next call.
func (c *Controller) ToggleMute(ctx context.Context) {
	c.mu.Lock()
	if c.phase != Active {
		c.mu.Unlock()
		return
	}

	restore, muted := c.muted.Get()
	if muted {
		c.muted = mo.None[float64]()
	} else {
		c.muted = mo.Some(c.status.Volume)
		restore = 0
	}
	c.mu.Unlock()

	c.engine.SetVolume(ctx, restore)
}

// Muted reports whether ToggleMute silenced playback.
func (c *Controller) Muted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.muted.IsPresent()
}

// SetRate sets the playback rate.
func (c *Controller) SetRate(ctx context.Context, rate float64) {
	if c.Snapshot().Phase != Active {
		return
	}

	c.engine.SetRate(ctx, rate)
}

// CycleRate steps to the next of Rates, wrapping around.
func (c *Controller) CycleRate(ctx context.Context) {
	snap := c.Snapshot()
	if snap.Phase != Active {
		return
	}

	c.engine.SetRate(ctx, nextRate(snap.Status.Rate))
}

func nextRate(current float64) float64 {
	for _, r := range Rates {
		if r > current+0.001 {
			return r
		}
	}
	return Rates[0]
}

// Shuffle plays a random item other than the current one.
// It does not change the liturgy policy.
func (c *Controller) Shuffle(ctx context.Context) error {
	current := c.Snapshot().Track.OrEmpty().ItemID()

	next, ok := nitnem.Shuffle(c.catalog.IDs(), current).Get()
	if !ok {
		return nil
	}

	return c.PlayItem(ctx, next)
}

// Next skips to the item that follows the current one in the liturgy.
func (c *Controller) Next(ctx context.Context) error {
	track, ok := c.Snapshot().Track.Get()
	if !ok {
		return nil
	}

	action := c.policy.OnTrackCompleted(track.ItemID(), nitnem.Context{WithinLiturgy: true})
	if action.Kind != nitnem.AdvanceTo {
		return nil
	}

	return c.PlayItem(ctx, action.Next)
}

// Wait blocks until background auto-advances have finished.
func (c *Controller) Wait() {
	c.advancing.Wait()
}

// Close stops playback, cancels pending advances and detaches from the engine.
func (c *Controller) Close(ctx context.Context) {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.StopAndClose(ctx)
	c.Wait()
	c.engine.Subscribe(nil)
}

// onEngineStatus handles every status of the engine.
// Statuses of tracks other than the current one are ignored.
func (c *Controller) onEngineStatus(st engine.Status) {
	c.statusMu.Lock()
	defer c.statusMu.Unlock()

	c.mu.Lock()
	track, ok := c.track.Get()
	if !ok || st.TrackID != track.ID {
		c.mu.Unlock()
		return
	}

	if st.Err != nil {
		// the engine has already released the resource
		c.token++
		c.fail(track, st.Err)
		return
	}

	c.status = st

	finished := c.phase == Active && !c.completed && isComplete(st, completionEpsilon())
	if finished {
		c.completed = true
	}
	token := c.token
	c.commit()

	if finished {
		c.complete(track, token)
	}
}

func (c *Controller) complete(track catalog.Track, token uint64) {
	c.mu.Lock()
	hooks := slices.Clone(c.hooks)
	within := c.autoAdvance && autoAdvance()
	c.mu.Unlock()

	log.Infof("session: %s finished", track.ID)

	for _, hook := range hooks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Errorf("session: completion hook panicked: %v", r)
				}
			}()

			hook(track)
		}()
	}

	action := c.policy.OnTrackCompleted(track.ItemID(), nitnem.Context{WithinLiturgy: within})
	log.Debugf("session: after %s: %s %s", track.ID, action.Kind, action.Next)

	switch action.Kind {
	case nitnem.AdvanceTo:
		// The status arrives on the platform's goroutine, which the next load has to release.
		c.advancing.Add(1)
		go func() {
			defer c.advancing.Done()

			if err := c.playItem(c.ctx, action.Next, mo.Some(token)); err != nil {
				log.Warnf("session: advance to %s: %v", action.Next, err)
			}
		}()
	case nitnem.SequenceComplete:
		c.mu.Lock()
		if c.token != token {
			c.mu.Unlock()
			return
		}

		c.notice = mo.Some(Notice{
			Kind:    NoticeSequenceFinished,
			TrackID: track.ID,
			Message: "Nitnem complete",
		})
		c.commit()
	}
}

// fail returns the session to Idle and reports err for track.
// It must be called with mu held and returns with mu released.
func (c *Controller) fail(track catalog.Track, err error) {
	log.Errorf("session: %v", err)
	c.reset()
	c.lastErr = err
	c.notice = mo.Some(Notice{
		Kind:    NoticeLoadFailed,
		TrackID: track.ID,
		Message: fmt.Sprintf("Could not play %s", track.Title),
	})
	c.commit()
}

// isComplete prefers the platform's finish signal and falls back to the position heuristic.
func isComplete(st engine.Status, epsilon time.Duration) bool {
	if st.DidJustFinish {
		return true
	}
	return st.IsLoaded && st.Duration > 0 && st.Position >= st.Duration-epsilon
}

func completionEpsilon() time.Duration {
	if !viper.IsSet(key.PlayerCompletionEpsilon) {
		return defaultCompletionEpsilon
	}
	return time.Duration(viper.GetInt(key.PlayerCompletionEpsilon)) * time.Millisecond
}

func autoAdvance() bool {
	return !viper.IsSet(key.PlayerAutoAdvance) || viper.GetBool(key.PlayerAutoAdvance)
}

// reset returns the session to Idle. Must be called with mu held.
func (c *Controller) reset() {
	c.phase = Idle
	c.track = mo.None[catalog.Track]()
	c.visible = false
	c.expanded = false
	c.completed = false
	c.muted = mo.None[float64]()
	c.status = engine.Status{Volume: c.status.Volume, Rate: c.status.Rate}
}

func (c *Controller) snapshot() Snapshot {
	return Snapshot{
		Phase:     c.phase,
		Track:     c.track,
		Visible:   c.visible,
		Expanded:  c.expanded,
		Status:    c.status,
		LastError: c.lastErr,
		Notice:    c.notice,
	}
}

// commit publishes the current state and consumes the pending notice.
// It must be called with mu held and returns with mu released.
func (c *Controller) commit() {
	snap := c.snapshot()
	c.notice = mo.None[Notice]()
	listeners := append([]listener(nil), c.listeners...)

	c.publishMu.Lock()
	c.mu.Unlock()
	defer c.publishMu.Unlock()

	for _, l := range listeners {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Errorf("session: listener panicked: %v", r)
				}
			}()

			l.fn(snap)
		}()
	}
}
