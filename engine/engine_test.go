package engine_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gurbani-cli/gurbani/catalog"
	"github.com/gurbani-cli/gurbani/engine"
	"github.com/gurbani-cli/gurbani/engine/enginetest"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

var (
	japji = catalog.Track{ID: "japji_sahib", Title: "Japji Sahib", SourceURL: "https://example.com/japji.mp3", KnownDuration: 30 * time.Minute}
	jaap  = catalog.Track{ID: "jaap_sahib", Title: "Jaap Sahib", SourceURL: "https://example.com/jaap.mp3", KnownDuration: 40 * time.Minute}
)

type recorder struct {
	mu       sync.Mutex
	statuses []engine.Status
}

func (r *recorder) record(st engine.Status) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.statuses = append(r.statuses, st)
}

func (r *recorder) all() []engine.Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]engine.Status(nil), r.statuses...)
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.statuses = nil
}

type panicPlatform struct{}

func (panicPlatform) Create(context.Context, string, engine.Options, engine.StatusFunc) (engine.Resource, error) {
	panic("no audio device")
}

func TestLoadAndPlay(t *testing.T) {
	ctx := context.Background()

	Convey("Given an engine on a fake platform", t, func() {
		p := enginetest.New()
		e := engine.New(p)

		Convey("Loading starts playback of one resource", func() {
			So(e.LoadAndPlay(ctx, japji), ShouldBeNil)
			So(p.Live(), ShouldEqual, 1)
			So(p.Last().URL, ShouldEqual, japji.SourceURL)
			So(p.Last().Options, ShouldResemble, engine.Options{Volume: 1, Rate: 1, PitchCorrection: true})
			So(e.CurrentTrack().MustGet().ID, ShouldEqual, japji.ID)

			st := e.Status(ctx)
			So(st.IsLoaded, ShouldBeTrue)
			So(st.IsPlaying, ShouldBeTrue)
			So(st.TrackID, ShouldEqual, japji.ID)
		})

		Convey("Replacing a track releases the old resource first", func() {
			So(e.LoadAndPlay(ctx, japji), ShouldBeNil)
			first := p.Last()
			So(e.LoadAndPlay(ctx, jaap), ShouldBeNil)

			So(first.Unloaded(), ShouldBeTrue)
			So(first.Calls(), ShouldContain, "stop")
			So(p.Live(), ShouldEqual, 1)
			So(p.MaxLive(), ShouldEqual, 1)
			So(e.CurrentTrack().MustGet().ID, ShouldEqual, jaap.ID)
		})

		Convey("Concurrent loads never overlap resources", func() {
			var wg sync.WaitGroup
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_ = e.LoadAndPlay(ctx, lo.Ternary(i%2 == 0, japji, jaap))
				}(i)
			}
			wg.Wait()

			So(p.Creates(), ShouldEqual, 8)
			So(p.MaxLive(), ShouldEqual, 1)
			So(p.Live(), ShouldEqual, 1)

			unloaded := lo.CountBy(p.Resources(), func(r *enginetest.Resource) bool { return r.Unloaded() })
			So(unloaded, ShouldEqual, 7)
		})

		Convey("A failed acquisition reports a load error", func() {
			boom := errors.New("404")
			p.FailNext(boom)

			err := e.LoadAndPlay(ctx, japji)

			var loadErr *engine.LoadError
			So(errors.As(err, &loadErr), ShouldBeTrue)
			So(loadErr.TrackID, ShouldEqual, japji.ID)
			So(errors.Is(err, boom), ShouldBeTrue)
			So(e.CurrentTrack().IsAbsent(), ShouldBeTrue)
			So(e.Status(ctx).IsLoaded, ShouldBeFalse)
			So(p.Live(), ShouldEqual, 0)

			Convey("And the next load works without a retry in between", func() {
				So(e.LoadAndPlay(ctx, jaap), ShouldBeNil)
				So(p.Creates(), ShouldEqual, 1)
			})
		})

		Convey("A resource that is gone right after creation fails the load", func() {
			p.DieNext()

			err := e.LoadAndPlay(ctx, japji)

			var loadErr *engine.LoadError
			So(errors.As(err, &loadErr), ShouldBeTrue)
			So(errors.Is(err, engine.ErrResourceLost), ShouldBeTrue)
			So(p.Live(), ShouldEqual, 0)
			So(e.CurrentTrack().IsAbsent(), ShouldBeTrue)
		})

		Convey("A failed load after a playing track leaves nothing loaded", func() {
			So(e.LoadAndPlay(ctx, japji), ShouldBeNil)
			p.FailNext(errors.New("network"))

			So(e.LoadAndPlay(ctx, jaap), ShouldNotBeNil)
			So(p.Live(), ShouldEqual, 0)
			So(e.CurrentTrack().IsAbsent(), ShouldBeTrue)
		})
	})

	Convey("A panicking platform is contained", t, func() {
		e := engine.New(panicPlatform{})

		var err error
		So(func() { err = e.LoadAndPlay(ctx, japji) }, ShouldNotPanic)

		var loadErr *engine.LoadError
		So(errors.As(err, &loadErr), ShouldBeTrue)
	})
}

func TestStopDuringLoad(t *testing.T) {
	ctx := context.Background()

	Convey("Given a load that is still acquiring", t, func() {
		p := enginetest.New()
		e := engine.New(p)
		gate := p.Hold()
		Reset(gate.Release)

		result := make(chan error, 1)
		go func() {
			result <- e.LoadAndPlay(ctx, japji)
		}()
		<-gate.Entered()

		Convey("Stop returns without waiting", func() {
			stopped := make(chan struct{})
			go func() {
				e.Stop(ctx)
				close(stopped)
			}()

			var waited bool
			select {
			case <-stopped:
			case <-time.After(2 * time.Second):
				waited = true
			}
			So(waited, ShouldBeFalse)
			So(e.CurrentTrack().IsAbsent(), ShouldBeTrue)

			Convey("And the late resource is released on arrival", func() {
				gate.Release()

				So(errors.Is(<-result, engine.ErrDiscarded), ShouldBeTrue)
				So(p.Creates(), ShouldEqual, 1)
				So(p.Last().Unloaded(), ShouldBeTrue)
				So(p.Live(), ShouldEqual, 0)
				So(e.CurrentTrack().IsAbsent(), ShouldBeTrue)
				So(e.Status(ctx).IsLoaded, ShouldBeFalse)
			})
		})
	})
}

func TestTransport(t *testing.T) {
	ctx := context.Background()

	Convey("Given an engine with nothing loaded", t, func() {
		p := enginetest.New()
		e := engine.New(p)

		Convey("Every transport command is a safe no-op", func() {
			So(func() {
				e.Play(ctx)
				e.Pause(ctx)
				e.SeekTo(ctx, time.Minute)
				e.SetVolume(ctx, 0.5)
				e.SetRate(ctx, 1.5)
				e.Stop(ctx)
				e.Stop(ctx)
			}, ShouldNotPanic)

			So(p.Creates(), ShouldEqual, 0)
			st := e.Status(ctx)
			So(st.IsLoaded, ShouldBeFalse)
			So(st.Volume, ShouldEqual, 1)
			So(st.Rate, ShouldEqual, 1)
		})
	})

	Convey("Given a loaded ten minute track", t, func() {
		p := enginetest.New()
		p.Duration = 10 * time.Minute
		e := engine.New(p)
		So(e.LoadAndPlay(ctx, japji), ShouldBeNil)
		r := p.Last()

		Convey("Pause and play toggle the resource", func() {
			e.Pause(ctx)
			So(e.Status(ctx).IsPlaying, ShouldBeFalse)
			e.Play(ctx)
			So(e.Status(ctx).IsPlaying, ShouldBeTrue)
		})

		Convey("Seeking is clamped to the track", func() {
			e.SeekTo(ctx, -5*time.Second)
			So(e.Status(ctx).Position, ShouldEqual, 0)

			e.SeekTo(ctx, time.Hour)
			So(e.Status(ctx).Position, ShouldEqual, 10*time.Minute)

			e.SeekTo(ctx, 90*time.Second)
			So(e.Status(ctx).Position, ShouldEqual, 90*time.Second)
		})

		Convey("Volume is clamped to [0, 1]", func() {
			e.SetVolume(ctx, 1.5)
			So(e.Status(ctx).Volume, ShouldEqual, 1)

			e.SetVolume(ctx, -0.2)
			So(e.Status(ctx).Volume, ShouldEqual, 0)

			e.SetVolume(ctx, 0.4)
			So(e.Status(ctx).Volume, ShouldEqual, 0.4)
		})

		Convey("Rate is clamped to [0.5, 2]", func() {
			e.SetRate(ctx, 3)
			So(e.Status(ctx).Rate, ShouldEqual, 2)

			e.SetRate(ctx, 0.1)
			So(e.Status(ctx).Rate, ShouldEqual, 0.5)

			e.SetRate(ctx, 1.25)
			So(e.Status(ctx).Rate, ShouldEqual, 1.25)
		})

		Convey("A new track starts at full volume and normal rate", func() {
			e.SetVolume(ctx, 0.3)
			e.SetRate(ctx, 1.5)
			So(e.LoadAndPlay(ctx, jaap), ShouldBeNil)

			st := e.Status(ctx)
			So(st.Volume, ShouldEqual, 1)
			So(st.Rate, ShouldEqual, 1)
		})

		Convey("A panicking resource does not escape", func() {
			r.PanicOn("pause")
			So(func() { e.Pause(ctx) }, ShouldNotPanic)
		})

		Convey("A failing resource is logged and ignored", func() {
			r.FailOn("volume")
			e.SetVolume(ctx, 0.2)
			So(e.Status(ctx).Volume, ShouldEqual, 1)
		})

		Convey("After stop the resource receives no more commands", func() {
			e.Stop(ctx)
			plays := lo.Count(r.Calls(), "play")

			e.Play(ctx)
			e.SeekTo(ctx, time.Minute)

			So(lo.Count(r.Calls(), "play"), ShouldEqual, plays)
			So(r.Calls(), ShouldNotContain, "seek")
			So(r.Unloaded(), ShouldBeTrue)
		})
	})
}

func TestStatusDelivery(t *testing.T) {
	ctx := context.Background()

	Convey("Given a subscribed engine", t, func() {
		p := enginetest.New()
		p.Duration = 10 * time.Minute
		e := engine.New(p)

		rec := &recorder{}
		e.Subscribe(rec.record)

		So(e.LoadAndPlay(ctx, japji), ShouldBeNil)
		first := p.Last()

		Convey("Pushes are stamped with the track", func() {
			rec.reset()
			first.Tick(5 * time.Second)

			got := rec.all()
			So(got, ShouldHaveLength, 1)
			So(got[0].TrackID, ShouldEqual, japji.ID)
			So(got[0].Position, ShouldEqual, 5*time.Second)
		})

		Convey("Snapshots are normalized", func() {
			rec.reset()
			first.Push(engine.Status{IsLoaded: true, IsPlaying: true, IsBuffering: true, Position: 20 * time.Minute, Duration: 10 * time.Minute})

			got := rec.all()[0]
			So(got.IsPlaying, ShouldBeFalse)
			So(got.IsBuffering, ShouldBeTrue)
			So(got.Position, ShouldEqual, 10*time.Minute)
		})

		Convey("Pushes from a released resource are dropped", func() {
			So(e.LoadAndPlay(ctx, jaap), ShouldBeNil)
			rec.reset()

			first.Tick(time.Minute)
			So(rec.all(), ShouldBeEmpty)

			p.Last().Tick(3 * time.Second)
			So(rec.all(), ShouldHaveLength, 1)
			So(rec.all()[0].TrackID, ShouldEqual, jaap.ID)
		})

		Convey("Every state change emits a snapshot", func() {
			rec.reset()
			e.Pause(ctx)
			e.SetRate(ctx, 1.5)

			got := rec.all()
			So(got, ShouldHaveLength, 2)
			So(got[0].IsPlaying, ShouldBeFalse)
			So(got[1].Rate, ShouldEqual, 1.5)
		})

		Convey("A resource dying after the load is released and reported once", func() {
			rec.reset()
			first.Push(engine.Status{})

			got := rec.all()
			So(got, ShouldHaveLength, 1)
			So(got[0].TrackID, ShouldEqual, japji.ID)
			So(got[0].IsLoaded, ShouldBeFalse)
			So(errors.Is(got[0].Err, engine.ErrResourceLost), ShouldBeTrue)

			So(first.Unloaded(), ShouldBeTrue)
			So(p.Live(), ShouldEqual, 0)
			So(e.CurrentTrack().IsAbsent(), ShouldBeTrue)
			So(e.Status(ctx).Err, ShouldBeNil)

			first.Push(engine.Status{})
			So(rec.all(), ShouldHaveLength, 1)
		})

		Convey("A panicking subscriber does not escape the platform callback", func() {
			e.Subscribe(func(engine.Status) { panic("listener") })
			So(func() { first.Tick(time.Second) }, ShouldNotPanic)
		})

		Convey("Re-subscribing replaces the receiver", func() {
			other := &recorder{}
			e.Subscribe(other.record)
			rec.reset()

			first.Tick(time.Second)
			So(rec.all(), ShouldBeEmpty)
			So(other.all(), ShouldHaveLength, 1)
		})

		Convey("Close stops playback and unsubscribes", func() {
			e.Close(ctx)
			rec.reset()

			first.Tick(time.Second)
			So(rec.all(), ShouldBeEmpty)
			So(p.Live(), ShouldEqual, 0)
		})

		Convey("Status helpers", func() {
			st := engine.Status{Position: 2 * time.Minute, Duration: 8 * time.Minute}
			So(st.Fraction(), ShouldEqual, 0.25)
			So(st.Remaining(), ShouldEqual, 6*time.Minute)
			So(engine.Status{}.Fraction(), ShouldEqual, 0)
		})
	})
}
