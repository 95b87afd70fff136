// Package enginetest provides an in-memory audio platform for tests.
package enginetest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gurbani-cli/gurbani/engine"
)

// Platform is a fake engine.Platform that records every resource it creates.
type Platform struct {
	mu        sync.Mutex
	resources []*Resource
	live      int
	maxLive   int
	fail      error
	dead      bool
	gate      *Gate
	// Duration is given to new resources.
	Duration time.Duration
}

// Gate holds Create calls until released.
type Gate struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

// Entered is closed once a Create call is waiting on the gate.
func (g *Gate) Entered() <-chan struct{} {
	return g.entered
}

// Release lets waiting and future Create calls through.
func (g *Gate) Release() {
	g.once.Do(func() { close(g.release) })
}

// New returns an empty fake platform.
func New() *Platform {
	return &Platform{}
}

// FailNext makes the next Create return err.
func (p *Platform) FailNext(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.fail = err
}

// DieNext makes the next resource report itself unloaded right after creation,
// like a stream that cannot be opened.
func (p *Platform) DieNext() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.dead = true
}

// Hold makes the next Create block until the returned gate is released.
func (p *Platform) Hold() *Gate {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.gate = &Gate{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	return p.gate
}

func (p *Platform) Create(ctx context.Context, url string, opts engine.Options, onStatus engine.StatusFunc) (engine.Resource, error) {
	p.mu.Lock()
	gate := p.gate
	p.gate = nil
	fail := p.fail
	p.fail = nil
	dead := p.dead
	p.dead = false
	p.mu.Unlock()

	if gate != nil {
		close(gate.entered)
		select {
		case <-gate.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if fail != nil {
		return nil, fail
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	r := &Resource{
		platform: p,
		URL:      url,
		Options:  opts,
		onStatus: onStatus,
		status: engine.Status{
			IsLoaded: !dead,
			Duration: p.Duration,
			Volume:   opts.Volume,
			Rate:     opts.Rate,
		},
	}

	p.resources = append(p.resources, r)
	p.live++
	p.maxLive = max(p.maxLive, p.live)

	return r, nil
}

// Creates returns how many resources were acquired.
func (p *Platform) Creates() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.resources)
}

// Live returns how many resources are acquired and not yet unloaded.
func (p *Platform) Live() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.live
}

// MaxLive returns the largest number of simultaneously live resources seen.
func (p *Platform) MaxLive() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.maxLive
}

// Last returns the most recently created resource, or nil.
func (p *Platform) Last() *Resource {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.resources) == 0 {
		return nil
	}
	return p.resources[len(p.resources)-1]
}

// Resources returns every resource created so far.
func (p *Platform) Resources() []*Resource {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]*Resource(nil), p.resources...)
}

// Resource is a fake loaded sound.
type Resource struct {
	platform *Platform
	onStatus engine.StatusFunc

	URL     string
	Options engine.Options

	mu       sync.Mutex
	status   engine.Status
	unloaded bool
	calls    []string
	panicOn  string
	failOn   string
}

// PanicOn makes the named operation panic.
func (r *Resource) PanicOn(op string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.panicOn = op
}

// FailOn makes the named operation return an error.
func (r *Resource) FailOn(op string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.failOn = op
}

// Calls returns the operations received so far, in order.
func (r *Resource) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.calls...)
}

// Unloaded reports whether the resource was released.
func (r *Resource) Unloaded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.unloaded
}

// Push delivers st to the engine as if the platform produced it.
func (r *Resource) Push(st engine.Status) {
	r.mu.Lock()
	r.status = st
	r.mu.Unlock()

	r.onStatus(st)
}

// Tick advances the position and pushes the resulting status.
func (r *Resource) Tick(position time.Duration) {
	r.mu.Lock()
	r.status.Position = position
	st := r.status
	r.mu.Unlock()

	r.onStatus(st)
}

// Finish pushes an end-of-stream status.
func (r *Resource) Finish() {
	r.mu.Lock()
	r.status.Position = r.status.Duration
	r.status.IsPlaying = false
	st := r.status
	st.DidJustFinish = true
	r.mu.Unlock()

	r.onStatus(st)
}

func (r *Resource) do(op string, fn func()) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, op)

	if r.panicOn == op {
		panic(fmt.Sprintf("enginetest: %s", op))
	}
	if r.failOn == op {
		return fmt.Errorf("enginetest: %s failed", op)
	}
	if r.unloaded && op != "unload" && op != "status" {
		return fmt.Errorf("enginetest: %s on unloaded resource", op)
	}

	fn()
	return nil
}

func (r *Resource) Play(context.Context) error {
	return r.do("play", func() { r.status.IsPlaying = true })
}

func (r *Resource) Pause(context.Context) error {
	return r.do("pause", func() { r.status.IsPlaying = false })
}

func (r *Resource) Stop(context.Context) error {
	return r.do("stop", func() {
		r.status.IsPlaying = false
		r.status.Position = 0
	})
}

func (r *Resource) Unload(context.Context) error {
	var released bool
	err := r.do("unload", func() {
		if !r.unloaded {
			r.unloaded = true
			r.status = engine.Status{}
			released = true
		}
	})

	if released {
		r.platform.mu.Lock()
		r.platform.live--
		r.platform.mu.Unlock()
	}

	return err
}

func (r *Resource) SetPosition(_ context.Context, position time.Duration) error {
	return r.do("seek", func() { r.status.Position = position })
}

func (r *Resource) SetVolume(_ context.Context, volume float64) error {
	return r.do("volume", func() { r.status.Volume = volume })
}

func (r *Resource) SetRate(_ context.Context, rate float64, _ bool) error {
	return r.do("rate", func() { r.status.Rate = rate })
}

func (r *Resource) Status(context.Context) (engine.Status, error) {
	var st engine.Status
	err := r.do("status", func() { st = r.status })
	return st, err
}
