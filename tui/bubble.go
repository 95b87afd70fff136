package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/gurbani-cli/gurbani/internal/ui"
	"github.com/gurbani-cli/gurbani/session"
	"github.com/gurbani-cli/gurbani/style"
)

// Controller is the part of the session the player drives.
type Controller interface {
	Subscribe(fn func(session.Snapshot)) (unsubscribe func())
	Snapshot() session.Snapshot
	PlayItem(ctx context.Context, itemID string) error
	TogglePlayPause(ctx context.Context)
	Expand()
	Collapse()
	StopAndClose(ctx context.Context)
	SeekBy(ctx context.Context, delta time.Duration)
	SetVolume(ctx context.Context, volume float64)
	ToggleMute(ctx context.Context)
	CycleRate(ctx context.Context)
	Shuffle(ctx context.Context) error
	Next(ctx context.Context) error
}

const volumeStep = 0.1

// snapshotMsg carries a published session snapshot into the program.
type snapshotMsg session.Snapshot

// statefulBubble is the player model.
type statefulBubble struct {
	ctx  context.Context
	ctrl Controller

	state  state
	keymap *statefulKeymap
	snap   session.Snapshot

	// preferExpanded re-opens the full player after the session collapses it for a new track.
	preferExpanded bool

	helpC     help.Model
	progressC progress.Model
	notifier  *ui.Model

	width, height int
	options       *Options
}

func newBubble(ctx context.Context, ctrl Controller, options *Options) *statefulBubble {
	bar := progress.New(
		progress.WithGradient(string(style.SecondaryColor), string(style.AccentColor)),
		progress.WithoutPercentage(),
	)

	b := &statefulBubble{
		ctx:            ctx,
		ctrl:           ctrl,
		keymap:         newStatefulKeymap(),
		snap:           ctrl.Snapshot(),
		preferExpanded: options.Expanded,
		helpC:          help.New(),
		progressC:      bar,
		notifier:       &ui.Model{},
		options:        options,
	}

	b.setState(stateOf(b.snap))
	return b
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}
