package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gurbani-cli/gurbani/internal/ui"
	"github.com/gurbani-cli/gurbani/log"
	"github.com/gurbani-cli/gurbani/nitnem"
	"github.com/gurbani-cli/gurbani/session"
)

// Init starts the requested item.
func (b *statefulBubble) Init() tea.Cmd {
	if b.options.Item == "" {
		return nil
	}
	return b.playItem(b.options.Item)
}

// Update routes messages. Controller calls run inside commands because the
// session publishes back into the program.
func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width, b.height = msg.Width, msg.Height
		b.helpC.Width = msg.Width
		b.progressC.Width = max(msg.Width-4, 10)
		return b, nil
	case snapshotMsg:
		return b, b.handleSnapshot(session.Snapshot(msg))
	case ui.NotifyMsg, ui.ClearNotificationMsg:
		return b, b.notifier.Update(msg)
	case tea.KeyMsg:
		return b.handleKey(msg)
	}

	return b, nil
}

func (b *statefulBubble) handleSnapshot(snap session.Snapshot) tea.Cmd {
	previous := b.snap
	b.snap = snap
	b.setState(stateOf(snap))

	var cmds []tea.Cmd

	if notice, ok := snap.Notice.Get(); ok {
		cmds = append(cmds, ui.Notify(notice.Message))
	}

	// a new track always arrives collapsed
	newTrack := snap.Track.OrEmpty().ID != previous.Track.OrEmpty().ID || previous.Phase == session.Loading
	if b.preferExpanded && snap.Phase == session.Active && snap.Visible && !snap.Expanded && newTrack {
		cmds = append(cmds, b.run(b.ctrl.Expand))
	}

	return tea.Batch(cmds...)
}

func (b *statefulBubble) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := b.keymap

	switch {
	case key.Matches(msg, k.forceQuit), key.Matches(msg, k.quit):
		return b, tea.Quit
	case key.Matches(msg, k.showHelp):
		b.helpC.ShowAll = !b.helpC.ShowAll
		return b, nil
	case key.Matches(msg, k.nitnem):
		first, ok := nitnem.Default().First().Get()
		if !ok {
			return b, nil
		}
		return b, b.playItem(first)
	case key.Matches(msg, k.shuffle):
		return b, b.try(b.ctrl.Shuffle)
	}

	if b.state == idleState {
		return b, nil
	}

	switch {
	case key.Matches(msg, k.stop):
		return b, b.runCtx(b.ctrl.StopAndClose)
	case key.Matches(msg, k.playPause):
		return b, b.runCtx(b.ctrl.TogglePlayPause)
	case key.Matches(msg, k.expand):
		b.preferExpanded = true
		return b, b.run(b.ctrl.Expand)
	case key.Matches(msg, k.collapse):
		b.preferExpanded = false
		return b, b.run(b.ctrl.Collapse)
	case key.Matches(msg, k.seekBack):
		return b, b.seek(-1)
	case key.Matches(msg, k.seekForward):
		return b, b.seek(1)
	case key.Matches(msg, k.volumeUp):
		return b, b.volume(volumeStep)
	case key.Matches(msg, k.volumeDown):
		return b, b.volume(-volumeStep)
	case key.Matches(msg, k.mute):
		return b, b.runCtx(b.ctrl.ToggleMute)
	case key.Matches(msg, k.rate):
		return b, b.runCtx(b.ctrl.CycleRate)
	case key.Matches(msg, k.next):
		return b, b.try(b.ctrl.Next)
	}

	return b, nil
}

func (b *statefulBubble) playItem(itemID string) tea.Cmd {
	return func() tea.Msg {
		// items without audio are ignored; load failures arrive as a notice
		if err := b.ctrl.PlayItem(b.ctx, itemID); errors.Is(err, session.ErrNotFound) {
			log.Debugf("tui: %v", err)
		}
		return nil
	}
}

func (b *statefulBubble) seek(direction int) tea.Cmd {
	delta := session.SeekStep() * time.Duration(direction)
	return func() tea.Msg {
		b.ctrl.SeekBy(b.ctx, delta)
		return nil
	}
}

func (b *statefulBubble) volume(delta float64) tea.Cmd {
	target := b.snap.Status.Volume + delta
	return func() tea.Msg {
		b.ctrl.SetVolume(b.ctx, target)
		return nil
	}
}

func (b *statefulBubble) run(fn func()) tea.Cmd {
	return func() tea.Msg {
		fn()
		return nil
	}
}

func (b *statefulBubble) runCtx(fn func(ctx context.Context)) tea.Cmd {
	return func() tea.Msg {
		fn(b.ctx)
		return nil
	}
}

func (b *statefulBubble) try(fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(b.ctx); err != nil {
			return ui.NotifyMsg(err.Error())
		}
		return nil
	}
}
