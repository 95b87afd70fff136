package tui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gurbani-cli/gurbani/catalog"
	"github.com/gurbani-cli/gurbani/engine"
	"github.com/gurbani-cli/gurbani/engine/enginetest"
	"github.com/gurbani-cli/gurbani/internal/ui"
	"github.com/gurbani-cli/gurbani/nitnem"
	"github.com/gurbani-cli/gurbani/session"
	. "github.com/smartystreets/goconvey/convey"
)

// harness feeds published snapshots back through Update, standing in for program.Send.
type harness struct {
	b       *statefulBubble
	ctrl    *session.Controller
	mu      sync.Mutex
	pending []session.Snapshot
}

func (h *harness) publish(snap session.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.pending = append(h.pending, snap)
}

func (h *harness) flush() {
	for {
		h.mu.Lock()
		pending := h.pending
		h.pending = nil
		h.mu.Unlock()

		if len(pending) == 0 {
			return
		}
		for _, snap := range pending {
			_, cmd := h.b.Update(snapshotMsg(snap))
			h.drain(cmd)
		}
	}
}

// drain runs cmd and everything it batches.
func (h *harness) drain(cmd tea.Cmd) {
	if cmd == nil {
		return
	}

	switch msg := cmd().(type) {
	case nil:
	case tea.BatchMsg:
		for _, c := range msg {
			h.drain(c)
		}
	case ui.NotifyMsg:
		// the clear timer is not awaited
		h.b.Update(msg)
	default:
		_, next := h.b.Update(msg)
		h.drain(next)
	}

	h.flush()
}

func (h *harness) press(keys string) {
	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)}
	if keys == " " {
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	}
	_, cmd := h.b.Update(msg)
	h.drain(cmd)
}

func setup(options *Options) *harness {
	p := enginetest.New()
	p.Duration = time.Minute

	ctrl := session.New(
		engine.New(p),
		catalog.New(catalog.Track{
			ID:            "track_a",
			Title:         "Alpha",
			TitleGurmukhi: "ਅਲਫ਼ਾ",
			SourceURL:     "https://example.com/a.mp3",
			KnownDuration: time.Minute,
			RelatedItemID: "a",
		}),
		nitnem.New([]string{"a"}),
	)

	h := &harness{
		b:    newBubble(context.Background(), ctrl, options),
		ctrl: ctrl,
	}
	ctrl.Subscribe(h.publish)
	h.b.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	return h
}

func TestBubble(t *testing.T) {
	Convey("Given an idle player", t, func() {
		h := setup(&Options{})
		b, ctrl := h.b, h.ctrl
		Reset(func() { ctrl.Close(context.Background()) })

		So(b.state, ShouldEqual, idleState)
		So(b.View(), ShouldContainSubstring, "Nothing is playing")

		Convey("When an item is played", func() {
			h.drain(b.playItem("a"))

			Convey("Then the mini player shows the track", func() {
				So(b.state, ShouldEqual, collapsedState)
				So(b.View(), ShouldContainSubstring, "Alpha")
			})

			Convey("And space pauses it", func() {
				h.press(" ")
				So(ctrl.Snapshot().Transport(), ShouldEqual, session.Paused)
			})

			Convey("And e expands the full player", func() {
				h.press("e")
				So(b.state, ShouldEqual, expandedState)
				So(b.View(), ShouldContainSubstring, "ਅਲਫ਼ਾ")
				So(b.preferExpanded, ShouldBeTrue)
			})

			Convey("And x stops and hides it", func() {
				h.press("x")
				So(b.state, ShouldEqual, idleState)
				So(ctrl.Snapshot().Visible, ShouldBeFalse)
			})
		})

		Convey("When an unknown item is played", func() {
			h.drain(b.playItem("missing"))

			Convey("Then nothing happens", func() {
				So(b.notifier.Current(), ShouldBeEmpty)
				So(b.state, ShouldEqual, idleState)
				So(ctrl.Snapshot().Phase, ShouldEqual, session.Idle)
			})
		})

		Convey("Transport keys are ignored while idle", func() {
			h.press(" ")
			So(ctrl.Snapshot().Phase, ShouldEqual, session.Idle)
		})
	})

	Convey("Given a player asked to open expanded", t, func() {
		h := setup(&Options{Item: "a", Expanded: true})
		Reset(func() { h.ctrl.Close(context.Background()) })

		h.drain(h.b.Init())

		Convey("Then the track opens in the full player", func() {
			So(h.ctrl.Snapshot().Expanded, ShouldBeTrue)
			So(h.b.state, ShouldEqual, expandedState)
		})
	})
}

func TestStateOf(t *testing.T) {
	Convey("Snapshots map to views", t, func() {
		So(stateOf(session.Snapshot{}), ShouldEqual, idleState)
		So(stateOf(session.Snapshot{Phase: session.Loading}), ShouldEqual, loadingState)
	})
}

func TestKeymap(t *testing.T) {
	Convey("The idle keymap hides transport keys", t, func() {
		k := newStatefulKeymap()
		k.setState(idleState)

		help := make([]string, 0)
		for _, b := range k.ShortHelp() {
			help = append(help, b.Help().Desc)
		}
		So(strings.Join(help, " "), ShouldNotContainSubstring, "play/pause")
	})
}
