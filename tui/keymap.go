package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/gurbani-cli/gurbani/color"
	"github.com/gurbani-cli/gurbani/style"
)

// statefulKeymap defines the keys available in each view.
type statefulKeymap struct {
	state state

	quit, forceQuit,
	playPause, seekBack, seekForward,
	volumeUp, volumeDown, mute, rate,
	expand, collapse,
	shuffle, next, stop, nitnem,
	showHelp key.Binding
}

func (k *statefulKeymap) setState(s state) {
	k.state = s
}

func newStatefulKeymap() *statefulKeymap {
	return &statefulKeymap{
		quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		forceQuit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
		playPause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp(style.Fg(color.Orange)("space"), style.Fg(color.Orange)("play/pause")),
		),
		seekBack: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "back"),
		),
		seekForward: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "forward"),
		),
		volumeUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "louder"),
		),
		volumeDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "quieter"),
		),
		mute: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mute"),
		),
		rate: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "speed"),
		),
		expand: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e", "expand"),
		),
		collapse: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "collapse"),
		),
		shuffle: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "shuffle"),
		),
		next: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next bani"),
		),
		stop: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "stop"),
		),
		nitnem: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp(style.Fg(color.Orange)("p"), style.Fg(color.Orange)("start nitnem")),
		),
		showHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k *statefulKeymap) ShortHelp() []key.Binding {
	switch k.state {
	case idleState:
		return []key.Binding{k.nitnem, k.shuffle, k.quit}
	case loadingState:
		return []key.Binding{k.stop, k.forceQuit}
	case collapsedState:
		return []key.Binding{k.playPause, k.expand, k.next, k.stop, k.showHelp, k.quit}
	default:
		return []key.Binding{k.playPause, k.seekBack, k.seekForward, k.collapse, k.showHelp, k.quit}
	}
}

// FullHelp implements help.KeyMap.
func (k *statefulKeymap) FullHelp() [][]key.Binding {
	switch k.state {
	case idleState, loadingState:
		return [][]key.Binding{k.ShortHelp()}
	default:
		return [][]key.Binding{
			{k.playPause, k.seekBack, k.seekForward, k.stop},
			{k.volumeUp, k.volumeDown, k.mute, k.rate},
			{k.expand, k.collapse, k.next, k.shuffle},
			{k.showHelp, k.quit},
		}
	}
}
