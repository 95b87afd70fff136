package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/gurbani-cli/gurbani/color"
	"github.com/gurbani-cli/gurbani/icon"
	"github.com/gurbani-cli/gurbani/session"
	"github.com/gurbani-cli/gurbani/style"
	"github.com/gurbani-cli/gurbani/util"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wrap"
)

var paddingStyle = lipgloss.NewStyle().Padding(1, 2)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case idleState:
		output = b.viewIdle()
	case loadingState:
		output = b.viewLoading()
	case collapsedState:
		output = b.viewCollapsed()
	case expandedState:
		output = b.viewExpanded()
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewIdle() string {
	lines := []string{
		style.Title("Gurbani"),
		"",
		"Nothing is playing.",
	}

	if err := b.snap.LastError; err != nil {
		lines[0] = style.ErrorTitle("Playback failed")
		lines = append(lines, "", icon.Get(icon.Fail)+" "+style.Fg(color.Red)(wrap.String(err.Error(), b.textWidth())))
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewLoading() string {
	title := b.snap.Track.OrEmpty().Title

	return b.renderLines(true, []string{
		style.Title("Loading"),
		"",
		icon.Get(icon.Buffering) + " " + style.Fg(color.Purple)(title),
	})
}

// viewCollapsed is the mini player: one line with title, state and time.
func (b *statefulBubble) viewCollapsed() string {
	track := b.snap.Track.OrEmpty()
	st := b.snap.Status

	line := fmt.Sprintf(
		"%s %s  %s  %s / %s",
		transportIcon(b.snap.Transport()),
		style.Fg(color.Purple)(track.Title),
		style.Transport(b.snap.Transport().String()),
		util.FormatTime(st.Position),
		util.FormatTime(st.Duration),
	)

	return b.renderLines(true, []string{
		truncate.StringWithTail(line, uint(b.textWidth()), "…"),
	})
}

// viewExpanded is the full player.
func (b *statefulBubble) viewExpanded() string {
	track := b.snap.Track.OrEmpty()
	st := b.snap.Status

	lines := []string{
		style.Title("Now Playing"),
		"",
		icon.Get(icon.Track) + " " + style.Bold(style.Fg(color.Purple)(track.Title)),
	}

	if track.TitleGurmukhi != "" {
		lines = append(lines, wrap.String(track.TitleGurmukhi, b.textWidth()))
	}
	if track.Artist != "" {
		lines = append(lines, style.Faint(track.Artist))
	}

	volume := fmt.Sprintf("vol %3.0f%%", st.Volume*100)
	if st.Volume == 0 {
		volume = style.Fg(color.Yellow)("muted")
	}

	lines = append(lines,
		"",
		b.progressC.ViewAs(st.Fraction()),
		fmt.Sprintf("%s / %s  -%s", util.FormatTime(st.Position), util.FormatTime(st.Duration), util.FormatTime(st.Remaining())),
		"",
		fmt.Sprintf("%s %s   %sx   %s",
			transportIcon(b.snap.Transport()),
			style.Transport(b.snap.Transport().String()),
			session.FormatRate(st.Rate),
			volume,
		),
	)

	return b.renderLines(true, lines)
}

func transportIcon(t session.Transport) string {
	switch t {
	case session.Playing:
		return icon.Get(icon.Play)
	case session.Paused:
		return icon.Get(icon.Pause)
	case session.Buffering:
		return icon.Get(icon.Buffering)
	default:
		return icon.Get(icon.Stop)
	}
}

func (b *statefulBubble) textWidth() int {
	if b.width <= 4 {
		return 80
	}
	return b.width - 4
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h+3 {
			l += strings.Repeat("\n", b.height-h-3)
		} else {
			l += "\n\n"
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
