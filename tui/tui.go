// Package tui provides the terminal player surface.
// The collapsed view is the mini player; the expanded view is the full player.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gurbani-cli/gurbani/session"
)

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	// Item is played on start. Empty starts idle.
	Item string
	// Expanded opens the full player.
	Expanded bool
}

// Run drives ctrl from a Bubble Tea program until the user quits.
func Run(ctx context.Context, ctrl Controller, options *Options) error {
	bubble := newBubble(ctx, ctrl, options)

	program := tea.NewProgram(bubble, tea.WithAltScreen(), tea.WithContext(ctx))

	unsubscribe := ctrl.Subscribe(func(snap session.Snapshot) {
		program.Send(snapshotMsg(snap))
	})
	defer unsubscribe()

	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("player: %w", err)
	}

	return nil
}
