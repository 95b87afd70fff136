// Package ui provides the ephemeral notification line shared by the terminal surfaces.
package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gurbani-cli/gurbani/style"
)

// NotificationTTL is how long a notification stays on screen.
const NotificationTTL = 3 * time.Second

// Model holds at most one notification.
type Model struct {
	notification string
	notifiedAt   time.Time
}

// NotifyMsg shows a notification.
type NotifyMsg string

// ClearNotificationMsg clears the notification it was scheduled for.
type ClearNotificationMsg struct {
	at time.Time
}

// Notify returns a command that shows text.
func Notify(text string) tea.Cmd {
	return func() tea.Msg {
		return NotifyMsg(text)
	}
}

func clearAfter(at time.Time) tea.Cmd {
	return tea.Tick(NotificationTTL, func(time.Time) tea.Msg {
		return ClearNotificationMsg{at: at}
	})
}

// Update handles notification messages. Other messages are ignored.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case NotifyMsg:
		m.notification = string(msg)
		m.notifiedAt = time.Now()
		return clearAfter(m.notifiedAt)
	case ClearNotificationMsg:
		// a newer notification keeps its own timer
		if msg.at.Equal(m.notifiedAt) {
			m.notification = ""
		}
	}
	return nil
}

// Current returns the visible notification, if any.
func (m *Model) Current() string {
	return m.notification
}

// View appends the notification to the last line of content.
func (m *Model) View(content string) string {
	if m.notification == "" {
		return content
	}

	lines := strings.Split(content, "\n")
	lines[len(lines)-1] += "  " + style.Faint(m.notification)
	return strings.Join(lines, "\n")
}
