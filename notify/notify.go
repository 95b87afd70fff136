// Package notify turns one-shot session notices into desktop notifications.
package notify

import (
	"github.com/gen2brain/beeep"
	"github.com/gurbani-cli/gurbani/constant"
	"github.com/gurbani-cli/gurbani/key"
	"github.com/gurbani-cli/gurbani/log"
	"github.com/gurbani-cli/gurbani/session"
	"github.com/spf13/viper"
)

// sender delivers a notification; replaced in tests.
var sender = func(title, message string) error {
	return beeep.Notify(title, message, "")
}

// Enabled reports whether desktop notifications are switched on.
func Enabled() bool {
	return viper.GetBool(key.NotifyDesktop)
}

// Listener returns a session listener that forwards notices.
// Delivery happens on its own goroutine so the session is never blocked by the desktop.
func Listener() func(session.Snapshot) {
	return func(snap session.Snapshot) {
		notice, ok := snap.Notice.Get()
		if !ok || !Enabled() {
			return
		}

		go Send(notice)
	}
}

// Send shows a single notice.
func Send(notice session.Notice) {
	title := constant.Gurbani
	switch notice.Kind {
	case session.NoticeLoadFailed:
		title += ": playback failed"
	case session.NoticeSequenceFinished:
		title += ": Nitnem complete"
	}

	if err := sender(title, notice.Message); err != nil {
		log.Warnf("notify: %v", err)
	}
}
