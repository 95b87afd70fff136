package ui

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestModel(t *testing.T) {
	Convey("Given a notifier", t, func() {
		m := &Model{}

		Convey("A notification is shown and scheduled for clearing", func() {
			cmd := m.Update(NotifyMsg("Nitnem complete"))
			So(cmd, ShouldNotBeNil)
			So(m.Current(), ShouldEqual, "Nitnem complete")
			So(m.View("player"), ShouldContainSubstring, "Nitnem complete")

			Convey("Its own timer clears it", func() {
				m.Update(ClearNotificationMsg{at: m.notifiedAt})
				So(m.Current(), ShouldBeEmpty)
				So(m.View("player"), ShouldEqual, "player")
			})

			Convey("A stale timer does not clear a newer notification", func() {
				stale := ClearNotificationMsg{at: m.notifiedAt.Add(-1)}
				m.Update(stale)
				So(m.Current(), ShouldEqual, "Nitnem complete")
			})
		})

		Convey("Notify wraps text in a message", func() {
			So(Notify("hi")(), ShouldEqual, NotifyMsg("hi"))
		})
	})
}
