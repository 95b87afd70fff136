package log

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFacade(t *testing.T) {
	Convey("Given a captured logger", t, func() {
		var buf bytes.Buffer
		SetOutput(&buf, logrus.InfoLevel)

		Convey("Infof should be written", func() {
			Infof("playing %s", "japji_sahib")
			So(buf.String(), ShouldContainSubstring, "playing japji_sahib")
		})

		Convey("Debugf should respect the level", func() {
			Debugf("tick %d", 1)
			So(buf.String(), ShouldBeEmpty)
		})

		Convey("Structured fields should be rendered", func() {
			WithField("track", "jaap_sahib").Warn("load failed")
			So(buf.String(), ShouldContainSubstring, "track=jaap_sahib")
		})
	})
}
