package version

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gurbani-cli/gurbani/constant"
	"github.com/gurbani-cli/gurbani/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCompare(t *testing.T) {
	Convey("Versions compare by major, minor, then patch", t, func() {
		cases := []struct {
			a, b string
			want int
		}{
			{"1.0.0", "0.9.9", 1},
			{"0.3.0", "0.3.0", 0},
			{"v0.3.1", "0.3.0", 1},
			{"0.2.10", "0.3.0", -1},
		}

		for _, c := range cases {
			got, err := Compare(c.a, c.b)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, c.want)
		}

		Convey("Garbage is an error", func() {
			_, err := Compare("latest", "0.3.0")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestLatest(t *testing.T) {
	Convey("Given a releases endpoint", t, func() {
		filesystem.SetMemMapFs()

		var hits int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
			_, _ = fmt.Fprint(w, `{"tag_name":"v9.9.9"}`)
		}))
		Reset(server.Close)

		previous := ReleasesURL
		ReleasesURL = server.URL
		Reset(func() { ReleasesURL = previous })

		Convey("The tag is returned without its v and cached", func() {
			latest, err := Latest()
			So(err, ShouldBeNil)
			So(latest, ShouldEqual, "9.9.9")
			So(Newer(latest), ShouldBeTrue)

			again, err := Latest()
			So(err, ShouldBeNil)
			So(again, ShouldEqual, "9.9.9")
			So(hits, ShouldEqual, 1)
		})

		Convey("The running version is not newer than itself", func() {
			So(Newer(constant.Version), ShouldBeFalse)
		})
	})
}
