package where

import (
	"path/filepath"
	"testing"

	"github.com/gurbani-cli/gurbani/filesystem"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Path functions", t, func() {
		Convey("Config()", func() {
			path := Config()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Config() honours the override", func() {
			t.Setenv(EnvConfigPath, "/custom/gurbani")
			So(Config(), ShouldEqual, "/custom/gurbani")
			So(Progress(), ShouldEqual, filepath.Join("/custom/gurbani", "progress.json"))
		})

		Convey("Logs()", func() {
			path := Logs()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Stores live in the config directory", func() {
			So(filepath.Dir(Bookmarks()), ShouldEqual, Config())
			So(filepath.Dir(Listening()), ShouldEqual, Config())
		})
	})
}
