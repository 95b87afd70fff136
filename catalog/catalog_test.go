package catalog

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestResolve(t *testing.T) {
	Convey("Given the default catalog", t, func() {
		c := Default()

		Convey("A bani with audio resolves to its track", func() {
			track, ok := c.Resolve("1").Get()
			So(ok, ShouldBeTrue)
			So(track.ID, ShouldEqual, "japji_sahib")
			So(track.KnownDuration, ShouldEqual, 30*time.Minute)
			So(track.ItemID(), ShouldEqual, "1")
		})

		Convey("An item without audio is absent rather than an error", func() {
			So(c.Resolve("random_ang").IsAbsent(), ShouldBeTrue)
			So(c.Resolve("7").IsAbsent(), ShouldBeTrue)
		})

		Convey("Listing keeps playlist order", func() {
			ids := c.IDs()
			So(ids, ShouldResemble, []string{"1", "2", "3", "4", "5", "6", "8", "10"})
			So(c.All()[len(ids)-1].Title, ShouldEqual, "Sukhmani Sahib")
			So(c.Len(), ShouldEqual, 8)
		})

		Convey("Lookups return independent values", func() {
			a := c.Resolve("2").MustGet()
			a.Title = "changed"
			So(c.Resolve("2").MustGet().Title, ShouldEqual, "Jaap Sahib")
		})
	})
}

func TestFind(t *testing.T) {
	Convey("Given the default catalog", t, func() {
		c := Default()

		Convey("An exact item ID matches directly", func() {
			found := c.Find("5")
			So(found, ShouldHaveLength, 1)
			So(found[0].Title, ShouldEqual, "Anand Sahib")
		})

		Convey("A partial title matches fuzzily", func() {
			found := c.Find("japji")
			So(found, ShouldNotBeEmpty)
			So(found[0].ID, ShouldEqual, "japji_sahib")
		})

		Convey("Matching ignores case", func() {
			found := c.Find("KIRTAN")
			So(found, ShouldNotBeEmpty)
			So(found[0].ID, ShouldEqual, "kirtan_sohila")
		})

		Convey("Nonsense finds nothing", func() {
			So(c.Find("zzzz"), ShouldBeEmpty)
			So(c.Find("  "), ShouldBeEmpty)
		})
	})
}

func TestNew(t *testing.T) {
	Convey("Tracks without a related item are keyed by their ID", t, func() {
		c := New(Track{ID: "a", Title: "A"}, Track{ID: "b", Title: "B", RelatedItemID: "x"})
		So(c.Resolve("a").IsPresent(), ShouldBeTrue)
		So(c.Resolve("x").IsPresent(), ShouldBeTrue)
		So(c.Resolve("b").IsPresent(), ShouldBeFalse)
	})
}
