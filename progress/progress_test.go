package progress

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/gurbani-cli/gurbani/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func fresh() *Store {
	filesystem.SetMemMapFs()

	clock := time.Date(2024, 4, 13, 5, 0, 0, 0, time.UTC)
	now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	return New("/gurbani/progress.json", "/gurbani/bookmarks.json", "/gurbani/listening.json")
}

func TestReadingProgress(t *testing.T) {
	Convey("Given an empty store", t, func() {
		s := fresh()

		Convey("An unknown bani has blank progress", func() {
			r, err := s.GetProgress("1")
			So(err, ShouldBeNil)
			So(r.CurrentVerseIndex, ShouldEqual, 0)
			So(r.CompletedVerses, ShouldBeEmpty)
			So(r.Started(), ShouldBeFalse)
		})

		Convey("When saving progress", func() {
			So(s.SaveProgress("1", 12, 40), ShouldBeNil)

			Convey("It can be read back", func() {
				r, err := s.GetProgress("1")
				So(err, ShouldBeNil)
				So(r.CurrentVerseIndex, ShouldEqual, 12)
				So(r.TotalVerses, ShouldEqual, 40)
				So(r.Started(), ShouldBeTrue)
				So(r.Completed(), ShouldBeFalse)

				all, err := s.AllProgress()
				So(err, ShouldBeNil)
				So(all, ShouldContainKey, "1")
			})

			Convey("It survives a new store on the same files", func() {
				again := New("/gurbani/progress.json", "/gurbani/bookmarks.json", "/gurbani/listening.json")
				r, err := again.GetProgress("1")
				So(err, ShouldBeNil)
				So(r.CurrentVerseIndex, ShouldEqual, 12)
			})
		})

		Convey("Completed verses are recorded once", func() {
			So(s.MarkVerseCompleted("2", "v1"), ShouldBeNil)
			So(s.MarkVerseCompleted("2", "v1"), ShouldBeNil)
			So(s.MarkVerseCompleted("2", "v2"), ShouldBeNil)

			r, err := s.GetProgress("2")
			So(err, ShouldBeNil)
			So(r.CompletedVerses, ShouldResemble, []string{"v1", "v2"})
		})
	})
}

func TestBookmarks(t *testing.T) {
	Convey("Given an empty store", t, func() {
		s := fresh()

		Convey("When bookmarking verses", func() {
			So(s.AddBookmark(Bookmark{VerseID: "v1", BaniID: "1", BaniName: "Japji Sahib", VerseText: "ik oankar"}), ShouldBeNil)
			So(s.AddBookmark(Bookmark{VerseID: "v2", BaniID: "2", BaniName: "Jaap Sahib"}), ShouldBeNil)

			Convey("They are listed newest first", func() {
				all, err := s.Bookmarks()
				So(err, ShouldBeNil)
				So(all, ShouldHaveLength, 2)
				So(all[0].VerseID, ShouldEqual, "v2")
				So(all[1].VerseID, ShouldEqual, "v1")
			})

			Convey("Re-bookmarking a verse replaces it", func() {
				So(s.AddBookmark(Bookmark{VerseID: "v1", BaniID: "1", VerseText: "updated"}), ShouldBeNil)

				all, err := s.Bookmarks()
				So(err, ShouldBeNil)
				So(all, ShouldHaveLength, 2)
				So(all[0].VerseText, ShouldEqual, "updated")

				r, _ := s.GetProgress("1")
				So(r.BookmarkedVerses, ShouldResemble, []string{"v1"})
			})

			Convey("They are linked to the bani's progress", func() {
				r, err := s.GetProgress("1")
				So(err, ShouldBeNil)
				So(r.BookmarkedVerses, ShouldContain, "v1")
			})

			Convey("They can be filtered and checked", func() {
				forJapji, err := s.BookmarksFor("1")
				So(err, ShouldBeNil)
				So(forJapji, ShouldHaveLength, 1)

				ok, err := s.IsBookmarked("v2")
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)

				ok, _ = s.IsBookmarked("v9")
				So(ok, ShouldBeFalse)
			})

			Convey("Removing unlinks the verse", func() {
				So(s.RemoveBookmark("v1", "1"), ShouldBeNil)

				ok, _ := s.IsBookmarked("v1")
				So(ok, ShouldBeFalse)

				r, _ := s.GetProgress("1")
				So(r.BookmarkedVerses, ShouldBeEmpty)
			})
		})
	})
}

func TestStats(t *testing.T) {
	Convey("Given some reading activity", t, func() {
		s := fresh()

		So(s.SaveProgress("1", 40, 40), ShouldBeNil)
		So(s.SaveProgress("2", 3, 50), ShouldBeNil)
		So(s.SaveProgress("3", 0, 10), ShouldBeNil)
		So(s.MarkVerseCompleted("1", "a"), ShouldBeNil)
		So(s.MarkVerseCompleted("1", "b"), ShouldBeNil)
		So(s.MarkVerseCompleted("2", "c"), ShouldBeNil)
		So(s.AddBookmark(Bookmark{VerseID: "a", BaniID: "1"}), ShouldBeNil)

		Convey("Stats count started, completed and read verses", func() {
			stats, err := s.Stats()
			So(err, ShouldBeNil)
			So(stats.BanisStarted, ShouldEqual, 2)
			So(stats.BanisCompleted, ShouldEqual, 1)
			So(stats.VersesRead, ShouldEqual, 3)
			So(stats.Bookmarks, ShouldEqual, 1)
			So(stats.RecentlyRead, ShouldHaveLength, 2)
		})

		Convey("Recently read keeps the five latest", func() {
			for _, id := range []string{"4", "5", "6", "8", "10"} {
				So(s.SaveProgress(id, 1, 10), ShouldBeNil)
			}

			stats, err := s.Stats()
			So(err, ShouldBeNil)
			So(stats.RecentlyRead, ShouldHaveLength, 5)
			So(stats.RecentlyRead[0].BaniID, ShouldEqual, "10")
		})

		Convey("Clear removes progress and bookmarks", func() {
			So(s.Clear(), ShouldBeNil)

			stats, err := s.Stats()
			So(err, ShouldBeNil)
			So(stats.BanisStarted, ShouldEqual, 0)
			So(stats.Bookmarks, ShouldEqual, 0)
			So(stats.RecentlyRead, ShouldBeEmpty)
		})

		Convey("Export and import restore the same state", func() {
			backup, err := s.Export()
			So(err, ShouldBeNil)
			So(backup.Progress, ShouldHaveLength, 3)
			So(backup.Bookmarks, ShouldHaveLength, 1)

			raw, err := json.Marshal(backup)
			So(err, ShouldBeNil)

			So(s.Clear(), ShouldBeNil)

			var restored Export
			So(json.Unmarshal(raw, &restored), ShouldBeNil)
			So(s.Import(&restored), ShouldBeNil)

			stats, err := s.Stats()
			So(err, ShouldBeNil)
			So(stats.BanisCompleted, ShouldEqual, 1)
			So(stats.Bookmarks, ShouldEqual, 1)
		})
	})
}

func TestListening(t *testing.T) {
	Convey("Given a store", t, func() {
		s := fresh()

		Convey("The furthest point of a recording is kept", func() {
			So(s.SaveListen("japji_sahib", "1", "Japji Sahib", 15*time.Minute, 30*time.Minute), ShouldBeNil)
			So(s.SaveListen("japji_sahib", "1", "Japji Sahib", 5*time.Minute, 30*time.Minute), ShouldBeNil)

			listens, err := s.Listening()
			So(err, ShouldBeNil)
			So(listens, ShouldHaveLength, 1)
			So(listens[0].Percentage, ShouldEqual, 50)
			So(listens[0].Position, ShouldEqual, 15*time.Minute)
		})

		Convey("Listening survives a progress clear", func() {
			So(s.SaveListen("jaap_sahib", "2", "Jaap Sahib", time.Minute, 40*time.Minute), ShouldBeNil)
			So(s.Clear(), ShouldBeNil)

			listens, err := s.Listening()
			So(err, ShouldBeNil)
			So(listens, ShouldHaveLength, 1)
		})
	})
}

func TestSchema(t *testing.T) {
	Convey("The export schema describes its fields", t, func() {
		raw, err := Schema()
		So(err, ShouldBeNil)
		So(string(raw), ShouldContainSubstring, "bookmarks")
		So(string(raw), ShouldContainSubstring, "exported_at")
	})
}
