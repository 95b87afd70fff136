package nitnem

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestOnTrackCompleted(t *testing.T) {
	liturgy := Context{WithinLiturgy: true}

	Convey("Given the daily sequence", t, func() {
		p := Default()

		Convey("Every item but the last advances to its successor", func() {
			for i := 0; i < len(Order)-1; i++ {
				action := p.OnTrackCompleted(Order[i], liturgy)
				So(action.Kind, ShouldEqual, AdvanceTo)
				So(action.Next, ShouldEqual, Order[i+1])
			}
		})

		Convey("Rehras Sahib is followed by Kirtan Sohila", func() {
			So(p.OnTrackCompleted("6", liturgy), ShouldResemble, Action{Kind: AdvanceTo, Next: "8"})
		})

		Convey("The last item completes the sequence", func() {
			So(p.OnTrackCompleted("8", liturgy), ShouldResemble, Action{Kind: SequenceComplete})
		})

		Convey("Items outside the sequence do nothing", func() {
			So(p.OnTrackCompleted("10", liturgy).Kind, ShouldEqual, NoAction)
			So(p.OnTrackCompleted("random_ang", liturgy).Kind, ShouldEqual, NoAction)
			So(p.OnTrackCompleted("7", liturgy).Kind, ShouldEqual, NoAction)
		})

		Convey("Outside a liturgy nothing advances", func() {
			So(p.OnTrackCompleted("1", Context{}).Kind, ShouldEqual, NoAction)
		})

		Convey("The sequence starts with Japji Sahib", func() {
			So(p.First().MustGet(), ShouldEqual, "1")
			So(p.Contains("10"), ShouldBeFalse)
			So(p.Index("5").MustGet(), ShouldEqual, 4)
		})

		Convey("Order is copied", func() {
			o := p.Order()
			o[0] = "x"
			So(p.First().MustGet(), ShouldEqual, "1")
		})
	})

	Convey("An empty sequence never advances", t, func() {
		p := New(nil)
		So(p.First().IsAbsent(), ShouldBeTrue)
		So(p.OnTrackCompleted("1", liturgy).Kind, ShouldEqual, NoAction)
	})
}

func TestShuffle(t *testing.T) {
	Convey("Shuffle never picks the current item", t, func() {
		for i := 0; i < 50; i++ {
			next := Shuffle(Order, "3").MustGet()
			So(next, ShouldNotEqual, "3")
			So(Order, ShouldContain, next)
		}
	})

	Convey("Shuffle with no alternatives yields nothing", t, func() {
		So(Shuffle([]string{"1"}, "1").IsAbsent(), ShouldBeTrue)
		So(Shuffle(nil, "").IsAbsent(), ShouldBeTrue)
	})

	Convey("Action kinds print", t, func() {
		So(AdvanceTo.String(), ShouldEqual, "advance")
		So(SequenceComplete.String(), ShouldEqual, "sequence-complete")
		So(NoAction.String(), ShouldEqual, "none")
	})
}
