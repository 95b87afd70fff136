package icon

import (
	"testing"

	"github.com/gurbani-cli/gurbani/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestGet(t *testing.T) {
	Convey("Given the play icon", t, func() {
		Reset(func() { viper.Set(key.IconsVariant, nil) })

		for _, variant := range AvailableVariants() {
			Convey("variant="+variant+" renders", func() {
				viper.Set(key.IconsVariant, variant)
				So(Get(Play), ShouldNotBeEmpty)
			})
		}

		Convey("An unknown variant falls back to plain", func() {
			viper.Set(key.IconsVariant, "sparkles")
			So(Get(Play), ShouldEqual, ">")
		})

		Convey("An unregistered icon is empty", func() {
			So(Get(Icon(0)), ShouldBeEmpty)
		})
	})
}

func TestRegistry(t *testing.T) {
	Convey("Every icon has a plain rendering", t, func() {
		viper.Set(key.IconsVariant, "plain")
		for i := range icons {
			So(Get(i), ShouldNotBeEmpty)
		}
	})
}
