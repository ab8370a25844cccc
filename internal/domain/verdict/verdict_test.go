package verdict_test

import (
	"context"
	"testing"

	verdict "github.com/redflagduel/arena/internal/domain/verdict"
	. "github.com/smartystreets/goconvey/convey"
)

func TestHeuristicJudge(t *testing.T) {
	Convey("Given the default heuristic judge", t, func() {
		ctx := context.Background()
		j := verdict.NewHeuristicJudge()

		Convey("When the text carries a warning marker", func() {
			color, reason, err := j.Judge(ctx, "Il fouille mon téléphone et il est très jaloux")

			Convey("Then the verdict is red with a reason", func() {
				So(err, ShouldBeNil)
				So(color, ShouldEqual, verdict.ColorRed)
				So(reason, ShouldNotBeBlank)
			})
		})

		Convey("When the text is harmless", func() {
			color, reason, err := j.Judge(ctx, "Il prépare le petit déjeuner le dimanche")

			Convey("Then the verdict is green", func() {
				So(err, ShouldBeNil)
				So(color, ShouldEqual, verdict.ColorGreen)
				So(reason, ShouldNotBeBlank)
			})
		})

		Convey("When the context is already canceled", func() {
			canceled, cancel := context.WithCancel(ctx)
			cancel()

			_, _, err := j.Judge(canceled, "peu importe")
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given a judge with a custom lexicon and threshold", t, func() {
		ctx := context.Background()
		j := verdict.NewHeuristicJudge(
			verdict.WithRedMarkers([]string{"dette", "casino"}),
			verdict.WithRedThreshold(2),
		)

		Convey("Then one hit stays green and two flip to red", func() {
			color, _, err := j.Judge(ctx, "Il a une dette")
			So(err, ShouldBeNil)
			So(color, ShouldEqual, verdict.ColorGreen)

			color, _, err = j.Judge(ctx, "Il a une dette de casino")
			So(err, ShouldBeNil)
			So(color, ShouldEqual, verdict.ColorRed)
		})
	})
}

func TestColor(t *testing.T) {
	Convey("Given the verdict colors", t, func() {
		So(verdict.ColorRed.IsValid(), ShouldBeTrue)
		So(verdict.ColorGreen.IsValid(), ShouldBeTrue)
		So(verdict.Color("amber").IsValid(), ShouldBeFalse)
	})
}
