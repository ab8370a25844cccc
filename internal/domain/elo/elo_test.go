package elo_test

import (
	"testing"

	elo "github.com/redflagduel/arena/internal/domain/elo"
	. "github.com/smartystreets/goconvey/convey"
)

func TestExpectedScore(t *testing.T) {
	Convey("Given two equally rated sides", t, func() {
		Convey("Then the expectation is exactly even", func() {
			So(elo.ExpectedScore(1000, 1000), ShouldEqual, 0.5)
		})
	})

	Convey("Given a stronger and a weaker side", t, func() {
		Convey("Then the stronger side is favored and the two expectations are complementary", func() {
			ea := elo.ExpectedScore(1200, 1000)
			eb := elo.ExpectedScore(1000, 1200)
			So(ea, ShouldBeGreaterThan, 0.5)
			So(ea+eb, ShouldAlmostEqual, 1.0, 1e-9)
		})
	})
}

func TestCalculateNewRatings(t *testing.T) {
	Convey("Given a duel between 1020 and 980 with K=40", t, func() {
		res := elo.CalculateNewRatings(1020, 980, 40)

		Convey("Then the favored winner gains the rounded logistic delta", func() {
			So(res.Winner, ShouldEqual, 1038)
			So(res.Loser, ShouldEqual, 962)
		})
	})

	Convey("Given a duel between equals with K=40", t, func() {
		res := elo.CalculateNewRatings(1000, 1000, 40)

		Convey("Then exactly half the K factor moves", func() {
			So(res.Winner, ShouldEqual, 1020)
			So(res.Loser, ShouldEqual, 980)
		})
	})

	Convey("Given a loser already sitting at the floor", t, func() {
		res := elo.CalculateNewRatings(100, 100, 40)

		Convey("Then the loser is clamped and the winner still climbs", func() {
			So(res.Loser, ShouldEqual, elo.RatingFloor)
			So(res.Winner, ShouldEqual, 120)
		})
	})

	Convey("Given any winner", t, func() {
		Convey("Then the winner never loses points", func() {
			for _, loser := range []int{100, 500, 1000, 2000} {
				res := elo.CalculateNewRatings(1000, loser, 24)
				So(res.Winner, ShouldBeGreaterThanOrEqualTo, 1000)
			}
		})
	})

	Convey("Given a heavy favorite winning", t, func() {
		strong := elo.CalculateNewRatings(1500, 1000, 40)
		even := elo.CalculateNewRatings(1000, 1000, 40)

		Convey("Then the favorite gains less than an even matchup would", func() {
			So(strong.Winner-1500, ShouldBeLessThan, even.Winner-1000)
		})
	})
}

func TestKFactors(t *testing.T) {
	Convey("Given the default tiers", t, func() {
		Convey("Then participation counts map onto descending K values", func() {
			So(elo.KFactorForParticipation(0), ShouldEqual, 40)
			So(elo.KFactorForParticipation(29), ShouldEqual, 40)
			So(elo.KFactorForParticipation(30), ShouldEqual, 32)
			So(elo.KFactorForParticipation(99), ShouldEqual, 32)
			So(elo.KFactorForParticipation(100), ShouldEqual, elo.BaseKFactor)
			So(elo.KFactorForParticipation(5000), ShouldEqual, elo.BaseKFactor)
		})
	})

	Convey("Given a duel between a newcomer and a veteran", t, func() {
		k := elo.DuelKFactor(3, 250, elo.DefaultKFactorTiers(), elo.BaseKFactor)

		Convey("Then the veteran's conservative K governs both sides", func() {
			So(k, ShouldEqual, elo.BaseKFactor)
		})
	})
}

func TestEstimateWinPercentage(t *testing.T) {
	Convey("Given equal ratings", t, func() {
		So(elo.EstimateWinPercentage(1000, 1000), ShouldEqual, 50)
	})

	Convey("Given a large rating gap", t, func() {
		pct := elo.EstimateWinPercentage(1400, 1000)
		So(pct, ShouldBeGreaterThan, 80)
		So(pct, ShouldBeLessThanOrEqualTo, 100)
	})
}

func TestMatchedMajority(t *testing.T) {
	Convey("Given the winner already rated higher or equal", t, func() {
		So(elo.MatchedMajority(1100, 1000), ShouldBeTrue)
		So(elo.MatchedMajority(1000, 1000), ShouldBeTrue)
	})

	Convey("Given an upset", t, func() {
		So(elo.MatchedMajority(900, 1000), ShouldBeFalse)
	})
}
