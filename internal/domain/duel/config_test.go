package duel_test

import (
	"testing"

	duel "github.com/redflagduel/arena/internal/domain/duel"
	. "github.com/smartystreets/goconvey/convey"
)

func TestConfigValidate(t *testing.T) {
	Convey("Given the default config", t, func() {
		cfg := duel.DefaultConfig()

		Convey("Then it validates", func() {
			So(cfg.Validate(), ShouldBeNil)
		})
	})

	Convey("Given enabled weights that do not total 100", t, func() {
		cfg := duel.DefaultConfig()
		cfg.Strategies[duel.StrategyEloClose] = duel.StrategyConfig{Enabled: true, Weight: 60}
		cfg.Strategies[duel.StrategyCrossCategory] = duel.StrategyConfig{Enabled: false}
		cfg.Strategies[duel.StrategyStarred] = duel.StrategyConfig{Enabled: false}
		cfg.Strategies[duel.StrategyRandom] = duel.StrategyConfig{Enabled: true, Weight: 30}

		Convey("Then validation fails with the config sentinel", func() {
			err := cfg.Validate()
			So(err, ShouldNotBeNil)
			So(err, ShouldWrap, duel.ErrInvalidConfig)
		})
	})

	Convey("Given disabled strategies with arbitrary weights", t, func() {
		cfg := duel.DefaultConfig()
		cfg.Strategies[duel.StrategyEloClose] = duel.StrategyConfig{Enabled: true, Weight: 100}
		cfg.Strategies[duel.StrategyCrossCategory] = duel.StrategyConfig{Enabled: false, Weight: 55}
		cfg.Strategies[duel.StrategyStarred] = duel.StrategyConfig{Enabled: false, Weight: 7}
		cfg.Strategies[duel.StrategyRandom] = duel.StrategyConfig{Enabled: false}

		Convey("Then only enabled weights count toward the total", func() {
			So(cfg.Validate(), ShouldBeNil)
		})
	})

	Convey("Given an inverted elo window", t, func() {
		cfg := duel.DefaultConfig()
		cfg.EloWindow = duel.EloWindow{MinDifference: 200, MaxDifference: 150}

		So(cfg.Validate(), ShouldWrap, duel.ErrInvalidConfig)
	})

	Convey("Given an unknown anti-repeat mode", t, func() {
		cfg := duel.DefaultConfig()
		cfg.AntiRepeat.Mode = "lenient"

		So(cfg.Validate(), ShouldWrap, duel.ErrInvalidConfig)
	})

	Convey("Given non-increasing k-factor tiers", t, func() {
		cfg := duel.DefaultConfig()
		cfg.KFactorTiers[1].MaxParticipations = 30

		So(cfg.Validate(), ShouldWrap, duel.ErrInvalidConfig)
	})

	Convey("Given an unknown strategy name", t, func() {
		cfg := duel.DefaultConfig()
		cfg.Strategies["chaotic"] = duel.StrategyConfig{Enabled: true, Weight: 0}

		So(cfg.Validate(), ShouldWrap, duel.ErrInvalidConfig)
	})
}

func TestConfigProvider(t *testing.T) {
	Convey("Given a provider at defaults", t, func() {
		p := duel.NewConfigProvider()

		Convey("When a snapshot is mutated", func() {
			snap := p.Get()
			snap.Strategies[duel.StrategyRandom] = duel.StrategyConfig{Enabled: true, Weight: 99}

			Convey("Then the live config is unaffected", func() {
				So(p.Get().Strategies[duel.StrategyRandom].Weight, ShouldEqual, 30)
			})
		})

		Convey("When an invalid replacement is offered", func() {
			bad := p.Get()
			bad.AntiRepeat.MaxAppearancesPerSession = 0
			err := p.Set(bad)

			Convey("Then the set fails and the live config stays at defaults", func() {
				So(err, ShouldWrap, duel.ErrInvalidConfig)
				So(p.Get().AntiRepeat.MaxAppearancesPerSession, ShouldEqual, 3)
			})
		})

		Convey("When a valid replacement is installed and then reset", func() {
			next := p.Get()
			next.StarredMinStars = 5
			So(p.Set(next), ShouldBeNil)
			So(p.Get().StarredMinStars, ShouldEqual, 5)

			p.Reset()

			Convey("Then defaults are back", func() {
				So(p.Get().StarredMinStars, ShouldEqual, 3)
			})
		})
	})
}
