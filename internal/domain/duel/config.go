// Package duel implements the pair selection engine: anti-repeat filtering,
// freshness ordering, the four pairing strategies, and the orchestrator that
// chains them with fallbacks.
package duel

import (
	"fmt"
	"math"

	"github.com/redflagduel/arena/internal/domain/elo"
)

// Strategy names one of the pair-finding procedures.
type Strategy string

const (
	StrategyEloClose      Strategy = "elo_close"
	StrategyCrossCategory Strategy = "cross_category"
	StrategyStarred       Strategy = "starred"
	StrategyRandom        Strategy = "random"
)

// Strategies lists every strategy in the stable order used by the weighted
// draw.
func Strategies() []Strategy {
	return []Strategy{StrategyEloClose, StrategyCrossCategory, StrategyStarred, StrategyRandom}
}

// StrategyConfig holds the enablement and roulette weight of one strategy.
type StrategyConfig struct {
	Enabled bool    `json:"enabled" koanf:"enabled"`
	Weight  float64 `json:"weight" koanf:"weight"`
}

// EloWindow bounds the rating distance accepted by the elo_close strategy.
type EloWindow struct {
	MinDifference int `json:"min_difference" koanf:"min_difference"`
	MaxDifference int `json:"max_difference" koanf:"max_difference"`
}

// AntiRepeatMode selects how the engine behaves once fresh candidates run
// low.
type AntiRepeatMode string

const (
	// ModeStrict never serves a repeat, even if the pool shrinks below a
	// viable pair and the session stalls.
	ModeStrict AntiRepeatMode = "strict"

	// ModeCooldown degrades gracefully: repeats become eligible again when
	// fewer than two fresh candidates remain.
	ModeCooldown AntiRepeatMode = "cooldown"
)

// AntiRepeatConfig tunes element fatigue suppression within a session.
type AntiRepeatConfig struct {
	Enabled                  bool           `json:"enabled" koanf:"enabled"`
	MaxAppearancesPerSession int            `json:"max_appearances_per_session" koanf:"max_appearances_per_session"`
	CooldownRounds           int            `json:"cooldown_rounds" koanf:"cooldown_rounds"`
	Mode                     AntiRepeatMode `json:"mode" koanf:"mode"`
}

// Config is the process-wide, admin-tunable behavior of the engine.
type Config struct {
	Strategies map[Strategy]StrategyConfig `json:"strategies"`
	EloWindow  EloWindow                   `json:"elo_window"`
	AntiRepeat AntiRepeatConfig            `json:"anti_repeat"`

	KFactorTiers []elo.KFactorTier `json:"k_factor_tiers"`
	BaseKFactor  int               `json:"base_k_factor"`

	StarredMinStars   int `json:"starred_min_stars"`
	CandidatePoolSize int `json:"candidate_pool_size"`
}

// weightTolerance absorbs float drift when checking the 100% weight sum.
const weightTolerance = 1e-6

// DefaultConfig returns the hardcoded engine defaults.
func DefaultConfig() Config {
	return Config{
		Strategies: map[Strategy]StrategyConfig{
			StrategyEloClose:      {Enabled: true, Weight: 40},
			StrategyCrossCategory: {Enabled: true, Weight: 20},
			StrategyStarred:       {Enabled: true, Weight: 10},
			StrategyRandom:        {Enabled: true, Weight: 30},
		},
		EloWindow: EloWindow{MinDifference: 0, MaxDifference: 150},
		AntiRepeat: AntiRepeatConfig{
			Enabled:                  true,
			MaxAppearancesPerSession: 3,
			CooldownRounds:           5,
			Mode:                     ModeCooldown,
		},
		KFactorTiers:      elo.DefaultKFactorTiers(),
		BaseKFactor:       elo.BaseKFactor,
		StarredMinStars:   3,
		CandidatePoolSize: 10,
	}
}

// Validate checks the whole config and returns a human-readable reason on
// the first violation. Nothing is clamped or auto-corrected.
func (c Config) Validate() error {
	if len(c.Strategies) == 0 {
		return fmt.Errorf("%w: no strategies configured", ErrInvalidConfig)
	}
	sum := 0.0
	enabled := 0
	for name, sc := range c.Strategies {
		switch name {
		case StrategyEloClose, StrategyCrossCategory, StrategyStarred, StrategyRandom:
		default:
			return fmt.Errorf("%w: unknown strategy %q", ErrInvalidConfig, name)
		}
		if sc.Weight < 0 {
			return fmt.Errorf("%w: strategy %q has negative weight", ErrInvalidConfig, name)
		}
		if sc.Enabled {
			enabled++
			sum += sc.Weight
		}
	}
	if enabled > 0 && math.Abs(sum-100) > weightTolerance {
		return fmt.Errorf("%w: enabled strategy weights must total 100%%, got %.2f", ErrInvalidConfig, sum)
	}

	if c.EloWindow.MinDifference < 0 {
		return fmt.Errorf("%w: elo window min difference must be >= 0", ErrInvalidConfig)
	}
	if c.EloWindow.MinDifference > c.EloWindow.MaxDifference {
		return fmt.Errorf("%w: elo window min difference exceeds max", ErrInvalidConfig)
	}

	if c.AntiRepeat.Mode != ModeStrict && c.AntiRepeat.Mode != ModeCooldown {
		return fmt.Errorf("%w: anti-repeat mode must be %q or %q", ErrInvalidConfig, ModeStrict, ModeCooldown)
	}
	if c.AntiRepeat.MaxAppearancesPerSession < 1 {
		return fmt.Errorf("%w: max appearances per session must be >= 1", ErrInvalidConfig)
	}
	if c.AntiRepeat.CooldownRounds < 0 {
		return fmt.Errorf("%w: cooldown rounds must be >= 0", ErrInvalidConfig)
	}

	if c.BaseKFactor <= 0 {
		return fmt.Errorf("%w: base k-factor must be positive", ErrInvalidConfig)
	}
	prev := 0
	for _, tier := range c.KFactorTiers {
		if tier.K <= 0 {
			return fmt.Errorf("%w: k-factor tier values must be positive", ErrInvalidConfig)
		}
		if tier.MaxParticipations <= prev {
			return fmt.Errorf("%w: k-factor tier thresholds must be strictly increasing", ErrInvalidConfig)
		}
		prev = tier.MaxParticipations
	}

	if c.StarredMinStars < 1 {
		return fmt.Errorf("%w: starred min stars must be >= 1", ErrInvalidConfig)
	}
	if c.CandidatePoolSize < 1 {
		return fmt.Errorf("%w: candidate pool size must be >= 1", ErrInvalidConfig)
	}
	return nil
}

// KFactorFor picks the configured K tier for a participation count.
func (c Config) KFactorFor(count int) int {
	return elo.KFactorFor(count, c.KFactorTiers, c.BaseKFactor)
}

// Clone returns a deep copy so snapshot readers never alias provider state.
func (c Config) Clone() Config {
	out := c
	out.Strategies = make(map[Strategy]StrategyConfig, len(c.Strategies))
	for k, v := range c.Strategies {
		out.Strategies[k] = v
	}
	out.KFactorTiers = append([]elo.KFactorTier(nil), c.KFactorTiers...)
	return out
}
