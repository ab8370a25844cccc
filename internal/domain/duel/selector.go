package duel

import (
	"math/rand"
	"time"

	"github.com/redflagduel/arena/internal/domain/element"
)

// Pair is a selected duel, tagged with the strategy that actually produced
// it (the fallback strategy when the first choice came up empty).
type Pair struct {
	A        element.Element
	B        element.Element
	Strategy Strategy

	// Fallback marks pairs the first-choice strategy could not produce.
	Fallback bool
}

// Selector picks duel pairs. It holds no session or pool state of its own;
// every call receives the caller's structures, so selection stays
// deterministic under an injected random source.
type Selector struct {
	rng *rand.Rand
}

// SelectorOption applies a configuration option to the Selector.
type SelectorOption func(*Selector)

// WithRand injects the random source, for deterministic tests.
func WithRand(rng *rand.Rand) SelectorOption {
	return func(s *Selector) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// NewSelector creates a Selector seeded from the clock unless overridden.
func NewSelector(opts ...SelectorOption) *Selector {
	s := &Selector{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // selection variety, not cryptography
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SelectPair runs the full selection chain and returns the next duel, or
// ok=false when the session has exhausted every reachable pair. Exhaustion
// is a normal terminal state, not an error.
//
// Strategy-specific scarcity never blocks gameplay: as long as some valid
// unseen pair exists in the (filtered, or in cooldown mode unfiltered)
// pool, a pair comes back.
func (s *Selector) SelectPair(pool []element.Element, sc Context, starred []StarredPair, cfg Config) (Pair, bool) {
	if len(pool) < 2 {
		return Pair{}, false
	}

	filtered := FilterByAntiRepeat(pool, sc, cfg)
	if len(filtered) < 2 {
		return Pair{}, false
	}

	singleCategory := spansSingleCategory(filtered)
	strategy := s.selectStrategy(cfg, singleCategory)

	sorted := SortByFreshness(filtered, sc, cfg, s.rng)
	seen := sc.SeenPairs
	if seen == nil {
		seen = map[element.PairKey]struct{}{}
	}

	var candidates []candidatePair
	switch strategy {
	case StrategyEloClose:
		candidates = eloClosePairs(sorted, seen, cfg)
	case StrategyCrossCategory:
		candidates = crossCategoryPairs(sorted, seen, cfg)
	case StrategyStarred:
		if c, ok := starredCandidate(sorted, starred, seen, cfg, s.rng); ok {
			candidates = []candidatePair{c}
		}
	case StrategyRandom:
		candidates = randomPairs(sorted, seen, cfg)
	}

	// Fallback chain: chosen strategy -> random over the filtered pool ->
	// (cooldown only) random over the unfiltered pool -> exhaustion.
	fallback := false
	if len(candidates) == 0 && strategy != StrategyRandom {
		strategy = StrategyRandom
		fallback = true
		candidates = randomPairs(sorted, seen, cfg)
	}
	if len(candidates) == 0 && cfg.AntiRepeat.Enabled && cfg.AntiRepeat.Mode == ModeCooldown {
		strategy = StrategyRandom
		fallback = true
		unfiltered := SortByFreshness(pool, sc, cfg, s.rng)
		candidates = randomPairs(unfiltered, seen, cfg)
	}
	if len(candidates) == 0 {
		return Pair{}, false
	}

	chosen := candidates[s.rng.Intn(len(candidates))]
	return Pair{A: chosen.a, B: chosen.b, Strategy: strategy, Fallback: fallback}, true
}

// selectStrategy runs the weighted roulette over enabled strategies,
// excluding cross_category when the pool spans a single category (it could
// never produce a pair there, so its weight would be wasted). With nothing
// enabled, random is the safe default.
func (s *Selector) selectStrategy(cfg Config, singleCategory bool) Strategy {
	type weighted struct {
		name   Strategy
		weight float64
	}
	var wheel []weighted
	total := 0.0
	for _, name := range Strategies() {
		sc, ok := cfg.Strategies[name]
		if !ok || !sc.Enabled || sc.Weight <= 0 {
			continue
		}
		if singleCategory && name == StrategyCrossCategory {
			continue
		}
		wheel = append(wheel, weighted{name: name, weight: sc.Weight})
		total += sc.Weight
	}
	if len(wheel) == 0 || total <= 0 {
		return StrategyRandom
	}

	draw := s.rng.Float64() * total
	acc := 0.0
	for _, w := range wheel {
		acc += w.weight
		if draw < acc {
			return w.name
		}
	}
	return wheel[len(wheel)-1].name
}

func spansSingleCategory(pool []element.Element) bool {
	if len(pool) == 0 {
		return true
	}
	first := pool[0].Category
	for _, e := range pool[1:] {
		if e.Category != first {
			return false
		}
	}
	return true
}

// TotalPossibleDuels is the number of distinct unordered pairs in a pool of
// n elements.
func TotalPossibleDuels(n int) int {
	if n < 2 {
		return 0
	}
	return n * (n - 1) / 2
}

// AllDuelsExhausted lets callers detect session completion proactively
// instead of waiting for SelectPair to come up empty.
func AllDuelsExhausted(n, seenCount int) bool {
	return seenCount >= TotalPossibleDuels(n)
}
