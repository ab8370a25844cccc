package duel

import (
	"math/rand"
	"sort"

	"github.com/redflagduel/arena/internal/domain/element"
)

// Context is the selector's read-only view of a session ledger.
type Context struct {
	SeenPairs   map[element.PairKey]struct{}
	Appearances map[string]int
	RecentIDs   []string
}

// freshnessTieEpsilon treats near-equal freshness scores as ties so large
// groups of equally fresh elements keep a random relative order.
const freshnessTieEpsilon = 0.01

// FilterByAntiRepeat drops elements that hit the per-session appearance cap.
//
// In strict mode the filtered list is returned even when it no longer holds
// a viable pair; the caller then reports exhaustion. In cooldown mode a
// too-small filtered list falls back to the unfiltered pool: repeating
// content beats showing nothing.
func FilterByAntiRepeat(pool []element.Element, sc Context, cfg Config) []element.Element {
	if !cfg.AntiRepeat.Enabled {
		return pool
	}
	filtered := make([]element.Element, 0, len(pool))
	for _, e := range pool {
		if sc.Appearances[e.ID] < cfg.AntiRepeat.MaxAppearancesPerSession {
			filtered = append(filtered, e)
		}
	}
	if cfg.AntiRepeat.Mode == ModeCooldown && len(filtered) < 2 {
		return pool
	}
	return filtered
}

// FreshnessScore rates how rested an element is, in [0,1]. The window is
// the last cooldownRounds*2 recent ids (two per duel). An element absent
// from the window is fully fresh; one shown this instant scores 0; one
// about to leave the window scores just under 1.
func FreshnessScore(id string, sc Context, cfg Config) float64 {
	if !cfg.AntiRepeat.Enabled || cfg.AntiRepeat.CooldownRounds == 0 {
		return 1
	}
	windowLen := cfg.AntiRepeat.CooldownRounds * 2
	recent := sc.RecentIDs
	if len(recent) > windowLen {
		recent = recent[len(recent)-windowLen:]
	}
	if len(recent) == 0 {
		return 1
	}
	last := -1
	for i, rid := range recent {
		if rid == id {
			last = i
		}
	}
	if last < 0 {
		return 1
	}
	return float64(len(recent)-1-last) / float64(len(recent))
}

// SortByFreshness orders the pool freshest-first. The pool is shuffled
// before a stable sort so elements with tied scores land in random relative
// order rather than a deterministic one.
func SortByFreshness(pool []element.Element, sc Context, cfg Config, rng *rand.Rand) []element.Element {
	out := append([]element.Element(nil), pool...)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})

	scores := make(map[string]float64, len(out))
	for _, e := range out {
		scores[e.ID] = FreshnessScore(e.ID, sc, cfg)
	}
	sort.SliceStable(out, func(i, j int) bool {
		si, sj := scores[out[i].ID], scores[out[j].ID]
		if si-sj > freshnessTieEpsilon {
			return true
		}
		return false
	})
	return out
}
