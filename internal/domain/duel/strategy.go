package duel

import (
	"math/rand"

	"github.com/redflagduel/arena/internal/domain/element"
)

// StarredPair is a community-flagged pair fed to the starred strategy from
// outside the engine.
type StarredPair struct {
	Key   element.PairKey `json:"key"`
	Stars int             `json:"stars"`
}

// candidatePair references two pool elements accepted by a strategy.
type candidatePair struct {
	a, b element.Element
}

// pairPredicate is the only strategy-specific part of the pool scan.
type pairPredicate func(a, b element.Element) bool

// scanPairs walks the freshness-sorted pool with a nested i<j loop,
// skipping already-seen pairs and stopping once limit candidates are
// collected. The bounded scan trades best-possible-pair completeness for
// bounded latency on large pools.
func scanPairs(pool []element.Element, seen map[element.PairKey]struct{}, limit int, accept pairPredicate) []candidatePair {
	var candidates []candidatePair
	for i := 0; i < len(pool); i++ {
		for j := i + 1; j < len(pool); j++ {
			key := element.NewPairKey(pool[i].ID, pool[j].ID)
			if _, ok := seen[key]; ok {
				continue
			}
			if !accept(pool[i], pool[j]) {
				continue
			}
			candidates = append(candidates, candidatePair{a: pool[i], b: pool[j]})
			if len(candidates) >= limit {
				return candidates
			}
		}
	}
	return candidates
}

// eloClosePairs accepts pairs whose global rating gap sits inside the
// configured window: close enough to split the crowd, far enough to mean
// something.
func eloClosePairs(pool []element.Element, seen map[element.PairKey]struct{}, cfg Config) []candidatePair {
	return scanPairs(pool, seen, cfg.CandidatePoolSize, func(a, b element.Element) bool {
		diff := a.Global.Score - b.Global.Score
		if diff < 0 {
			diff = -diff
		}
		return diff >= cfg.EloWindow.MinDifference && diff <= cfg.EloWindow.MaxDifference
	})
}

// crossCategoryPairs accepts pairs from different categories, producing the
// deliberately incongruous matchups.
func crossCategoryPairs(pool []element.Element, seen map[element.PairKey]struct{}, cfg Config) []candidatePair {
	return scanPairs(pool, seen, cfg.CandidatePoolSize, func(a, b element.Element) bool {
		return a.Category != b.Category
	})
}

// randomPairs accepts any unseen pair, freshest-first. Doubles as the
// universal fallback.
func randomPairs(pool []element.Element, seen map[element.PairKey]struct{}, cfg Config) []candidatePair {
	return scanPairs(pool, seen, cfg.CandidatePoolSize, func(a, b element.Element) bool {
		return true
	})
}

// starredCandidate draws uniformly from the community-starred pairs that
// clear the star threshold, are unseen this session, and whose two sides
// are both still in the pool. There is no pool scan here; a miss makes the
// orchestrator fall through to random.
func starredCandidate(pool []element.Element, starred []StarredPair, seen map[element.PairKey]struct{}, cfg Config, rng *rand.Rand) (candidatePair, bool) {
	byID := make(map[string]element.Element, len(pool))
	for _, e := range pool {
		byID[e.ID] = e
	}

	var eligible []candidatePair
	for _, sp := range starred {
		if sp.Stars < cfg.StarredMinStars {
			continue
		}
		if _, ok := seen[sp.Key]; ok {
			continue
		}
		aID, bID, ok := sp.Key.Split()
		if !ok || aID == bID {
			continue
		}
		a, okA := byID[aID]
		b, okB := byID[bID]
		if !okA || !okB {
			continue
		}
		eligible = append(eligible, candidatePair{a: a, b: b})
	}
	if len(eligible) == 0 {
		return candidatePair{}, false
	}
	return eligible[rng.Intn(len(eligible))], true
}
