// Package elo implements the pairwise rating math for duel outcomes.
//
// All functions are pure: callers hand in current ratings and participation
// counts and get new values back. Persisting the result atomically is the
// caller's job.
package elo

import "math"

// RatingFloor is the lowest rating an update may leave behind. The floor is
// applied to the loser only; winners may climb without bound.
const RatingFloor = 100

// KFactorTier maps a participation ceiling to the K used below it.
type KFactorTier struct {
	MaxParticipations int `json:"max_participations"`
	K                 int `json:"k"`
}

// BaseKFactor applies once an element has outgrown every tier.
const BaseKFactor = 24

// DefaultKFactorTiers makes new elements converge fast and established ones
// resist single-vote swings.
func DefaultKFactorTiers() []KFactorTier {
	return []KFactorTier{
		{MaxParticipations: 30, K: 40},
		{MaxParticipations: 100, K: 32},
	}
}

// ExpectedScore returns the logistic expectation that a beats b.
func ExpectedScore(ratingA, ratingB int) float64 {
	return 1.0 / (1.0 + math.Pow(10, float64(ratingB-ratingA)/400.0))
}

// Result carries the post-duel ratings for both sides.
type Result struct {
	Winner int
	Loser  int
}

// CalculateNewRatings applies the standard logistic ELO update for a duel
// won by the first side. The loser is clamped at RatingFloor; the winner
// is not capped.
func CalculateNewRatings(winnerRating, loserRating, kFactor int) Result {
	expected := ExpectedScore(winnerRating, loserRating)
	delta := float64(kFactor) * (1 - expected)

	newWinner := int(math.Round(float64(winnerRating) + delta))
	newLoser := int(math.Round(float64(loserRating) - delta))
	if newLoser < RatingFloor {
		newLoser = RatingFloor
	}
	return Result{Winner: newWinner, Loser: newLoser}
}

// EstimateWinPercentage returns the expected win chance of a over b as an
// integer percentage. Display only; selection never uses it.
func EstimateWinPercentage(ratingA, ratingB int) int {
	return int(math.Round(ExpectedScore(ratingA, ratingB) * 100))
}

// KFactorForParticipation picks the K tier for an element's vote count
// using the default tiers.
func KFactorForParticipation(count int) int {
	return KFactorFor(count, DefaultKFactorTiers(), BaseKFactor)
}

// KFactorFor picks the K tier for a vote count from explicit tiers. Tiers
// are checked in order; the first whose ceiling exceeds count wins.
func KFactorFor(count int, tiers []KFactorTier, base int) int {
	for _, t := range tiers {
		if count < t.MaxParticipations {
			return t.K
		}
	}
	return base
}

// DuelKFactor returns the K used for a duel between two elements: the more
// conservative of the two sides' tiers, so an established element is never
// destabilized by facing a newcomer.
func DuelKFactor(winnerParticipations, loserParticipations int, tiers []KFactorTier, base int) int {
	kw := KFactorFor(winnerParticipations, tiers, base)
	kl := KFactorFor(loserParticipations, tiers, base)
	if kl < kw {
		return kl
	}
	return kw
}

// MatchedMajority reports whether the voter's pick agreed with the crowd's
// prior belief, i.e. the chosen element already rated at least as high.
func MatchedMajority(winnerRating, loserRating int) bool {
	return winnerRating >= loserRating
}
