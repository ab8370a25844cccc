// Package model contains records passed between layers.
package model

import (
	"time"

	"github.com/redflagduel/arena/internal/domain/element"
)

// VoteRecord is the immutable audit entry journaled for every vote. The
// rating core only returns the new numbers; this record is how the
// surrounding service remembers what happened.
type VoteRecord struct {
	ID        string          `json:"id"`
	SessionID string          `json:"session_id"`
	Profile   element.Profile `json:"profile"`

	WinnerID string `json:"winner_id"`
	LoserID  string `json:"loser_id"`

	KFactor      int `json:"k_factor"`
	WinnerBefore int `json:"winner_before"`
	WinnerAfter  int `json:"winner_after"`
	LoserBefore  int `json:"loser_before"`
	LoserAfter   int `json:"loser_after"`

	MatchedMajority bool `json:"matched_majority"`

	CreatedAt time.Time `json:"created_at"`
}
