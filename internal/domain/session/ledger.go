// Package session holds the per-voter ledger of what a session has seen.
//
// The ledger is a serializable value object: adapters load it, the service
// mutates it after each vote, and adapters save it back. It is never
// server-authoritative game state, only fatigue and streak bookkeeping.
package session

import (
	"time"

	"github.com/redflagduel/arena/internal/domain/element"
)

const (
	// MaxSeenPairs caps the retained seen-pair keys. When the cap is
	// exceeded the oldest half is dropped in one truncation, not one by
	// one.
	MaxSeenPairs = 200

	// RecentWindow bounds the rolling list of recently shown element ids.
	RecentWindow = 20
)

// Ledger tracks what one session has already been shown.
type Ledger struct {
	ID      string          `json:"id"`
	Profile element.Profile `json:"profile"`

	SeenPairs   []element.PairKey `json:"seen_pairs"`
	Appearances map[string]int    `json:"appearances"`
	RecentIDs   []string          `json:"recent_ids"`

	Streak    int `json:"streak"`
	DuelCount int `json:"duel_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New creates a ledger for a freshly declared voter profile.
func New(id string, profile element.Profile) *Ledger {
	now := time.Now().UTC()
	return &Ledger{
		ID:          id,
		Profile:     profile,
		SeenPairs:   make([]element.PairKey, 0, 16),
		Appearances: make(map[string]int),
		RecentIDs:   make([]string, 0, RecentWindow),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// HasSeen reports whether the unordered pair was already shown.
func (l *Ledger) HasSeen(key element.PairKey) bool {
	for _, k := range l.SeenPairs {
		if k == key {
			return true
		}
	}
	return false
}

// SeenSet returns the seen pairs as a membership set for the selector.
func (l *Ledger) SeenSet() map[element.PairKey]struct{} {
	set := make(map[element.PairKey]struct{}, len(l.SeenPairs))
	for _, k := range l.SeenPairs {
		set[k] = struct{}{}
	}
	return set
}

// MarkSeen records the unordered pair, truncating the oldest half when the
// retention cap is exceeded.
func (l *Ledger) MarkSeen(a, b string) {
	key := element.NewPairKey(a, b)
	if l.HasSeen(key) {
		return
	}
	l.SeenPairs = append(l.SeenPairs, key)
	if len(l.SeenPairs) > MaxSeenPairs {
		l.SeenPairs = append([]element.PairKey(nil), l.SeenPairs[len(l.SeenPairs)-MaxSeenPairs/2:]...)
	}
}

// RecordVote updates the ledger after a completed duel. winnerID and
// loserID are recorded in display order as the two most recent ids, both
// sides gain an appearance, and the majority streak advances or resets.
func (l *Ledger) RecordVote(winnerID, loserID string, matchedMajority bool) {
	l.MarkSeen(winnerID, loserID)

	l.Appearances[winnerID]++
	l.Appearances[loserID]++

	l.RecentIDs = append(l.RecentIDs, winnerID, loserID)
	if len(l.RecentIDs) > RecentWindow {
		l.RecentIDs = append([]string(nil), l.RecentIDs[len(l.RecentIDs)-RecentWindow:]...)
	}

	if matchedMajority {
		l.Streak++
	} else {
		l.Streak = 0
	}
	l.DuelCount++
	l.UpdatedAt = time.Now().UTC()
}

// Clone returns a deep copy of the ledger.
func (l *Ledger) Clone() *Ledger {
	if l == nil {
		return nil
	}
	c := *l
	c.SeenPairs = append([]element.PairKey(nil), l.SeenPairs...)
	c.RecentIDs = append([]string(nil), l.RecentIDs...)
	c.Appearances = make(map[string]int, len(l.Appearances))
	for k, v := range l.Appearances {
		c.Appearances[k] = v
	}
	return &c
}

// Reset clears every counter while keeping the session identity, used when
// the voter restarts the game without changing profile.
func (l *Ledger) Reset() {
	l.SeenPairs = l.SeenPairs[:0]
	l.Appearances = make(map[string]int)
	l.RecentIDs = l.RecentIDs[:0]
	l.Streak = 0
	l.DuelCount = 0
	l.UpdatedAt = time.Now().UTC()
}
