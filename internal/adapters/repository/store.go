// Package repository defines the persistence port for elements, votes,
// starred pairs, and verdict submissions, with in-memory and Postgres
// implementations selected by configuration at startup.
package repository

import (
	"context"

	"github.com/redflagduel/arena/internal/domain/duel"
	"github.com/redflagduel/arena/internal/domain/element"
	"github.com/redflagduel/arena/internal/domain/model"
	"github.com/redflagduel/arena/internal/domain/verdict"
)

// MutateFunc transforms both sides of a duel inside the store's atomic
// boundary. The store loads current state, runs the function, and persists
// the result as one update; two concurrent votes on the same elements never
// interleave a read-modify-write.
type MutateFunc func(winner, loser *element.Element) error

// Store provides read/write access to persistent game state.
type Store interface {
	// CreateElement inserts a new element.
	// Returns ErrAlreadyExists when the id is taken.
	CreateElement(ctx context.Context, e element.Element) error

	// GetElement returns one element by id, active or not.
	// Returns ErrNotFound for unknown ids.
	GetElement(ctx context.Context, id string) (element.Element, error)

	// ListElements returns elements, optionally only active ones and
	// optionally narrowed to one category (empty category means all).
	ListElements(ctx context.Context, onlyActive bool, category element.Category) ([]element.Element, error)

	// DeactivateElement soft-deletes an element. Rating history stays.
	DeactivateElement(ctx context.Context, id string) error

	// ApplyVote runs mutate over both elements atomically and persists the
	// result, returning the updated copies.
	ApplyVote(ctx context.Context, winnerID, loserID string, mutate MutateFunc) (element.Element, element.Element, error)

	// AppendVote journals an immutable vote record.
	AppendVote(ctx context.Context, rec model.VoteRecord) error

	// StarPair increments the community star count of an unordered pair
	// and returns the new count.
	StarPair(ctx context.Context, key element.PairKey) (int, error)

	// ListStarredPairs returns pairs with at least minStars stars.
	ListStarredPairs(ctx context.Context, minStars int) ([]duel.StarredPair, error)

	// AddSubmission stores a judged flag-or-not entry.
	AddSubmission(ctx context.Context, sub verdict.Submission) error

	// ListSubmissions returns the most recent judged entries, newest
	// first, up to limit.
	ListSubmissions(ctx context.Context, limit int) ([]verdict.Submission, error)
}
