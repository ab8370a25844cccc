// Package sessionstore persists voter session ledgers behind one port,
// with in-memory and Redis implementations selected by configuration.
//
// The ledger is a serializable value object: callers load it, mutate it,
// and save it back. Which store holds it is invisible to the game logic.
package sessionstore

import (
	"context"
	"errors"

	"github.com/redflagduel/arena/internal/domain/element"
	"github.com/redflagduel/arena/internal/domain/session"
)

// Sentinel kinds for session store errors.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidProfile  = errors.New("invalid voter profile")
)

// Store provides load/save access to session ledgers keyed by an opaque id.
type Store interface {
	// Create allocates a ledger for a declared voter profile.
	Create(ctx context.Context, profile element.Profile) (*session.Ledger, error)

	// Get loads a ledger. Returns ErrSessionNotFound for unknown ids.
	Get(ctx context.Context, id string) (*session.Ledger, error)

	// Save persists the ledger's current state.
	Save(ctx context.Context, l *session.Ledger) error

	// Delete drops a session entirely (profile reset / game restart).
	Delete(ctx context.Context, id string) error

	// Count returns the number of live sessions.
	Count(ctx context.Context) (int, error)
}
