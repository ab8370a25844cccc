package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/redflagduel/arena/internal/domain/duel"
	"github.com/redflagduel/arena/internal/domain/element"
	"github.com/redflagduel/arena/internal/domain/model"
	"github.com/redflagduel/arena/internal/domain/verdict"
)

// defaultSubmissionCap bounds the in-memory verdict feed.
const defaultSubmissionCap = 500

// MemoryStore implements Store entirely in process memory. It is the
// development and test backend; one mutex is the atomic boundary ApplyVote
// relies on.
type MemoryStore struct {
	mu          sync.RWMutex
	elements    map[string]element.Element
	votes       []model.VoteRecord
	stars       map[element.PairKey]int
	submissions []verdict.Submission

	submissionCap int
}

// MemoryOption applies a configuration option to the MemoryStore.
type MemoryOption func(*MemoryStore)

// WithSubmissionCap bounds the retained verdict feed.
func WithSubmissionCap(n int) MemoryOption {
	return func(s *MemoryStore) {
		if n > 0 {
			s.submissionCap = n
		}
	}
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		elements:      make(map[string]element.Element),
		stars:         make(map[element.PairKey]int),
		submissionCap: defaultSubmissionCap,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateElement inserts a new element.
func (s *MemoryStore) CreateElement(ctx context.Context, e element.Element) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.elements[e.ID]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, e.ID)
	}
	s.elements[e.ID] = e.Clone()
	return nil
}

// GetElement returns one element by id.
func (s *MemoryStore) GetElement(ctx context.Context, id string) (element.Element, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.elements[id]
	if !ok {
		return element.Element{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e.Clone(), nil
}

// ListElements returns matching elements sorted by descending global score.
func (s *MemoryStore) ListElements(ctx context.Context, onlyActive bool, category element.Category) ([]element.Element, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]element.Element, 0, len(s.elements))
	for _, e := range s.elements {
		if onlyActive && !e.Active {
			continue
		}
		if category != "" && e.Category != category {
			continue
		}
		out = append(out, e.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Global.Score != out[j].Global.Score {
			return out[i].Global.Score > out[j].Global.Score
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// DeactivateElement soft-deletes an element.
func (s *MemoryStore) DeactivateElement(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.elements[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	e.Active = false
	s.elements[id] = e
	return nil
}

// ApplyVote mutates both elements under the store lock as one atomic
// update.
func (s *MemoryStore) ApplyVote(ctx context.Context, winnerID, loserID string, mutate MutateFunc) (element.Element, element.Element, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.elements[winnerID]
	if !ok {
		return element.Element{}, element.Element{}, fmt.Errorf("%w: %s", ErrNotFound, winnerID)
	}
	l, ok := s.elements[loserID]
	if !ok {
		return element.Element{}, element.Element{}, fmt.Errorf("%w: %s", ErrNotFound, loserID)
	}
	if !w.Active || !l.Active {
		return element.Element{}, element.Element{}, ErrInactive
	}

	winner := w.Clone()
	loser := l.Clone()
	if err := mutate(&winner, &loser); err != nil {
		return element.Element{}, element.Element{}, err
	}

	s.elements[winnerID] = winner.Clone()
	s.elements[loserID] = loser.Clone()
	return winner, loser, nil
}

// AppendVote journals a vote record.
func (s *MemoryStore) AppendVote(ctx context.Context, rec model.VoteRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.votes = append(s.votes, rec)
	return nil
}

// VoteCount returns the number of journaled votes; test helper.
func (s *MemoryStore) VoteCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.votes)
}

// StarPair increments a pair's star count.
func (s *MemoryStore) StarPair(ctx context.Context, key element.PairKey) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stars[key]++
	return s.stars[key], nil
}

// ListStarredPairs returns pairs at or above minStars, most starred first.
func (s *MemoryStore) ListStarredPairs(ctx context.Context, minStars int) ([]duel.StarredPair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]duel.StarredPair, 0, len(s.stars))
	for key, stars := range s.stars {
		if stars < minStars {
			continue
		}
		out = append(out, duel.StarredPair{Key: key, Stars: stars})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Stars != out[j].Stars {
			return out[i].Stars > out[j].Stars
		}
		return out[i].Key < out[j].Key
	})
	return out, nil
}

// AddSubmission appends to the verdict feed, trimming the oldest entries
// past the cap.
func (s *MemoryStore) AddSubmission(ctx context.Context, sub verdict.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions = append(s.submissions, sub)
	if len(s.submissions) > s.submissionCap {
		s.submissions = append([]verdict.Submission(nil), s.submissions[len(s.submissions)-s.submissionCap:]...)
	}
	return nil
}

// ListSubmissions returns the newest entries first.
func (s *MemoryStore) ListSubmissions(ctx context.Context, limit int) ([]verdict.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.submissions)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]verdict.Submission, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, s.submissions[i])
	}
	return out, nil
}
