package app

import (
	"github.com/redflagduel/arena/internal/adapters/repository"
	"github.com/redflagduel/arena/internal/adapters/sessionstore"
	"github.com/redflagduel/arena/internal/domain/duel"
	"github.com/redflagduel/arena/internal/domain/verdict"
	"github.com/redflagduel/arena/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithStore sets the persistent game-state store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithSessions sets the session ledger store.
func WithSessions(sessions sessionstore.Store) Option {
	return func(s *Service) {
		if sessions != nil {
			s.sessions = sessions
		}
	}
}

// WithJudge sets the flag-or-not judge.
func WithJudge(judge verdict.Judge) Option {
	return func(s *Service) {
		if judge != nil {
			s.judge = judge
		}
	}
}

// WithSelector injects a selector, mainly for deterministic tests.
func WithSelector(sel *duel.Selector) Option {
	return func(s *Service) {
		if sel != nil {
			s.selector = sel
		}
	}
}

// WithConfigProvider injects a pre-built engine config provider.
func WithConfigProvider(p *duel.ConfigProvider) Option {
	return func(s *Service) {
		if p != nil {
			s.provider = p
		}
	}
}

// WithJournalQueueSize bounds the vote journal backlog.
func WithJournalQueueSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.queueSize = n
		}
	}
}

// WithJournalWorkers sets how many goroutines drain the journal queue.
func WithJournalWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithMaxLeaderboardLimit caps how many standings one request may ask for.
func WithMaxLeaderboardLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxLeaderboardLimit = n
		}
	}
}

// WithMaxFeedLimit caps how many judged submissions one request may ask for.
func WithMaxFeedLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxFeedLimit = n
		}
	}
}
