// Package app wires the duel engine, rating math, stores, and journal
// pipeline into the operations the HTTP layer exposes.
package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/redflagduel/arena/internal/adapters/mq/queue"
	"github.com/redflagduel/arena/internal/adapters/mq/worker"
	"github.com/redflagduel/arena/internal/adapters/repository"
	"github.com/redflagduel/arena/internal/adapters/sessionstore"
	"github.com/redflagduel/arena/internal/domain/duel"
	"github.com/redflagduel/arena/internal/domain/element"
	"github.com/redflagduel/arena/internal/domain/elo"
	"github.com/redflagduel/arena/internal/domain/model"
	"github.com/redflagduel/arena/internal/domain/session"
	"github.com/redflagduel/arena/internal/domain/verdict"
	"github.com/redflagduel/arena/pkg/logger"
	"github.com/redflagduel/arena/pkg/metrics"
)

const (
	defaultFeedLimit        = 20
	defaultLeaderboardLimit = 20
)

// Service coordinates sessions, duel selection, vote application, and the
// community verdict feed. All rating writes go through the store's atomic
// boundary; the service itself keeps no mutable game state.
type Service struct {
	log      logger.Logger
	store    repository.Store
	sessions sessionstore.Store
	judge    verdict.Judge
	selector *duel.Selector
	provider *duel.ConfigProvider

	queue     *queue.InMemoryQueue
	pool      *worker.Pool
	queueSize int
	workers   int

	maxLeaderboardLimit int
	maxFeedLimit        int

	started bool
}

// New creates a Service. Unset dependencies default to in-memory
// implementations on Start, so tests and local runs need no options at all.
func New(opts ...Option) *Service {
	s := &Service{
		maxLeaderboardLimit: 100,
		maxFeedLimit:        100,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Get().Named("app")
	}
	return s
}

// Start fills in defaulted dependencies and launches the journal pipeline.
func (s *Service) Start(ctx context.Context) error {
	if s.started {
		return nil
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	if s.sessions == nil {
		s.sessions = sessionstore.NewMemorySessions()
	}
	if s.judge == nil {
		s.judge = verdict.NewHeuristicJudge()
	}
	if s.selector == nil {
		s.selector = duel.NewSelector()
	}
	if s.provider == nil {
		s.provider = duel.NewConfigProvider()
	}

	var qOpts []queue.Option
	if s.queueSize > 0 {
		qOpts = append(qOpts, queue.WithCapacity(s.queueSize))
	}
	s.queue = queue.NewInMemoryQueue(qOpts...)

	pOpts := []worker.Option{worker.WithLogger(s.log.Named("journal"))}
	if s.workers > 0 {
		pOpts = append(pOpts, worker.WithWorkerCount(s.workers))
	}
	s.pool = worker.NewPool(s.queue, s.store, pOpts...)
	s.pool.Start(ctx)

	s.started = true
	s.log.Info(ctx, "service started")
	return nil
}

// Stop closes the journal queue and waits for workers to drain it.
func (s *Service) Stop(ctx context.Context) error {
	if !s.started {
		return nil
	}
	if err := s.queue.Close(); err != nil {
		return fmt.Errorf("failed to close journal queue: %w", err)
	}
	s.pool.Stop()
	s.started = false
	s.log.Info(ctx, "service stopped")
	return nil
}

// CreateSession opens a ledger for a declared voter profile.
func (s *Service) CreateSession(ctx context.Context, profile element.Profile) (*session.Ledger, error) {
	if !profile.IsValid() {
		return nil, sessionstore.ErrInvalidProfile
	}
	l, err := s.sessions.Create(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	s.refreshSessionGauge(ctx)
	s.log.Debug(ctx, "session created", logger.String("session_id", l.ID))
	return l, nil
}

// GetSession returns the current ledger state.
func (s *Service) GetSession(ctx context.Context, id string) (*session.Ledger, error) {
	return s.sessions.Get(ctx, id)
}

// ResetSession clears the ledger's counters while keeping its identity and
// profile, used when the voter restarts the game.
func (s *Service) ResetSession(ctx context.Context, id string) (*session.Ledger, error) {
	l, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	l.Reset()
	if err := s.sessions.Save(ctx, l); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return l, nil
}

// DeleteSession drops the session entirely.
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	if err := s.sessions.Delete(ctx, id); err != nil {
		return err
	}
	s.refreshSessionGauge(ctx)
	return nil
}

// SideView is one element as shown to the voter, with its displayed win
// chance against the opposite side.
type SideView struct {
	ID        string           `json:"id"`
	Label     string           `json:"label"`
	Category  element.Category `json:"category"`
	Score     int              `json:"score"`
	WinChance int              `json:"win_chance"`
}

// DuelView is the next duel for a session, or the exhaustion signal when
// every reachable pair has been shown.
type DuelView struct {
	SessionID string        `json:"session_id"`
	A         SideView      `json:"a"`
	B         SideView      `json:"b"`
	Strategy  duel.Strategy `json:"strategy"`

	DuelCount     int  `json:"duel_count"`
	TotalPossible int  `json:"total_possible"`
	Exhausted     bool `json:"exhausted"`
}

// NextDuel selects the next pair for a session, optionally narrowed to one
// category. Exhaustion is reported in the view, not as an error. The ledger
// is not mutated; only a recorded vote advances it.
func (s *Service) NextDuel(ctx context.Context, sessionID string, category element.Category) (DuelView, error) {
	if category != "" && !category.IsValid() {
		return DuelView{}, fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}
	l, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return DuelView{}, err
	}

	pool, err := s.store.ListElements(ctx, true, category)
	if err != nil {
		return DuelView{}, fmt.Errorf("failed to load element pool: %w", err)
	}
	if category == "" {
		metrics.UpdateActiveElements(len(pool))
	}

	cfg := s.provider.Get()
	starred, err := s.store.ListStarredPairs(ctx, cfg.StarredMinStars)
	if err != nil {
		return DuelView{}, fmt.Errorf("failed to load starred pairs: %w", err)
	}

	sc := duel.Context{
		SeenPairs:   l.SeenSet(),
		Appearances: l.Appearances,
		RecentIDs:   l.RecentIDs,
	}

	start := time.Now()
	pair, ok := s.selector.SelectPair(pool, sc, starred, cfg)
	metrics.RecordSelectionLatency(float64(time.Since(start).Microseconds()) / 1000.0)

	view := DuelView{
		SessionID:     sessionID,
		DuelCount:     l.DuelCount,
		TotalPossible: duel.TotalPossibleDuels(len(pool)),
	}
	if !ok {
		metrics.RecordDuelExhaustion()
		s.log.Debug(ctx, "session exhausted",
			logger.String("session_id", sessionID),
			logger.Int("pool_size", len(pool)),
		)
		view.Exhausted = true
		return view, nil
	}

	metrics.RecordDuelServed(string(pair.Strategy))
	if pair.Fallback {
		metrics.RecordDuelFallback()
	}

	chanceA := elo.EstimateWinPercentage(pair.A.Global.Score, pair.B.Global.Score)
	view.Strategy = pair.Strategy
	view.A = SideView{
		ID:        pair.A.ID,
		Label:     pair.A.Label,
		Category:  pair.A.Category,
		Score:     pair.A.Global.Score,
		WinChance: chanceA,
	}
	view.B = SideView{
		ID:        pair.B.ID,
		Label:     pair.B.Label,
		Category:  pair.B.Category,
		Score:     pair.B.Global.Score,
		WinChance: 100 - chanceA,
	}
	return view, nil
}

// VoteOutcome summarizes what a recorded vote did to both ratings and to
// the voter's streak.
type VoteOutcome struct {
	WinnerID     string `json:"winner_id"`
	LoserID      string `json:"loser_id"`
	KFactor      int    `json:"k_factor"`
	WinnerBefore int    `json:"winner_before"`
	WinnerAfter  int    `json:"winner_after"`
	LoserBefore  int    `json:"loser_before"`
	LoserAfter   int    `json:"loser_after"`

	MatchedMajority bool `json:"matched_majority"`
	Streak          int  `json:"streak"`
	DuelCount       int  `json:"duel_count"`
}

// RecordVote applies one duel outcome: global and segment rating tracks
// move inside the store's atomic boundary, the session ledger advances, and
// an audit record enters the journal queue.
func (s *Service) RecordVote(ctx context.Context, sessionID, winnerID, loserID string) (VoteOutcome, error) {
	if winnerID == loserID {
		return VoteOutcome{}, ErrSameElement
	}
	l, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return VoteOutcome{}, err
	}

	cfg := s.provider.Get()
	profile := l.Profile
	var rec model.VoteRecord

	_, _, err = s.store.ApplyVote(ctx, winnerID, loserID, func(w, lo *element.Element) error {
		if !w.Active || !lo.Active {
			return repository.ErrInactive
		}
		now := time.Now().UTC()

		k := elo.DuelKFactor(w.Global.Participations, lo.Global.Participations, cfg.KFactorTiers, cfg.BaseKFactor)
		matched := elo.MatchedMajority(w.Global.Score, lo.Global.Score)
		rec = model.VoteRecord{
			ID:              uuid.NewString(),
			SessionID:       sessionID,
			Profile:         profile,
			WinnerID:        w.ID,
			LoserID:         lo.ID,
			KFactor:         k,
			WinnerBefore:    w.Global.Score,
			LoserBefore:     lo.Global.Score,
			MatchedMajority: matched,
			CreatedAt:       now,
		}

		w.Global, lo.Global = advanceTracks(w.Global, lo.Global, cfg)
		rec.WinnerAfter = w.Global.Score
		rec.LoserAfter = lo.Global.Score

		// Segment tracks move independently, each under its own K tier.
		if profile.Sex.IsValid() {
			ws, ls := advanceTracks(w.SexTrack(profile.Sex), lo.SexTrack(profile.Sex), cfg)
			setSexTrack(w, profile.Sex, ws)
			setSexTrack(lo, profile.Sex, ls)
		}
		if profile.Age.IsValid() {
			wa, la := advanceTracks(w.AgeTrack(profile.Age), lo.AgeTrack(profile.Age), cfg)
			setAgeTrack(w, profile.Age, wa)
			setAgeTrack(lo, profile.Age, la)
		}

		w.UpdatedAt = now
		lo.UpdatedAt = now
		return nil
	})
	if err != nil {
		return VoteOutcome{}, err
	}

	l.RecordVote(winnerID, loserID, rec.MatchedMajority)
	if err := s.sessions.Save(ctx, l); err != nil {
		return VoteOutcome{}, fmt.Errorf("failed to save session: %w", err)
	}

	if !s.queue.Enqueue(ctx, rec) {
		s.log.Warn(ctx, "journal queue full, vote record dropped",
			logger.String("vote_id", rec.ID),
		)
	}
	metrics.RecordVote(rec.MatchedMajority)

	return VoteOutcome{
		WinnerID:        rec.WinnerID,
		LoserID:         rec.LoserID,
		KFactor:         rec.KFactor,
		WinnerBefore:    rec.WinnerBefore,
		WinnerAfter:     rec.WinnerAfter,
		LoserBefore:     rec.LoserBefore,
		LoserAfter:      rec.LoserAfter,
		MatchedMajority: rec.MatchedMajority,
		Streak:          l.Streak,
		DuelCount:       l.DuelCount,
	}, nil
}

// advanceTracks applies one duel result to a winner/loser track pair. The K
// factor is the more conservative of the two sides' tiers, judged on the
// tracks' own participation counts.
func advanceTracks(w, l element.Track, cfg duel.Config) (element.Track, element.Track) {
	k := elo.DuelKFactor(w.Participations, l.Participations, cfg.KFactorTiers, cfg.BaseKFactor)
	res := elo.CalculateNewRatings(w.Score, l.Score, k)
	return element.Track{Score: res.Winner, Participations: w.Participations + 1},
		element.Track{Score: res.Loser, Participations: l.Participations + 1}
}

func setSexTrack(e *element.Element, sex element.Sex, t element.Track) {
	if e.BySex == nil {
		e.BySex = make(map[element.Sex]element.Track, 3)
	}
	e.BySex[sex] = t
}

func setAgeTrack(e *element.Element, age element.AgeBracket, t element.Track) {
	if e.ByAge == nil {
		e.ByAge = make(map[element.AgeBracket]element.Track, 4)
	}
	e.ByAge[age] = t
}

// StarPair adds one community star to an unordered pair and returns the new
// count. Both elements must exist.
func (s *Service) StarPair(ctx context.Context, aID, bID string) (int, error) {
	if aID == bID {
		return 0, ErrSameElement
	}
	if _, err := s.store.GetElement(ctx, aID); err != nil {
		return 0, err
	}
	if _, err := s.store.GetElement(ctx, bID); err != nil {
		return 0, err
	}
	stars, err := s.store.StarPair(ctx, element.NewPairKey(aID, bID))
	if err != nil {
		return 0, fmt.Errorf("failed to star pair: %w", err)
	}
	metrics.RecordPairStar()
	return stars, nil
}

// SubmitVerdict runs a free-text statement through the judge and stores the
// judged entry for the community feed.
func (s *Service) SubmitVerdict(ctx context.Context, text string) (verdict.Submission, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return verdict.Submission{}, ErrEmptyText
	}

	color, reason, err := s.judge.Judge(ctx, text)
	if err != nil {
		return verdict.Submission{}, fmt.Errorf("failed to judge submission: %w", err)
	}

	sub := verdict.Submission{
		ID:        uuid.NewString(),
		Text:      text,
		Color:     color,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.AddSubmission(ctx, sub); err != nil {
		return verdict.Submission{}, fmt.Errorf("failed to store submission: %w", err)
	}
	metrics.RecordVerdict(string(color))
	return sub, nil
}

// VerdictFeed returns the most recent judged submissions, newest first.
func (s *Service) VerdictFeed(ctx context.Context, limit int) ([]verdict.Submission, error) {
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	if limit > s.maxFeedLimit {
		limit = s.maxFeedLimit
	}
	return s.store.ListSubmissions(ctx, limit)
}

// Standing is one leaderboard row on the requested rating track.
type Standing struct {
	Rank           int              `json:"rank"`
	ID             string           `json:"id"`
	Label          string           `json:"label"`
	Category       element.Category `json:"category"`
	Score          int              `json:"score"`
	Participations int              `json:"participations"`
}

// Leaderboard ranks active elements on one rating track: global by default,
// or a single sex or age segment. Category narrows the pool first.
func (s *Service) Leaderboard(ctx context.Context, limit int, category element.Category, sex element.Sex, age element.AgeBracket) ([]Standing, error) {
	if category != "" && !category.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}
	if sex != "" && !sex.IsValid() {
		return nil, fmt.Errorf("%w: sex %q", ErrInvalidSegment, sex)
	}
	if age != "" && !age.IsValid() {
		return nil, fmt.Errorf("%w: age %q", ErrInvalidSegment, age)
	}
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	if limit > s.maxLeaderboardLimit {
		limit = s.maxLeaderboardLimit
	}

	els, err := s.store.ListElements(ctx, true, category)
	if err != nil {
		return nil, fmt.Errorf("failed to load elements: %w", err)
	}

	trackOf := func(e *element.Element) element.Track {
		switch {
		case sex != "":
			return e.SexTrack(sex)
		case age != "":
			return e.AgeTrack(age)
		default:
			return e.Global
		}
	}

	standings := make([]Standing, 0, len(els))
	for i := range els {
		t := trackOf(&els[i])
		standings = append(standings, Standing{
			ID:             els[i].ID,
			Label:          els[i].Label,
			Category:       els[i].Category,
			Score:          t.Score,
			Participations: t.Participations,
		})
	}
	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].Score != standings[j].Score {
			return standings[i].Score > standings[j].Score
		}
		return standings[i].ID < standings[j].ID
	})
	if len(standings) > limit {
		standings = standings[:limit]
	}
	for i := range standings {
		standings[i].Rank = i + 1
	}
	return standings, nil
}

// CreateElement registers a new statement, active and at the default rating
// on every track.
func (s *Service) CreateElement(ctx context.Context, label string, category element.Category) (element.Element, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return element.Element{}, ErrEmptyLabel
	}
	if !category.IsValid() {
		return element.Element{}, fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}

	e := element.New(uuid.NewString(), label, category)
	if err := s.store.CreateElement(ctx, e); err != nil {
		return element.Element{}, fmt.Errorf("failed to create element: %w", err)
	}
	s.log.Info(ctx, "element created",
		logger.String("element_id", e.ID),
		logger.String("category", string(category)),
	)
	return e, nil
}

// ListElements returns elements, optionally including deactivated ones and
// optionally narrowed to one category.
func (s *Service) ListElements(ctx context.Context, includeInactive bool, category element.Category) ([]element.Element, error) {
	if category != "" && !category.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}
	return s.store.ListElements(ctx, !includeInactive, category)
}

// DeactivateElement retires an element from future duels. Its rating
// history stays intact.
func (s *Service) DeactivateElement(ctx context.Context, id string) error {
	if err := s.store.DeactivateElement(ctx, id); err != nil {
		return err
	}
	s.log.Info(ctx, "element deactivated", logger.String("element_id", id))
	return nil
}

// GetConfig returns a snapshot of the live engine config.
func (s *Service) GetConfig() duel.Config {
	return s.provider.Get()
}

// UpdateConfig installs a full replacement engine config. On validation
// failure the live config is untouched.
func (s *Service) UpdateConfig(ctx context.Context, cfg duel.Config) error {
	if err := s.provider.Set(cfg); err != nil {
		metrics.RecordConfigRejection()
		return err
	}
	s.log.Info(ctx, "engine config updated")
	return nil
}

// ResetConfig reverts the engine config to the hardcoded defaults.
func (s *Service) ResetConfig(ctx context.Context) duel.Config {
	s.provider.Reset()
	s.log.Info(ctx, "engine config reset")
	return s.provider.Get()
}

// Stats is a point-in-time operational snapshot.
type Stats struct {
	ActiveElements     int `json:"active_elements"`
	TotalElements      int `json:"total_elements"`
	TotalPossibleDuels int `json:"total_possible_duels"`
	LiveSessions       int `json:"live_sessions"`
	JournalBacklog     int `json:"journal_backlog"`
}

// Stats reports pool and session counts for the stats endpoint.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	active, err := s.store.ListElements(ctx, true, "")
	if err != nil {
		return Stats{}, fmt.Errorf("failed to load elements: %w", err)
	}
	all, err := s.store.ListElements(ctx, false, "")
	if err != nil {
		return Stats{}, fmt.Errorf("failed to load elements: %w", err)
	}
	liveSessions, err := s.sessions.Count(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to count sessions: %w", err)
	}
	metrics.UpdateActiveElements(len(active))
	metrics.UpdateLiveSessions(liveSessions)

	return Stats{
		ActiveElements:     len(active),
		TotalElements:      len(all),
		TotalPossibleDuels: duel.TotalPossibleDuels(len(active)),
		LiveSessions:       liveSessions,
		JournalBacklog:     s.queue.Len(ctx),
	}, nil
}

func (s *Service) refreshSessionGauge(ctx context.Context) {
	n, err := s.sessions.Count(ctx)
	if err != nil {
		return
	}
	metrics.UpdateLiveSessions(n)
}
