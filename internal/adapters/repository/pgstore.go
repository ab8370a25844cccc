package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/redflagduel/arena/internal/domain/duel"
	"github.com/redflagduel/arena/internal/domain/element"
	"github.com/redflagduel/arena/internal/domain/model"
	"github.com/redflagduel/arena/internal/domain/verdict"
)

// schema is applied on startup; every statement is idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS elements (
	id                    TEXT PRIMARY KEY,
	label                 TEXT NOT NULL,
	category              TEXT NOT NULL,
	active                BOOLEAN NOT NULL DEFAULT TRUE,
	global_score          INTEGER NOT NULL,
	global_participations INTEGER NOT NULL,
	by_sex                JSONB NOT NULL,
	by_age                JSONB NOT NULL,
	created_at            TIMESTAMPTZ NOT NULL,
	updated_at            TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_elements_active_category ON elements (active, category);

CREATE TABLE IF NOT EXISTS votes (
	id               TEXT PRIMARY KEY,
	session_id       TEXT NOT NULL,
	voter_sex        TEXT NOT NULL,
	voter_age        TEXT NOT NULL,
	winner_id        TEXT NOT NULL,
	loser_id         TEXT NOT NULL,
	k_factor         INTEGER NOT NULL,
	winner_before    INTEGER NOT NULL,
	winner_after     INTEGER NOT NULL,
	loser_before     INTEGER NOT NULL,
	loser_after      INTEGER NOT NULL,
	matched_majority BOOLEAN NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_votes_created_at ON votes (created_at);

CREATE TABLE IF NOT EXISTS starred_pairs (
	pair_key TEXT PRIMARY KEY,
	stars    INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS verdict_submissions (
	id         TEXT PRIMARY KEY,
	body       TEXT NOT NULL,
	color      TEXT NOT NULL,
	reason     TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_verdict_submissions_created_at ON verdict_submissions (created_at);
`

// PostgresStore implements Store on a pgx connection pool. ApplyVote runs
// inside a transaction with row locks, which is the atomic boundary the
// rating core's contract requires.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects, applies the schema, and returns the store.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

func marshalTracks(e element.Element) (bySex, byAge []byte, err error) {
	bySex, err = json.Marshal(e.BySex)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal sex tracks: %w", err)
	}
	byAge, err = json.Marshal(e.ByAge)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal age tracks: %w", err)
	}
	return bySex, byAge, nil
}

func scanElement(row pgx.Row) (element.Element, error) {
	var (
		e            element.Element
		bySex, byAge []byte
	)
	err := row.Scan(
		&e.ID, &e.Label, &e.Category, &e.Active,
		&e.Global.Score, &e.Global.Participations,
		&bySex, &byAge, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return element.Element{}, ErrNotFound
		}
		return element.Element{}, fmt.Errorf("scan element: %w", err)
	}
	if err := json.Unmarshal(bySex, &e.BySex); err != nil {
		return element.Element{}, fmt.Errorf("unmarshal sex tracks: %w", err)
	}
	if err := json.Unmarshal(byAge, &e.ByAge); err != nil {
		return element.Element{}, fmt.Errorf("unmarshal age tracks: %w", err)
	}
	return e, nil
}

const elementColumns = `id, label, category, active, global_score, global_participations, by_sex, by_age, created_at, updated_at`

// CreateElement inserts a new element.
func (s *PostgresStore) CreateElement(ctx context.Context, e element.Element) error {
	bySex, byAge, err := marshalTracks(e)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO elements (`+elementColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING`,
		e.ID, e.Label, e.Category, e.Active,
		e.Global.Score, e.Global.Participations,
		bySex, byAge, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert element: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, e.ID)
	}
	return nil
}

// GetElement returns one element by id.
func (s *PostgresStore) GetElement(ctx context.Context, id string) (element.Element, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+elementColumns+` FROM elements WHERE id = $1`, id)
	return scanElement(row)
}

// ListElements returns matching elements sorted by descending global score.
func (s *PostgresStore) ListElements(ctx context.Context, onlyActive bool, category element.Category) ([]element.Element, error) {
	query := `SELECT ` + elementColumns + ` FROM elements WHERE ($1 = false OR active) AND ($2 = '' OR category = $2)
		ORDER BY global_score DESC, id ASC`
	rows, err := s.pool.Query(ctx, query, onlyActive, string(category))
	if err != nil {
		return nil, fmt.Errorf("list elements: %w", err)
	}
	defer rows.Close()

	var out []element.Element
	for rows.Next() {
		e, err := scanElement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list elements: %w", err)
	}
	return out, nil
}

// DeactivateElement soft-deletes an element.
func (s *PostgresStore) DeactivateElement(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE elements SET active = false, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate element: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// ApplyVote locks both rows, runs mutate, and writes both sides in one
// transaction. Rows are locked in key order to avoid deadlocks between
// concurrent votes on the same pair.
func (s *PostgresStore) ApplyVote(ctx context.Context, winnerID, loserID string, mutate MutateFunc) (element.Element, element.Element, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return element.Element{}, element.Element{}, fmt.Errorf("begin vote tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	lockOrder := []string{winnerID, loserID}
	if lockOrder[1] < lockOrder[0] {
		lockOrder[0], lockOrder[1] = lockOrder[1], lockOrder[0]
	}
	locked := make(map[string]element.Element, 2)
	for _, id := range lockOrder {
		row := tx.QueryRow(ctx, `SELECT `+elementColumns+` FROM elements WHERE id = $1 FOR UPDATE`, id)
		e, err := scanElement(row)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return element.Element{}, element.Element{}, fmt.Errorf("%w: %s", ErrNotFound, id)
			}
			return element.Element{}, element.Element{}, err
		}
		locked[id] = e
	}

	winner := locked[winnerID]
	loser := locked[loserID]
	if !winner.Active || !loser.Active {
		return element.Element{}, element.Element{}, ErrInactive
	}
	if err := mutate(&winner, &loser); err != nil {
		return element.Element{}, element.Element{}, err
	}

	for _, e := range []element.Element{winner, loser} {
		bySex, byAge, err := marshalTracks(e)
		if err != nil {
			return element.Element{}, element.Element{}, err
		}
		if _, err := tx.Exec(ctx, `
			UPDATE elements
			SET global_score = $2, global_participations = $3, by_sex = $4, by_age = $5, updated_at = $6
			WHERE id = $1`,
			e.ID, e.Global.Score, e.Global.Participations, bySex, byAge, e.UpdatedAt,
		); err != nil {
			return element.Element{}, element.Element{}, fmt.Errorf("update element %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return element.Element{}, element.Element{}, fmt.Errorf("commit vote tx: %w", err)
	}
	return winner, loser, nil
}

// AppendVote journals a vote record.
func (s *PostgresStore) AppendVote(ctx context.Context, rec model.VoteRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO votes (
			id, session_id, voter_sex, voter_age, winner_id, loser_id,
			k_factor, winner_before, winner_after, loser_before, loser_after,
			matched_majority, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		rec.ID, rec.SessionID, rec.Profile.Sex, rec.Profile.Age,
		rec.WinnerID, rec.LoserID, rec.KFactor,
		rec.WinnerBefore, rec.WinnerAfter, rec.LoserBefore, rec.LoserAfter,
		rec.MatchedMajority, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert vote: %w", err)
	}
	return nil
}

// StarPair increments a pair's star count.
func (s *PostgresStore) StarPair(ctx context.Context, key element.PairKey) (int, error) {
	var stars int
	err := s.pool.QueryRow(ctx, `
		INSERT INTO starred_pairs (pair_key, stars) VALUES ($1, 1)
		ON CONFLICT (pair_key) DO UPDATE SET stars = starred_pairs.stars + 1
		RETURNING stars`, string(key),
	).Scan(&stars)
	if err != nil {
		return 0, fmt.Errorf("star pair: %w", err)
	}
	return stars, nil
}

// ListStarredPairs returns pairs at or above minStars, most starred first.
func (s *PostgresStore) ListStarredPairs(ctx context.Context, minStars int) ([]duel.StarredPair, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT pair_key, stars FROM starred_pairs
		WHERE stars >= $1 ORDER BY stars DESC, pair_key ASC`, minStars)
	if err != nil {
		return nil, fmt.Errorf("list starred pairs: %w", err)
	}
	defer rows.Close()

	var out []duel.StarredPair
	for rows.Next() {
		var (
			key   string
			stars int
		)
		if err := rows.Scan(&key, &stars); err != nil {
			return nil, fmt.Errorf("scan starred pair: %w", err)
		}
		out = append(out, duel.StarredPair{Key: element.PairKey(key), Stars: stars})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list starred pairs: %w", err)
	}
	return out, nil
}

// AddSubmission stores a judged flag-or-not entry.
func (s *PostgresStore) AddSubmission(ctx context.Context, sub verdict.Submission) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO verdict_submissions (id, body, color, reason, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		sub.ID, sub.Text, sub.Color, sub.Reason, sub.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

// ListSubmissions returns the newest judged entries first.
func (s *PostgresStore) ListSubmissions(ctx context.Context, limit int) ([]verdict.Submission, error) {
	if limit <= 0 {
		limit = defaultSubmissionCap
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, body, color, reason, created_at FROM verdict_submissions
		ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var out []verdict.Submission
	for rows.Next() {
		var sub verdict.Submission
		if err := rows.Scan(&sub.ID, &sub.Text, &sub.Color, &sub.Reason, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return out, nil
}
