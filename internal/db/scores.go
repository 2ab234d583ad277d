package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// HighScoreTableSize is how many scores count as high scores.
const HighScoreTableSize = 10

// ErrInvalidScore is returned for scores that cannot be stored.
var ErrInvalidScore = errors.New("invalid score")

// Score is one won game: the time left on the final round clock.
type Score struct {
	ID         int64
	Remaining  time.Duration
	Rounds     int
	RecordedAt time.Time
}

// Validate checks that the score can be stored.
func (s Score) Validate() error {
	if s.Remaining < 0 {
		return fmt.Errorf("%w: negative remaining time %s", ErrInvalidScore, s.Remaining)
	}
	if s.Rounds <= 0 {
		return fmt.Errorf("%w: rounds must be positive, got %d", ErrInvalidScore, s.Rounds)
	}
	return nil
}

// ScoreStore is implemented by ScoreRepository and Board.
type ScoreStore interface {
	Save(ctx context.Context, s Score) (Score, error)
	Best(ctx context.Context, limit int) ([]Score, error)
	IsHighScore(ctx context.Context, remaining time.Duration) (bool, error)
}

var (
	_ ScoreStore = (*ScoreRepository)(nil)
	_ ScoreStore = (*Board)(nil)
)

// ScoreRepository stores scores in PostgreSQL.
type ScoreRepository struct {
	pool *pgxpool.Pool
}

// NewScoreRepository creates a new score repository.
func NewScoreRepository(pool *pgxpool.Pool) *ScoreRepository {
	return &ScoreRepository{pool: pool}
}

// Save inserts s and returns it with ID and RecordedAt filled.
func (r *ScoreRepository) Save(ctx context.Context, s Score) (Score, error) {
	if err := s.Validate(); err != nil {
		return Score{}, err
	}

	err := r.pool.QueryRow(ctx,
		`INSERT INTO scores (remaining_ms, rounds) VALUES ($1, $2)
		 RETURNING id, recorded_at`,
		s.Remaining.Milliseconds(), s.Rounds,
	).Scan(&s.ID, &s.RecordedAt)
	if err != nil {
		return Score{}, fmt.Errorf("saving score: %w", err)
	}
	return s, nil
}

// Best returns up to limit scores, most time left first; ties go to the earlier game.
func (r *ScoreRepository) Best(ctx context.Context, limit int) ([]Score, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, remaining_ms, rounds, recorded_at
		 FROM scores
		 ORDER BY remaining_ms DESC, recorded_at ASC, id ASC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("loading best scores: %w", err)
	}
	defer rows.Close()

	scores := make([]Score, 0, limit)
	for rows.Next() {
		var (
			s  Score
			ms int64
		)
		if err := rows.Scan(&s.ID, &ms, &s.Rounds, &s.RecordedAt); err != nil {
			return nil, fmt.Errorf("scanning score row: %w", err)
		}
		s.Remaining = time.Duration(ms) * time.Millisecond
		scores = append(scores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating score rows: %w", err)
	}
	return scores, nil
}

// IsHighScore reports whether remaining would enter the high score table.
func (r *ScoreRepository) IsHighScore(ctx context.Context, remaining time.Duration) (bool, error) {
	best, err := r.Best(ctx, HighScoreTableSize)
	if err != nil {
		return false, err
	}
	return qualifies(best, remaining), nil
}

// qualifies reports whether remaining beats the table's last entry or the
// table still has room. best is sorted best first.
func qualifies(best []Score, remaining time.Duration) bool {
	if len(best) < HighScoreTableSize {
		return true
	}
	return remaining > best[len(best)-1].Remaining
}
