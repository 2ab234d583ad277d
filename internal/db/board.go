package db

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"
)

// Board is an in-memory ScoreStore used when the database is disabled.
type Board struct {
	mu     sync.Mutex
	nextID int64
	scores []Score
	now    func() time.Time
}

// NewBoard creates an empty board.
func NewBoard() *Board {
	return &Board{now: time.Now}
}

// Save records s.
func (b *Board) Save(_ context.Context, s Score) (Score, error) {
	if err := s.Validate(); err != nil {
		return Score{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	s.ID = b.nextID
	s.Remaining = s.Remaining.Truncate(time.Millisecond)
	s.RecordedAt = b.now()
	b.scores = append(b.scores, s)
	return s, nil
}

// Best returns up to limit scores in the same order as ScoreRepository.Best.
func (b *Board) Best(_ context.Context, limit int) ([]Score, error) {
	if limit <= 0 {
		return nil, nil
	}

	b.mu.Lock()
	sorted := slices.Clone(b.scores)
	b.mu.Unlock()

	slices.SortStableFunc(sorted, func(x, y Score) int {
		if c := cmp.Compare(y.Remaining, x.Remaining); c != 0 {
			return c
		}
		return cmp.Compare(x.ID, y.ID)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted, nil
}

// IsHighScore reports whether remaining would enter the high score table.
func (b *Board) IsHighScore(ctx context.Context, remaining time.Duration) (bool, error) {
	best, err := b.Best(ctx, HighScoreTableSize)
	if err != nil {
		return false, err
	}
	return qualifies(best, remaining), nil
}
