package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoard_Best(t *testing.T) {
	ctx := context.Background()
	b := NewBoard()

	for _, d := range []time.Duration{5 * time.Second, 30 * time.Second, 10 * time.Second, 30 * time.Second} {
		_, err := b.Save(ctx, Score{Remaining: d, Rounds: 3})
		require.NoError(t, err)
	}

	best, err := b.Best(ctx, 3)
	require.NoError(t, err)
	require.Len(t, best, 3)
	assert.Equal(t, int64(2), best[0].ID)
	assert.Equal(t, int64(4), best[1].ID)
	assert.Equal(t, 10*time.Second, best[2].Remaining)

	best, err = b.Best(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, best)
}

func TestBoard_Save(t *testing.T) {
	b := NewBoard()
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	b.now = func() time.Time { return at }

	s, err := b.Save(context.Background(), Score{Remaining: 1500*time.Millisecond + 700*time.Microsecond, Rounds: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(1), s.ID)
	assert.Equal(t, at, s.RecordedAt)
	assert.Equal(t, 1500*time.Millisecond, s.Remaining, "stored with database precision")

	_, err = b.Save(context.Background(), Score{Remaining: time.Second})
	assert.ErrorIs(t, err, ErrInvalidScore)
}

func TestBoard_IsHighScore(t *testing.T) {
	ctx := context.Background()
	b := NewBoard()

	for i := range HighScoreTableSize {
		_, err := b.Save(ctx, Score{Remaining: time.Duration(i+1) * time.Second, Rounds: 1})
		require.NoError(t, err)
	}

	tests := []struct {
		name      string
		remaining time.Duration
		want      bool
	}{
		{"below last", 500 * time.Millisecond, false},
		{"equal to last", time.Second, false},
		{"above last", 2 * time.Second, true},
		{"best ever", time.Hour, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := b.IsHighScore(ctx, tt.remaining)
			require.NoError(t, err)
			if got != tt.want {
				t.Errorf("IsHighScore(%s) = %v, want %v", tt.remaining, got, tt.want)
			}
		})
	}
}
