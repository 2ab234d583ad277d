package db

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Writer persists scores off the tick goroutine.
// Submit never blocks; Run drains the queue into the store.
type Writer struct {
	store ScoreStore
	in    chan Score

	mu     sync.Mutex
	closed bool

	// OnSaved is called after each save with the stored score and whether it
	// entered the high score table. Optional, set before Run.
	OnSaved func(s Score, high bool)
}

// NewWriter creates a writer with a queue of buffer scores.
func NewWriter(store ScoreStore, buffer int) *Writer {
	return &Writer{
		store: store,
		in:    make(chan Score, max(buffer, 1)),
	}
}

// Submit queues s. Returns false when the queue is full or closed.
func (w *Writer) Submit(s Score) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return false
	}
	select {
	case w.in <- s:
		return true
	default:
		slog.Warn("score queue full, score dropped", "remaining", s.Remaining)
		return false
	}
}

// Close stops accepting scores; Run returns after draining the queue.
func (w *Writer) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.closed {
		w.closed = true
		close(w.in)
	}
}

// Run saves queued scores until Close or ctx is canceled.
func (w *Writer) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case s, ok := <-w.in:
			if !ok {
				return nil
			}
			if err := w.save(ctx, s); err != nil {
				return err
			}
		}
	}
}

func (w *Writer) save(ctx context.Context, s Score) error {
	high, err := w.store.IsHighScore(ctx, s.Remaining)
	if err != nil {
		return fmt.Errorf("checking high score: %w", err)
	}
	saved, err := w.store.Save(ctx, s)
	if err != nil {
		return fmt.Errorf("writing score: %w", err)
	}

	slog.Info("score saved",
		"id", saved.ID,
		"remaining", saved.Remaining,
		"rounds", saved.Rounds,
		"highScore", high)

	if w.OnSaved != nil {
		w.OnSaved(saved, high)
	}
	return nil
}
