package ai

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/udisondev/arena/internal/model"
	"github.com/udisondev/arena/internal/testutil"
)

func TestEnableDebugLogging(t *testing.T) {
	EnableDebugLogging(false)
	t.Cleanup(func() { EnableDebugLogging(false) })

	tests := []struct {
		name     string
		enabled  bool
		expected bool
	}{
		{"enable", true, true},
		{"disable", false, false},
		{"enable again", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			EnableDebugLogging(tt.enabled)
			if got := IsDebugEnabled(); got != tt.expected {
				t.Errorf("IsDebugEnabled() = %v, want %v", got, tt.expected)
			}
		})
	}
}

// benchmarkEnemyCombat runs chase, attack and damage cycles with the debug gate in the given mode.
func benchmarkEnemyCombat(b *testing.B, debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: level})))
	EnableDebugLogging(debug)
	b.Cleanup(func() { EnableDebugLogging(false) })

	h := newHarness(b, testutil.Rand(1))
	h.player.Loc = model.NewLocation(1, 0)

	b.ResetTimer()
	for range b.N {
		h.e.Tick(500 * time.Millisecond)
		h.e.TakeDamage(0)
	}
}

func BenchmarkEnemyTick_DebugDisabled(b *testing.B) { benchmarkEnemyCombat(b, false) }
func BenchmarkEnemyTick_DebugEnabled(b *testing.B)  { benchmarkEnemyCombat(b, true) }
