package testutil

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"
)

// ContextWithTimeout создаёт context с timeout и автоматически отменяет его при завершении теста.
func ContextWithTimeout(t testing.TB, duration time.Duration) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), duration)
	t.Cleanup(cancel)

	return ctx
}

// Rand returns a deterministic PCG source for tests that roll dice.
func Rand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Always returns a source whose Float64 is ~0, so rolls `rng.Float64() < p`
// succeed for any p > 0 and IntN always returns 0.
func Always() *rand.Rand {
	return rand.New(fixedSource(1))
}

// Never returns a source whose Float64 is ~1, so rolls against p < 1 fail
// and IntN(n) returns n-1.
func Never() *rand.Rand {
	return rand.New(fixedSource(^uint64(0)))
}

type fixedSource uint64

func (s fixedSource) Uint64() uint64 { return uint64(s) }
