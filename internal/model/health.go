package model

import "math"

// HealthHooks are invoked by Health.Set.
// OnHit fires when the clamped value stays above zero, before subscribers are notified.
// OnDepleted fires every time the clamped value is zero; the owner guards repeated death.
type HealthHooks struct {
	OnHit      func()
	OnDepleted func()
}

// Health owns a hit-point value clamped to [0, max].
// Max is fixed at spawn. All mutation goes through Set/Heal.
//
// Health is not safe for concurrent use: it belongs to one actor and is only touched
// from the tick goroutine that drives that actor.
type Health struct {
	current     float64
	max         float64
	hooks       HealthHooks
	subscribers []func(current, max float64)
}

// NewHealth creates Health with current = max.
func NewHealth(max float64, hooks HealthHooks) *Health {
	if max < 0 || math.IsNaN(max) {
		max = 0
	}
	return &Health{current: max, max: max, hooks: hooks}
}

// Current returns the current hit points.
func (h *Health) Current() float64 {
	return h.current
}

// Max returns the maximum hit points.
func (h *Health) Max() float64 {
	return h.max
}

// IsDepleted reports whether hit points reached zero.
func (h *Health) IsDepleted() bool {
	return h.current <= 0
}

// Subscribe registers a (current, max) change listener, e.g. a health bar.
func (h *Health) Subscribe(fn func(current, max float64)) {
	if fn == nil {
		return
	}
	h.subscribers = append(h.subscribers, fn)
}

// Set clamps v to [0, max] and stores it.
// Positive result: OnHit, then every subscriber. Zero result: OnDepleted.
// NaN is ignored and fires nothing.
func (h *Health) Set(v float64) {
	if math.IsNaN(v) {
		return
	}
	h.current = min(max(v, 0), h.max)

	if h.current > 0 {
		if h.hooks.OnHit != nil {
			h.hooks.OnHit()
		}
		for _, fn := range h.subscribers {
			fn(h.current, h.max)
		}
		return
	}

	if h.hooks.OnDepleted != nil {
		h.hooks.OnDepleted()
	}
}

// Heal adds amount to current hit points. Negative and NaN amounts are ignored.
func (h *Health) Heal(amount float64) {
	if amount < 0 || math.IsNaN(amount) {
		return
	}
	h.Set(h.current + amount)
}
