package ai

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sync"
	"time"
)

// TickManager drives physics steppers and AI controllers from one goroutine.
//
// Controllers are ticked in registration order so a run is reproducible for a
// given seed. Register/Unregister may be called from inside a Tick (spawns and
// despawns): the frame works on a snapshot taken before ticking.
type TickManager struct {
	mu          sync.Mutex
	controllers map[uint32]Controller
	order       []uint32
	steppers    []Stepper
	timeScale   float64
	interval    time.Duration
	stopCh      chan struct{}
	stopOnce    sync.Once
}

// NewTickManager creates new AI tick manager with the given frame interval.
func NewTickManager(interval time.Duration) *TickManager {
	return &TickManager{
		controllers: make(map[uint32]Controller),
		timeScale:   1,
		interval:    interval,
		stopCh:      make(chan struct{}),
	}
}

// AddStepper adds a stepper advanced before controllers on every frame.
func (m *TickManager) AddStepper(s Stepper) {
	m.mu.Lock()
	m.steppers = append(m.steppers, s)
	m.mu.Unlock()
}

// Register registers AI controller and starts it.
// Re-registering an id replaces and stops the previous controller.
func (m *TickManager) Register(objectID uint32, controller Controller) {
	m.mu.Lock()
	prev, existed := m.controllers[objectID]
	m.controllers[objectID] = controller
	if !existed {
		m.order = append(m.order, objectID)
	}
	m.mu.Unlock()

	if existed {
		prev.Stop()
	}
	controller.Start()

	if IsDebugEnabled() {
		slog.Debug("AI controller registered", "objectID", objectID)
	}
}

// Unregister unregisters AI controller and stops it.
func (m *TickManager) Unregister(objectID uint32) {
	m.mu.Lock()
	controller, ok := m.controllers[objectID]
	if ok {
		delete(m.controllers, objectID)
		if i := slices.Index(m.order, objectID); i >= 0 {
			m.order = slices.Delete(m.order, i, i+1)
		}
	}
	m.mu.Unlock()

	if !ok {
		return
	}
	controller.Stop()

	if IsDebugEnabled() {
		slog.Debug("AI controller unregistered", "objectID", objectID)
	}
}

// SetTimeScale scales game time (slow motion). Values <= 0 pause the game.
func (m *TickManager) SetTimeScale(scale float64) {
	m.mu.Lock()
	m.timeScale = math.Max(scale, 0)
	m.mu.Unlock()
}

// TimeScale returns the current time scale.
func (m *TickManager) TimeScale() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.timeScale
}

// Start starts the tick loop (blocks until context is canceled or Stop is called).
func (m *TickManager) Start(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	slog.Info("AI tick manager started", "interval", m.interval)

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			slog.Info("AI tick manager stopping")
			return ctx.Err()

		case <-m.stopCh:
			slog.Info("AI tick manager stopped")
			return nil

		case now := <-ticker.C:
			m.TickAll(now.Sub(last))
			last = now
		}
	}
}

// Stop stops the tick loop. Safe to call more than once.
func (m *TickManager) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// TickAll advances one frame of real time dt, scaled by the time scale.
func (m *TickManager) TickAll(dt time.Duration) {
	m.mu.Lock()
	scaled := time.Duration(float64(dt) * m.timeScale)
	steppers := slices.Clone(m.steppers)
	controllers := make([]Controller, 0, len(m.order))
	for _, id := range m.order {
		controllers = append(controllers, m.controllers[id])
	}
	m.mu.Unlock()

	if scaled <= 0 {
		return
	}

	for _, s := range steppers {
		s.Step(scaled)
	}
	for _, c := range controllers {
		c.Tick(scaled)
	}
}

// Count returns number of registered controllers.
func (m *TickManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.controllers)
}

// GetController returns controller registered for objectID.
func (m *TickManager) GetController(objectID uint32) (Controller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.controllers[objectID]
	if !ok {
		return nil, fmt.Errorf("controller not found for objectID %d", objectID)
	}
	return c, nil
}
