package spawn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/udisondev/arena/internal/ai"
	"github.com/udisondev/arena/internal/config"
	"github.com/udisondev/arena/internal/game/hero"
	"github.com/udisondev/arena/internal/model"
	"github.com/udisondev/arena/internal/physics"
	"github.com/udisondev/arena/internal/world"
)

// ErrUnknownArchetype is returned when the archetype store has no such name.
var ErrUnknownArchetype = errors.New("unknown archetype")

// ArchetypeSource resolves archetypes by name (config.Store, reloaded at runtime).
type ArchetypeSource interface {
	Archetype(name string) (config.Archetype, bool)
}

// Manager creates and removes actors: physics agent, world entry, AI controller.
//
// Spawns and despawns happen on the tick goroutine (round controller, enemy
// death timers); the bookkeeping map is guarded for readers on other goroutines.
type Manager struct {
	world    *world.World
	space    *physics.Space
	ticks    *ai.TickManager
	source   ArchetypeSource
	ids      *world.ObjectIDGenerator
	resolver ai.Resolver
	feedback Feedback
	rng      *rand.Rand

	mu      sync.Mutex
	enemies map[uint32]*spawned
	player  *spawnedPlayer
}

type spawned struct {
	enemy *ai.Enemy
	agent *physics.Agent
}

type spawnedPlayer struct {
	player *hero.Player
	agent  *physics.Agent
}

// NewManager creates new spawn manager. rng seeds every spawned actor's own source.
func NewManager(
	w *world.World,
	space *physics.Space,
	ticks *ai.TickManager,
	source ArchetypeSource,
	resolver ai.Resolver,
	feedback Feedback,
	rng *rand.Rand,
) *Manager {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Manager{
		world:    w,
		space:    space,
		ticks:    ticks,
		source:   source,
		ids:      world.NewObjectIDGenerator(),
		resolver: resolver,
		feedback: feedback,
		rng:      rng,
		enemies:  make(map[uint32]*spawned),
	}
}

// SpawnEnemy spawns an enemy of the named archetype at loc and starts its AI.
func (m *Manager) SpawnEnemy(ctx context.Context, archetype string, loc model.Location) (*ai.Enemy, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	arch, ok := m.source.Archetype(archetype)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownArchetype, archetype)
	}

	objectID := m.ids.NextEnemyID()
	agent := m.space.AddAgent(loc, arch.BodyRadius, arch.BodyMass, model.LayerEnemy)

	enemy, err := ai.NewEnemy(objectID, arch, ai.Deps{
		Mover:      agent,
		Body:       agent,
		Perception: m.world,
		Animator:   m.feedback.Animator(objectID),
		Audio:      m.feedback.Audio(objectID),
		Highlight:  m.feedback.Highlighter(objectID),
		Remover:    m,
		Resolver:   m.resolver,
		Rand:       m.childRand(),
		TargetMask: model.LayerPlayer,
	})
	if err != nil {
		m.space.RemoveAgent(agent)
		return nil, fmt.Errorf("creating enemy %q: %w", archetype, err)
	}

	if err := m.world.AddObject(enemy, agent); err != nil {
		// Rollback
		m.space.RemoveAgent(agent)
		return nil, fmt.Errorf("adding enemy to world: %w", err)
	}

	m.mu.Lock()
	m.enemies[objectID] = &spawned{enemy: enemy, agent: agent}
	m.mu.Unlock()

	m.ticks.Register(objectID, enemy)

	slog.Info("enemy spawned",
		"objectID", objectID,
		"archetype", arch.Name,
		"location", loc)

	return enemy, nil
}

// SpawnWave spawns one enemy at every location. Spawning continues past
// failures; the first error is returned.
func (m *Manager) SpawnWave(ctx context.Context, archetype string, locs []model.Location) ([]*ai.Enemy, error) {
	var (
		out      = make([]*ai.Enemy, 0, len(locs))
		firstErr error
	)
	for _, loc := range locs {
		enemy, err := m.SpawnEnemy(ctx, archetype, loc)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			slog.Error("failed to spawn enemy", "archetype", archetype, "location", loc, "error", err)
			continue
		}
		out = append(out, enemy)
	}
	if firstErr != nil {
		return out, fmt.Errorf("spawning wave: %w", firstErr)
	}
	return out, nil
}

// SpawnPlayer creates the player at its configured spawn point and starts it.
// Only one player exists at a time.
func (m *Manager) SpawnPlayer(cfg config.PlayerConfig, rng *rand.Rand) (*hero.Player, error) {
	m.mu.Lock()
	exists := m.player != nil
	m.mu.Unlock()
	if exists {
		return nil, fmt.Errorf("player already spawned")
	}

	objectID := m.ids.NextPlayerID()
	loc := model.NewLocation(cfg.Spawn.X, cfg.Spawn.Y)
	agent := m.space.AddAgent(loc, cfg.BodyRadius, cfg.BodyMass, model.LayerPlayer)

	if rng == nil {
		rng = m.childRand()
	}
	p, err := hero.New(objectID, cfg, hero.Deps{
		Agent:      agent,
		Perception: m.world,
		Resolver:   m.resolver,
		Audio:      m.feedback.Audio(objectID),
		Rand:       rng,
	})
	if err != nil {
		m.space.RemoveAgent(agent)
		return nil, fmt.Errorf("creating player: %w", err)
	}

	if err := m.world.AddObject(p, agent); err != nil {
		m.space.RemoveAgent(agent)
		return nil, fmt.Errorf("adding player to world: %w", err)
	}

	m.mu.Lock()
	m.player = &spawnedPlayer{player: p, agent: agent}
	m.mu.Unlock()

	m.ticks.Register(objectID, p)
	return p, nil
}

// Despawn removes the actor with objectID from ticks, world and physics.
// Enemies call it when their death delay expires. Unknown ids are ignored.
func (m *Manager) Despawn(objectID uint32) {
	m.mu.Lock()
	var agent *physics.Agent
	if e, ok := m.enemies[objectID]; ok {
		agent = e.agent
		delete(m.enemies, objectID)
	} else if m.player != nil && m.player.player.ObjectID() == objectID {
		agent = m.player.agent
		m.player = nil
	}
	m.mu.Unlock()

	if agent == nil {
		if ai.IsDebugEnabled() {
			slog.Debug("despawn of unknown object", "objectID", objectID)
		}
		return
	}

	m.ticks.Unregister(objectID)
	m.world.RemoveObject(objectID)
	m.space.RemoveAgent(agent)

	slog.Info("actor despawned", "objectID", objectID)
}

// DespawnAll removes every spawned actor.
func (m *Manager) DespawnAll() {
	m.mu.Lock()
	ids := make([]uint32, 0, len(m.enemies)+1)
	for id := range m.enemies {
		ids = append(ids, id)
	}
	if m.player != nil {
		ids = append(ids, m.player.player.ObjectID())
	}
	m.mu.Unlock()

	for _, id := range ids {
		m.Despawn(id)
	}
}

// Enemy returns a spawned enemy by id.
func (m *Manager) Enemy(objectID uint32) (*ai.Enemy, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.enemies[objectID]
	if !ok {
		return nil, false
	}
	return e.enemy, true
}

// EnemyCount returns the number of spawned enemies, dead bodies included
// until their removal.
func (m *Manager) EnemyCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.enemies)
}

// Alive returns the number of spawned enemies that are not dead.
// Call from the tick goroutine: enemy state is not synchronized.
func (m *Manager) Alive() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.enemies {
		if !e.enemy.IsDead() {
			n++
		}
	}
	return n
}

func (m *Manager) childRand() *rand.Rand {
	return rand.New(rand.NewPCG(m.rng.Uint64(), m.rng.Uint64()))
}
