// Package hero implements the player combatant: the target enemies hunt and
// the attacker that kills them. In a headless arena its input is scripted.
package hero

import (
	"errors"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/udisondev/arena/internal/ai"
	"github.com/udisondev/arena/internal/config"
	"github.com/udisondev/arena/internal/game/combat"
	"github.com/udisondev/arena/internal/model"
)

const (
	timerAct       = "act"
	timerParry     = "parry"
	timerKnockback = "knockback"
)

// sightCapacity bounds how many enemies the player considers per decision.
const sightCapacity = 8

// Agent is the player's body: navigation plus rigid body.
type Agent interface {
	ai.Mover
	ai.Body
}

// Deps holds collaborators injected into the Player.
type Deps struct {
	Agent      Agent
	Perception ai.Perception
	Resolver   ai.Resolver
	Audio      ai.AudioSink
	Rand       *rand.Rand
}

// Player is the scripted player combatant.
//
// Every AttackInterval it picks the nearest live enemy in sight: out of reach it
// walks toward it, in reach it either opens a parry window (ParryChance) or
// strikes. Being parried knocks it back for KnockbackTime.
//
// Driven from the tick goroutine only.
type Player struct {
	id    uint32
	cfg   config.PlayerConfig
	deps  Deps
	rng   *rand.Rand
	sched *ai.Scheduler

	health     *model.Health
	running    bool
	isDead     bool
	isParrying bool
	knockedOut bool // in knockback, no decisions

	sight [sightCapacity]model.Object
	onDie []func(*Player)
}

var _ combat.Combatant = (*Player)(nil)
var _ ai.Controller = (*Player)(nil)

// New creates a player with full health.
func New(objectID uint32, cfg config.PlayerConfig, deps Deps) (*Player, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if deps.Agent == nil || deps.Perception == nil || deps.Resolver == nil || deps.Audio == nil {
		return nil, errors.Join(ai.ErrMissingCollaborator, errors.New("player needs agent, perception, resolver and audio"))
	}
	rng := deps.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	p := &Player{
		id:    objectID,
		cfg:   cfg,
		deps:  deps,
		rng:   rng,
		sched: ai.NewScheduler(),
	}
	p.health = model.NewHealth(cfg.MaxHealth, model.HealthHooks{
		OnDepleted: p.die,
	})

	deps.Agent.SetSpeed(cfg.MoveSpeed)
	deps.Agent.SetStoppingDistance(cfg.AttackReach * 0.8)
	return p, nil
}

// Start activates the scripted driver.
func (p *Player) Start() {
	if p.running || p.isDead {
		return
	}
	p.running = true
	p.deps.Agent.SetKinematic(true)
	p.deps.Agent.SetLayer(model.LayerPlayer)
	p.sched.Every(timerAct, p.cfg.AttackInterval, p.cfg.AttackInterval, p.act)

	slog.Info("player spawned", "objectID", p.id, "health", p.health.Max())
}

// Stop deactivates the driver.
func (p *Player) Stop() {
	p.running = false
	p.sched.Clear()
}

// Tick advances the player's timers.
func (p *Player) Tick(dt time.Duration) {
	if !p.running {
		return
	}
	p.sched.Advance(dt)
}

// ObjectID returns the player's world object id.
func (p *Player) ObjectID() uint32 { return p.id }

// Location returns the current body position.
func (p *Player) Location() model.Location { return p.deps.Agent.Position() }

// AttackPower returns damage dealt per hit.
func (p *Player) AttackPower() float64 { return p.cfg.AttackPower }

// IsParrying reports whether the parry window is open.
func (p *Player) IsParrying() bool { return p.isParrying }

// IsDead reports whether the player died.
func (p *Player) IsDead() bool { return p.isDead }

// Health returns current hit points.
func (p *Player) Health() float64 { return p.health.Current() }

// MaxHealth returns maximum hit points.
func (p *Player) MaxHealth() float64 { return p.health.Max() }

// OnDie registers a death listener (game over).
func (p *Player) OnDie(fn func(*Player)) {
	if fn != nil {
		p.onDie = append(p.onDie, fn)
	}
}

// OnHealthChange registers a (current, max) listener.
func (p *Player) OnHealthChange(fn func(current, max float64)) {
	p.health.Subscribe(fn)
}

// TakeDamage applies incoming damage.
func (p *Player) TakeDamage(damage float64) {
	if p.isDead {
		return
	}
	if math.IsNaN(damage) {
		damage = 0
	}
	p.health.Set(p.health.Current() - max(damage, 0))
	p.deps.Audio.Play(model.SoundHit)
}

// ParryAction knocks the player back away from aggressor.
func (p *Player) ParryAction(aggressor model.Location) {
	if p.isDead {
		return
	}
	p.knockedOut = true
	p.isParrying = false
	p.deps.Agent.SetStopped(true)
	p.deps.Agent.SetKinematic(false)
	dir := p.Location().Sub(aggressor).Normalize()
	p.deps.Agent.ApplyImpulse(dir.Scale(p.cfg.KnockbackForce))

	p.sched.AfterKey(timerKnockback, p.cfg.KnockbackTime, func() {
		if p.isDead {
			return
		}
		p.deps.Agent.SetKinematic(true)
		p.knockedOut = false
	})
}

// act is one scripted decision.
func (p *Player) act() {
	if p.isDead || p.knockedOut {
		return
	}

	target, ok := p.nearestEnemy()
	if !ok {
		p.deps.Agent.SetStopped(true)
		return
	}

	pos := p.Location()
	if !pos.WithinRadius(target.Location(), p.cfg.AttackReach) {
		p.deps.Agent.SetStopped(false)
		p.deps.Agent.SetDestination(target.Location())
		return
	}

	p.deps.Agent.SetStopped(true)
	p.deps.Agent.LookAt(target.Location())

	if p.rng.Float64() < p.cfg.ParryChance {
		p.parry()
		return
	}
	p.deps.Resolver.Resolve(p, target)
}

func (p *Player) parry() {
	p.isParrying = true
	p.sched.AfterKey(timerParry, p.cfg.ParryWindow, func() {
		p.isParrying = false
	})
}

// nearestEnemy returns the closest live enemy in sight.
func (p *Player) nearestEnemy() (combat.Combatant, bool) {
	pos := p.Location()
	n := p.deps.Perception.Overlap(pos, p.cfg.SightRadius, model.LayerEnemy, p.sight[:])

	var (
		best     combat.Combatant
		bestDist float64
	)
	for _, obj := range p.sight[:n] {
		c, ok := obj.(combat.Combatant)
		if !ok || c.IsDead() {
			continue
		}
		d := pos.DistanceSquared(c.Location())
		if best == nil || d < bestDist {
			best, bestDist = c, d
		}
	}
	clear(p.sight[:])
	return best, best != nil
}

func (p *Player) die() {
	if p.isDead {
		return
	}
	p.isDead = true
	p.isParrying = false
	p.sched.Clear()

	p.deps.Agent.SetStopped(true)
	p.deps.Agent.SetKinematic(true)
	p.deps.Agent.SetLayer(model.LayerDefault)

	slog.Info("player died", "objectID", p.id)
	for _, fn := range p.onDie {
		fn(p)
	}
}
