package ai

import (
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/udisondev/arena/internal/config"
	"github.com/udisondev/arena/internal/game/combat"
	"github.com/udisondev/arena/internal/model"
)

// Timer keys of the per-enemy scheduler.
const (
	timerPerception = "perception"
	timerKnockback  = "knockback"
	timerDefend     = "defend"
	timerStrike     = "strike"
	timerDeath      = "death"
)

// searchCapacity bounds the perception query result buffer.
const searchCapacity = 2

// Enemy is the AI controller and combat surface of one hostile actor.
//
// State machine: IDLE → TRACK → ATTACK, any → KNOCKBACK → IDLE, any → DIE (terminal).
// Perception runs on a low-frequency poll (archetype UpdateInterval), not every frame.
// Combat calls (TakeDamage, ParryAction, InstantKill) may arrive from other actors at
// any point of the frame; every delayed callback re-checks isDead before acting.
//
// Enemy is driven from the tick goroutine only and is not safe for concurrent use.
type Enemy struct {
	id    uint32
	arch  config.Archetype
	deps  Deps
	rng   *rand.Rand
	sched *Scheduler

	health *model.Health
	state  model.State

	running     bool
	isDead      bool // monotonic false → true
	isDefending bool
	isParrying  bool

	attackTimer time.Duration
	targetID    uint32 // weak reference, 0 = no target
	aggressor   model.Location

	searchBuf [searchCapacity]model.Object
	onDie     []func(*Enemy)
}

var _ combat.Combatant = (*Enemy)(nil)
var _ Controller = (*Enemy)(nil)

// NewEnemy creates an enemy in IDLE with full health.
// Returns config.ErrInvalidArchetype or ErrMissingCollaborator on setup errors.
func NewEnemy(objectID uint32, arch config.Archetype, deps Deps) (*Enemy, error) {
	if err := arch.Validate(); err != nil {
		return nil, err
	}
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if deps.TargetMask == 0 {
		deps.TargetMask = model.LayerPlayer
	}
	rng := deps.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	e := &Enemy{
		id:    objectID,
		arch:  arch,
		deps:  deps,
		rng:   rng,
		sched: NewScheduler(),
		state: model.StateIdle,
	}
	e.health = model.NewHealth(arch.MaxHealth, model.HealthHooks{
		OnHit:      func() { e.deps.Animator.SetTrigger(model.AnimOnHit) },
		OnDepleted: func() { e.changeState(model.StateDie) },
	})

	deps.Mover.SetSpeed(arch.MoveSpeed)
	deps.Mover.SetStoppingDistance(arch.AttackRadius)

	return e, nil
}

// Start activates the enemy. The first perception poll is due immediately
// and runs on the next Tick.
func (e *Enemy) Start() {
	if e.running || e.isDead {
		return
	}
	e.running = true
	e.deps.Body.SetKinematic(true)
	e.changeState(model.StateIdle)
	e.sched.Every(timerPerception, 0, e.arch.UpdateInterval, e.poll)

	if IsDebugEnabled() {
		slog.Debug("enemy AI started",
			"objectID", e.id,
			"archetype", e.arch.Name,
			"detectionRadius", e.arch.DetectionRadius)
	}
}

// Stop deactivates the enemy and drops every pending timer.
func (e *Enemy) Stop() {
	e.running = false
	e.sched.Clear()

	if IsDebugEnabled() {
		slog.Debug("enemy AI stopped", "objectID", e.id, "archetype", e.arch.Name)
	}
}

// Tick advances the enemy's timers by dt.
// A dead enemy keeps ticking until its removal fires, even if it was stopped.
func (e *Enemy) Tick(dt time.Duration) {
	if !e.running && !e.isDead {
		return
	}
	e.sched.Advance(dt)
}

// ObjectID returns the enemy's world object id.
func (e *Enemy) ObjectID() uint32 { return e.id }

// Location returns the current body position.
func (e *Enemy) Location() model.Location { return e.deps.Mover.Position() }

// Archetype returns the archetype the enemy was spawned with.
func (e *Enemy) Archetype() config.Archetype { return e.arch }

// State returns the current behavior state.
func (e *Enemy) State() model.State { return e.state }

// IsDead reports whether the death sequence has started.
func (e *Enemy) IsDead() bool { return e.isDead }

// AttackPower returns damage dealt per strike.
func (e *Enemy) AttackPower() float64 { return e.arch.AttackPower }

// IsParrying reports whether the enemy currently parries.
func (e *Enemy) IsParrying() bool { return e.isParrying }

// SetParrying is set by the behavior layer while a parry animation is active.
func (e *Enemy) SetParrying(v bool) { e.isParrying = v && !e.isDead }

// IsDefending reports whether incoming damage is currently negated.
func (e *Enemy) IsDefending() bool { return e.isDefending }

// SetDefending is set by the behavior layer while the defend animation window is active.
func (e *Enemy) SetDefending(v bool) { e.isDefending = v && !e.isDead }

// Health returns current hit points.
func (e *Enemy) Health() float64 { return e.health.Current() }

// MaxHealth returns maximum hit points.
func (e *Enemy) MaxHealth() float64 { return e.health.Max() }

// Target returns the locked target id.
func (e *Enemy) Target() (uint32, bool) { return e.targetID, e.targetID != 0 }

// SetHealth writes hit points through the clamped health model.
// Ignored once dead.
func (e *Enemy) SetHealth(v float64) {
	if e.isDead {
		return
	}
	e.health.Set(v)
}

// Heal restores hit points. Ignored once dead.
func (e *Enemy) Heal(amount float64) {
	if e.isDead {
		return
	}
	e.health.Heal(amount)
}

// OnDie registers a death listener. Each listener fires exactly once.
func (e *Enemy) OnDie(fn func(*Enemy)) {
	if fn != nil {
		e.onDie = append(e.onDie, fn)
	}
}

// OnHealthChange registers a (current, max) listener, e.g. a health bar.
func (e *Enemy) OnHealthChange(fn func(current, max float64)) {
	e.health.Subscribe(fn)
}

// Attack resolves a strike against other.
func (e *Enemy) Attack(other combat.Combatant) {
	if e.isDead {
		return
	}
	res, ok := e.deps.Resolver.Resolve(e, other)
	if ok && IsDebugEnabled() {
		slog.Debug("enemy attacked",
			"objectID", e.id,
			"targetID", res.TargetID,
			"damage", res.Damage,
			"parried", res.Parried)
	}
}

// TakeDamage applies incoming damage.
// While defending the hit is absorbed: health is rewritten unchanged, so hit
// cues and change listeners still fire. The hit sound always plays.
func (e *Enemy) TakeDamage(damage float64) {
	if e.isDead {
		return
	}
	if math.IsNaN(damage) {
		damage = 0
	}
	damage = max(damage, 0)

	if e.isDefending {
		e.health.Set(e.health.Current() + 0)
	} else {
		e.health.Set(e.health.Current() - damage)
		if !e.isDead {
			e.blink()
		}
	}
	e.deps.Audio.Play(model.SoundHit)

	if IsDebugEnabled() {
		slog.Debug("enemy took damage",
			"objectID", e.id,
			"damage", damage,
			"defended", e.isDefending,
			"health", e.health.Current())
	}
}

// ParryAction knocks the enemy back away from aggressor.
func (e *Enemy) ParryAction(aggressor model.Location) {
	if e.isDead {
		return
	}
	e.aggressor = aggressor
	e.changeState(model.StateKnockback)
}

// InstantKill skips straight to the death sequence.
func (e *Enemy) InstantKill() {
	e.changeState(model.StateDie)
}

// blink flashes the highlight for BlinkTime. Overlapping blinks run independently.
func (e *Enemy) blink() {
	e.deps.Highlight.SetHighlight(1)
	e.sched.After(e.arch.BlinkTime, func() {
		if e.isDead {
			return
		}
		e.deps.Highlight.SetHighlight(0)
	})
}
