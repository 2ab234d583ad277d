package ai

import (
	"log/slog"

	"github.com/udisondev/arena/internal/game/combat"
	"github.com/udisondev/arena/internal/model"
)

// changeState runs exit actions of the current state, entry actions of next,
// and publishes CurrentStatus. Once dead every transition is ignored.
func (e *Enemy) changeState(next model.State) {
	if e.isDead {
		if next == model.StateDie && IsDebugEnabled() {
			slog.Debug("enemy already dead, death ignored", "objectID", e.id)
		}
		return
	}

	prev := e.state

	// exit
	switch prev {
	case model.StateTrack:
		e.deps.Animator.SetBool(model.AnimIsMoving, false)
	case model.StateAttack:
		e.deps.Mover.SetStopped(false)
	}

	e.state = next

	// entry
	switch next {
	case model.StateTrack:
		e.deps.Animator.SetBool(model.AnimIsMoving, true)
	case model.StateAttack:
		e.deps.Mover.SetStopped(true)
	case model.StateKnockback:
		e.knockBack()
	case model.StateDie:
		e.die()
	}

	e.deps.Animator.SetInteger(model.AnimCurrentStatus, int(next))

	if prev != next && IsDebugEnabled() {
		slog.Debug("enemy state changed",
			"objectID", e.id,
			"archetype", e.arch.Name,
			"from", prev,
			"to", next)
	}
}

// poll is the perception loop body, run every UpdateInterval.
func (e *Enemy) poll() {
	if e.isDead {
		e.sched.Cancel(timerPerception)
		return
	}

	switch e.state {
	case model.StateIdle:
		e.idleCheck()
	case model.StateTrack:
		e.trackCheck()
	case model.StateAttack:
		e.attackCheck()
	case model.StateKnockback, model.StateDie:
		// driven by their own timers
	}
}

func (e *Enemy) idleCheck() {
	if e.search() {
		e.changeState(model.StateTrack)
	}
}

func (e *Enemy) trackCheck() {
	if !e.search() {
		e.changeState(model.StateIdle)
		return
	}

	if e.inAttackRange() {
		e.changeState(model.StateAttack)
		return
	}

	if target, ok := e.target(); ok && !e.deps.Mover.PathPending() {
		e.deps.Mover.SetDestination(target.Location())
	}
}

func (e *Enemy) attackCheck() {
	target, ok := e.target()
	if !ok {
		e.targetID = 0
		e.changeState(model.StateIdle)
		return
	}

	if !e.inAttackRange() || !e.deps.Mover.Stopped() {
		e.changeState(model.StateTrack)
		return
	}

	e.deps.Mover.LookAt(target.Location())
	e.attackTimer += e.arch.UpdateInterval

	if e.rng.Float64() < e.arch.DefendProbability {
		e.defend()
	}

	if e.attackTimer > e.arch.AttackCooldown {
		e.swing()
	}
}

// defend plays the defend animation and opens the damage-negating window.
func (e *Enemy) defend() {
	e.deps.Animator.SetTrigger(model.AnimOnDefend)
	if e.arch.DefendWindow <= 0 {
		return
	}
	e.isDefending = true
	e.sched.AfterKey(timerDefend, e.arch.DefendWindow, func() {
		if e.isDead {
			return
		}
		e.isDefending = false
	})
}

// swing starts a random attack variant; damage lands after StrikeDelay.
func (e *Enemy) swing() {
	variant := e.rng.IntN(e.arch.AttackVariants) + 1
	e.deps.Animator.SetInteger(model.AnimAttackNum, variant)
	e.deps.Animator.SetTrigger(model.AnimOnAttack)
	e.attackTimer = 0

	e.sched.AfterKey(timerStrike, e.arch.StrikeDelay, e.strike)
}

// strike is the hit frame of a swing.
func (e *Enemy) strike() {
	if e.isDead || e.state != model.StateAttack || !e.inAttackRange() {
		return
	}
	target, ok := e.target()
	if !ok {
		return
	}
	if c, ok := target.(combat.Combatant); ok {
		e.Attack(c)
	}
}

// search runs the bounded perception query and locks the first hit.
// Hits are not re-ranked by distance.
func (e *Enemy) search() bool {
	n := e.deps.Perception.Overlap(
		e.deps.Mover.Position(), e.arch.DetectionRadius, e.deps.TargetMask, e.searchBuf[:])

	if n > 0 {
		e.targetID = e.searchBuf[0].ObjectID()
	} else {
		e.targetID = 0
	}
	clear(e.searchBuf[:])
	return n > 0
}

// target resolves the weak target reference. Missing or dead targets count as none.
func (e *Enemy) target() (model.Object, bool) {
	if e.targetID == 0 {
		return nil, false
	}
	obj, ok := e.deps.Perception.GetObject(e.targetID)
	if !ok || obj == nil {
		return nil, false
	}
	if d, ok := obj.(interface{ IsDead() bool }); ok && d.IsDead() {
		return nil, false
	}
	return obj, true
}

func (e *Enemy) inAttackRange() bool {
	target, ok := e.target()
	if !ok {
		return false
	}
	return e.deps.Mover.Position().WithinRadius(target.Location(), e.arch.AttackRadius)
}

// knockBack pushes the body away from the aggressor and hands it to physics.
// A new parry while already knocked back restarts the countdown.
func (e *Enemy) knockBack() {
	e.targetID = 0
	e.sched.Cancel(timerStrike)

	e.deps.Animator.SetTrigger(model.AnimOnParried)
	e.deps.Body.SetKinematic(false)

	dir := e.deps.Mover.Position().Sub(e.aggressor).Normalize()
	e.deps.Body.ApplyImpulse(dir.Scale(e.arch.KnockbackImpulse))

	e.sched.AfterKey(timerKnockback, e.arch.KnockbackDuration, func() {
		if e.isDead {
			return
		}
		e.deps.Body.SetKinematic(true)
		e.changeState(model.StateIdle)
	})
}

// die runs the death sequence once: freeze, death cues, listeners, untargetable,
// delayed removal.
func (e *Enemy) die() {
	e.isDead = true
	e.isDefending = false
	e.isParrying = false
	e.targetID = 0

	e.sched.Clear()

	e.deps.Mover.SetStopped(true)
	e.deps.Body.SetKinematic(true)
	e.deps.Animator.SetBool(model.AnimIsDead, true)
	e.deps.Animator.SetTrigger(model.AnimOnDie)

	for _, fn := range e.onDie {
		fn(e)
	}

	e.deps.Body.SetLayer(model.LayerDefault)
	e.deps.Audio.Play(model.SoundDie)
	e.deps.Highlight.SetHighlight(0)

	e.sched.AfterKey(timerDeath, e.arch.DeathDelay, func() {
		e.deps.Remover.Despawn(e.id)
	})

	if IsDebugEnabled() {
		slog.Debug("enemy died", "objectID", e.id, "archetype", e.arch.Name)
	}
}
