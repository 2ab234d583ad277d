package combat

import (
	"log/slog"

	"github.com/udisondev/arena/internal/model"
)

// Combatant is the capability set shared by every actor that can fight
// (enemy archetypes and the player).
type Combatant interface {
	model.Object

	AttackPower() float64
	IsParrying() bool
	IsDead() bool

	// TakeDamage applies incoming damage (defend windows may negate it).
	TakeDamage(damage float64)

	// ParryAction punishes this actor for striking a parrying defender.
	// aggressor is the position the knockback pushes away from.
	ParryAction(aggressor model.Location)
}

// HitResult содержит результат одной атаки для наблюдения в тестах и логах.
type HitResult struct {
	AttackerID uint32
	TargetID   uint32
	Damage     float64
	Parried    bool    // defender was parrying, attacker knocked back
	HealthDiff float64 // defender health lost (0 when defended)
}

// healthReader is implemented by combatants that expose health for HitResult.
type healthReader interface {
	Health() float64
}

// Resolver resolves one attack between two combatants.
type Resolver struct {
	// hitObserver: callback для наблюдения за результатами атак (nil в production).
	hitObserver func(HitResult)
}

// NewResolver creates new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// SetHitObserver sets callback for observing attack results.
func (r *Resolver) SetHitObserver(fn func(HitResult)) {
	r.hitObserver = fn
}

// Resolve executes attacker → defender.
//
// Order:
//  1. Defender parrying → attacker.ParryAction (knockback) before any damage
//  2. defender.TakeDamage(attacker.AttackPower())
//
// When both sides are parrying the defender's parry wins: the attacker's own
// parry state is not consulted. Nil or dead participants make it a no-op.
func (r *Resolver) Resolve(attacker, defender Combatant) (HitResult, bool) {
	if err := ValidateAttack(attacker, defender); err != nil {
		slog.Debug("attack skipped", "error", err)
		return HitResult{}, false
	}

	res := HitResult{
		AttackerID: attacker.ObjectID(),
		TargetID:   defender.ObjectID(),
		Damage:     attacker.AttackPower(),
	}

	if defender.IsParrying() {
		res.Parried = true
		attacker.ParryAction(defender.Location())
	}

	hr, tracked := defender.(healthReader)
	var before float64
	if tracked {
		before = hr.Health()
	}

	defender.TakeDamage(res.Damage)

	if tracked {
		res.HealthDiff = before - hr.Health()
	}

	if r.hitObserver != nil {
		r.hitObserver(res)
	}
	return res, true
}
