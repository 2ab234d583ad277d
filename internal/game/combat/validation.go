package combat

import (
	"errors"
	"reflect"

	"github.com/udisondev/arena/internal/model"
)

var (
	// ErrNoTarget is returned when the target is missing.
	ErrNoTarget = errors.New("no target")
	// ErrAttackerDead is returned when a dead actor tries to attack.
	ErrAttackerDead = errors.New("attacker is dead")
	// ErrTargetDead is returned when the target is already dead.
	ErrTargetDead = errors.New("target is dead")
)

// ValidateAttack validates attack request before resolving combat.
// Returns error if the attack should not proceed.
func ValidateAttack(attacker, target Combatant) error {
	if isNil(attacker) || isNil(target) {
		return ErrNoTarget
	}
	if attacker.IsDead() {
		return ErrAttackerDead
	}
	if target.IsDead() {
		return ErrTargetDead
	}
	return nil
}

// IsInRange reports whether target is strictly within radius of attacker.
func IsInRange(attacker, target model.Object, radius float64) bool {
	if isNil(attacker) || isNil(target) {
		return false
	}
	return attacker.Location().WithinRadius(target.Location(), radius)
}

// isNil catches typed nil pointers stored in an interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
