package model

// State is the behavior state of a hostile actor.
// Exactly one state is active at a time; StateDie is terminal.
type State int32

const (
	// StateIdle - actor waits for a target to enter its detection radius
	StateIdle State = iota
	// StateTrack - actor moves toward a detected target
	StateTrack
	// StateAttack - actor holds position and attacks on cooldown
	StateAttack
	// StateKnockback - actor was parried and is physically displaced
	StateKnockback
	// StateDie - actor is dead and waits for removal
	StateDie
)

// String returns human-readable state name
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateTrack:
		return "TRACK"
	case StateAttack:
		return "ATTACK"
	case StateKnockback:
		return "KNOCKBACK"
	case StateDie:
		return "DIE"
	default:
		return "UNKNOWN"
	}
}
