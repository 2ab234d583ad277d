package model

// AnimParam identifies a command understood by the animation driver.
// The set is fixed at compile time; drivers switch on the value instead of hashing names.
type AnimParam uint8

const (
	AnimOnHit AnimParam = iota + 1
	AnimOnDefend
	AnimAttackNum
	AnimOnAttack
	AnimOnParried
	AnimIsDead
	AnimOnDie
	AnimIsMoving
	AnimCurrentStatus
)

// String returns the parameter name as authored in animation controllers.
func (p AnimParam) String() string {
	switch p {
	case AnimOnHit:
		return "onHit"
	case AnimOnDefend:
		return "onDefend"
	case AnimAttackNum:
		return "AttackNum"
	case AnimOnAttack:
		return "onAttack"
	case AnimOnParried:
		return "onParried"
	case AnimIsDead:
		return "isDead"
	case AnimOnDie:
		return "onDie"
	case AnimIsMoving:
		return "isMoving"
	case AnimCurrentStatus:
		return "CurrentStatus"
	default:
		return "unknown"
	}
}
