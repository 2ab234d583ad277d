package model

// Layer is a perception category bitmask.
// An actor's layer decides which queries can see it.
type Layer uint

const (
	// LayerDefault is not matched by targeting queries (dead actors are moved here).
	LayerDefault Layer = 1 << iota
	// LayerPlayer is searched by enemies.
	LayerPlayer
	// LayerEnemy is searched by the player.
	LayerEnemy
)

// LayerAll matches every layer.
const LayerAll = ^Layer(0)

// Has reports whether l shares at least one bit with mask.
func (l Layer) Has(mask Layer) bool {
	return l&mask != 0
}

// String returns layer name for logs.
func (l Layer) String() string {
	switch l {
	case LayerDefault:
		return "Default"
	case LayerPlayer:
		return "Player"
	case LayerEnemy:
		return "Enemy"
	case LayerAll:
		return "All"
	default:
		return "Mixed"
	}
}
