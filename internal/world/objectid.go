package world

import "sync/atomic"

// ObjectIDGenerator generates unique object IDs for arena actors.
//
// ID ranges (convention):
//
//	0x00000000 - 0x0FFFFFFF: Reserved (0 = no target)
//	0x10000000 - 0x1FFFFFFF: Players
//	0x20000000 - 0x2FFFFFFF: Enemies
type ObjectIDGenerator struct {
	nextPlayerID atomic.Uint32
	nextEnemyID  atomic.Uint32
}

// NewObjectIDGenerator creates a new ID generator.
func NewObjectIDGenerator() *ObjectIDGenerator {
	gen := &ObjectIDGenerator{}
	gen.nextPlayerID.Store(0x10000000)
	gen.nextEnemyID.Store(0x20000000)
	return gen
}

// NextPlayerID generates next unique player object ID.
// Thread-safe via atomic increment.
func (g *ObjectIDGenerator) NextPlayerID() uint32 {
	return g.nextPlayerID.Add(1)
}

// NextEnemyID generates next unique enemy object ID.
// Thread-safe via atomic increment.
func (g *ObjectIDGenerator) NextEnemyID() uint32 {
	return g.nextEnemyID.Add(1)
}

// IsEnemyID reports whether id lies in the enemy range.
func IsEnemyID(id uint32) bool {
	return id >= 0x20000000 && id < 0x30000000
}
