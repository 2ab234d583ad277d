package model

// Object is anything with an identity and a position on the arena.
// Perception queries return Objects; actors keep only the ObjectID of their target
// and look the object up again on every use (weak reference).
type Object interface {
	ObjectID() uint32
	Location() Location
}
