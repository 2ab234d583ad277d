package model

import "math"

// Location представляет координаты на плоскости арены.
// Value type, передаётся по значению (immutable).
type Location struct {
	X float64
	Y float64
}

// NewLocation создаёт Location с указанными координатами.
func NewLocation(x, y float64) Location {
	return Location{X: x, Y: y}
}

// Add returns l + other.
func (l Location) Add(other Location) Location {
	return Location{X: l.X + other.X, Y: l.Y + other.Y}
}

// Sub returns l - other.
func (l Location) Sub(other Location) Location {
	return Location{X: l.X - other.X, Y: l.Y - other.Y}
}

// Scale returns l multiplied by s.
func (l Location) Scale(s float64) Location {
	return Location{X: l.X * s, Y: l.Y * s}
}

// Length returns the distance from origin.
func (l Location) Length() float64 {
	return math.Hypot(l.X, l.Y)
}

// Normalize returns a unit vector with the same direction.
// Zero vector stays zero.
func (l Location) Normalize() Location {
	n := l.Length()
	if n == 0 {
		return Location{}
	}
	return Location{X: l.X / n, Y: l.Y / n}
}

// DistanceSquared возвращает квадрат расстояния до другой точки (без sqrt для производительности).
func (l Location) DistanceSquared(other Location) float64 {
	dx := l.X - other.X
	dy := l.Y - other.Y
	return dx*dx + dy*dy
}

// Distance возвращает расстояние до другой точки.
func (l Location) Distance(other Location) float64 {
	return math.Sqrt(l.DistanceSquared(other))
}

// WithinRadius reports whether other lies strictly inside radius of l.
func (l Location) WithinRadius(other Location, radius float64) bool {
	return l.DistanceSquared(other) < radius*radius
}
