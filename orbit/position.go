package orbit

import "math"

// Position is a point in the 2D orbital plane. It is a plain value:
// operations return new positions and never mutate the receiver.
type Position struct {
	X, Y float64
}

// Add returns the component-wise sum of two positions.
func (p Position) Add(other Position) Position {
	return Position{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns p - other.
func (p Position) Sub(other Position) Position {
	return Position{X: p.X - other.X, Y: p.Y - other.Y}
}

// DistanceTo returns the straight-line distance between two points.
func (p Position) DistanceTo(other Position) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}
