package orbit

import "math"

// Radians converts an angle in degrees to radians. Rotation fields on a
// Config are always radians; callers working in degrees convert here.
func Radians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}

// Degrees converts an angle in radians to degrees.
func Degrees(radians float64) float64 {
	return radians * 180.0 / math.Pi
}
