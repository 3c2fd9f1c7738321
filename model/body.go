// Package model holds the domain records shared across the simulator:
// bodies, their kinds, and display colors.
package model

import (
	"strings"

	"github.com/signalsfoundry/orbit-simulator/orbit"
)

// Kind classifies a body for display and reporting. It carries no
// geometric meaning; orbits behave the same for every kind.
type Kind string

const (
	KindUnknown Kind = "unknown"
	KindStar    Kind = "star"
	KindPlanet  Kind = "planet"
	KindMoon    Kind = "moon"
	KindStation Kind = "station"
)

// KindFromString maps free-form scenario input onto a Kind. Matching is
// case-insensitive and tolerant of surrounding whitespace; anything
// unrecognized becomes KindUnknown rather than an error.
func KindFromString(s string) Kind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "star", "sun":
		return KindStar
	case "planet":
		return KindPlanet
	case "moon", "satellite":
		return KindMoon
	case "station":
		return KindStation
	default:
		return KindUnknown
	}
}

// Body is one simulated object: persistence identity, display attributes,
// and the orbit configuration that positions it. The catalog owns body
// lifetimes; an orbit's parent pointer references another body's orbit.
type Body struct {
	ID    int64
	Name  string
	Kind  Kind
	Color Color

	Orbit *orbit.Config
}
