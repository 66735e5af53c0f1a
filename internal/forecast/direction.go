package forecast

import (
	"math"
	"strings"
)

// WindDirection is one of the 16 compass points, or Calm when there is no
// measurable wind. The ordinal is significant: N is 0 and each step is 22.5°.
type WindDirection int

const (
	N WindDirection = iota
	NNE
	NE
	ENE
	E
	ESE
	SE
	SSE
	S
	SSW
	SW
	WSW
	W
	WNW
	NW
	NNW
	Calm
)

// compassPoints is the number of real directions (Calm excluded).
const compassPoints = 16

var directionNames = [...]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
	"CALM",
}

func (d WindDirection) String() string {
	if d < N || d > Calm {
		return "UNKNOWN"
	}
	return directionNames[d]
}

// Valid reports whether d is one of the 16 compass points.
func (d WindDirection) Valid() bool {
	return d >= N && d < compassPoints
}

// Mirror rotates d by 180°. Calm and out-of-range values come back unchanged.
func (d WindDirection) Mirror() WindDirection {
	if !d.Valid() {
		return d
	}
	return (d + compassPoints/2) % compassPoints
}

// ParseWindDirection parses a compass abbreviation such as "SSW".
// Empty strings, "calm", "none" and "0" are Calm. Unrecognised input
// returns Calm and false.
func ParseWindDirection(s string) (WindDirection, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	switch s {
	case "", "CALM", "NONE", "0":
		return Calm, true
	}
	for i, name := range directionNames[:compassPoints] {
		if name == s {
			return WindDirection(i), true
		}
	}
	return Calm, false
}

// DirectionFromDegrees maps a bearing in degrees to the nearest compass point.
// NaN bearings are Calm.
func DirectionFromDegrees(deg float64) WindDirection {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return Calm
	}
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	idx := int(math.Floor(deg/22.5+0.5)) % compassPoints
	return WindDirection(idx)
}
