package forecast

// Hemisphere selects the wind and season rules. Northern is true.
type Hemisphere bool

const (
	Northern Hemisphere = true
	Southern Hemisphere = false
)

func (h Hemisphere) String() string {
	if h == Northern {
		return "north"
	}
	return "south"
}

// northernCorrections holds the fraction of the historical pressure range
// added to a reading for each wind direction, indexed by ordinal. The Calm
// slot stays zero.
var northernCorrections = [compassPoints + 1]float64{
	N:    0.06,
	NNE:  0.05,
	NE:   0.05,
	ENE:  0.02,
	E:    -0.005,
	ESE:  -0.02,
	SE:   -0.05,
	SSE:  -0.085,
	S:    -0.12,
	SSW:  -0.10,
	SW:   -0.06,
	WSW:  -0.045,
	W:    -0.03,
	WNW:  -0.005,
	NW:   0.015,
	NNW:  0.03,
	Calm: 0,
}

// Correction returns the directional correction coefficient for a wind
// direction. Southern hemisphere stations use the northern table with the
// direction rotated 180°. Calm and unknown directions give 0.
func Correction(d WindDirection, h Hemisphere) float64 {
	if h == Southern {
		d = d.Mirror()
	}
	if d < N || d > Calm {
		return 0
	}
	return northernCorrections[d]
}
