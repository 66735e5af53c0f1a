package forecast

import "strings"

// Trend is the direction pressure has moved over the last few hours.
// Values other than TrendRising and TrendFalling are treated as steady.
type Trend int

const (
	TrendSteady Trend = iota
	TrendRising
	TrendFalling
)

// TrendThreshold is the pressure change in hPa over TrendWindow hours that
// counts as rising or falling.
const (
	TrendThreshold = 1.6
	TrendWindow    = 3
)

func (t Trend) String() string {
	switch t {
	case TrendRising:
		return "rising"
	case TrendFalling:
		return "falling"
	default:
		return "steady"
	}
}

// ParseTrend accepts rising/falling/steady or their first letter.
func ParseTrend(s string) (Trend, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rising", "rise", "r", "up":
		return TrendRising, true
	case "falling", "fall", "f", "down":
		return TrendFalling, true
	case "steady", "s", "":
		return TrendSteady, true
	}
	return TrendSteady, false
}

// TrendFromChange classifies a pressure change over TrendWindow hours.
func TrendFromChange(delta float64) Trend {
	switch {
	case delta >= TrendThreshold:
		return TrendRising
	case delta <= -TrendThreshold:
		return TrendFalling
	default:
		return TrendSteady
	}
}
