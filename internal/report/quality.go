package report

import (
	"encoding/json"
	"math"

	"github.com/lox/barocast/internal/forecast"
	"github.com/lox/barocast/internal/models"
)

const (
	FlagPressureOutsideExtremes = "pressure_outside_extremes"
	FlagTempOutOfRange          = "temp_out_of_range"
	FlagWindSpeedUnlikely       = "wind_speed_unlikely"
	FlagWindDirConflict         = "wind_dir_conflict"
	FlagCalmWithWind            = "calm_with_wind"
)

// QualityFlags returns plausibility warnings for a reading that passed
// validation. Flagged readings are still forecast.
func QualityFlags(r models.Reading, st models.Station) []string {
	var flags []string

	if r.Pressure > st.HighestPressure || r.Pressure < st.LowestPressure {
		flags = append(flags, FlagPressureOutsideExtremes)
	}

	if r.Temp != nil {
		if *r.Temp < -40 || *r.Temp > 50 {
			flags = append(flags, FlagTempOutOfRange)
		}
	}

	if r.WindSpeed != nil && *r.WindSpeed > 200 {
		flags = append(flags, FlagWindSpeedUnlikely)
	}

	if r.WindDir != "" && r.WindDeg != nil {
		named, _ := forecast.ParseWindDirection(r.WindDir)
		if named.Valid() && angleBetween(*r.WindDeg, float64(named)*22.5) > 45 {
			flags = append(flags, FlagWindDirConflict)
		}
	}

	if r.WindSpeed != nil && *r.WindSpeed > 0 && r.WindDir != "" {
		if d, _ := forecast.ParseWindDirection(r.WindDir); d == forecast.Calm {
			flags = append(flags, FlagCalmWithWind)
		}
	}

	return flags
}

func angleBetween(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 360)
	if d > 180 {
		d = 360 - d
	}
	return d
}

func QualityFlagsToJSON(flags []string) string {
	if len(flags) == 0 {
		return ""
	}
	b, _ := json.Marshal(flags)
	return string(b)
}
