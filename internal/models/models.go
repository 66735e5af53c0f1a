package models

import (
	"database/sql"
	"time"
)

// Station describes where readings come from. Extremes are supplied by the
// operator, never derived from stored history.
type Station struct {
	Name            string
	Northern        bool
	Altitude        float64
	HighestPressure float64 `validate:"gtfield=LowestPressure"`
	LowestPressure  float64 `validate:"gt=0"`
}

// Reading is one set of measurements handed to the report service.
type Reading struct {
	ObservedAt time.Time
	Pressure   float64  `validate:"gt=0"`
	Month      int      `validate:"omitempty,min=1,max=12"`
	WindDir    string   `validate:"omitempty,compass"`
	WindDeg    *float64 `validate:"omitempty,min=0,max=360"`
	WindSpeed  *float64 `validate:"omitempty,min=0,max=400"`
	Trend      string   `validate:"omitempty,trend"`
	Temp       *float64 `validate:"omitempty,min=-90,max=60"`
	Humidity   *float64 `validate:"omitempty,min=0,max=100"`
}

// ForecastEntry is a forecast issued for a reading, as stored in the journal.
type ForecastEntry struct {
	ID               string
	StationName      string
	IssuedAt         time.Time
	Pressure         float64
	AdjustedPressure float64
	Month            int
	WindDir          string
	Trend            string
	Northern         bool
	Highest          float64
	Lowest           float64
	Bucket           int
	Code             int
	Text             string
	Condition        string
	Temp             sql.NullFloat64
	Humidity         sql.NullFloat64
	DewPoint         sql.NullFloat64
	HeatIndex        sql.NullFloat64
	WindChill        sql.NullFloat64
	SeaLevelPressure sql.NullFloat64
	// QualityFlags is a JSON array of plausibility warnings, empty when clean.
	QualityFlags string
}

// CodeCount is the number of journal entries per forecast code.
type CodeCount struct {
	Code  int
	Count int
}
