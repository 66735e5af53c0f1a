package forecast

import (
	"errors"
	"fmt"
	"math"
	"time"
)

const (
	// buckets is the number of equal-width slices of the historical range.
	buckets = 22

	// seasonalShift is the fraction of the range added (rising) or removed
	// (falling) during summer.
	seasonalShift = 0.07

	exceptionalPrefix = "Exceptional Weather, "
)

var (
	ErrDegenerateExtremes = errors.New("highest pressure must be greater than lowest pressure")
	ErrInvalidMonth       = errors.New("month must be between 1 and 12")
	ErrInvalidPressure    = errors.New("pressure must be a finite number")
)

// Extremes are the highest and lowest pressures ever recorded at a station,
// in the same unit as the reading.
type Extremes struct {
	Highest float64
	Lowest  float64
}

// DefaultExtremes covers typical sea-level pressures in hPa.
var DefaultExtremes = Extremes{Highest: 1050, Lowest: 950}

func (e Extremes) Range() float64 {
	return e.Highest - e.Lowest
}

func (e Extremes) Validate() error {
	if !finite(e.Highest) || !finite(e.Lowest) || e.Highest <= e.Lowest {
		return fmt.Errorf("%w (highest %v, lowest %v)", ErrDegenerateExtremes, e.Highest, e.Lowest)
	}
	return nil
}

// Conditions are the inputs to a single forecast.
type Conditions struct {
	Pressure   float64
	Month      time.Month
	Wind       WindDirection
	Trend      Trend
	Hemisphere Hemisphere
	Extremes   Extremes
}

// Result is a forecast together with the intermediate values that produced it.
type Result struct {
	Code             Code
	Bucket           int
	AdjustedPressure float64
	Summer           bool
	// Clamped is set when the adjusted pressure reached the historical
	// maximum and was pulled one unit below it.
	Clamped bool
	// OutOfRange is set when the bucket index fell outside 0..21.
	OutOfRange bool
}

// Trend tables: the forecast code for each bucket, lowest pressure first.
var (
	riseOptions   = [buckets]Code{25, 25, 25, 24, 24, 19, 16, 12, 11, 9, 8, 6, 5, 2, 1, 1, 0, 0, 0, 0, 0, 0}
	steadyOptions = [buckets]Code{25, 25, 25, 25, 25, 25, 23, 23, 22, 18, 15, 13, 10, 4, 1, 1, 0, 0, 0, 0, 0, 0}
	fallOptions   = [buckets]Code{25, 25, 25, 25, 25, 25, 25, 25, 23, 23, 21, 20, 17, 14, 7, 3, 1, 1, 1, 0, 0, 0}
)

func table(t Trend) *[buckets]Code {
	switch t {
	case TrendRising:
		return &riseOptions
	case TrendFalling:
		return &fallOptions
	default:
		return &steadyOptions
	}
}

// IsSummer reports whether month falls in the summer half of the year.
// April to September is summer in the north; the south takes the other six
// months.
func IsSummer(month time.Month, h Hemisphere) bool {
	if h == Northern {
		return month >= time.April && month <= time.September
	}
	return month < time.April || month > time.September
}

// Evaluate runs the Zambretti method over c.
func Evaluate(c Conditions) (Result, error) {
	if err := c.Extremes.Validate(); err != nil {
		return Result{}, err
	}
	if c.Month < time.January || c.Month > time.December {
		return Result{}, fmt.Errorf("%w: got %d", ErrInvalidMonth, int(c.Month))
	}
	if !finite(c.Pressure) {
		return Result{}, ErrInvalidPressure
	}

	pressureRange := c.Extremes.Range()
	width := pressureRange / buckets

	var res Result
	res.Summer = IsSummer(c.Month, c.Hemisphere)

	p := c.Pressure + Correction(c.Wind, c.Hemisphere)*pressureRange
	if res.Summer {
		switch c.Trend {
		case TrendRising:
			p += seasonalShift * pressureRange
		case TrendFalling:
			p -= seasonalShift * pressureRange
		}
	}

	if p >= c.Extremes.Highest {
		p = c.Extremes.Highest - 1
		res.Clamped = true
	}
	res.AdjustedPressure = p

	bucket := math.Floor((p - c.Extremes.Lowest) / width)
	switch {
	case bucket < 0:
		res.Bucket = 0
		res.OutOfRange = true
	case bucket > buckets-1:
		res.Bucket = buckets - 1
		res.OutOfRange = true
	default:
		res.Bucket = int(bucket)
	}

	res.Code = table(c.Trend)[res.Bucket]
	return res, nil
}

// Classify returns the forecast code for c.
func Classify(c Conditions) (Code, error) {
	res, err := Evaluate(c)
	if err != nil {
		return 0, err
	}
	return res.Code, nil
}

// Describe returns the forecast text for c. Codes 0 and 21 are prefixed with
// "Exceptional Weather, ".
func Describe(c Conditions) (string, error) {
	code, err := Classify(c)
	if err != nil {
		return "", err
	}
	return code.Text(), nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
