package forecast

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConditions() Conditions {
	return Conditions{
		Pressure:   1000,
		Month:      time.January,
		Wind:       Calm,
		Trend:      TrendSteady,
		Hemisphere: Northern,
		Extremes:   DefaultExtremes,
	}
}

func TestEvaluate_NorthWindRisingJanuary(t *testing.T) {
	c := baseConditions()
	c.Wind = N
	c.Trend = TrendRising

	res, err := Evaluate(c)
	require.NoError(t, err)

	assert.InDelta(t, 1006.0, res.AdjustedPressure, 1e-9)
	assert.Equal(t, 12, res.Bucket)
	assert.Equal(t, Code(5), res.Code)
	assert.False(t, res.Summer)
	assert.False(t, res.Clamped)
	assert.False(t, res.OutOfRange)

	text, err := Describe(c)
	require.NoError(t, err)
	assert.Equal(t, "Fairly fine, improving", text)
}

func TestEvaluate_PressureAtMaximumIsClamped(t *testing.T) {
	c := baseConditions()
	c.Pressure = c.Extremes.Highest

	res, err := Evaluate(c)
	require.NoError(t, err)

	assert.True(t, res.Clamped)
	assert.Equal(t, c.Extremes.Highest-1, res.AdjustedPressure)
	assert.Equal(t, 21, res.Bucket)
	assert.False(t, res.OutOfRange)
	assert.Equal(t, Code(0), res.Code)
}

func TestEvaluate_PressureAboveMaximumIsClamped(t *testing.T) {
	c := baseConditions()
	c.Pressure = 1049.5
	c.Wind = N // +6 pushes it past the maximum

	res, err := Evaluate(c)
	require.NoError(t, err)
	assert.True(t, res.Clamped)
	assert.Equal(t, 21, res.Bucket)
}

func TestEvaluate_BucketAlwaysInRange(t *testing.T) {
	for _, trend := range []Trend{TrendRising, TrendSteady, TrendFalling} {
		for _, p := range []float64{-1e6, 0, 500, 949, 1051, 2000, 1e9} {
			c := baseConditions()
			c.Trend = trend
			c.Pressure = p

			res, err := Evaluate(c)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, res.Bucket, 0)
			assert.LessOrEqual(t, res.Bucket, 21)
		}
	}
}

func TestEvaluate_FarOutsideRangeMatchesEdgeBuckets(t *testing.T) {
	tests := []struct {
		trend    Trend
		wantLow  Code
		wantHigh Code
	}{
		{TrendRising, riseOptions[0], riseOptions[21]},
		{TrendSteady, steadyOptions[0], steadyOptions[21]},
		{TrendFalling, fallOptions[0], fallOptions[21]},
	}

	for _, tt := range tests {
		t.Run(tt.trend.String(), func(t *testing.T) {
			low := baseConditions()
			low.Trend = tt.trend
			low.Pressure = 800

			res, err := Evaluate(low)
			require.NoError(t, err)
			assert.True(t, res.OutOfRange)
			assert.Equal(t, 0, res.Bucket)
			assert.Equal(t, tt.wantLow, res.Code)

			high := baseConditions()
			high.Trend = tt.trend
			high.Pressure = 1200

			res, err = Evaluate(high)
			require.NoError(t, err)
			assert.True(t, res.Clamped)
			assert.Equal(t, 21, res.Bucket)
			assert.Equal(t, tt.wantHigh, res.Code)
		})
	}
}

func TestEvaluate_SeasonalAdjustment(t *testing.T) {
	tests := []struct {
		name       string
		month      time.Month
		trend      Trend
		hemisphere Hemisphere
		wantBucket int
		wantCode   Code
	}{
		{"north winter rising", time.January, TrendRising, Northern, 11, 6},
		{"north summer rising", time.July, TrendRising, Northern, 12, 5},
		{"north winter falling", time.January, TrendFalling, Northern, 11, 20},
		{"north summer falling", time.July, TrendFalling, Northern, 9, 23},
		{"north summer steady", time.July, TrendSteady, Northern, 11, 13},
		{"south summer rising", time.January, TrendRising, Southern, 12, 5},
		{"south winter rising", time.July, TrendRising, Southern, 11, 6},
		{"south summer falling", time.December, TrendFalling, Southern, 9, 23},
		{"south winter falling", time.April, TrendFalling, Southern, 11, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := baseConditions()
			c.Pressure = 1002
			c.Month = tt.month
			c.Trend = tt.trend
			c.Hemisphere = tt.hemisphere

			res, err := Evaluate(c)
			require.NoError(t, err)
			assert.Equal(t, tt.wantBucket, res.Bucket)
			assert.Equal(t, tt.wantCode, res.Code)
		})
	}
}

// The southern summer is the months outside April..September. A conjunctive
// reading of that rule (month < 4 && month > 9) would never be true and the
// January forecast below would stay at code 6.
func TestEvaluate_SouthernSummerIsDisjunctive(t *testing.T) {
	c := baseConditions()
	c.Pressure = 1002
	c.Month = time.January
	c.Trend = TrendRising
	c.Hemisphere = Southern

	res, err := Evaluate(c)
	require.NoError(t, err)
	assert.True(t, res.Summer)
	assert.Equal(t, Code(5), res.Code)
	assert.NotEqual(t, Code(6), res.Code)
}

func TestIsSummer(t *testing.T) {
	for m := time.January; m <= time.December; m++ {
		north := m >= time.April && m <= time.September
		assert.Equal(t, north, IsSummer(m, Northern), m.String())
		assert.Equal(t, !north, IsSummer(m, Southern), m.String())
	}
}

func TestEvaluate_SouthernWindIsMirrored(t *testing.T) {
	north := baseConditions()
	north.Wind = N

	south := baseConditions()
	south.Wind = S
	south.Hemisphere = Southern

	nres, err := Evaluate(north)
	require.NoError(t, err)
	sres, err := Evaluate(south)
	require.NoError(t, err)

	assert.InDelta(t, nres.AdjustedPressure, sres.AdjustedPressure, 1e-9)
	assert.Equal(t, 12, sres.Bucket)
	assert.Equal(t, Code(10), sres.Code)
	assert.Equal(t, nres.Code, sres.Code)
}

func TestEvaluate_UnknownTrendBehavesAsSteady(t *testing.T) {
	for _, p := range []float64{960, 990, 1002, 1030} {
		steady := baseConditions()
		steady.Month = time.July
		steady.Pressure = p

		odd := steady
		odd.Trend = Trend(7)

		want, err := Evaluate(steady)
		require.NoError(t, err)
		got, err := Evaluate(odd)
		require.NoError(t, err)
		assert.Equal(t, want, got, "pressure %v", p)
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	c := baseConditions()
	c.Wind = WSW
	c.Trend = TrendFalling
	c.Month = time.October

	first, err := Evaluate(c)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Evaluate(c)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestEvaluate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Conditions)
		wantErr error
	}{
		{"equal extremes", func(c *Conditions) { c.Extremes = Extremes{Highest: 1000, Lowest: 1000} }, ErrDegenerateExtremes},
		{"inverted extremes", func(c *Conditions) { c.Extremes = Extremes{Highest: 950, Lowest: 1050} }, ErrDegenerateExtremes},
		{"NaN extreme", func(c *Conditions) { c.Extremes.Highest = math.NaN() }, ErrDegenerateExtremes},
		{"month zero", func(c *Conditions) { c.Month = 0 }, ErrInvalidMonth},
		{"month thirteen", func(c *Conditions) { c.Month = 13 }, ErrInvalidMonth},
		{"NaN pressure", func(c *Conditions) { c.Pressure = math.NaN() }, ErrInvalidPressure},
		{"infinite pressure", func(c *Conditions) { c.Pressure = math.Inf(-1) }, ErrInvalidPressure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := baseConditions()
			tt.mutate(&c)

			_, err := Evaluate(c)
			require.ErrorIs(t, err, tt.wantErr)

			_, err = Classify(c)
			require.ErrorIs(t, err, tt.wantErr)

			text, err := Describe(c)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, text)
		})
	}
}

func TestDescribe_MatchesClassify(t *testing.T) {
	for _, trend := range []Trend{TrendRising, TrendSteady, TrendFalling} {
		for _, wind := range []WindDirection{N, ESE, S, WNW, Calm} {
			for p := 940.0; p <= 1060; p += 3.7 {
				c := baseConditions()
				c.Pressure = p
				c.Trend = trend
				c.Wind = wind

				code, err := Classify(c)
				require.NoError(t, err)
				text, err := Describe(c)
				require.NoError(t, err)

				assert.True(t, strings.HasSuffix(text, code.Phrase()), text)
				hasPrefix := strings.HasPrefix(text, "Exceptional Weather, ")
				assert.Equal(t, code == 0 || code == 21, hasPrefix, "code %d: %q", code, text)
				assert.LessOrEqual(t, len(text), 56)
			}
		}
	}
}

func TestDescribe_ExceptionalPrefix(t *testing.T) {
	c := baseConditions()
	c.Pressure = 1045
	c.Trend = TrendRising

	text, err := Describe(c)
	require.NoError(t, err)
	assert.Equal(t, "Exceptional Weather, Settled fine", text)
}

func TestTables_HoldValidCodes(t *testing.T) {
	for _, tbl := range []*[buckets]Code{&riseOptions, &steadyOptions, &fallOptions} {
		for i, code := range tbl {
			assert.True(t, code.Valid(), "bucket %d", i)
		}
	}
}
