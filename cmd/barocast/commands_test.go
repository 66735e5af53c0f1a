package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	stdout = &buf
	t.Cleanup(func() { stdout = os.Stdout })
	return &buf
}

func testApp(t *testing.T, noJournal bool) *app {
	t.Helper()
	return &app{
		Globals: &Globals{
			DB:         filepath.Join(t.TempDir(), "journal", "barocast.db"),
			NoJournal:  noJournal,
			Station:    "test",
			Hemisphere: "north",
			Highest:    1050,
			Lowest:     950,
		},
		ctx:    context.Background(),
		clock:  clockwork.NewFakeClockAt(time.Date(2026, time.January, 15, 9, 0, 0, 0, time.UTC)),
		logger: zap.NewNop().Sugar(),
	}
}

func TestForecastCmd(t *testing.T) {
	out := captureStdout(t)
	a := testApp(t, true)

	cmd := &ForecastCmd{ReadingFlags{Pressure: 1000, Month: 1, Wind: "N", Trend: "rising"}}
	require.NoError(t, cmd.Run(a))

	assert.Contains(t, out.String(), "Fairly fine, improving")
	assert.Contains(t, out.String(), "Code:      5 (F)")
	assert.Contains(t, out.String(), "bucket 12 of 22")
}

func TestDescribeCmd_SouthernHemisphere(t *testing.T) {
	out := captureStdout(t)
	a := testApp(t, true)
	a.Hemisphere = "south"

	cmd := &DescribeCmd{ReadingFlags{Pressure: 1000, Month: 7, Wind: "S", Trend: "steady"}}
	require.NoError(t, cmd.Run(a))
	assert.Equal(t, "Fairly fine, showers likely\n", out.String())
}

func TestForecastCmd_InvalidStation(t *testing.T) {
	captureStdout(t)
	a := testApp(t, true)
	a.Highest = 900

	cmd := &ForecastCmd{ReadingFlags{Pressure: 1000, Trend: "steady"}}
	assert.Error(t, cmd.Run(a))
}

func TestHistoryCmd_ListsJournalledForecasts(t *testing.T) {
	out := captureStdout(t)
	a := testApp(t, false)

	for _, p := range []float64{1000, 1012} {
		cmd := &ForecastCmd{ReadingFlags{Pressure: p, Month: 1, Wind: "N", Trend: "rising"}}
		require.NoError(t, cmd.Run(a))
	}
	out.Reset()

	require.NoError(t, (&HistoryCmd{Limit: 10}).Run(a))
	assert.Contains(t, out.String(), "STATION")
	assert.Contains(t, out.String(), "1012.0")
	assert.Contains(t, out.String(), "1000.0")

	out.Reset()
	require.NoError(t, (&HistoryCmd{Counts: true}).Run(a))
	assert.Contains(t, out.String(), "Fairly fine, improving")
}

func TestHistoryCmd_RequiresJournal(t *testing.T) {
	a := testApp(t, true)
	assert.Error(t, (&HistoryCmd{Limit: 10}).Run(a))
}

func TestIndicesCmd(t *testing.T) {
	out := captureStdout(t)
	a := testApp(t, true)
	wind := 30.0

	require.NoError(t, (&IndicesCmd{Temp: 30, Humidity: 70, WindSpeed: &wind}).Run(a))
	assert.Contains(t, out.String(), "Comfort:     Hot feeling")
	assert.Contains(t, out.String(), "Wind chill:  30.0°C")

	assert.Error(t, (&IndicesCmd{Temp: 30, Humidity: 120}).Run(a))
}

func TestIndicesCmd_DryAir(t *testing.T) {
	out := captureStdout(t)

	require.NoError(t, (&IndicesCmd{Temp: 20, Humidity: 0}).Run(testApp(t, true)))
	assert.Contains(t, out.String(), "Dew point:   n/a\n")
	assert.Contains(t, out.String(), "Humidex:     n/a\n")
	assert.NotContains(t, out.String(), "NaN")
}

func TestPruneCmd_UsesAppClock(t *testing.T) {
	out := captureStdout(t)
	a := testApp(t, false)
	clock := clockwork.NewFakeClockAt(time.Date(2026, time.January, 15, 9, 0, 0, 0, time.UTC))
	a.clock = clock

	cmd := &ForecastCmd{ReadingFlags{Pressure: 1000, Month: 1, Wind: "N", Trend: "rising"}}
	require.NoError(t, cmd.Run(a))

	clock.Advance(30 * 24 * time.Hour)
	require.NoError(t, (&PruneCmd{OlderThan: 60 * 24 * time.Hour}).Run(a))

	out.Reset()
	require.NoError(t, (&HistoryCmd{Limit: 10}).Run(a))
	assert.Contains(t, out.String(), "1000.0", "entry is younger than the cutoff on the app clock")

	clock.Advance(45 * 24 * time.Hour)
	require.NoError(t, (&PruneCmd{OlderThan: 60 * 24 * time.Hour}).Run(a))

	out.Reset()
	require.NoError(t, (&HistoryCmd{Limit: 10}).Run(a))
	assert.NotContains(t, out.String(), "1000.0")
}

func TestAQICmd(t *testing.T) {
	out := captureStdout(t)
	require.NoError(t, (&AQICmd{PM25: 20, PM10: 100}).Run(testApp(t, true)))
	assert.Equal(t, "AQI: 73 (Moderate)\n", out.String())
}
