package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"text/tabwriter"
	"time"

	"github.com/lox/barocast/internal/forecast"
	"github.com/lox/barocast/internal/models"
	"github.com/lox/barocast/internal/report"
	"github.com/lox/barocast/internal/wxcalc"
)

var stdout io.Writer = os.Stdout

// ReadingFlags describe a single observation.
type ReadingFlags struct {
	Pressure  float64  `help:"Station pressure (hPa)." required:""`
	Month     int      `help:"Month 1-12; defaults to the current month."`
	Wind      string   `help:"Wind direction as a compass point (N, SSW, ...) or calm."`
	WindDeg   *float64 `help:"Wind bearing in degrees, used when --wind is not given." name:"wind-deg"`
	WindSpeed *float64 `help:"Wind speed (km/h)." name:"wind-speed"`
	Trend     string   `help:"Pressure trend: rising, falling, steady or auto (derive from journal)." default:"auto"`
	Temp      *float64 `help:"Air temperature (°C)."`
	Humidity  *float64 `help:"Relative humidity (%)."`
}

func (f ReadingFlags) reading() models.Reading {
	return models.Reading{
		Pressure:  f.Pressure,
		Month:     f.Month,
		WindDir:   f.Wind,
		WindDeg:   f.WindDeg,
		WindSpeed: f.WindSpeed,
		Trend:     f.Trend,
		Temp:      f.Temp,
		Humidity:  f.Humidity,
	}
}

func (a *app) service() (*report.Service, func(), error) {
	journal, err := a.openJournal()
	if err != nil {
		return nil, nil, err
	}

	var j report.Journal
	closeFn := func() {}
	if journal != nil {
		j = journal
		closeFn = func() { journal.Close() }
	}

	svc, err := report.NewService(a.station(), j, a.clock, a.logger)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return svc, closeFn, nil
}

type ForecastCmd struct {
	ReadingFlags
}

func (c *ForecastCmd) Run(a *app) error {
	svc, closeFn, err := a.service()
	if err != nil {
		return err
	}
	defer closeFn()

	rep, err := svc.Forecast(a.ctx, c.reading())
	if err != nil {
		return err
	}

	e := rep.Entry
	trend := e.Trend
	if rep.TrendDerived {
		trend += " (from journal)"
	}

	fmt.Fprintf(stdout, "Forecast:  %s\n", e.Text)
	fmt.Fprintf(stdout, "Code:      %d (%s)\n", e.Code, rep.Result.Code.Letter())
	fmt.Fprintf(stdout, "Condition: %s\n", e.Condition)
	fmt.Fprintf(stdout, "Trend:     %s\n", trend)
	fmt.Fprintf(stdout, "Wind:      %s\n", e.WindDir)
	fmt.Fprintf(stdout, "Adjusted:  %.1f hPa (bucket %d of 22)\n", e.AdjustedPressure, e.Bucket)
	if e.SeaLevelPressure.Valid {
		fmt.Fprintf(stdout, "MSLP:      %.1f hPa\n", e.SeaLevelPressure.Float64)
	}
	if e.DewPoint.Valid {
		fmt.Fprintf(stdout, "Dew point: %.1f°C\n", e.DewPoint.Float64)
	}
	if e.HeatIndex.Valid {
		fmt.Fprintf(stdout, "Feels:     %.1f°C, %s\n", e.HeatIndex.Float64, rep.Comfort)
	}
	if e.WindChill.Valid {
		fmt.Fprintf(stdout, "Chill:     %.1f°C\n", e.WindChill.Float64)
	}
	if len(rep.Flags) > 0 {
		fmt.Fprintf(stdout, "Flags:     %v\n", rep.Flags)
	}
	return nil
}

type DescribeCmd struct {
	ReadingFlags
}

func (c *DescribeCmd) Run(a *app) error {
	svc, closeFn, err := a.service()
	if err != nil {
		return err
	}
	defer closeFn()

	text, err := svc.Describe(a.ctx, c.reading())
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, text)
	return nil
}

type IndicesCmd struct {
	Temp      float64  `help:"Air temperature (°C)." required:""`
	Humidity  float64  `help:"Relative humidity (%)." required:""`
	WindSpeed *float64 `help:"Wind speed (km/h)." name:"wind-speed"`
	Pressure  *float64 `help:"Station pressure (hPa), reduced to sea level using --altitude."`
}

func (c *IndicesCmd) Run(a *app) error {
	if c.Humidity < 0 || c.Humidity > 100 {
		return fmt.Errorf("humidity must be between 0 and 100, got %v", c.Humidity)
	}

	dew := wxcalc.DewPoint(c.Temp, c.Humidity)
	hi := wxcalc.HeatIndex(c.Temp, c.Humidity)

	fmt.Fprintf(stdout, "Temperature: %.1f°C (%.1f°F)\n", c.Temp, wxcalc.CelsiusToFahrenheit(c.Temp))
	fmt.Fprintf(stdout, "Dew point:   %s\n", celsius(dew))
	fmt.Fprintf(stdout, "Heat index:  %s\n", celsius(hi))
	fmt.Fprintf(stdout, "Humidex:     %s\n", number(wxcalc.Humidex(c.Temp, dew)))
	fmt.Fprintf(stdout, "Comfort:     %s\n", wxcalc.ComfortLevel(hi))
	if c.WindSpeed != nil {
		fmt.Fprintf(stdout, "Wind chill:  %.1f°C\n", wxcalc.WindChill(c.Temp, *c.WindSpeed))
	}
	if c.Pressure != nil {
		fmt.Fprintf(stdout, "Sea level:   %.1f hPa\n", wxcalc.SeaLevelPressure(*c.Pressure, a.Altitude))
	}
	return nil
}

// number formats a derived value, or n/a when the formula has no answer
// for the inputs.
func number(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%.1f", v)
}

func celsius(v float64) string {
	s := number(v)
	if s == "n/a" {
		return s
	}
	return s + "°C"
}

type AQICmd struct {
	PM25 uint16 `help:"PM2.5 concentration (µg/m³)." name:"pm25" required:""`
	PM10 uint16 `help:"PM10 concentration (µg/m³)." name:"pm10" required:""`
}

func (c *AQICmd) Run(a *app) error {
	aqi := wxcalc.AQI(c.PM25, c.PM10)
	fmt.Fprintf(stdout, "AQI: %d (%s)\n", aqi, wxcalc.AQICategory(aqi))
	return nil
}

type HistoryCmd struct {
	Limit       int  `help:"Number of entries to show." default:"20"`
	AllStations bool `help:"Include every station, not just --station."`
	Counts      bool `help:"Summarise entries by forecast code instead of listing them."`
}

func (c *HistoryCmd) Run(a *app) error {
	if a.NoJournal {
		return fmt.Errorf("history needs the journal; drop --no-journal")
	}
	journal, err := a.openJournal()
	if err != nil {
		return err
	}
	defer journal.Close()

	station := a.Station
	if c.AllStations {
		station = ""
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	if c.Counts {
		counts, err := journal.CodeCounts(a.ctx, station)
		if err != nil {
			return fmt.Errorf("code counts: %w", err)
		}
		fmt.Fprintln(w, "CODE\tCOUNT\tFORECAST")
		for _, cc := range counts {
			fmt.Fprintf(w, "%d\t%d\t%s\n", cc.Code, cc.Count, forecast.Code(cc.Code).Phrase())
		}
		return nil
	}

	entries, err := journal.RecentForecasts(a.ctx, station, c.Limit)
	if err != nil {
		return fmt.Errorf("recent forecasts: %w", err)
	}
	fmt.Fprintln(w, "ISSUED\tSTATION\tPRESSURE\tTREND\tWIND\tCODE\tFORECAST")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%.1f\t%s\t%s\t%d\t%s\n",
			e.IssuedAt.Local().Format("2006-01-02 15:04"), e.StationName, e.Pressure, e.Trend, e.WindDir, e.Code, e.Text)
	}
	return nil
}

type PruneCmd struct {
	OlderThan time.Duration `help:"Delete entries issued longer ago than this." default:"2160h"`
}

func (c *PruneCmd) Run(a *app) error {
	if a.NoJournal {
		return fmt.Errorf("prune needs the journal; drop --no-journal")
	}
	journal, err := a.openJournal()
	if err != nil {
		return err
	}
	defer journal.Close()

	n, err := journal.Prune(a.ctx, a.clock.Now().Add(-c.OlderThan))
	if err != nil {
		return fmt.Errorf("prune: %w", err)
	}
	a.logger.Infof("journal: pruned %d entries older than %s", n, c.OlderThan)
	return nil
}
