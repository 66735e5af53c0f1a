// Package report turns a station reading into a journalled Zambretti
// forecast annotated with derived comfort indices.
package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/lox/barocast/internal/forecast"
	"github.com/lox/barocast/internal/metrics"
	"github.com/lox/barocast/internal/models"
	"github.com/lox/barocast/internal/wxcalc"
)

const (
	trendLookback  = forecast.TrendWindow * time.Hour
	trendTolerance = 30 * time.Minute
)

// Journal stores issued forecasts and answers the trend lookback query.
type Journal interface {
	InsertForecast(ctx context.Context, e models.ForecastEntry) error
	PressureAt(ctx context.Context, stationName string, at time.Time, tolerance time.Duration) (float64, bool, error)
}

type Service struct {
	station  models.Station
	journal  Journal
	clock    clockwork.Clock
	logger   *zap.SugaredLogger
	validate *validator.Validate
}

// Report is the outcome of forecasting one reading.
type Report struct {
	Entry  models.ForecastEntry
	Result forecast.Result
	// TrendDerived is set when the trend came from journal history rather
	// than the reading.
	TrendDerived bool
	Comfort      wxcalc.Comfort
	Flags        []string
}

// NewService validates the station and returns a Service. journal may be
// nil, in which case nothing is recorded and auto trends resolve to steady.
func NewService(station models.Station, journal Journal, clock clockwork.Clock, logger *zap.SugaredLogger) (*Service, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	s := &Service{
		station:  station,
		journal:  journal,
		clock:    clock,
		logger:   logger,
		validate: newValidator(),
	}
	if err := s.validate.Struct(station); err != nil {
		return nil, validationError(ErrInvalidStation, err)
	}
	return s, nil
}

func (s *Service) Station() models.Station {
	return s.station
}

func (s *Service) Forecast(ctx context.Context, r models.Reading) (*Report, error) {
	if err := s.validate.Struct(r); err != nil {
		metrics.ReadingsRejected.WithLabelValues("validation").Inc()
		return nil, validationError(ErrInvalidReading, err)
	}

	issued := r.ObservedAt
	if issued.IsZero() {
		issued = s.clock.Now()
	}
	issued = issued.UTC()

	month := time.Month(r.Month)
	if month == 0 {
		month = issued.Month()
	}

	trend, derived, err := s.resolveTrend(ctx, r, issued)
	if err != nil {
		return nil, err
	}

	cond := forecast.Conditions{
		Pressure:   r.Pressure,
		Month:      month,
		Wind:       resolveWind(r),
		Trend:      trend,
		Hemisphere: forecast.Hemisphere(s.station.Northern),
		Extremes: forecast.Extremes{
			Highest: s.station.HighestPressure,
			Lowest:  s.station.LowestPressure,
		},
	}

	res, err := forecast.Evaluate(cond)
	if err != nil {
		metrics.ReadingsRejected.WithLabelValues(rejectReason(err)).Inc()
		return nil, fmt.Errorf("evaluate: %w", err)
	}

	rep := &Report{
		Result:       res,
		TrendDerived: derived,
		Flags:        QualityFlags(r, s.station),
	}
	rep.Entry = models.ForecastEntry{
		ID:               uuid.NewString(),
		StationName:      s.station.Name,
		IssuedAt:         issued,
		Pressure:         r.Pressure,
		AdjustedPressure: res.AdjustedPressure,
		Month:            int(month),
		WindDir:          cond.Wind.String(),
		Trend:            trend.String(),
		Northern:         s.station.Northern,
		Highest:          s.station.HighestPressure,
		Lowest:           s.station.LowestPressure,
		Bucket:           res.Bucket,
		Code:             int(res.Code),
		Text:             res.Code.Text(),
		Condition:        string(res.Code.Condition()),
		QualityFlags:     QualityFlagsToJSON(rep.Flags),
	}
	rep.Comfort = s.annotate(&rep.Entry, r)

	if s.journal != nil {
		if err := s.journal.InsertForecast(ctx, rep.Entry); err != nil {
			s.logger.Errorf("report: journal forecast %s: %v", rep.Entry.ID, err)
			return nil, fmt.Errorf("journal forecast: %w", err)
		}
	}

	s.record(rep)
	return rep, nil
}

// Describe is Forecast reduced to its descriptive text.
func (s *Service) Describe(ctx context.Context, r models.Reading) (string, error) {
	rep, err := s.Forecast(ctx, r)
	if err != nil {
		return "", err
	}
	return rep.Entry.Text, nil
}

func (s *Service) resolveTrend(ctx context.Context, r models.Reading, issued time.Time) (forecast.Trend, bool, error) {
	if !isAutoTrend(r.Trend) {
		t, _ := forecast.ParseTrend(r.Trend)
		return t, false, nil
	}
	if s.journal == nil {
		return forecast.TrendSteady, false, nil
	}

	prev, ok, err := s.journal.PressureAt(ctx, s.station.Name, issued.Add(-trendLookback), trendTolerance)
	if err != nil {
		return forecast.TrendSteady, false, fmt.Errorf("trend lookback: %w", err)
	}
	if !ok {
		s.logger.Debugf("report: no reading near %s, assuming steady", issued.Add(-trendLookback).Format(time.RFC3339))
		return forecast.TrendSteady, false, nil
	}

	t := forecast.TrendFromChange(r.Pressure - prev)
	s.logger.Debugf("report: trend %s from %.1f -> %.1f", t, prev, r.Pressure)
	return t, true, nil
}

func resolveWind(r models.Reading) forecast.WindDirection {
	if r.WindDir != "" {
		d, _ := forecast.ParseWindDirection(r.WindDir)
		return d
	}
	if r.WindSpeed != nil && *r.WindSpeed == 0 {
		return forecast.Calm
	}
	if r.WindDeg != nil {
		return forecast.DirectionFromDegrees(*r.WindDeg)
	}
	return forecast.Calm
}

// annotate fills in the derived indices the reading has inputs for.
func (s *Service) annotate(e *models.ForecastEntry, r models.Reading) wxcalc.Comfort {
	comfort := wxcalc.ComfortUnrated

	if s.station.Altitude != 0 {
		e.SeaLevelPressure = valid(wxcalc.SeaLevelPressure(r.Pressure, s.station.Altitude))
	}
	if r.Temp == nil {
		return comfort
	}
	e.Temp = valid(*r.Temp)

	if r.Humidity != nil {
		e.Humidity = valid(*r.Humidity)
		e.DewPoint = valid(wxcalc.DewPoint(*r.Temp, *r.Humidity))
		hi := wxcalc.HeatIndex(*r.Temp, *r.Humidity)
		e.HeatIndex = valid(hi)
		comfort = wxcalc.ComfortLevel(hi)
	}
	if r.WindSpeed != nil {
		e.WindChill = valid(wxcalc.WindChill(*r.Temp, *r.WindSpeed))
	}
	return comfort
}

func (s *Service) record(rep *Report) {
	res := rep.Result

	metrics.ForecastsIssued.WithLabelValues(rep.Entry.Trend, rep.Entry.Condition).Inc()
	metrics.ForecastCode.WithLabelValues(s.station.Name).Set(float64(res.Code))
	if res.Clamped {
		metrics.PressureClamped.Inc()
	}
	if res.OutOfRange {
		metrics.BucketOutOfRange.Inc()
		s.logger.Warnf("report: bucket out of table for adjusted pressure %.1f, clamped to %d", res.AdjustedPressure, res.Bucket)
	}
	if len(rep.Flags) > 0 {
		s.logger.Warnf("report: reading flagged %v", rep.Flags)
	}

	s.logger.Infow("report: forecast issued",
		"station", s.station.Name,
		"pressure", rep.Entry.Pressure,
		"trend", rep.Entry.Trend,
		"wind", rep.Entry.WindDir,
		"bucket", res.Bucket,
		"code", int(res.Code),
		"text", rep.Entry.Text,
	)
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, forecast.ErrInvalidMonth):
		return "invalid_month"
	case errors.Is(err, forecast.ErrInvalidPressure):
		return "invalid_pressure"
	case errors.Is(err, forecast.ErrDegenerateExtremes):
		return "degenerate_extremes"
	default:
		return "other"
	}
}

// valid wraps a derived value for the journal. NaN and infinities are
// stored as NULL.
func valid(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: !math.IsNaN(v) && !math.IsInf(v, 0)}
}
