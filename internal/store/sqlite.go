package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/lox/barocast/internal/metrics"
	"github.com/lox/barocast/internal/models"
)

const (
	retryInitialInterval = 50 * time.Millisecond
	retryMaxElapsed      = 5 * time.Second
)

type Store struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

func New(db *sql.DB, logger *zap.SugaredLogger) *Store {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Store{db: db, logger: logger}
}

// Open opens (or creates) the journal database at path and applies migrations.
func Open(path string, logger *zap.SugaredLogger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")

	s := New(db, logger)
	if err := s.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// isBusy reports whether err is SQLite telling us another connection holds
// the lock.
func isBusy(err error) bool {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return false
	}
	code := serr.Code() & 0xff
	return code == sqlite3.SQLITE_BUSY || code == sqlite3.SQLITE_LOCKED
}

// withRetry runs op, retrying with exponential backoff while the database
// is busy. Any other error stops immediately.
func (s *Store) withRetry(ctx context.Context, name string, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = retryInitialInterval
	b.MaxElapsedTime = retryMaxElapsed

	operation := func() error {
		err := op()
		if err == nil {
			return nil
		}
		if isBusy(err) {
			return err
		}
		return backoff.Permanent(err)
	}

	notify := func(err error, wait time.Duration) {
		metrics.JournalRetries.WithLabelValues(name).Inc()
		s.logger.Warnf("store: %s busy, retrying in %s: %v", name, wait, err)
	}

	return backoff.RetryNotify(operation, backoff.WithContext(b, ctx), notify)
}

func (s *Store) InsertForecast(ctx context.Context, e models.ForecastEntry) error {
	return s.withRetry(ctx, "insert_forecast", func() error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO forecasts (id, station_name, issued_at, pressure, adjusted_pressure, month, wind_dir, trend, northern, highest, lowest, bucket, code, text, condition, temp, humidity, dew_point, heat_index, wind_chill, sea_level_pressure, quality_flags)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO NOTHING
		`, e.ID, e.StationName, e.IssuedAt.UTC().Unix(), e.Pressure, e.AdjustedPressure, e.Month, e.WindDir, e.Trend, e.Northern,
			e.Highest, e.Lowest, e.Bucket, e.Code, e.Text, e.Condition,
			e.Temp, e.Humidity, e.DewPoint, e.HeatIndex, e.WindChill, e.SeaLevelPressure, e.QualityFlags)
		return err
	})
}

const forecastColumns = `id, station_name, issued_at, pressure, adjusted_pressure, month, wind_dir, trend, northern, highest, lowest, bucket, code, text, condition, temp, humidity, dew_point, heat_index, wind_chill, sea_level_pressure, quality_flags`

type scanner interface {
	Scan(dest ...any) error
}

func scanForecast(row scanner) (models.ForecastEntry, error) {
	var e models.ForecastEntry
	var issued int64
	err := row.Scan(&e.ID, &e.StationName, &issued, &e.Pressure, &e.AdjustedPressure, &e.Month, &e.WindDir, &e.Trend, &e.Northern,
		&e.Highest, &e.Lowest, &e.Bucket, &e.Code, &e.Text, &e.Condition,
		&e.Temp, &e.Humidity, &e.DewPoint, &e.HeatIndex, &e.WindChill, &e.SeaLevelPressure, &e.QualityFlags)
	if err != nil {
		return e, err
	}
	e.IssuedAt = time.Unix(issued, 0).UTC()
	return e, nil
}

func (s *Store) GetForecast(ctx context.Context, id string) (*models.ForecastEntry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+forecastColumns+` FROM forecasts WHERE id = ?`, id)
	e, err := scanForecast(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// RecentForecasts returns up to limit entries, newest first. An empty
// station name matches every station.
func (s *Store) RecentForecasts(ctx context.Context, stationName string, limit int) ([]models.ForecastEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+forecastColumns+`
		FROM forecasts
		WHERE (? = '' OR station_name = ?)
		ORDER BY issued_at DESC, id
		LIMIT ?
	`, stationName, stationName, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.ForecastEntry
	for rows.Next() {
		e, err := scanForecast(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// PressureAt returns the journalled pressure closest to at, provided one
// was recorded within tolerance of it.
func (s *Store) PressureAt(ctx context.Context, stationName string, at time.Time, tolerance time.Duration) (float64, bool, error) {
	target := at.UTC().Unix()
	tol := int64(tolerance / time.Second)

	var pressure float64
	err := s.db.QueryRowContext(ctx, `
		SELECT pressure
		FROM forecasts
		WHERE station_name = ? AND issued_at >= ? AND issued_at <= ?
		ORDER BY ABS(issued_at - ?) ASC, issued_at DESC
		LIMIT 1
	`, stationName, target-tol, target+tol, target).Scan(&pressure)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return pressure, true, nil
}

// CodeCounts tallies journal entries by forecast code, most frequent first.
func (s *Store) CodeCounts(ctx context.Context, stationName string) ([]models.CodeCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT code, COUNT(*) AS n
		FROM forecasts
		WHERE (? = '' OR station_name = ?)
		GROUP BY code
		ORDER BY n DESC, code ASC
	`, stationName, stationName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []models.CodeCount
	for rows.Next() {
		var c models.CodeCount
		if err := rows.Scan(&c.Code, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// Prune deletes entries issued before cutoff and returns how many went.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	var n int64
	err := s.withRetry(ctx, "prune", func() error {
		res, err := s.db.ExecContext(ctx, `DELETE FROM forecasts WHERE issued_at < ?`, cutoff.UTC().Unix())
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})
	return n, err
}
