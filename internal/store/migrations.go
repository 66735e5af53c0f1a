package store

import (
	"database/sql"
	"fmt"
	"time"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "Initial schema",
		SQL: `
CREATE TABLE IF NOT EXISTS forecasts (
    id TEXT PRIMARY KEY,
    station_name TEXT NOT NULL,
    issued_at INTEGER NOT NULL,
    pressure REAL NOT NULL,
    adjusted_pressure REAL NOT NULL,
    month INTEGER NOT NULL,
    wind_dir TEXT NOT NULL,
    trend TEXT NOT NULL,
    northern BOOLEAN NOT NULL,
    highest REAL NOT NULL,
    lowest REAL NOT NULL,
    bucket INTEGER NOT NULL,
    code INTEGER NOT NULL,
    text TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_forecasts_station_issued ON forecasts(station_name, issued_at);
`,
	},
	{
		Version:     2,
		Description: "Add condition and derived indices",
		SQL: `
ALTER TABLE forecasts ADD COLUMN condition TEXT NOT NULL DEFAULT '';
ALTER TABLE forecasts ADD COLUMN temp REAL;
ALTER TABLE forecasts ADD COLUMN humidity REAL;
ALTER TABLE forecasts ADD COLUMN dew_point REAL;
ALTER TABLE forecasts ADD COLUMN heat_index REAL;
ALTER TABLE forecasts ADD COLUMN wind_chill REAL;
ALTER TABLE forecasts ADD COLUMN sea_level_pressure REAL;
`,
	},
	{
		Version:     3,
		Description: "Index forecasts by code",
		SQL: `
CREATE INDEX IF NOT EXISTS idx_forecasts_code ON forecasts(code);
`,
	},
	{
		Version:     4,
		Description: "Add quality flags",
		SQL: `
ALTER TABLE forecasts ADD COLUMN quality_flags TEXT NOT NULL DEFAULT '';
`,
	},
}

func (s *Store) Migrate() error {
	if err := s.ensureMigrationsTable(); err != nil {
		return fmt.Errorf("ensure migrations table: %w", err)
	}

	applied, err := s.getAppliedMigrations()
	if err != nil {
		return fmt.Errorf("get applied migrations: %w", err)
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}

		s.logger.Infof("migrations: applying %d - %s", m.Version, m.Description)

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin tx for migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("execute migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(
			"INSERT INTO schema_migrations (version, description, applied_at) VALUES (?, ?, ?)",
			m.Version, m.Description, time.Now().UTC().Unix(),
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}

		s.logger.Debugf("migrations: completed %d", m.Version)
	}

	return nil
}

func (s *Store) ensureMigrationsTable() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			description TEXT,
			applied_at INTEGER
		)
	`)
	return err
}

func (s *Store) getAppliedMigrations() (map[int]bool, error) {
	rows, err := s.db.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func (s *Store) MigrationVersion() (int, error) {
	var version sql.NullInt64
	err := s.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, err
	}
	if !version.Valid {
		return 0, nil
	}
	return int(version.Int64), nil
}
