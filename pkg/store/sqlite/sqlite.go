// Package sqlite provides a SQLite-backed store for sensor readings. It
// implements both source.Source (window fetch for detection) and source.Sink
// (bulk insert for the generator).
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // pure-Go SQLite driver (no CGO required)

	"github.com/driftlab/sensorwatch/pkg/sensor"
)

// Schema version is tracked in the schema_versions table. Timestamps are
// stored as Unix nanoseconds so window queries stay plain integer range
// scans over the index.
var migrations = []struct {
	version int
	sql     string
}{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS sensor_readings (
    id          TEXT PRIMARY KEY,
    sensor_id   TEXT NOT NULL,
    sensor_type TEXT NOT NULL DEFAULT '',
    value       REAL NOT NULL,
    unit        TEXT NOT NULL DEFAULT '',
    location    TEXT NOT NULL DEFAULT '',
    ts_ns       INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_readings_ts        ON sensor_readings(ts_ns);
CREATE INDEX IF NOT EXISTS idx_readings_sensor_ts ON sensor_readings(sensor_id, ts_ns);
`,
	},
}

// Store is a SQLite-backed reading store.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite database at the given path and runs all
// pending schema migrations. Pass ":memory:" for an in-memory store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	// An in-memory database exists per connection; keep a single one so
	// every query sees the same data.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// migrate applies any unapplied migrations in order.
func (s *Store) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_versions (
        version    INTEGER PRIMARY KEY,
        applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
    )`)
	if err != nil {
		return fmt.Errorf("create schema_versions: %w", err)
	}

	for _, m := range migrations {
		var count int
		err := s.db.QueryRow(`SELECT COUNT(*) FROM schema_versions WHERE version = ?`, m.version).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %d: %w", m.version, err)
		}
		if count > 0 {
			continue // already applied
		}

		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("apply migration %d: %w", m.version, err)
		}
		if _, err := s.db.Exec(`INSERT INTO schema_versions(version) VALUES(?)`, m.version); err != nil {
			return fmt.Errorf("record migration %d: %w", m.version, err)
		}
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// Insert stores the given readings in a single transaction.
func (s *Store) Insert(ctx context.Context, readings []sensor.Reading) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
        INSERT INTO sensor_readings(id, sensor_id, sensor_type, value, unit, location, ts_ns)
        VALUES(?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range readings {
		r := &readings[i]
		if err := r.Validate(); err != nil {
			return fmt.Errorf("reading %d: %w", i, err)
		}
		_, err := stmt.ExecContext(ctx,
			r.ID, r.SensorID, r.SensorType, r.Value, r.Unit, r.Location, r.Timestamp.UnixNano())
		if err != nil {
			return fmt.Errorf("insert reading %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// Fetch returns all readings with timestamps in [start, end], ordered by
// timestamp ascending. The window filter runs in SQL; grouping and
// statistics stay in the detector.
func (s *Store) Fetch(ctx context.Context, start, end time.Time) ([]sensor.Reading, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, sensor_id, sensor_type, value, unit, location, ts_ns
        FROM sensor_readings
        WHERE ts_ns >= ? AND ts_ns <= ?
        ORDER BY ts_ns ASC`,
		start.UnixNano(), end.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("query readings: %w", err)
	}
	defer rows.Close()

	var out []sensor.Reading
	for rows.Next() {
		var r sensor.Reading
		var tsNS int64
		if err := rows.Scan(&r.ID, &r.SensorID, &r.SensorType, &r.Value, &r.Unit, &r.Location, &tsNS); err != nil {
			return nil, fmt.Errorf("scan reading: %w", err)
		}
		r.Timestamp = time.Unix(0, tsNS).UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

// Clear removes all stored readings.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sensor_readings`)
	return err
}

// Count returns the number of stored readings.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sensor_readings`).Scan(&n)
	return n, err
}
