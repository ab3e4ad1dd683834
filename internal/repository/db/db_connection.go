package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// InitDB opens/creates a SQLite DB file and ensures tables exist.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// Conservative pool settings for SQLite
	db.SetMaxOpenConns(1) // SQLite is not great with many writers
	db.SetMaxIdleConns(1)

	// Pragmas to improve reliability
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set PRAGMA journal_mode=WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set PRAGMA foreign_keys=ON: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set PRAGMA busy_timeout=5000: %w", err)
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	// Fail fast if the DB cannot be reached
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

const sqliteDriverName = "sqlite"

// coil_snapshot is a single-row table (id always 1) holding the latest
// computed scenario. The water-side sizing columns are nullable: NULL encodes
// the +Inf "not applicable" sentinel, which SQLite cannot store directly.
const schemaCoilSnapshot = `
CREATE TABLE IF NOT EXISTS coil_snapshot (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    outside_temp_c REAL NOT NULL,
    outside_humidity_pct REAL NOT NULL,
    volume_flow_m3h REAL NOT NULL,
    target_temp_c REAL NOT NULL,
    supply_temp_c REAL NOT NULL,
    return_temp_c REAL NOT NULL,
    sensible_power_kw REAL NOT NULL,
    latent_power_kw REAL NOT NULL,
    total_power_kw REAL NOT NULL,
    water_volume_flow_m3h REAL,
    final_humidity_pct REAL NOT NULL,
    is_heating BOOLEAN NOT NULL,
    dew_point_c REAL NOT NULL,
    initial_abs_humidity_gkg REAL NOT NULL,
    final_abs_humidity_gkg REAL NOT NULL,
    efficiency REAL NOT NULL,
    pipe_diameter_mm REAL,
    updated_at TIMESTAMP NOT NULL
);
`

const schemaCalcEvents = `
CREATE TABLE IF NOT EXISTS calc_events (
    id TEXT PRIMARY KEY,
    occurred_at TIMESTAMP NOT NULL,
    kind TEXT NOT NULL,
    message TEXT NOT NULL,
    payload TEXT
);
`

const schemaUsers = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL
);
`

func ensureSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		// In case of panic, rollback to avoid leaving an open transaction
		_ = tx.Rollback()
	}()

	for i, stmt := range []string{
		schemaCoilSnapshot,
		schemaCalcEvents,
		schemaUsers,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}
