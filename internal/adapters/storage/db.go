package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"
)

// migration is one forward-only schema step.
type migration struct {
	version int
	name    string
	sql     string
}

// migrations are applied in order; never edit a released step, append a new one.
var migrations = []migration{
	{
		version: 1,
		name:    "clubs_slots_enrollments",
		sql: `
	CREATE TABLE IF NOT EXISTS club (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		category_icon TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS time_slot (
		club_id TEXT NOT NULL,
		id TEXT NOT NULL,
		position INTEGER NOT NULL,
		day_of_week TEXT NOT NULL,
		start_minute INTEGER NOT NULL,
		end_minute INTEGER NOT NULL,
		capacity INTEGER NOT NULL CHECK (capacity >= 0),
		enrolled_count INTEGER NOT NULL DEFAULT 0 CHECK (enrolled_count >= 0 AND enrolled_count <= capacity),
		PRIMARY KEY (club_id, id),
		FOREIGN KEY (club_id) REFERENCES club(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS enrollment (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		student_matricula TEXT NOT NULL,
		student_first_name TEXT NOT NULL,
		student_last_name TEXT NOT NULL,
		student_group TEXT NOT NULL,
		club_id TEXT NOT NULL,
		time_slot_id TEXT NOT NULL,
		enrolled_at TEXT NOT NULL,
		UNIQUE (student_matricula, club_id, time_slot_id),
		FOREIGN KEY (club_id) REFERENCES club(id) ON DELETE CASCADE
	);
	`,
	},
	{
		version: 2,
		name:    "enrollment_club_index",
		sql:     `CREATE INDEX IF NOT EXISTS idx_enrollment_club ON enrollment(club_id, time_slot_id);`,
	},
}

// LatestSchemaVersion returns the version the schema reaches after MigrateDB.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// SchemaVersion returns the highest applied migration, or 0 on a fresh database.
func SchemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	var exists int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'`).Scan(&exists); err != nil {
		return 0, err
	}
	if exists == 0 {
		return 0, nil
	}
	var v int
	err := db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&v)
	return v, err
}

// Open opens a SQLite database at path and migrates it.
// PRE: path is a file path or ":memory:"
// POST: returns a migrated *sql.DB; a single connection is used for :memory:
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", DSN(path))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err := MigrateDB(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// DSN builds the modernc.org/sqlite connection string used by the server and tests.
// Transactions begin IMMEDIATE so a check-then-write never has to upgrade its lock.
func DSN(path string) string {
	return path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)&_txlock=immediate"
}

// MigrateDB brings the schema up to LatestSchemaVersion.
// PRE: db is a valid database connection
// POST: schema_version holds the latest version; every pending step ran in its own transaction
func MigrateDB(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("failed to create schema_version: %w", err)
	}

	current, err := SchemaVersion(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("migration %d: %w", m.version, err)
		}
		if _, err := tx.ExecContext(ctx, m.sql); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_version (version) VALUES (?)`, m.version); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d: record version: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d: commit: %w", m.version, err)
		}
		slog.Info("schema_migrated", "version", m.version, "name", m.name)
	}
	return nil
}
