// Package sqlite implements the repository interfaces using SQLite as the storage backend.
//
// WHY SQLITE?
// SQLite is an embedded database — it lives inside the Go binary as a single
// file. No separate database server to install, configure, or manage. For a
// single-server CRUD app like this one, that's all the relational store we
// need, and ":memory:" gives tests a fresh isolated database for free.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which means you need a C compiler and
// cross-compilation becomes painful. modernc.org/sqlite is a pure Go
// translation of the SQLite C code — works everywhere Go works.
package sqlite

import (
	"database/sql"
	"fmt"

	// Side-effect import: the driver registers itself with database/sql
	// under the name "sqlite" at init time.
	_ "modernc.org/sqlite"
)

// DB owns the sql.DB connection pool and exposes one repository per entity.
// All repositories share the pool, so cross-table operations — notably the
// cascading schedule delete — run inside a single transaction on a single
// pool.
type DB struct {
	conn *sql.DB

	Users          *UserRepo
	Schedules      *ScheduleRepo
	Candidates     *CandidateRepo
	Availabilities *AvailabilityRepo
	Comments       *CommentRepo
}

// New creates a new SQLite database connection and runs migrations.
//
// dbPath examples:
//   - "data/schedule-arranger.db" → file-based database (persistent)
//   - ":memory:"                  → in-memory database (tests, lost on close)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Ping forces an immediate connection so a bad path or permissions
	// issue surfaces here, not on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads while a write is in progress —
	// important for a web server where many requests hit the DB at once.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite for backwards compatibility.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{
		conn:           conn,
		Users:          &UserRepo{conn: conn},
		Schedules:      &ScheduleRepo{conn: conn},
		Candidates:     &CandidateRepo{conn: conn},
		Availabilities: &AvailabilityRepo{conn: conn},
		Comments:       &CommentRepo{conn: conn},
	}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool. Callers should defer this
// right after New so the WAL is flushed even on a panic.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates all tables. CREATE TABLE IF NOT EXISTS keeps this
// idempotent — safe to run on every startup.
//
// SCHEMA NOTES:
//   - schedules.schedule_id is a random UUID (TEXT), deliberately not an
//     integer: sequential detail-page URLs would be enumerable.
//   - availabilities and comments use composite primary keys; the leading
//     schedule_id of the comments PK doubles as its lookup index, while
//     availabilities needs an explicit schedule_id index because its PK
//     leads with candidate_id.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			user_id  INTEGER PRIMARY KEY,
			username TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schedules (
			schedule_id   TEXT PRIMARY KEY,
			schedule_name TEXT NOT NULL,
			memo          TEXT NOT NULL DEFAULT '',
			created_by    INTEGER NOT NULL,
			updated_at    DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_schedules_created_by ON schedules(created_by);
	`)
	if err != nil {
		return fmt.Errorf("creating schedules table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS candidates (
			candidate_id   INTEGER PRIMARY KEY AUTOINCREMENT,
			candidate_name TEXT NOT NULL,
			schedule_id    TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_candidates_schedule_id ON candidates(schedule_id);
	`)
	if err != nil {
		return fmt.Errorf("creating candidates table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS availabilities (
			candidate_id INTEGER NOT NULL,
			user_id      INTEGER NOT NULL,
			availability INTEGER NOT NULL DEFAULT 0,
			schedule_id  TEXT NOT NULL,
			PRIMARY KEY (candidate_id, user_id)
		);
		CREATE INDEX IF NOT EXISTS idx_availabilities_schedule_id ON availabilities(schedule_id);
	`)
	if err != nil {
		return fmt.Errorf("creating availabilities table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS comments (
			schedule_id TEXT NOT NULL,
			user_id     INTEGER NOT NULL,
			comment     TEXT NOT NULL,
			PRIMARY KEY (schedule_id, user_id)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating comments table: %w", err)
	}

	return nil
}
