package snapshot

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/isgwatch/isgwatch/internal/entry"
	"github.com/rs/zerolog"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS snapshot (
	error_code TEXT NOT NULL,
	heatpump   TEXT NOT NULL,
	date       TEXT NOT NULL,
	time       TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// sqliteStore keeps the snapshot in a single-file SQLite database. The
// meta table marks whether a baseline exists, so an empty baseline is
// distinguishable from a first run.
type sqliteStore struct {
	db  *sql.DB
	log zerolog.Logger
}

func openSQLite(cfg Config, log zerolog.Logger) (*sqliteStore, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("state.path is required for the sqlite driver")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Single short-lived process; SQLite prefers one writer anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if cfg.BusyTimeout > 0 {
		_, _ = db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.BusyTimeout.Milliseconds()))
	}
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		// A fresh database never fails schema creation; an existing file
		// that does is unreadable state.
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptState, path, err)
	}
	return &sqliteStore{db: db, log: log}, nil
}

func (s *sqliteStore) Load() ([]entry.Entry, bool, error) {
	var marker string
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = 'baseline'`).Scan(&marker)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}

	rows, err := s.db.Query(`SELECT error_code, heatpump, date, time FROM snapshot ORDER BY rowid`)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	defer rows.Close()

	var entries []entry.Entry
	for rows.Next() {
		var e entry.Entry
		if err := rows.Scan(&e.ErrorCode, &e.Heatpump, &e.Date, &e.Time); err != nil {
			return nil, false, fmt.Errorf("%w: %v", ErrCorruptState, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	return entries, true, nil
}

func (s *sqliteStore) Save(entries []entry.Entry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin snapshot replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM snapshot`); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	for _, e := range entries {
		if _, err := tx.Exec(
			`INSERT INTO snapshot(error_code, heatpump, date, time) VALUES(?,?,?,?)`,
			e.ErrorCode, e.Heatpump, e.Date, e.Time,
		); err != nil {
			return fmt.Errorf("insert snapshot row: %w", err)
		}
	}
	if _, err := tx.Exec(
		`INSERT INTO meta(key, value) VALUES('baseline', 'set')
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
	); err != nil {
		return fmt.Errorf("mark baseline: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot replace: %w", err)
	}

	s.log.Debug().
		Int("entries", len(entries)).
		Msg("Snapshot saved")
	return nil
}

func (s *sqliteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
