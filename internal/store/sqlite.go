package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/f3rmion/gtb/internal/game"
	"github.com/f3rmion/gtb/internal/hint"
	"github.com/f3rmion/gtb/internal/theme"
)

const schema = `
CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS rounds (
	id         TEXT PRIMARY KEY,
	started_at INTEGER NOT NULL,
	difficulty INTEGER NOT NULL,
	language   TEXT NOT NULL,
	mask       TEXT NOT NULL,
	answers    TEXT NOT NULL,
	found      TEXT NOT NULL,
	status     TEXT NOT NULL,
	points     INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS rounds_started_at ON rounds(started_at);
`

// SQLite is a Store backed by a SQLite database file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (and creates if missing) the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting pragmas: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("reading setting %q: %w", key, err)
	}
	return v, nil
}

func (s *SQLite) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings(key, value) VALUES(?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("writing setting %q: %w", key, err)
	}
	return nil
}

func (s *SQLite) RecordRound(ctx context.Context, r Round) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	answers, err := json.Marshal(nonNil(r.Answers))
	if err != nil {
		return fmt.Errorf("encoding answers: %w", err)
	}
	found, err := json.Marshal(nonNil(r.Found))
	if err != nil {
		return fmt.Errorf("encoding found answers: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO rounds(id, started_at, difficulty, language, mask, answers, found, status, points)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.StartedAt.UnixMilli(), int(r.Difficulty), string(r.Language), r.Mask,
		string(answers), string(found), string(r.Status), r.Points,
	)
	if err != nil {
		return fmt.Errorf("recording round: %w", err)
	}
	return nil
}

func (s *SQLite) RecentRounds(ctx context.Context, limit int) ([]Round, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, difficulty, language, mask, answers, found, status, points
		 FROM rounds
		 ORDER BY started_at DESC, rowid DESC
		 LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying rounds: %w", err)
	}
	defer rows.Close()

	var out []Round
	for rows.Next() {
		var (
			r              Round
			started        int64
			difficulty     int
			lang, status   string
			answers, found string
		)
		if err := rows.Scan(&r.ID, &started, &difficulty, &lang, &r.Mask, &answers, &found, &status, &r.Points); err != nil {
			return nil, fmt.Errorf("scanning round: %w", err)
		}
		if err := json.Unmarshal([]byte(answers), &r.Answers); err != nil {
			return nil, fmt.Errorf("decoding answers of round %s: %w", r.ID, err)
		}
		if err := json.Unmarshal([]byte(found), &r.Found); err != nil {
			return nil, fmt.Errorf("decoding found answers of round %s: %w", r.ID, err)
		}
		r.StartedAt = time.UnixMilli(started)
		r.Difficulty = hint.Difficulty(difficulty)
		r.Language = theme.Language(lang)
		r.Status = game.Status(status)
		out = append(out, r)
	}
	return out, rows.Err()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
