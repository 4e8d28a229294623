// Package sqlite persists session documents in SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tutor/internal/level"
	"tutor/internal/mastery"
	"tutor/internal/session"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store implements session.Store on a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and applies migrations.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`PRAGMA journal_mode=WAL;`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			subject TEXT NOT NULL,
			level TEXT NOT NULL,
			assessed INTEGER NOT NULL,
			level_history TEXT NOT NULL,
			performance TEXT NOT NULL,
			total_correct INTEGER NOT NULL,
			total_attempts INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Create(ctx context.Context, sess *session.Session) error {
	row, err := encode(sess)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO sessions
		(id, subject, level, assessed, level_history, performance, total_correct, total_attempts, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.Subject, row.level, row.assessed, row.history, row.performance,
		sess.TotalCorrect, sess.TotalAttempts, formatTime(sess.CreatedAt), formatTime(sess.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, sess *session.Session) error {
	row, err := encode(sess)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE sessions SET
		subject = ?, level = ?, assessed = ?, level_history = ?, performance = ?,
		total_correct = ?, total_attempts = ?, updated_at = ?
		WHERE id = ?`,
		sess.Subject, row.level, row.assessed, row.history, row.performance,
		sess.TotalCorrect, sess.TotalAttempts, formatTime(sess.UpdatedAt), sess.ID)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return session.ErrNotFound
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*session.Session, error) {
	var (
		sess                     session.Session
		levelName, history, perf string
		assessed                 int
		createdAt, updatedAt     string
	)
	err := s.db.QueryRowContext(ctx, `SELECT id, subject, level, assessed, level_history, performance,
		total_correct, total_attempts, created_at, updated_at FROM sessions WHERE id = ?`, id).
		Scan(&sess.ID, &sess.Subject, &levelName, &assessed, &history, &perf,
			&sess.TotalCorrect, &sess.TotalAttempts, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select session: %w", err)
	}
	if sess.Level.Current, err = level.Parse(levelName); err != nil {
		return nil, err
	}
	sess.Level.Assessed = assessed != 0
	if err := json.Unmarshal([]byte(history), &sess.Level.History); err != nil {
		return nil, fmt.Errorf("decode level history: %w", err)
	}
	sess.Performance = mastery.NewPerformance()
	if err := json.Unmarshal([]byte(perf), sess.Performance); err != nil {
		// A malformed record is treated as a fresh one.
		sess.Performance = mastery.NewPerformance()
	}
	sess.CreatedAt = parseTime(createdAt)
	sess.UpdatedAt = parseTime(updatedAt)
	return &sess, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	return err
}

type encoded struct {
	level       string
	assessed    int
	history     string
	performance string
}

func encode(sess *session.Session) (encoded, error) {
	history := sess.Level.History
	if history == nil {
		history = []level.Level{}
	}
	h, err := json.Marshal(history)
	if err != nil {
		return encoded{}, err
	}
	perf := sess.Performance
	if perf == nil {
		perf = mastery.NewPerformance()
	}
	p, err := json.Marshal(perf)
	if err != nil {
		return encoded{}, err
	}
	e := encoded{level: sess.Level.Current.String(), history: string(h), performance: string(p)}
	if sess.Level.Assessed {
		e.assessed = 1
	}
	return e, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
