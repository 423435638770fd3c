package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/okian/geodraw/internal/domain/model"
	"github.com/okian/geodraw/pkg/metrics"
	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// SQLiteStore persists sessions in a SQLite database so progress survives
// restarts. Timestamps are stored as unix nanoseconds.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens or creates the database at path and runs migrations.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("repository: open db: %w", err)
	}
	// SQLite serializes writers; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("repository: migrate: %w", err)
	}
	metrics.UpdateRepositoryShardCount(1)
	metrics.UpdateSessionsTotal(s.Count(ctx))
	return s, nil
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			score INTEGER NOT NULL DEFAULT 0,
			correct_answers INTEGER NOT NULL DEFAULT 0,
			attempts INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_score ON sessions(score DESC, id)`,
		`CREATE TABLE IF NOT EXISTS discoveries (
			session_id TEXT NOT NULL,
			shape TEXT NOT NULL,
			score REAL NOT NULL,
			points INTEGER NOT NULL,
			discovered_at INTEGER NOT NULL,
			PRIMARY KEY (session_id, shape),
			FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
		)`,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, q := range stmts {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Create(ctx context.Context, id string, now time.Time) error {
	start := time.Now()
	defer func() { metrics.RecordRepositoryUpdateLatency(sinceMs(start)) }()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions(id, created_at, updated_at) VALUES(?, ?, ?)`,
		id, now.UnixNano(), now.UnixNano())
	if err != nil {
		if isConstraintErr(err) {
			metrics.RecordErrorByComponent("repository", "exists")
			return ErrExists
		}
		return fmt.Errorf("repository: create session: %w", err)
	}
	metrics.UpdateSessionsTotal(s.Count(ctx))
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (model.Session, error) {
	start := time.Now()
	defer func() { metrics.RecordRepositoryQueryLatency(sinceMs(start)) }()

	var (
		sess             model.Session
		created, updated int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, score, correct_answers, attempts, created_at, updated_at FROM sessions WHERE id=?`, id).
		Scan(&sess.ID, &sess.Score, &sess.CorrectAnswers, &sess.Attempts, &created, &updated)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.Session{}, ErrNotFound
	case err != nil:
		return model.Session{}, fmt.Errorf("repository: get session: %w", err)
	}
	sess.CreatedAt = time.Unix(0, created).UTC()
	sess.UpdatedAt = time.Unix(0, updated).UTC()

	rows, err := s.db.QueryContext(ctx,
		`SELECT shape, score, points, discovered_at FROM discoveries
		 WHERE session_id=? ORDER BY discovered_at, rowid`, id)
	if err != nil {
		return model.Session{}, fmt.Errorf("repository: list discoveries: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			d  model.Discovery
			at int64
		)
		if err := rows.Scan(&d.Shape, &d.Score, &d.Points, &at); err != nil {
			return model.Session{}, fmt.Errorf("repository: scan discovery: %w", err)
		}
		d.DiscoveredAt = time.Unix(0, at).UTC()
		sess.Discoveries = append(sess.Discoveries, d)
	}
	return sess, rows.Err()
}

func (s *SQLiteStore) RecordAttempt(ctx context.Context, id string, now time.Time) error {
	start := time.Now()
	defer func() { metrics.RecordRepositoryUpdateLatency(sinceMs(start)) }()

	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET attempts = attempts + 1, updated_at = ? WHERE id = ?`, now.UnixNano(), id)
	if err != nil {
		return fmt.Errorf("repository: record attempt: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		metrics.RecordErrorByComponent("repository", "not_found")
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Discover(ctx context.Context, id string, d model.Discovery) (bool, error) {
	start := time.Now()
	defer func() { metrics.RecordRepositoryUpdateLatency(sinceMs(start)) }()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("repository: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM sessions WHERE id=?`, id).Scan(&exists)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		metrics.RecordErrorByComponent("repository", "not_found")
		return false, ErrNotFound
	case err != nil:
		return false, fmt.Errorf("repository: lookup session: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO discoveries(session_id, shape, score, points, discovered_at) VALUES(?, ?, ?, ?, ?)`,
		id, d.Shape, d.Score, d.Points, d.DiscoveredAt.UnixNano())
	if err != nil {
		return false, fmt.Errorf("repository: insert discovery: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("repository: insert discovery: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE sessions SET score = score + ?, correct_answers = correct_answers + 1, updated_at = ? WHERE id = ?`,
		d.Points, d.DiscoveredAt.UnixNano(), id); err != nil {
		return false, fmt.Errorf("repository: award discovery: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("repository: commit: %w", err)
	}
	return true, nil
}

func (s *SQLiteStore) TopN(ctx context.Context, n int) ([]Entry, error) {
	start := time.Now()
	defer func() { metrics.RecordRepositoryQueryLatency(sinceMs(start)) }()

	if n <= 0 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.score, COUNT(d.shape) AS found
		FROM sessions s
		LEFT JOIN discoveries d ON d.session_id = s.id
		GROUP BY s.id
		ORDER BY s.score DESC, found DESC, s.id ASC
		LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("repository: top sessions: %w", err)
	}
	defer rows.Close()

	out := make([]Entry, 0, n)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.SessionID, &e.Score, &e.Found); err != nil {
			return nil, fmt.Errorf("repository: scan entry: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: top sessions: %w", err)
	}
	assignRanksWithTies(out)
	return out, nil
}

// Count returns the number of sessions, or 0 when the query fails.
func (s *SQLiteStore) Count(ctx context.Context) int {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&n); err != nil {
		return 0
	}
	return n
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

// isConstraintErr matches modernc's "UNIQUE constraint failed" family.
func isConstraintErr(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "constraint failed") || strings.Contains(msg, "unique constraint")
}
