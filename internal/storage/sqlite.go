// Package storage provides SQLite-based persistence for match history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"cmp"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-pong/internal/config"
	"github.com/vovakirdan/tui-pong/internal/core"
	"github.com/vovakirdan/tui-pong/internal/match"
)

// DefaultHistoryLimit is the number of results kept when no limit is set.
const DefaultHistoryLimit = 5

// Store manages the SQLite database connection for match history.
type Store struct {
	db    *sql.DB
	limit int
}

// Option configures a Store.
type Option func(*Store)

// WithHistoryLimit caps how many results are kept. Older results are
// evicted first. Non-positive values keep the default.
func WithHistoryLimit(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.limit = n
		}
	}
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string, opts ...Option) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db, limit: DefaultHistoryLimit}
	for _, opt := range opts {
		opt(store)
	}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS match_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL UNIQUE,
			left_name TEXT NOT NULL,
			right_name TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			score TEXT NOT NULL,
			winner TEXT NOT NULL DEFAULT '',
			played_at TEXT NOT NULL
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Limit returns the history cap.
func (s *Store) Limit() int {
	return s.limit
}

// SaveResult records a finished match and evicts the oldest results beyond
// the history cap. A missing ID is generated.
func (s *Store) SaveResult(r match.Result) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.PlayedAt.IsZero() {
		r.PlayedAt = time.Now()
	}
	winner := ""
	if r.Winner != core.SideNone {
		winner = r.Winner.String()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.Exec(
		`INSERT INTO match_results (match_id, left_name, right_name, difficulty, score, winner, played_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.LeftName, r.RightName, string(r.Difficulty), r.Score, winner,
		r.PlayedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save result: %w", err)
	}

	_, err = tx.Exec(
		`DELETE FROM match_results
		 WHERE id NOT IN (SELECT id FROM match_results ORDER BY id DESC LIMIT ?)`,
		s.limit,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot trim history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit result: %w", err)
	}
	return nil
}

// Results retrieves up to limit results, most recent first.
// A non-positive limit uses the history cap.
func (s *Store) Results(limit int) ([]match.Result, error) {
	if limit <= 0 {
		limit = s.limit
	}

	rows, err := s.db.Query(
		`SELECT match_id, left_name, right_name, difficulty, score, winner, played_at
		 FROM match_results
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	defer rows.Close()

	var results []match.Result
	for rows.Next() {
		var (
			r          match.Result
			difficulty string
			winner     string
			playedAt   string
		)
		if err := rows.Scan(&r.ID, &r.LeftName, &r.RightName, &difficulty, &r.Score, &winner, &playedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}

		r.Difficulty = config.Difficulty(difficulty)
		r.Winner = core.ParseSide(winner)
		if parsed, err := time.Parse(time.RFC3339Nano, playedAt); err == nil {
			r.PlayedAt = parsed
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// Count returns the number of stored results.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM match_results").Scan(&n); err != nil {
		return 0, fmt.Errorf("storage: cannot count results: %w", err)
	}
	return n, nil
}

// Clear deletes the whole history.
func (s *Store) Clear() error {
	if _, err := s.db.Exec("DELETE FROM match_results"); err != nil {
		return fmt.Errorf("storage: cannot clear results: %w", err)
	}
	return nil
}

// PlayerRecord summarizes one player's results in the stored history.
type PlayerRecord struct {
	Name   string
	Wins   int
	Losses int
}

// Records tallies wins and losses per player across the stored history,
// ordered by wins descending then name.
func (s *Store) Records() ([]PlayerRecord, error) {
	results, err := s.Results(0)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*PlayerRecord)
	var order []string
	get := func(name string) *PlayerRecord {
		if rec, ok := byName[name]; ok {
			return rec
		}
		rec := &PlayerRecord{Name: name}
		byName[name] = rec
		order = append(order, name)
		return rec
	}

	for _, r := range results {
		winner, loser := r.WinnerName(), r.LoserName()
		if winner == "" {
			continue
		}
		get(winner).Wins++
		get(loser).Losses++
	}

	records := make([]PlayerRecord, 0, len(order))
	for _, name := range order {
		records = append(records, *byName[name])
	}
	slices.SortStableFunc(records, func(a, b PlayerRecord) int {
		if a.Wins != b.Wins {
			return cmp.Compare(b.Wins, a.Wins)
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return records, nil
}

// Ensure Store implements ResultSaver
var _ match.ResultSaver = (*Store)(nil)
