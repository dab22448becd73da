// Package storage provides SQLite-based persistence for snake scores.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-snake/internal/scores"
)

// Store is the local, authoritative score store. It keeps one connection
// open and serializes writes.
type Store struct {
	db *sql.DB
	mu sync.Mutex // Held for every write
}

var _ scores.LocalStore = (*Store)(nil)

// PlayerStats aggregates one player's history.
type PlayerStats struct {
	PlayerID    string
	PlayerName  string
	GamesPlayed int
	BestScore   int
	TotalScore  int64
	LastPlayed  time.Time
}

// Summary aggregates all scores, optionally for one difficulty.
type Summary struct {
	Games      int
	Players    int
	HighScore  int
	AvgScore   float64
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, unavailable(fmt.Errorf("storage: cannot expand home directory: %w", err))
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, unavailable(fmt.Errorf("storage: cannot create directory %s: %w", dir, err))
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, unavailable(fmt.Errorf("storage: cannot open database: %w", err))
	}
	// One connection keeps the pragmas below in force and gives a single writer.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA busy_timeout = 5000;",
		"PRAGMA foreign_keys = ON;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, unavailable(fmt.Errorf("storage: cannot apply %q: %w", p, err))
		}
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, unavailable(fmt.Errorf("storage: cannot connect to database: %w", err))
	}

	store := &Store{db: db}
	if err := store.migrate(ctx); err != nil {
		db.Close()
		return nil, unavailable(fmt.Errorf("storage: migration failed: %w", err))
	}

	return store, nil
}

func unavailable(err error) error {
	return &scores.StoreError{Kind: scores.Unavailable, Op: "open", Err: err}
}

// migrate creates the database schema if it doesn't exist.
// played_at is stored as Unix nanoseconds so ordering is exact.
func (s *Store) migrate(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			id TEXT PRIMARY KEY,
			player_id TEXT NOT NULL,
			player_name TEXT NOT NULL DEFAULT '',
			score INTEGER NOT NULL CHECK (score >= 0),
			difficulty TEXT NOT NULL DEFAULT '',
			length INTEGER NOT NULL DEFAULT 0,
			outcome TEXT NOT NULL DEFAULT '',
			played_at INTEGER NOT NULL,
			synced INTEGER NOT NULL DEFAULT 0,
			UNIQUE (player_id, played_at)
		);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(score DESC, played_at ASC);
		CREATE INDEX IF NOT EXISTS idx_scores_difficulty ON scores(difficulty, score DESC, played_at ASC);
		CREATE INDEX IF NOT EXISTS idx_scores_unsynced ON scores(synced, played_at);

		CREATE TABLE IF NOT EXISTS players (
			player_id TEXT PRIMARY KEY,
			player_name TEXT NOT NULL DEFAULT '',
			games_played INTEGER NOT NULL DEFAULT 0,
			best_score INTEGER NOT NULL DEFAULT 0,
			total_score INTEGER NOT NULL DEFAULT 0,
			last_played INTEGER NOT NULL DEFAULT 0
		);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Persist records a finished session and updates the player's stats in one
// transaction. Writing the same (player, played_at) twice is a no-op.
func (s *Store) Persist(ctx context.Context, rec scores.Record) error {
	_, err := s.Insert(ctx, rec)
	return err
}

// Insert is Persist that also reports whether the session was new.
func (s *Store) Insert(ctx context.Context, rec scores.Record) (bool, error) {
	if err := rec.Validate(); err != nil {
		return false, scores.Wrap(scores.WriteFailure, "persist", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, scores.Wrap(scores.Unavailable, "persist", fmt.Errorf("storage: cannot begin transaction: %w", err))
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	played := rec.PlayedAt.UnixNano()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO scores (id, player_id, player_name, score, difficulty, length, outcome, played_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT DO NOTHING`,
		rec.ID, rec.PlayerID, rec.PlayerName, rec.Score, rec.Difficulty, rec.Length, rec.Outcome, played,
	)
	if err != nil {
		return false, scores.Wrap(scores.WriteFailure, "persist", fmt.Errorf("storage: cannot save score: %w", err))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return false, nil
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO players (player_id, player_name, games_played, best_score, total_score, last_played)
		 VALUES (?, ?, 1, ?, ?, ?)
		 ON CONFLICT(player_id) DO UPDATE SET
			player_name = CASE WHEN excluded.player_name <> '' THEN excluded.player_name ELSE players.player_name END,
			games_played = players.games_played + 1,
			best_score = MAX(players.best_score, excluded.best_score),
			total_score = players.total_score + excluded.total_score,
			last_played = MAX(players.last_played, excluded.last_played)`,
		rec.PlayerID, rec.PlayerName, rec.Score, rec.Score, played,
	)
	if err != nil {
		return false, scores.Wrap(scores.WriteFailure, "persist", fmt.Errorf("storage: cannot update player stats: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return false, scores.Wrap(scores.WriteFailure, "persist", fmt.Errorf("storage: cannot commit score: %w", err))
	}
	return true, nil
}

const recordColumns = `id, player_id, player_name, score, difficulty, length, outcome, played_at`

// TopScores retrieves the best records, score descending and earlier
// sessions first on a tie.
func (s *Store) TopScores(ctx context.Context, q scores.Query) ([]scores.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordColumns+`
		 FROM scores
		 WHERE (? = '' OR difficulty = ?)
		 ORDER BY score DESC, played_at ASC, id ASC
		 LIMIT ?`,
		q.Difficulty, q.Difficulty, q.EffectiveLimit(),
	)
	if err != nil {
		return nil, scores.Wrap(scores.Unavailable, "top scores", fmt.Errorf("storage: cannot query scores: %w", err))
	}
	return scanRecords(rows)
}

// BestPerPlayer is the global leaderboard: each player's best record,
// ranked like TopScores.
func (s *Store) BestPerPlayer(ctx context.Context, q scores.Query) ([]scores.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM (
			SELECT *, ROW_NUMBER() OVER (
				PARTITION BY player_id ORDER BY score DESC, played_at ASC, id ASC
			) AS rn
			FROM scores
			WHERE (? = '' OR difficulty = ?)
		 )
		 WHERE rn = 1
		 ORDER BY score DESC, played_at ASC, id ASC
		 LIMIT ?`,
		q.Difficulty, q.Difficulty, q.EffectiveLimit(),
	)
	if err != nil {
		return nil, scores.Wrap(scores.Unavailable, "best per player", fmt.Errorf("storage: cannot query leaderboard: %w", err))
	}
	return scanRecords(rows)
}

// PlayerHistory returns a player's most recent records, newest first.
func (s *Store) PlayerHistory(ctx context.Context, playerID string, limit int) ([]scores.Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordColumns+`
		 FROM scores
		 WHERE player_id = ?
		 ORDER BY played_at DESC
		 LIMIT ?`,
		playerID, limit,
	)
	if err != nil {
		return nil, scores.Wrap(scores.Unavailable, "player history", fmt.Errorf("storage: cannot query player history: %w", err))
	}
	return scanRecords(rows)
}

// PlayerStats returns a player's aggregates. A player with no games gets
// zero stats and no error.
func (s *Store) PlayerStats(ctx context.Context, playerID string) (*PlayerStats, error) {
	stats := &PlayerStats{PlayerID: playerID}

	var last int64
	err := s.db.QueryRowContext(ctx,
		`SELECT player_name, games_played, best_score, total_score, last_played
		 FROM players WHERE player_id = ?`,
		playerID,
	).Scan(&stats.PlayerName, &stats.GamesPlayed, &stats.BestScore, &stats.TotalScore, &last)
	if errors.Is(err, sql.ErrNoRows) {
		return stats, nil
	}
	if err != nil {
		return nil, scores.Wrap(scores.Unavailable, "player stats", fmt.Errorf("storage: cannot get player stats: %w", err))
	}
	if last > 0 {
		stats.LastPlayed = time.Unix(0, last).UTC()
	}
	return stats, nil
}

// PlayerRank returns the 1-based position of the player's best score among
// every player's best, or 0 if the player has no matching scores.
func (s *Store) PlayerRank(ctx context.Context, playerID, difficulty string) (int, error) {
	var best sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(score) FROM scores WHERE player_id = ? AND (? = '' OR difficulty = ?)`,
		playerID, difficulty, difficulty,
	).Scan(&best)
	if err != nil {
		return 0, scores.Wrap(scores.Unavailable, "player rank", fmt.Errorf("storage: cannot query best score: %w", err))
	}
	if !best.Valid {
		return 0, nil
	}

	var rank int
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) + 1 FROM (
			SELECT player_id, MAX(score) AS best
			FROM scores
			WHERE (? = '' OR difficulty = ?)
			GROUP BY player_id
		 ) WHERE best > ?`,
		difficulty, difficulty, best.Int64,
	).Scan(&rank)
	if err != nil {
		return 0, scores.Wrap(scores.Unavailable, "player rank", fmt.Errorf("storage: cannot query rank: %w", err))
	}
	return rank, nil
}

// Summary returns aggregate statistics, optionally for one difficulty.
func (s *Store) Summary(ctx context.Context, difficulty string) (*Summary, error) {
	sum := &Summary{}
	var last int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT player_id), COALESCE(MAX(score), 0),
		        COALESCE(AVG(score), 0), COALESCE(MAX(played_at), 0)
		 FROM scores WHERE (? = '' OR difficulty = ?)`,
		difficulty, difficulty,
	).Scan(&sum.Games, &sum.Players, &sum.HighScore, &sum.AvgScore, &last)
	if err != nil {
		return nil, scores.Wrap(scores.Unavailable, "summary", fmt.Errorf("storage: cannot get summary: %w", err))
	}
	if last > 0 {
		sum.LastPlayed = time.Unix(0, last).UTC()
	}
	return sum, nil
}

// Unsynced returns records that have not reached the remote store, oldest
// first. A limit of 0 returns all of them.
func (s *Store) Unsynced(ctx context.Context, limit int) ([]scores.Record, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordColumns+`
		 FROM scores
		 WHERE synced = 0
		 ORDER BY played_at ASC, id ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, scores.Wrap(scores.Unavailable, "unsynced", fmt.Errorf("storage: cannot query unsynced scores: %w", err))
	}
	return scanRecords(rows)
}

// MarkSynced flags the given records as mirrored.
func (s *Store) MarkSynced(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	_, err := s.db.ExecContext(ctx, `UPDATE scores SET synced = 1 WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return scores.Wrap(scores.WriteFailure, "mark synced", fmt.Errorf("storage: cannot mark scores synced: %w", err))
	}
	return nil
}

// ClearScores deletes the scores and stats of one player, or of everyone
// when playerID is empty.
func (s *Store) ClearScores(ctx context.Context, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return scores.Wrap(scores.Unavailable, "clear", fmt.Errorf("storage: cannot begin transaction: %w", err))
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	for _, stmt := range []string{
		"DELETE FROM scores WHERE (? = '' OR player_id = ?)",
		"DELETE FROM players WHERE (? = '' OR player_id = ?)",
	} {
		if _, err := tx.ExecContext(ctx, stmt, playerID, playerID); err != nil {
			return scores.Wrap(scores.WriteFailure, "clear", fmt.Errorf("storage: cannot clear scores: %w", err))
		}
	}
	if err := tx.Commit(); err != nil {
		return scores.Wrap(scores.WriteFailure, "clear", fmt.Errorf("storage: cannot commit clear: %w", err))
	}
	return nil
}

func scanRecords(rows *sql.Rows) ([]scores.Record, error) {
	defer rows.Close()

	var records []scores.Record
	for rows.Next() {
		var r scores.Record
		var played int64
		if err := rows.Scan(&r.ID, &r.PlayerID, &r.PlayerName, &r.Score, &r.Difficulty, &r.Length, &r.Outcome, &played); err != nil {
			return nil, scores.Wrap(scores.Unavailable, "scan", fmt.Errorf("storage: cannot scan row: %w", err))
		}
		r.PlayedAt = time.Unix(0, played).UTC()
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, scores.Wrap(scores.Unavailable, "scan", fmt.Errorf("storage: row iteration error: %w", err))
	}
	return records, nil
}
