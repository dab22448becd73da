// Package scores defines the persisted score record, the Store capability
// shared by the local and remote backends, and the Leaderboard that
// composes them.
package scores

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultLimit is used when a Query does not set a positive Limit.
const DefaultLimit = 10

// Record is one finished session. A player may hold many records; the pair
// (PlayerID, PlayedAt) identifies one of them, and ID is a UUID that
// doubles as the remote document name.
type Record struct {
	ID         string
	PlayerID   string
	PlayerName string
	Score      int
	Difficulty string
	Length     int    // Final snake length
	Outcome    string // How the session ended
	PlayedAt   time.Time
}

// Validate checks the fields every backend relies on.
func (r Record) Validate() error {
	switch {
	case r.ID == "":
		return errors.New("scores: record has no id")
	case r.PlayerID == "":
		return errors.New("scores: record has no player id")
	case r.Score < 0:
		return fmt.Errorf("scores: negative score %d", r.Score)
	case r.PlayedAt.IsZero():
		return errors.New("scores: record has no timestamp")
	}
	return nil
}

// DisplayName returns the player name, or the player id when no name is set.
func (r Record) DisplayName() string {
	if r.PlayerName != "" {
		return r.PlayerName
	}
	return r.PlayerID
}

// Query selects a leaderboard slice. An empty Difficulty matches all.
type Query struct {
	Limit      int
	Difficulty string
}

// EffectiveLimit returns Limit, or DefaultLimit when Limit is not positive.
func (q Query) EffectiveLimit() int {
	if q.Limit <= 0 {
		return DefaultLimit
	}
	return q.Limit
}

// Matches reports whether r belongs to the slice q selects.
func (q Query) Matches(r Record) bool {
	return q.Difficulty == "" || q.Difficulty == r.Difficulty
}

// Store persists and ranks score records.
type Store interface {
	// Persist writes rec. Implementations must either write the whole
	// record or nothing.
	Persist(ctx context.Context, rec Record) error
	// TopScores returns at most q.Limit records, best first.
	TopScores(ctx context.Context, q Query) ([]Record, error)
}

// LocalStore is the authoritative store. It remembers which records
// have reached the remote mirror.
type LocalStore interface {
	Store
	// Insert writes rec like Persist and reports whether it was new.
	// A record for a session already stored, by ID or by player and
	// PlayedAt, is not an error but returns false.
	Insert(ctx context.Context, rec Record) (bool, error)
	// Unsynced returns records not yet mirrored, oldest first.
	// A limit of 0 returns all of them.
	Unsynced(ctx context.Context, limit int) ([]Record, error)
	// MarkSynced flags records as mirrored.
	MarkSynced(ctx context.Context, ids ...string) error
}
