package scores

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultRemoteTimeout bounds each call to the remote store.
const DefaultRemoteTimeout = 3 * time.Second

// Leaderboard is the Store the game uses. Writes go to the local store
// first; the remote store is a best-effort mirror whose failures are
// logged and otherwise ignored.
type Leaderboard struct {
	local   LocalStore
	remote  Store
	timeout time.Duration
	logger  *log.Logger
}

// Option configures a Leaderboard.
type Option func(*Leaderboard)

// WithRemote mirrors records to remote. A nil remote means offline.
func WithRemote(remote Store) Option {
	return func(l *Leaderboard) { l.remote = remote }
}

// WithRemoteTimeout sets the deadline for each remote call.
func WithRemoteTimeout(d time.Duration) Option {
	return func(l *Leaderboard) {
		if d > 0 {
			l.timeout = d
		}
	}
}

// WithLogger sets the logger for remote failures.
func WithLogger(logger *log.Logger) Option {
	return func(l *Leaderboard) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLeaderboard composes local with the given options.
func NewLeaderboard(local LocalStore, opts ...Option) *Leaderboard {
	l := &Leaderboard{
		local:   local,
		timeout: DefaultRemoteTimeout,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Online reports whether a remote store is configured.
func (l *Leaderboard) Online() bool {
	return l.remote != nil
}

// Persist writes rec locally, then mirrors it. A session the local store
// already holds is not mirrored again. Only a local failure is returned.
func (l *Leaderboard) Persist(ctx context.Context, rec Record) error {
	if err := rec.Validate(); err != nil {
		return &StoreError{Kind: WriteFailure, Op: "persist", Err: err}
	}
	inserted, err := l.local.Insert(ctx, rec)
	if err != nil {
		return Wrap(WriteFailure, "persist", err)
	}
	if !inserted {
		// The stored copy is mirrored, or picked up by Sync.
		l.logger.Debug("duplicate session ignored", "id", rec.ID, "player", rec.PlayerID)
		return nil
	}
	if l.remote == nil {
		return nil
	}

	rctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	if err := l.remote.Persist(rctx, rec); err != nil {
		l.logger.Warn("remote persist failed, kept locally", "id", rec.ID, "player", rec.PlayerID, "err", err)
		return nil
	}
	if err := l.local.MarkSynced(ctx, rec.ID); err != nil {
		l.logger.Warn("cannot mark record synced", "id", rec.ID, "err", err)
	}
	l.logger.Debug("record mirrored", "id", rec.ID, "score", rec.Score)
	return nil
}

// TopScores prefers the remote ranking, merged with local records that
// have not reached it yet. When the remote store is unset, slow or failing
// the local ranking is returned.
func (l *Leaderboard) TopScores(ctx context.Context, q Query) ([]Record, error) {
	if l.remote == nil {
		return l.local.TopScores(ctx, q)
	}

	rctx, cancel := context.WithTimeout(ctx, l.timeout)
	remote, rerr := l.remote.TopScores(rctx, q)
	cancel()

	local, lerr := l.local.TopScores(ctx, q)
	if rerr != nil {
		l.logger.Warn("remote leaderboard unavailable, using local", "err", rerr)
		return local, lerr
	}
	if lerr != nil {
		l.logger.Warn("local leaderboard unavailable", "err", lerr)
		return Merge(q, remote), nil
	}
	return Merge(q, remote, local), nil
}

// Sync pushes local records that never reached the remote store and
// returns how many were mirrored. It stops at the first remote failure.
func (l *Leaderboard) Sync(ctx context.Context) (int, error) {
	if l.remote == nil {
		return 0, &StoreError{Kind: Unavailable, Op: "sync", Err: errors.New("no remote store configured")}
	}

	pending, err := l.local.Unsynced(ctx, 0)
	if err != nil {
		return 0, Wrap(Unavailable, "sync", err)
	}

	pushed := 0
	for _, rec := range pending {
		rctx, cancel := context.WithTimeout(ctx, l.timeout)
		err := l.remote.Persist(rctx, rec)
		cancel()
		if err != nil {
			return pushed, Wrap(Unavailable, "sync", err)
		}
		if err := l.local.MarkSynced(ctx, rec.ID); err != nil {
			return pushed, Wrap(WriteFailure, "sync", err)
		}
		pushed++
	}
	if pushed > 0 {
		l.logger.Info("synced records", "count", pushed)
	}
	return pushed, nil
}
