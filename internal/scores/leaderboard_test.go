package scores

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu        sync.Mutex
	records   []Record
	synced    map[string]bool
	persisted int
	persistFn func(ctx context.Context, rec Record) error
	topErr    error
	delay     time.Duration
}

func (f *fakeStore) Persist(ctx context.Context, rec Record) error {
	f.mu.Lock()
	f.persisted++
	fn := f.persistFn
	f.mu.Unlock()
	if fn != nil {
		if err := fn(ctx, rec); err != nil {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, rec)
	return nil
}

// Insert skips a session already recorded under the same ID or the same
// player and timestamp.
func (f *fakeStore) Insert(ctx context.Context, rec Record) (bool, error) {
	f.mu.Lock()
	for _, r := range f.records {
		if r.ID == rec.ID || (r.PlayerID == rec.PlayerID && r.PlayedAt.Equal(rec.PlayedAt)) {
			f.mu.Unlock()
			return false, nil
		}
	}
	f.mu.Unlock()
	if err := f.Persist(ctx, rec); err != nil {
		return false, err
	}
	return true, nil
}

func (f *fakeStore) TopScores(ctx context.Context, q Query) ([]Record, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, &StoreError{Kind: Timeout, Op: "top scores", Err: ctx.Err()}
		}
	}
	if f.topErr != nil {
		return nil, f.topErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return Merge(q, f.records), nil
}

func (f *fakeStore) Unsynced(_ context.Context, _ int) ([]Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Record
	for _, r := range f.records {
		if !f.synced[r.ID] {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) MarkSynced(_ context.Context, ids ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.synced == nil {
		f.synced = make(map[string]bool)
	}
	for _, id := range ids {
		f.synced[id] = true
	}
	return nil
}

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func rec(id, player string, score int, offset time.Duration) Record {
	return Record{
		ID:         id,
		PlayerID:   player,
		PlayerName: player,
		Score:      score,
		Difficulty: "medium",
		PlayedAt:   base.Add(offset),
	}
}

func TestPersistLocalThenRemote(t *testing.T) {
	local, remote := &fakeStore{}, &fakeStore{}
	lb := NewLeaderboard(local, WithRemote(remote))

	require.NoError(t, lb.Persist(context.Background(), rec("a", "p1", 30, 0)))

	assert.Len(t, local.records, 1)
	assert.Len(t, remote.records, 1)
	assert.True(t, local.synced["a"], "local record should be marked synced")
	assert.True(t, lb.Online())
}

func TestPersistDuplicateSessionIsNotMirrored(t *testing.T) {
	local, remote := &fakeStore{}, &fakeStore{}
	lb := NewLeaderboard(local, WithRemote(remote))
	ctx := context.Background()

	require.NoError(t, lb.Persist(ctx, rec("a", "p1", 30, 0)))
	// Same player and timestamp under a fresh id is the same session.
	require.NoError(t, lb.Persist(ctx, rec("b", "p1", 30, 0)))
	require.NoError(t, lb.Persist(ctx, rec("a", "p1", 30, 0)))

	assert.Len(t, local.records, 1)
	assert.Len(t, remote.records, 1)

	top, err := lb.TopScores(ctx, Query{Limit: 10})
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "a", top[0].ID)
}

func TestPersistRemoteFailureIsNotFatal(t *testing.T) {
	local := &fakeStore{}
	remote := &fakeStore{persistFn: func(context.Context, Record) error {
		return &StoreError{Kind: Unavailable, Op: "persist", Err: errors.New("connection refused")}
	}}
	lb := NewLeaderboard(local, WithRemote(remote))

	require.NoError(t, lb.Persist(context.Background(), rec("a", "p1", 30, 0)))

	assert.Len(t, local.records, 1, "local store keeps the record")
	assert.Empty(t, remote.records)
	assert.False(t, local.synced["a"], "record must stay unsynced for a later sync")
}

func TestPersistRemoteTimeoutIsBounded(t *testing.T) {
	local := &fakeStore{}
	remote := &fakeStore{persistFn: func(ctx context.Context, _ Record) error {
		<-ctx.Done()
		return ctx.Err()
	}}
	lb := NewLeaderboard(local, WithRemote(remote), WithRemoteTimeout(20*time.Millisecond))

	start := time.Now()
	require.NoError(t, lb.Persist(context.Background(), rec("a", "p1", 30, 0)))
	assert.Less(t, time.Since(start), time.Second)
	assert.Len(t, local.records, 1)
}

func TestPersistLocalFailure(t *testing.T) {
	local := &fakeStore{persistFn: func(context.Context, Record) error {
		return errors.New("disk I/O error")
	}}
	remote := &fakeStore{}
	lb := NewLeaderboard(local, WithRemote(remote))

	err := lb.Persist(context.Background(), rec("a", "p1", 30, 0))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWriteFailure)
	assert.Zero(t, remote.persisted, "remote must not be tried when local fails")
}

func TestPersistRejectsInvalidRecord(t *testing.T) {
	lb := NewLeaderboard(&fakeStore{})

	err := lb.Persist(context.Background(), Record{ID: "x", Score: 5, PlayedAt: base})
	assert.ErrorIs(t, err, ErrWriteFailure)
}

func TestTopScoresMergesRemoteAndLocal(t *testing.T) {
	local := &fakeStore{records: []Record{
		rec("shared", "p1", 50, 0),
		rec("local-only", "p2", 40, time.Minute),
	}}
	remote := &fakeStore{records: []Record{
		rec("shared", "p1", 50, 0),
		rec("remote-only", "p3", 60, 2*time.Minute),
	}}
	lb := NewLeaderboard(local, WithRemote(remote))

	got, err := lb.TopScores(context.Background(), Query{Limit: 10})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"remote-only", "shared", "local-only"}, ids(got))
}

func TestTopScoresFallsBackToLocal(t *testing.T) {
	local := &fakeStore{records: []Record{rec("l", "p1", 10, 0)}}

	t.Run("remote error", func(t *testing.T) {
		remote := &fakeStore{topErr: &StoreError{Kind: Unavailable, Op: "top scores"}}
		got, err := NewLeaderboard(local, WithRemote(remote)).TopScores(context.Background(), Query{Limit: 5})
		require.NoError(t, err)
		assert.Equal(t, []string{"l"}, ids(got))
	})

	t.Run("remote too slow", func(t *testing.T) {
		remote := &fakeStore{delay: time.Second, records: []Record{rec("r", "p2", 99, 0)}}
		lb := NewLeaderboard(local, WithRemote(remote), WithRemoteTimeout(10*time.Millisecond))
		got, err := lb.TopScores(context.Background(), Query{Limit: 5})
		require.NoError(t, err)
		assert.Equal(t, []string{"l"}, ids(got))
	})

	t.Run("offline", func(t *testing.T) {
		lb := NewLeaderboard(local)
		assert.False(t, lb.Online())
		got, err := lb.TopScores(context.Background(), Query{Limit: 5})
		require.NoError(t, err)
		assert.Equal(t, []string{"l"}, ids(got))
	})
}

func TestTopScoresRespectsLimitAndOrder(t *testing.T) {
	local := &fakeStore{}
	for i := 0; i < 20; i++ {
		local.records = append(local.records, rec(fmt.Sprintf("r%02d", i), "p", (i%5)*10, time.Duration(20-i)*time.Second))
	}
	lb := NewLeaderboard(local, WithRemote(&fakeStore{}))

	got, err := lb.TopScores(context.Background(), Query{Limit: 7})
	require.NoError(t, err)
	require.Len(t, got, 7)
	for i := 1; i < len(got); i++ {
		prev, cur := got[i-1], got[i]
		require.GreaterOrEqual(t, prev.Score, cur.Score)
		if prev.Score == cur.Score {
			require.False(t, cur.PlayedAt.Before(prev.PlayedAt), "ties must list the earlier timestamp first")
		}
	}
}

func TestSyncPushesUnsynced(t *testing.T) {
	local := &fakeStore{records: []Record{rec("a", "p1", 1, 0), rec("b", "p1", 2, time.Second)}}
	local.synced = map[string]bool{"a": true}
	remote := &fakeStore{}
	lb := NewLeaderboard(local, WithRemote(remote))

	n, err := lb.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"b"}, ids(remote.records))
	assert.True(t, local.synced["b"])

	n, err = lb.Sync(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n, "second sync has nothing to push")
}

func TestSyncStopsAtFirstFailure(t *testing.T) {
	local := &fakeStore{records: []Record{rec("a", "p1", 1, 0), rec("b", "p1", 2, time.Second)}}
	calls := 0
	remote := &fakeStore{persistFn: func(context.Context, Record) error {
		calls++
		if calls == 2 {
			return errors.New("quota exceeded")
		}
		return nil
	}}
	lb := NewLeaderboard(local, WithRemote(remote))

	n, err := lb.Sync(context.Background())
	assert.Equal(t, 1, n)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestSyncWithoutRemote(t *testing.T) {
	_, err := NewLeaderboard(&fakeStore{}).Sync(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func ids(recs []Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}
