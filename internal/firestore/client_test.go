package firestore

import (
	"context"
	"errors"
	"os"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vovakirdan/tui-snake/internal/scores"
)

// memCollection keeps documents in memory and orders them the way the
// Firestore query does.
type memCollection struct {
	mu       sync.Mutex
	docs     map[string]scoreDoc
	err      error // Returned by every call when set
	block    bool  // Calls wait for the context to end
	lastDiff string
	lastLim  int
	closed   bool
}

func newMem() *memCollection {
	return &memCollection{docs: make(map[string]scoreDoc)}
}

func (m *memCollection) wait(ctx context.Context) error {
	m.mu.Lock()
	block, err := m.block, m.err
	m.mu.Unlock()
	if block {
		<-ctx.Done()
		return status.FromContextError(ctx.Err()).Err()
	}
	return err
}

func (m *memCollection) Set(ctx context.Context, id string, doc scoreDoc) error {
	if err := m.wait(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	doc.ID = "" // Ids travel in the document name, not its fields
	m.docs[id] = doc
	return nil
}

func (m *memCollection) Top(ctx context.Context, difficulty string, limit int) ([]scoreDoc, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastDiff, m.lastLim = difficulty, limit

	var out []scoreDoc
	for id, d := range m.docs {
		if difficulty != "" && d.Difficulty != difficulty {
			continue
		}
		d.ID = id
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memCollection) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *memCollection) fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func newTestClient(t *testing.T, coll collection, cfg Config) *Client {
	t.Helper()
	if cfg.ProjectID == "" {
		cfg.ProjectID = "demo"
	}
	cfg, err := cfg.withDefaults()
	require.NoError(t, err)
	return newClient(coll, cfg)
}

var t0 = time.Date(2026, 7, 1, 9, 30, 0, 123456789, time.UTC)

func sample(id, player string, score int, at time.Duration, difficulty string) scores.Record {
	return scores.Record{
		ID:         id,
		PlayerID:   player,
		PlayerName: "Player " + player,
		Score:      score,
		Difficulty: difficulty,
		Length:     7,
		Outcome:    "collided_self",
		PlayedAt:   t0.Add(at),
	}
}

func TestNewRequiresProject(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.Error(t, err)
}

func TestDefaults(t *testing.T) {
	cfg, err := Config{ProjectID: "demo"}.withDefaults()
	require.NoError(t, err)
	assert.Equal(t, "(default)", cfg.DatabaseID)
	assert.Equal(t, "scores", cfg.Collection)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.NotNil(t, cfg.Logger)
}

func TestPersistAndTopScores(t *testing.T) {
	mem := newMem()
	c := newTestClient(t, mem, Config{})
	ctx := context.Background()

	require.NoError(t, c.Persist(ctx, sample("a", "p1", 40, 0, "easy")))
	require.NoError(t, c.Persist(ctx, sample("b", "p2", 90, time.Second, "hard")))
	require.NoError(t, c.Persist(ctx, sample("c", "p3", 40, -time.Second, "easy")))

	stored := mem.docs["a"]
	assert.Equal(t, "p1", stored.UserID)
	assert.Equal(t, "Player p1", stored.UserName)
	assert.EqualValues(t, 40, stored.Score)

	top, err := c.TopScores(ctx, scores.Query{Limit: 10})
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, []string{"b", "c", "a"}, []string{top[0].ID, top[1].ID, top[2].ID})

	got := top[2]
	assert.Equal(t, "p1", got.PlayerID)
	assert.Equal(t, "Player p1", got.PlayerName)
	assert.Equal(t, 40, got.Score)
	assert.Equal(t, "easy", got.Difficulty)
	assert.Equal(t, 7, got.Length)
	assert.Equal(t, "collided_self", got.Outcome)
	assert.True(t, got.PlayedAt.Equal(t0), "PlayedAt = %v", got.PlayedAt)

	easy, err := c.TopScores(ctx, scores.Query{Limit: 1, Difficulty: "easy"})
	require.NoError(t, err)
	require.Len(t, easy, 1)
	assert.Equal(t, "c", easy[0].ID)
	assert.Equal(t, "easy", mem.lastDiff)
	assert.Equal(t, 1, mem.lastLim)

	_, err = c.TopScores(ctx, scores.Query{})
	require.NoError(t, err)
	assert.Equal(t, scores.DefaultLimit, mem.lastLim)
}

func TestPersistIsIdempotent(t *testing.T) {
	mem := newMem()
	c := newTestClient(t, mem, Config{})
	ctx := context.Background()

	rec := sample("a", "p1", 10, 0, "")
	require.NoError(t, c.Persist(ctx, rec))
	require.NoError(t, c.Persist(ctx, rec))
	assert.Len(t, mem.docs, 1)
}

func TestPersistRejectsInvalid(t *testing.T) {
	mem := newMem()
	c := newTestClient(t, mem, Config{})

	err := c.Persist(context.Background(), scores.Record{ID: "x", Score: 1, PlayedAt: t0})
	assert.ErrorIs(t, err, scores.ErrWriteFailure)
	assert.Empty(t, mem.docs)
}

func TestTopScoresSkipsMalformedDocuments(t *testing.T) {
	mem := newMem()
	mem.docs["good"] = encodeRecord(sample("good", "p1", 5, 0, ""))
	mem.docs["orphan"] = scoreDoc{Score: 50, Timestamp: t0} // No player
	c := newTestClient(t, mem, Config{})

	top, err := c.TopScores(context.Background(), scores.Query{Limit: 5})
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "good", top[0].ID)
}

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		writeKind error
		readKind  error
	}{
		{"unavailable", status.Error(codes.Unavailable, "connection refused"), scores.ErrUnavailable, scores.ErrUnavailable},
		{"unauthenticated", status.Error(codes.Unauthenticated, "bad key"), scores.ErrUnavailable, scores.ErrUnavailable},
		{"permission denied", status.Error(codes.PermissionDenied, "rules"), scores.ErrWriteFailure, scores.ErrUnavailable},
		{"invalid argument", status.Error(codes.InvalidArgument, "bad field"), scores.ErrWriteFailure, scores.ErrUnavailable},
		{"deadline", status.Error(codes.DeadlineExceeded, "slow"), scores.ErrTimeout, scores.ErrTimeout},
		{"context deadline", context.DeadlineExceeded, scores.ErrTimeout, scores.ErrTimeout},
		{"plain error", errors.New("dial tcp: refused"), scores.ErrUnavailable, scores.ErrUnavailable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mem := newMem()
			mem.fail(tc.err)
			c := newTestClient(t, mem, Config{})

			err := c.Persist(context.Background(), sample("a", "p1", 1, 0, ""))
			assert.ErrorIs(t, err, tc.writeKind)

			_, err = c.TopScores(context.Background(), scores.Query{})
			assert.ErrorIs(t, err, tc.readKind)
		})
	}
}

func TestClientTimeout(t *testing.T) {
	mem := newMem()
	mem.block = true
	c := newTestClient(t, mem, Config{Timeout: 20 * time.Millisecond})

	start := time.Now()
	_, err := c.TopScores(context.Background(), scores.Query{})
	assert.ErrorIs(t, err, scores.ErrTimeout)
	assert.Less(t, time.Since(start), time.Second)

	err = c.Persist(context.Background(), sample("a", "p1", 1, 0, ""))
	assert.ErrorIs(t, err, scores.ErrTimeout)
}

func TestClose(t *testing.T) {
	mem := newMem()
	c := newTestClient(t, mem, Config{})
	require.NoError(t, c.Close())
	assert.True(t, mem.closed)
}

func TestLeaderboardWithRemoteMirror(t *testing.T) {
	mem := newMem()
	remote := newTestClient(t, mem, Config{})
	local := &memLocal{}
	lb := scores.NewLeaderboard(local, scores.WithRemote(remote))
	ctx := context.Background()

	require.NoError(t, lb.Persist(ctx, sample("a", "p1", 10, 0, "")))
	assert.Len(t, mem.docs, 1)
	assert.True(t, local.synced["a"])

	mem.fail(status.Error(codes.Internal, "backend down"))
	require.NoError(t, lb.Persist(ctx, sample("b", "p1", 20, time.Second, "")))
	assert.False(t, local.synced["b"])

	top, err := lb.TopScores(ctx, scores.Query{Limit: 5})
	require.NoError(t, err)
	assert.Len(t, top, 2, "falls back to the local ranking")
}

// TestEmulator runs against a local Firestore emulator when one is
// configured, e.g. `gcloud emulators firestore start --host-port=localhost:8686`.
func TestEmulator(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	ctx := context.Background()
	c, err := New(ctx, Config{ProjectID: "demo-snake", Collection: "scores-" + t.Name()})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	stamp := time.Duration(time.Now().UnixNano() % int64(time.Hour))
	require.NoError(t, c.Persist(ctx, sample("e1", "p1", 30, stamp, "easy")))
	require.NoError(t, c.Persist(ctx, sample("e2", "p2", 60, stamp, "easy")))

	top, err := c.TopScores(ctx, scores.Query{Limit: 2})
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "e2", top[0].ID)
	assert.Equal(t, 30, top[1].Score)
}

type memLocal struct {
	records []scores.Record
	synced  map[string]bool
}

func (m *memLocal) Persist(_ context.Context, r scores.Record) error {
	m.records = append(m.records, r)
	return nil
}

func (m *memLocal) Insert(ctx context.Context, rec scores.Record) (bool, error) {
	if err := m.Persist(ctx, rec); err != nil {
		return false, err
	}
	return true, nil
}

func (m *memLocal) TopScores(_ context.Context, q scores.Query) ([]scores.Record, error) {
	return scores.Merge(q, m.records), nil
}

func (m *memLocal) Unsynced(context.Context, int) ([]scores.Record, error) {
	var out []scores.Record
	for _, r := range m.records {
		if !m.synced[r.ID] {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memLocal) MarkSynced(_ context.Context, ids ...string) error {
	if m.synced == nil {
		m.synced = make(map[string]bool)
	}
	for _, id := range ids {
		m.synced[id] = true
	}
	return nil
}
