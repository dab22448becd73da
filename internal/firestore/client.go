// Package firestore mirrors score records to a Cloud Firestore collection.
// It implements scores.Store and is meant to sit behind a
// scores.Leaderboard, which treats every failure here as non-fatal.
package firestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/charmbracelet/log"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vovakirdan/tui-snake/internal/scores"
)

// Config locates the Firestore database and collection.
type Config struct {
	ProjectID       string
	DatabaseID      string // "(default)" when empty
	Collection      string // "scores" when empty
	CredentialsFile string // Service account key; application default credentials when empty
	APIKey          string
	Endpoint        string // host:port override; FIRESTORE_EMULATOR_HOST also works
	Timeout         time.Duration
	Logger          *log.Logger
}

func (cfg Config) withDefaults() (Config, error) {
	if cfg.ProjectID == "" {
		return cfg, errors.New("firestore: project id is required")
	}
	if cfg.DatabaseID == "" {
		cfg.DatabaseID = firestore.DefaultDatabaseID
	}
	if cfg.Collection == "" {
		cfg.Collection = "scores"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	return cfg, nil
}

// collection is the part of the Firestore API the client relies on.
type collection interface {
	Set(ctx context.Context, id string, doc scoreDoc) error
	Top(ctx context.Context, difficulty string, limit int) ([]scoreDoc, error)
	Close() error
}

// Client is a scores.Store backed by a Firestore collection.
type Client struct {
	coll    collection
	name    string
	timeout time.Duration
	logger  *log.Logger
}

var _ scores.Store = (*Client)(nil)

// New connects to Firestore. The connection is lazy: a wrong project or
// missing credentials show up on the first call, not here.
func New(ctx context.Context, cfg Config) (*Client, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	fs, err := firestore.NewClientWithDatabase(ctx, cfg.ProjectID, cfg.DatabaseID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore: cannot create client: %w", err)
	}
	return newClient(&sdkCollection{
		client: fs,
		ref:    fs.Collection(cfg.Collection),
		logger: cfg.Logger,
	}, cfg), nil
}

func newClient(coll collection, cfg Config) *Client {
	return &Client{
		coll:    coll,
		name:    cfg.Collection,
		timeout: cfg.Timeout,
		logger:  cfg.Logger,
	}
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.coll.Close()
}

// Persist writes rec as the document named by rec.ID. Writing the same
// record twice replaces it, so retries are safe.
func (c *Client) Persist(ctx context.Context, rec scores.Record) error {
	if err := rec.Validate(); err != nil {
		return scores.Wrap(scores.WriteFailure, "remote persist", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.coll.Set(ctx, rec.ID, encodeRecord(rec)); err != nil {
		return classify("remote persist", scores.WriteFailure, err)
	}
	c.logger.Debug("document written", "collection", c.name, "id", rec.ID)
	return nil
}

// TopScores queries by score descending, then by timestamp ascending.
func (c *Client) TopScores(ctx context.Context, q scores.Query) ([]scores.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	docs, err := c.coll.Top(ctx, q.Difficulty, q.EffectiveLimit())
	if err != nil {
		return nil, classify("remote top scores", scores.Unavailable, err)
	}

	records := make([]scores.Record, 0, len(docs))
	for _, d := range docs {
		rec := d.record()
		if err := rec.Validate(); err != nil {
			c.logger.Warn("skipping malformed document", "id", d.ID, "err", err)
			continue
		}
		records = append(records, rec)
	}
	// Firestore already orders by score and timestamp; the id tie-break
	// needs a local pass.
	scores.Sort(records)
	return records, nil
}

// classify maps an SDK error to a store error kind. Rejections by the
// server fall back to kind; transport trouble is Unavailable.
func classify(op string, kind scores.Kind, err error) error {
	switch status.Code(err) {
	case codes.DeadlineExceeded:
		return scores.Wrap(scores.Timeout, op, err)
	case codes.Unavailable, codes.Unknown, codes.Canceled, codes.Unauthenticated:
		return scores.Wrap(scores.Unavailable, op, err)
	}
	return scores.Wrap(kind, op, err)
}

// sdkCollection runs against a real Firestore collection.
type sdkCollection struct {
	client *firestore.Client
	ref    *firestore.CollectionRef
	logger *log.Logger
}

func (s *sdkCollection) Set(ctx context.Context, id string, doc scoreDoc) error {
	_, err := s.ref.Doc(id).Set(ctx, doc)
	return err
}

// Top needs a composite index on (difficulty, score desc, timestamp asc)
// when difficulty is set.
func (s *sdkCollection) Top(ctx context.Context, difficulty string, limit int) ([]scoreDoc, error) {
	q := s.ref.Query
	if difficulty != "" {
		q = q.Where(fieldDifficulty, "==", difficulty)
	}
	q = q.OrderBy(fieldScore, firestore.Desc).OrderBy(fieldTimestamp, firestore.Asc).Limit(limit)

	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	docs := make([]scoreDoc, 0, len(snaps))
	for _, snap := range snaps {
		var d scoreDoc
		if err := snap.DataTo(&d); err != nil {
			s.logger.Warn("skipping undecodable document", "id", snap.Ref.ID, "err", err)
			continue
		}
		d.ID = snap.Ref.ID
		docs = append(docs, d)
	}
	return docs, nil
}

func (s *sdkCollection) Close() error {
	return s.client.Close()
}
