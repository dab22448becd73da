package firestore

import (
	"time"

	"github.com/vovakirdan/tui-snake/internal/scores"
)

// Document field names.
const (
	fieldScore      = "score"
	fieldDifficulty = "difficulty"
	fieldTimestamp  = "timestamp"
)

// scoreDoc is one document of the scores collection. The document id is
// the record id.
type scoreDoc struct {
	ID         string    `firestore:"-"`
	UserID     string    `firestore:"userId"`
	UserName   string    `firestore:"userName"`
	Score      int64     `firestore:"score"`
	Difficulty string    `firestore:"difficulty"`
	Length     int64     `firestore:"length"`
	Outcome    string    `firestore:"outcome"`
	Timestamp  time.Time `firestore:"timestamp"`
}

func encodeRecord(r scores.Record) scoreDoc {
	return scoreDoc{
		ID:         r.ID,
		UserID:     r.PlayerID,
		UserName:   r.PlayerName,
		Score:      int64(r.Score),
		Difficulty: r.Difficulty,
		Length:     int64(r.Length),
		Outcome:    r.Outcome,
		Timestamp:  r.PlayedAt.UTC(),
	}
}

func (d scoreDoc) record() scores.Record {
	return scores.Record{
		ID:         d.ID,
		PlayerID:   d.UserID,
		PlayerName: d.UserName,
		Score:      int(d.Score),
		Difficulty: d.Difficulty,
		Length:     int(d.Length),
		Outcome:    d.Outcome,
		PlayedAt:   d.Timestamp,
	}
}
