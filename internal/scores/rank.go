package scores

import (
	"slices"
	"strings"
)

// Compare orders records best first: higher score, then earlier PlayedAt,
// then ID so the order is total.
func Compare(a, b Record) int {
	if a.Score != b.Score {
		if a.Score > b.Score {
			return -1
		}
		return 1
	}
	if c := a.PlayedAt.Compare(b.PlayedAt); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

// Sort orders recs in place, best first.
func Sort(recs []Record) {
	slices.SortFunc(recs, Compare)
}

// Merge combines record sets, drops duplicate IDs (the first set wins),
// filters by q and returns the best q.EffectiveLimit() records.
func Merge(q Query, sets ...[]Record) []Record {
	seen := make(map[string]struct{})
	var out []Record
	for _, set := range sets {
		for _, r := range set {
			if !q.Matches(r) {
				continue
			}
			if _, dup := seen[r.ID]; dup {
				continue
			}
			seen[r.ID] = struct{}{}
			out = append(out, r)
		}
	}
	Sort(out)
	if limit := q.EffectiveLimit(); len(out) > limit {
		out = out[:limit]
	}
	return out
}

// BestPerPlayer keeps each player's best record, best first.
func BestPerPlayer(recs []Record, limit int) []Record {
	sorted := slices.Clone(recs)
	Sort(sorted)

	seen := make(map[string]struct{})
	var out []Record
	for _, r := range sorted {
		if _, dup := seen[r.PlayerID]; dup {
			continue
		}
		seen[r.PlayerID] = struct{}{}
		out = append(out, r)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
