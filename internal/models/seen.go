package models

import "time"

// SeenHistory is the per-session record of article ids already delivered
type SeenHistory struct {
	IDs       []int64   `json:"ids"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Set returns the seen ids as a lookup set
func (s SeenHistory) Set() map[int64]struct{} {
	set := make(map[int64]struct{}, len(s.IDs))
	for _, id := range s.IDs {
		set[id] = struct{}{}
	}
	return set
}

// Union appends ids not already present, keeping first-occurrence order.
// When limit > 0 only the most recent limit ids are kept.
func (s SeenHistory) Union(ids []int64, limit int) []int64 {
	set := make(map[int64]struct{}, len(s.IDs)+len(ids))
	merged := make([]int64, 0, len(s.IDs)+len(ids))
	for _, list := range [][]int64{s.IDs, ids} {
		for _, id := range list {
			if _, dup := set[id]; dup {
				continue
			}
			set[id] = struct{}{}
			merged = append(merged, id)
		}
	}
	if limit > 0 && len(merged) > limit {
		merged = merged[len(merged)-limit:]
	}
	return merged
}
