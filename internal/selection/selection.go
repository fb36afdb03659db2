// Package selection picks the articles of a digest from a candidate pool.
//
// Selection is a pure function of its inputs: preference filtering with a
// fallback to the full pool, then a stable unseen-before-seen partition, then
// a bound on the number of results.
package selection

import (
	"strings"

	"github.com/headlines-digest-api/internal/models"
)

// DefaultLimit is the digest size used when the caller does not specify one
const DefaultLimit = 5

// Trace records how a selection was reached, for logging
type Trace struct {
	Candidates int  `json:"candidates"`
	Filtered   int  `json:"filtered"`
	Fallback   bool `json:"fallback"`
	Unseen     int  `json:"unseen"`
	Seen       int  `json:"seen"`
	Returned   int  `json:"returned"`
}

// Select returns at most limit articles from candidates, unseen first.
// Neither candidates nor seen are modified.
func Select(candidates []models.Article, seen map[int64]struct{}, prefs models.Preferences, limit int) []models.Article {
	out, _ := Explain(candidates, seen, prefs, limit)
	return out
}

// Explain is Select plus a Trace of the intermediate counts
func Explain(candidates []models.Article, seen map[int64]struct{}, prefs models.Preferences, limit int) ([]models.Article, Trace) {
	trace := Trace{Candidates: len(candidates)}
	if limit <= 0 || len(candidates) == 0 {
		return []models.Article{}, trace
	}

	pool := candidates
	if !prefs.IsEmpty() {
		pool = FilterByPreferences(candidates, prefs)
		if len(pool) == 0 {
			// an empty match must never zero out the digest
			pool = candidates
			trace.Fallback = true
		}
	}
	trace.Filtered = len(pool)

	unseen, seenList := Partition(pool, seen)
	trace.Unseen = len(unseen)
	trace.Seen = len(seenList)

	out := make([]models.Article, 0, min(limit, len(pool)))
	emitted := make(map[int64]struct{}, cap(out))
	for _, list := range [][]models.Article{unseen, seenList} {
		for _, a := range list {
			if len(out) == limit {
				break
			}
			if _, dup := emitted[a.ID]; dup {
				continue
			}
			emitted[a.ID] = struct{}{}
			out = append(out, a)
		}
	}
	trace.Returned = len(out)
	return out, trace
}

// FilterByPreferences keeps articles matching every preference that is set.
// Topics match when any tag equals any preferred topic; region must be equal.
// Both comparisons ignore case.
func FilterByPreferences(articles []models.Article, prefs models.Preferences) []models.Article {
	topics := make(map[string]struct{}, len(prefs.Topics))
	for _, t := range prefs.Topics {
		if t = strings.TrimSpace(t); t != "" {
			topics[strings.ToLower(t)] = struct{}{}
		}
	}
	region := strings.TrimSpace(prefs.Region)

	filtered := make([]models.Article, 0, len(articles))
	for _, a := range articles {
		if len(topics) > 0 && !hasAnyTag(a.TopicTags, topics) {
			continue
		}
		if region != "" && !strings.EqualFold(strings.TrimSpace(a.Region), region) {
			continue
		}
		filtered = append(filtered, a)
	}
	return filtered
}

// Partition splits articles into unseen and seen, preserving relative order
func Partition(articles []models.Article, seen map[int64]struct{}) (unseen, seenList []models.Article) {
	unseen = make([]models.Article, 0, len(articles))
	seenList = make([]models.Article, 0)
	for _, a := range articles {
		if _, ok := seen[a.ID]; ok {
			seenList = append(seenList, a)
			continue
		}
		unseen = append(unseen, a)
	}
	return unseen, seenList
}

func hasAnyTag(tags []string, topics map[string]struct{}) bool {
	for _, tag := range tags {
		if _, ok := topics[strings.ToLower(strings.TrimSpace(tag))]; ok {
			return true
		}
	}
	return false
}
