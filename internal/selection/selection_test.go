package selection

import (
	"fmt"
	"testing"

	"github.com/headlines-digest-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeArticles(n int, tags []string, region string) []models.Article {
	articles := make([]models.Article, n)
	for i := range articles {
		articles[i] = models.Article{
			ID:        int64(i + 1),
			Title:     fmt.Sprintf("Article %d", i+1),
			Content:   "content",
			TopicTags: tags,
			Region:    region,
		}
	}
	return articles
}

func seenSet(ids ...int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func TestSelect_UnseenFirstWithoutPreferences(t *testing.T) {
	candidates := makeArticles(10, []string{"sport"}, "Europe")

	got := Select(candidates, seenSet(3, 7), models.Preferences{}, DefaultLimit)

	assert.Equal(t, []int64{1, 2, 4, 5, 6}, models.ArticleIDs(got))
}

func TestSelect_SeenFollowUnseen(t *testing.T) {
	candidates := makeArticles(5, []string{"sport"}, "Europe")

	got := Select(candidates, seenSet(1, 2, 3), models.Preferences{}, DefaultLimit)

	assert.Equal(t, []int64{4, 5, 1, 2, 3}, models.ArticleIDs(got))
}

func TestSelect_FallbackWhenNoArticleMatches(t *testing.T) {
	candidates := makeArticles(7, []string{"finance"}, "Asia")

	got, trace := Explain(candidates, seenSet(2), models.Preferences{Topics: []string{"sport"}}, DefaultLimit)

	assert.True(t, trace.Fallback)
	assert.Equal(t, len(candidates), trace.Filtered)
	assert.Equal(t, []int64{1, 3, 4, 5, 6}, models.ArticleIDs(got))
}

func TestFilterByPreferences(t *testing.T) {
	candidates := []models.Article{
		{ID: 1, TopicTags: []string{"Sport"}, Region: "Europe"},
		{ID: 2, TopicTags: []string{"politics"}, Region: "europe"},
		{ID: 3, TopicTags: []string{"sport", "politics"}, Region: "North America"},
		{ID: 4, TopicTags: []string{"finance"}, Region: "EUROPE"},
	}

	tests := []struct {
		name  string
		prefs models.Preferences
		want  []int64
	}{
		{name: "topic only, case-insensitive", prefs: models.Preferences{Topics: []string{"SPORT"}}, want: []int64{1, 3}},
		{name: "region only, case-insensitive", prefs: models.Preferences{Region: "Europe"}, want: []int64{1, 2, 4}},
		{name: "topic and region are combined with AND", prefs: models.Preferences{Topics: []string{"politics"}, Region: "europe"}, want: []int64{2}},
		{name: "any of several topics", prefs: models.Preferences{Topics: []string{"finance", "politics"}}, want: []int64{2, 3, 4}},
		{name: "no match", prefs: models.Preferences{Topics: []string{"weather"}}, want: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterByPreferences(candidates, tt.prefs)
			assert.Equal(t, tt.want, models.ArticleIDs(got))
		})
	}
}

func TestSelect_EdgeCases(t *testing.T) {
	candidates := makeArticles(3, []string{"sport"}, "Europe")

	assert.Empty(t, Select(nil, nil, models.Preferences{}, DefaultLimit))
	assert.Empty(t, Select(candidates, nil, models.Preferences{}, 0))
	assert.Empty(t, Select(candidates, nil, models.Preferences{}, -1))
	assert.Equal(t, []int64{1, 2, 3}, models.ArticleIDs(Select(candidates, nil, models.Preferences{}, 50)))
}

func TestSelect_DoesNotMutateInputs(t *testing.T) {
	candidates := makeArticles(6, []string{"sport"}, "Europe")
	seen := seenSet(1, 2)
	before := make([]models.Article, len(candidates))
	copy(before, candidates)

	Select(candidates, seen, models.Preferences{Topics: []string{"sport"}}, 3)

	assert.Equal(t, before, candidates)
	assert.Len(t, seen, 2)
}

func TestSelect_DuplicateCandidateIDsEmittedOnce(t *testing.T) {
	candidates := []models.Article{
		{ID: 1, Title: "first"},
		{ID: 2, Title: "second"},
		{ID: 1, Title: "duplicate"},
		{ID: 3, Title: "third"},
	}

	got := Select(candidates, nil, models.Preferences{}, 10)

	require.Len(t, got, 3)
	assert.Equal(t, "first", got[0].Title)
	assert.Equal(t, []int64{1, 2, 3}, models.ArticleIDs(got))
}

// TestSelect_Properties checks the output invariants over a grid of inputs
func TestSelect_Properties(t *testing.T) {
	tagSets := [][]string{{"sport"}, {"politics"}, {"sport", "politics"}, {"finance"}}
	regions := []string{"Europe", "North America", "Asia"}

	var candidates []models.Article
	for i := 0; i < 24; i++ {
		candidates = append(candidates, models.Article{
			ID:        int64(100 + i),
			Title:     fmt.Sprintf("Story %d", i),
			TopicTags: tagSets[i%len(tagSets)],
			Region:    regions[i%len(regions)],
		})
	}
	byID := make(map[int64]models.Article, len(candidates))
	for _, a := range candidates {
		byID[a.ID] = a
	}

	prefsGrid := []models.Preferences{
		{},
		{Topics: []string{"sport"}},
		{Region: "asia"},
		{Topics: []string{"Politics"}, Region: "Europe"},
		{Topics: []string{"weather"}, Region: "Antarctica"},
	}
	seenGrid := []map[int64]struct{}{nil, seenSet(100, 101, 102), seenSet(105, 111, 117, 123)}

	for _, prefs := range prefsGrid {
		for _, seen := range seenGrid {
			for limit := -1; limit <= 30; limit += 3 {
				got := Select(candidates, seen, prefs, limit)

				require.LessOrEqual(t, len(got), max(limit, 0))

				ids := make(map[int64]struct{}, len(got))
				sawSeen := false
				for _, a := range got {
					orig, ok := byID[a.ID]
					require.True(t, ok, "article %d not in candidates", a.ID)
					require.Equal(t, orig, a)

					_, dup := ids[a.ID]
					require.False(t, dup, "duplicate id %d", a.ID)
					ids[a.ID] = struct{}{}

					_, isSeen := seen[a.ID]
					if isSeen {
						sawSeen = true
					} else {
						require.False(t, sawSeen, "unseen article %d after a seen one", a.ID)
					}
				}
			}
		}
	}
}
