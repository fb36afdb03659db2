package llm

import (
	"context"
	"regexp"
	"sort"

	"github.com/headlines-digest-api/internal/models"
)

// KeywordInferrer extracts preferences by matching vocabulary labels in the message.
// It needs no external service and is deterministic.
type KeywordInferrer struct {
	topics  []labelPattern
	regions []labelPattern
}

type labelPattern struct {
	label string
	re    *regexp.Regexp
}

// NewKeywordInferrer compiles a matcher for each vocabulary label
func NewKeywordInferrer(vocab Vocabulary) *KeywordInferrer {
	return &KeywordInferrer{
		topics:  compileLabels(vocab.Topics),
		regions: compileLabels(vocab.Regions),
	}
}

func compileLabels(labels []string) []labelPattern {
	patterns := make([]labelPattern, 0, len(labels))
	for _, l := range labels {
		// whole words, case-insensitive, optional plural
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(l) + `s?\b`)
		patterns = append(patterns, labelPattern{label: l, re: re})
	}
	return patterns
}

// Infer returns the topics mentioned in the message, in the order they appear,
// and the first region mentioned
func (k *KeywordInferrer) Infer(ctx context.Context, current models.Preferences, message string) (models.PreferenceHint, error) {
	if err := ctx.Err(); err != nil {
		return models.PreferenceHint{}, err
	}

	hint := models.PreferenceHint{}
	for _, m := range firstMatches(k.topics, message) {
		hint.Topics = append(hint.Topics, m.label)
	}
	if regions := firstMatches(k.regions, message); len(regions) > 0 {
		hint.Region = regions[0].label
	}
	return hint, nil
}

type match struct {
	label string
	pos   int
}

func firstMatches(patterns []labelPattern, message string) []match {
	var matches []match
	for _, p := range patterns {
		if loc := p.re.FindStringIndex(message); loc != nil {
			matches = append(matches, match{label: p.label, pos: loc[0]})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].pos < matches[j].pos })
	return matches
}
