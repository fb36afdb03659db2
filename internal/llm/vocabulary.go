package llm

import (
	"strings"

	"github.com/headlines-digest-api/internal/models"
)

// Vocabulary is the set of topic and region labels inference may produce
type Vocabulary struct {
	Topics  []string
	Regions []string
}

// NewVocabulary builds a vocabulary from the default labels plus every
// tag and region found in the catalog
func NewVocabulary(articles []models.Article) Vocabulary {
	topics := append([]string{}, DefaultTopics...)
	regions := append([]string{}, DefaultRegions...)
	for _, a := range articles {
		topics = append(topics, a.TopicTags...)
		regions = append(regions, a.Region)
	}
	return Vocabulary{
		Topics:  models.UnionFold(topics, nil),
		Regions: models.UnionFold(regions, nil),
	}
}

// Canonical restricts a hint to known labels, rewriting each to its vocabulary spelling
func (v Vocabulary) Canonical(hint models.PreferenceHint) models.PreferenceHint {
	out := models.PreferenceHint{}
	for _, t := range hint.Topics {
		if label, ok := lookupFold(v.Topics, t); ok {
			out.Topics = append(out.Topics, label)
		}
	}
	out.Topics = models.UnionFold(out.Topics, nil)
	if len(out.Topics) == 0 {
		out.Topics = nil
	}
	if label, ok := lookupFold(v.Regions, hint.Region); ok {
		out.Region = label
	}
	return out
}

func lookupFold(labels []string, s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	for _, l := range labels {
		if strings.EqualFold(l, s) {
			return l, true
		}
	}
	return "", false
}
