package models

import (
	"fmt"
	"strings"
)

// Article is a candidate news item from the catalog
type Article struct {
	ID        int64    `json:"id" yaml:"id"`
	Title     string   `json:"title" yaml:"title"`
	Content   string   `json:"body" yaml:"body"`
	TopicTags []string `json:"topicTags" yaml:"topicTags"`
	Region    string   `json:"region" yaml:"region"`
}

// DigestItem is an article as returned to the client.
// Summary is serialized as "body" to keep the wire format of the original worker.
type DigestItem struct {
	ID        int64    `json:"id"`
	Title     string   `json:"title"`
	Summary   string   `json:"body"`
	TopicTags []string `json:"topicTags"`
	Region    string   `json:"region"`
}

// NewDigestItem copies an article's metadata into a digest item with the given summary
func NewDigestItem(a Article, summary string) DigestItem {
	tags := make([]string, len(a.TopicTags))
	copy(tags, a.TopicTags)
	return DigestItem{
		ID:        a.ID,
		Title:     a.Title,
		Summary:   summary,
		TopicTags: tags,
		Region:    a.Region,
	}
}

// ArticleIDs returns the ids of the given articles in order
func ArticleIDs(articles []Article) []int64 {
	ids := make([]int64, len(articles))
	for i, a := range articles {
		ids[i] = a.ID
	}
	return ids
}

// FallbackSummary is the deterministic summary used when summarization fails
func (a Article) FallbackSummary() string {
	return fmt.Sprintf("Summary: %s - A %s story from %s.", a.Title, strings.Join(a.TopicTags, ", "), a.Region)
}
