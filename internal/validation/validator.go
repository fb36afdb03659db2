package validation

import (
	"fmt"
	"strings"

	"github.com/headlines-digest-api/internal/models"
)

// maxTitleLength bounds catalog titles; longer ones are almost always a body pasted in the wrong field
const maxTitleLength = 300

// ValidationError represents a single validation error
type ValidationError struct {
	Index   int         `json:"index"`
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("entry %d: %s: %s (%v)", e.Index, e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("entry %d: %s: %s", e.Index, e.Field, e.Message)
}

// Validator checks catalog articles, tracking ids across calls for uniqueness
type Validator struct {
	articleIDCache map[int64]bool
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{articleIDCache: make(map[int64]bool)}
}

// ValidateArticle validates one catalog entry and records its id
func (v *Validator) ValidateArticle(article *models.Article, index int) []ValidationError {
	var errors []ValidationError

	// Validate ID
	if article.ID <= 0 {
		errors = append(errors, ValidationError{Index: index, Field: "id", Message: "id must be a positive integer", Value: article.ID})
	} else if v.articleIDCache[article.ID] {
		errors = append(errors, ValidationError{Index: index, Field: "id", Message: "duplicate id", Value: article.ID})
	} else {
		v.articleIDCache[article.ID] = true
	}

	// Validate title
	title := strings.TrimSpace(article.Title)
	if title == "" {
		errors = append(errors, ValidationError{Index: index, Field: "title", Message: "title is required"})
	} else if len(title) > maxTitleLength {
		errors = append(errors, ValidationError{Index: index, Field: "title", Message: fmt.Sprintf("title must be at most %d bytes", maxTitleLength)})
	}

	// Validate topic tags
	if len(article.TopicTags) == 0 {
		errors = append(errors, ValidationError{Index: index, Field: "topicTags", Message: "at least one topic tag is required"})
	}
	tags := make(map[string]bool, len(article.TopicTags))
	for _, tag := range article.TopicTags {
		key := strings.ToLower(strings.TrimSpace(tag))
		if key == "" {
			errors = append(errors, ValidationError{Index: index, Field: "topicTags", Message: "topic tags must not be blank"})
			continue
		}
		if tags[key] {
			errors = append(errors, ValidationError{Index: index, Field: "topicTags", Message: "duplicate topic tag", Value: tag})
		}
		tags[key] = true
	}

	// Validate region
	if strings.TrimSpace(article.Region) == "" {
		errors = append(errors, ValidationError{Index: index, Field: "region", Message: "region is required"})
	}

	return errors
}

// ValidateArticles validates a whole catalog with a fresh id cache
func ValidateArticles(articles []models.Article) []ValidationError {
	v := NewValidator()
	var errors []ValidationError
	for i := range articles {
		errors = append(errors, v.ValidateArticle(&articles[i], i)...)
	}
	return errors
}
