package llm

import (
	"context"

	"github.com/headlines-digest-api/internal/models"
)

// TemplateSummarizer produces the deterministic templated summary for every article
type TemplateSummarizer struct{}

// Summarize returns the article's fallback summary
func (TemplateSummarizer) Summarize(ctx context.Context, message string, article models.Article) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return article.FallbackSummary(), nil
}
