// Package catalog loads the candidate article pool.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/headlines-digest-api/internal/models"
	"github.com/headlines-digest-api/internal/validation"
	"gopkg.in/yaml.v3"
)

//go:embed default_articles.yaml
var defaultArticles []byte

const maxReportedErrors = 10

// ErrEmptyCatalog is returned when a catalog contains no articles
var ErrEmptyCatalog = errors.New("catalog contains no articles")

// Catalog is an immutable candidate article pool
type Catalog struct {
	articles []models.Article
}

// Load reads a catalog file (YAML, or JSON as a YAML subset).
// An empty path loads the built-in catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Parse(defaultArticles)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a catalog document
func Parse(data []byte) (*Catalog, error) {
	var articles []models.Article
	if err := yaml.Unmarshal(data, &articles); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(articles) == 0 {
		return nil, ErrEmptyCatalog
	}

	if verrs := validation.ValidateArticles(articles); len(verrs) > 0 {
		errs := make([]error, 0, min(len(verrs), maxReportedErrors))
		for _, e := range verrs[:min(len(verrs), maxReportedErrors)] {
			errs = append(errs, e)
		}
		return nil, fmt.Errorf("invalid catalog (%d errors): %w", len(verrs), errors.Join(errs...))
	}
	return &Catalog{articles: articles}, nil
}

// Articles returns a copy of the pool so callers cannot mutate it
func (c *Catalog) Articles() []models.Article {
	out := make([]models.Article, len(c.articles))
	copy(out, c.articles)
	return out
}

// Len returns the number of articles in the pool
func (c *Catalog) Len() int {
	return len(c.articles)
}
