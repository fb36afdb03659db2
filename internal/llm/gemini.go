package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/headlines-digest-api/internal/models"
	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// Generator is the subset of the genai models service used here
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// ErrEmptyResponse is returned when the model produced no usable text
var ErrEmptyResponse = errors.New("empty model response")

// NewGeminiGenerator creates a Gemini API client
func NewGeminiGenerator(ctx context.Context, apiKey string) (Generator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return client.Models, nil
}

// GeminiInferrer asks a Gemini model to tag the user's message
type GeminiInferrer struct {
	gen   Generator
	model string
	vocab Vocabulary
	log   zerolog.Logger
}

// NewGeminiInferrer creates an inferrer restricted to the given vocabulary
func NewGeminiInferrer(gen Generator, model string, vocab Vocabulary, log zerolog.Logger) *GeminiInferrer {
	return &GeminiInferrer{
		gen:   gen,
		model: model,
		vocab: vocab,
		log:   log.With().Str("component", "gemini_inferrer").Logger(),
	}
}

type tagResponse struct {
	Topics []string `json:"topics"`
	Region *string  `json:"region"`
}

// Infer returns the topics and region the model extracted from the message
func (g *GeminiInferrer) Infer(ctx context.Context, current models.Preferences, message string) (models.PreferenceHint, error) {
	prefsJSON, _ := json.Marshal(current)
	prompt := fmt.Sprintf("Current preferences: %s\nUser message: %q", prefsJSON, message)

	resp, err := g.gen.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(taggerSystemPrompt(g.vocab.Topics, g.vocab.Regions), genai.RoleUser),
		Temperature:       genai.Ptr[float32](0),
		MaxOutputTokens:   100,
		ResponseMIMEType:  "application/json",
	})
	if err != nil {
		return models.PreferenceHint{}, fmt.Errorf("GenAI tagging failed: %w", err)
	}

	text := stripCodeFence(resp.Text())
	if text == "" {
		return models.PreferenceHint{}, ErrEmptyResponse
	}

	var parsed tagResponse
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return models.PreferenceHint{}, fmt.Errorf("failed to parse tagging response: %w", err)
	}

	hint := models.PreferenceHint{Topics: parsed.Topics}
	if parsed.Region != nil {
		hint.Region = *parsed.Region
	}
	hint = g.vocab.Canonical(hint)

	g.log.Debug().
		Strs("topics", hint.Topics).
		Str("region", hint.Region).
		Msg("Message tagged")
	return hint, nil
}

// GeminiSummarizer asks a Gemini model for a short, query-aware article summary
type GeminiSummarizer struct {
	gen   Generator
	model string
	log   zerolog.Logger
}

// NewGeminiSummarizer creates a summarizer using the given model
func NewGeminiSummarizer(gen Generator, model string, log zerolog.Logger) *GeminiSummarizer {
	return &GeminiSummarizer{
		gen:   gen,
		model: model,
		log:   log.With().Str("component", "gemini_summarizer").Logger(),
	}
}

// Summarize returns the model's summary of article in the context of message
func (g *GeminiSummarizer) Summarize(ctx context.Context, message string, article models.Article) (string, error) {
	prompt := summarizerUserPrompt(message, article.Title, article.Content)

	resp, err := g.gen.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(summarizerSystemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.3),
		MaxOutputTokens:   150,
		ResponseMIMEType:  "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("GenAI summarize failed: %w", err)
	}

	summary := parseSummary(resp.Text())
	if summary == "" {
		return "", ErrEmptyResponse
	}

	g.log.Debug().Int64("article_id", article.ID).Msg("Article summarized")
	return summary, nil
}

// parseSummary accepts either {"summary": "..."} or plain text
func parseSummary(text string) string {
	text = stripCodeFence(text)
	if strings.HasPrefix(text, "{") {
		var parsed struct {
			Summary string `json:"summary"`
		}
		if err := json.Unmarshal([]byte(text), &parsed); err == nil {
			return strings.TrimSpace(parsed.Summary)
		}
	}
	return strings.TrimSpace(text)
}
