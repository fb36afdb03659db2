package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/headlines-digest-api/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeGenerator struct {
	reply   string
	err     error
	prompts []string
	configs []*genai.GenerateContentConfig
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	for _, c := range contents {
		for _, p := range c.Parts {
			f.prompts = append(f.prompts, p.Text)
		}
	}
	f.configs = append(f.configs, config)
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: f.reply}}},
		}},
	}, nil
}

func testVocabulary() Vocabulary {
	return NewVocabulary([]models.Article{
		{ID: 1, TopicTags: []string{"Finance"}, Region: "Asia"},
		{ID: 2, TopicTags: []string{"sport"}, Region: "europe"},
	})
}

func TestNewVocabulary(t *testing.T) {
	vocab := testVocabulary()

	assert.Equal(t, []string{"sport", "politics", "Finance"}, vocab.Topics)
	assert.Equal(t, []string{"Europe", "North America", "Asia"}, vocab.Regions)
}

func TestKeywordInferrer(t *testing.T) {
	inferrer := NewKeywordInferrer(testVocabulary())

	tests := []struct {
		message string
		want    models.PreferenceHint
	}{
		{message: "Any finance or SPORTS news from north america?", want: models.PreferenceHint{Topics: []string{"Finance", "sport"}, Region: "North America"}},
		{message: "what is happening in Asia and Europe", want: models.PreferenceHint{Region: "Asia"}},
		{message: "tell me something interesting", want: models.PreferenceHint{}},
		{message: "transport policy", want: models.PreferenceHint{}},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			got, err := inferrer.Infer(context.Background(), models.Preferences{}, tt.message)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeywordInferrer_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewKeywordInferrer(testVocabulary()).Infer(ctx, models.Preferences{}, "sport")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGeminiInferrer_ParsesAndCanonicalizes(t *testing.T) {
	gen := &fakeGenerator{reply: "```json\n{\"topics\": [\"SPORT\", \"weather\"], \"region\": \"europe\"}\n```"}
	inferrer := NewGeminiInferrer(gen, "test-model", testVocabulary(), zerolog.Nop())

	hint, err := inferrer.Infer(context.Background(), models.Preferences{Topics: []string{"politics"}}, "football in europe")
	require.NoError(t, err)

	assert.Equal(t, models.PreferenceHint{Topics: []string{"sport"}, Region: "Europe"}, hint)
	require.Len(t, gen.configs, 1)
	assert.Equal(t, "application/json", gen.configs[0].ResponseMIMEType)
	assert.Contains(t, gen.prompts[0], `"football in europe"`)
	assert.Contains(t, gen.prompts[0], "politics")
}

func TestGeminiInferrer_NullRegion(t *testing.T) {
	gen := &fakeGenerator{reply: `{"topics": [], "region": null}`}
	inferrer := NewGeminiInferrer(gen, "test-model", testVocabulary(), zerolog.Nop())

	hint, err := inferrer.Infer(context.Background(), models.Preferences{}, "hello")
	require.NoError(t, err)
	assert.True(t, hint.IsEmpty())
}

func TestGeminiInferrer_Errors(t *testing.T) {
	vocab := testVocabulary()

	_, err := NewGeminiInferrer(&fakeGenerator{err: errors.New("quota")}, "m", vocab, zerolog.Nop()).
		Infer(context.Background(), models.Preferences{}, "sport")
	assert.Error(t, err)

	_, err = NewGeminiInferrer(&fakeGenerator{reply: "not json"}, "m", vocab, zerolog.Nop()).
		Infer(context.Background(), models.Preferences{}, "sport")
	assert.Error(t, err)

	_, err = NewGeminiInferrer(&fakeGenerator{reply: "  "}, "m", vocab, zerolog.Nop()).
		Infer(context.Background(), models.Preferences{}, "sport")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestGeminiSummarizer(t *testing.T) {
	article := models.Article{ID: 9, Title: "Budget vote", Content: strings.Repeat("a", 800), TopicTags: []string{"politics"}, Region: "Europe"}

	gen := &fakeGenerator{reply: `{"summary": "  Parliament passed the budget.  "}`}
	summary, err := NewGeminiSummarizer(gen, "m", zerolog.Nop()).Summarize(context.Background(), "budget news", article)
	require.NoError(t, err)
	assert.Equal(t, "Parliament passed the budget.", summary)
	assert.Contains(t, gen.prompts[0], "Article Title: Budget vote")
	assert.Contains(t, gen.prompts[0], strings.Repeat("a", 500)+"...")
	assert.NotContains(t, gen.prompts[0], strings.Repeat("a", 501))
	assert.Equal(t, int32(150), gen.configs[0].MaxOutputTokens)

	gen = &fakeGenerator{reply: "Plain text summary."}
	summary, err = NewGeminiSummarizer(gen, "m", zerolog.Nop()).Summarize(context.Background(), "q", article)
	require.NoError(t, err)
	assert.Equal(t, "Plain text summary.", summary)

	_, err = NewGeminiSummarizer(&fakeGenerator{reply: `{"summary": ""}`}, "m", zerolog.Nop()).Summarize(context.Background(), "q", article)
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestTemplateSummarizer(t *testing.T) {
	article := models.Article{Title: "Match report", TopicTags: []string{"sport"}, Region: "Europe"}

	summary, err := TemplateSummarizer{}.Summarize(context.Background(), "q", article)
	require.NoError(t, err)
	assert.Equal(t, "Summary: Match report - A sport story from Europe.", summary)
}
