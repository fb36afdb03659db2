package llm

import (
	"fmt"
	"strings"
)

// DefaultTopics and DefaultRegions are the labels the tagger always knows about
var (
	DefaultTopics  = []string{"sport", "politics"}
	DefaultRegions = []string{"Europe", "North America"}
)

func taggerSystemPrompt(topics, regions []string) string {
	return fmt.Sprintf(`You are a news content tagger. Analyze the user message and extract relevant topics and region preferences.
Return only a valid JSON object with this exact format:
{"topics": ["topic1", "topic2"], "region": "region_name"}

Valid topics: %s
Valid regions: %s
If no specific preferences can be determined, return empty arrays/null values.`,
		strings.Join(topics, ", "), strings.Join(regions, ", "))
}

const summarizerSystemPrompt = `You are a news summarizer.
Your job is to create a concise, factual, and engaging summary of a news article, under 100 words.

Rules:
- Always summarize the article, even if it is not related to the user's interest.
- If the article is related to the user's interest/query, clearly highlight the connection by emphasizing up to 3 key overlapping terms (e.g., bold text).
- If the article is not related, still summarize normally but begin with: "[Might not be related to user interest] ".
- Do not invent details, speculate, or give opinions.
- Prefer concrete specifics (who, what, where, when) from the article.
- If the article text is fragmentary, summarize what is available without guessing.
- Output only the summary paragraph, never explanations or extra formatting.
Return a JSON object: {"summary": "..."}`

// maxPromptContentRunes bounds how much article content is sent for summarization
const maxPromptContentRunes = 500

func summarizerUserPrompt(message, title, content string) string {
	if r := []rune(content); len(r) > maxPromptContentRunes {
		content = string(r[:maxPromptContentRunes]) + "..."
	}
	return fmt.Sprintf("User query: %q\nArticle Title: %s\nOriginal Content: %s\n\nCreate a concise summary:", message, title, content)
}

// stripCodeFence removes a surrounding markdown code fence from a model reply
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
