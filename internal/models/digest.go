package models

// DigestRequest is one chat turn to be answered with a digest
type DigestRequest struct {
	SessionID string `json:"-"`
	Message   string `json:"message"`
}

// DigestResult is the API response for a digest request
type DigestResult struct {
	SessionID              string       `json:"sessionId"`
	Articles               []DigestItem `json:"articles"`
	NewArticlesSeen        int          `json:"newArticlesSeen"`
	TotalArticlesProcessed int          `json:"totalArticlesProcessed"`
	PreferencesUpdated     bool         `json:"preferencesUpdated"`
}
