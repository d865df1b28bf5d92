package models

import "encoding/json"

// AnalyzedPost is one per-post record from the sentiment model.
// OriginalTitle is the join key back to the transcribed post; the score is
// a pointer because the model sometimes emits null.
type AnalyzedPost struct {
	OriginalTitle  string   `json:"original_title"`
	Sentiment      string   `json:"sentiment"`
	SentimentScore *float64 `json:"sentiment_score"`
	Keywords       []string `json:"keywords"`
}

// SentimentResult is the batched analysis for the whole accumulated post
// list. Keyword and risk-alert records stay raw until the report builder
// normalizes them record by record.
type SentimentResult struct {
	AnalyzedPosts    []AnalyzedPost    `json:"analyzed_posts"`
	TopKeywords      []json.RawMessage `json:"top_keywords"`
	RiskAlerts       []json.RawMessage `json:"risk_alerts"`
	OverallSentiment string            `json:"overall_sentiment"`
	SentimentSummary string            `json:"sentiment_summary"`

	ParseError string `json:"parse_error,omitempty"`
}
