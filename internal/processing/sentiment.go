package processing

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/oplens/oplens/internal/clients"
	"github.com/oplens/oplens/internal/models"
	"github.com/oplens/oplens/internal/utils"
)

// TextCaller is the slice of the Ark client the text-only stages need.
type TextCaller interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

const sentimentPrompt = `You are a professional public-opinion analyst. Analyze the sentiment of the social-media posts below.

Post data:
%s

Analyze every post and return JSON in this exact structure:
{
    "analyzed_posts": [
        {
            "original_title": "the post title, used for matching",
            "sentiment": "positive/negative/neutral",
            "sentiment_score": 0.5,
            "keywords": ["keyword1", "keyword2"]
        }
    ],
    "top_keywords": [
        {"word": "keyword", "count": 5, "sentiment": "positive/negative/neutral"}
    ],
    "risk_alerts": [
        {
            "level": "high/medium/low",
            "description": "what the risk is",
            "related_posts": ["titles of related posts"]
        }
    ],
    "overall_sentiment": "positive/negative/neutral",
    "sentiment_summary": "an overall summary in 100 words or fewer"
}

Analysis requirements:
1. sentiment_score ranges from -1 to 1, where -1 is the most negative and 1 the most positive
2. Surface keywords tied to brands, products or recurring themes
3. Pay special attention to complaints, quality issues and other reputational risks
4. original_title must exactly match the title of the input post

Return only the JSON result, with no other text.`

// SentimentAnalyzer scores a whole batch of transcribed posts in a single
// model call.
type SentimentAnalyzer struct {
	ai TextCaller
}

func NewSentimentAnalyzer(ai TextCaller) *SentimentAnalyzer {
	return &SentimentAnalyzer{ai: ai}
}

// Analyze runs one batched sentiment call over posts. An empty batch never
// reaches the model; an unparseable model response degrades to an empty
// result so the caller can still assemble a report.
func (a *SentimentAnalyzer) Analyze(ctx context.Context, posts []models.TranscribedPost) (*models.SentimentResult, error) {
	if len(posts) == 0 {
		return emptySentimentResult("no post content available for analysis"), nil
	}

	postsJSON, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize posts for analysis: %w", err)
	}

	text, err := a.ai.GenerateText(ctx, fmt.Sprintf(sentimentPrompt, postsJSON))
	if err != nil {
		return nil, fmt.Errorf("sentiment request failed: %w", err)
	}

	cleaned := clients.StripCodeFence(text)

	var result models.SentimentResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		slog.Error("[SentimentAnalyzer] Failed to parse model response",
			slog.String("error", err.Error()),
			slog.String("raw_response", utils.TruncateRunes(cleaned, 200)))
		degraded := emptySentimentResult("an error occurred during analysis")
		degraded.ParseError = err.Error()
		return degraded, nil
	}

	slog.Info("[SentimentAnalyzer] Batch analyzed",
		slog.Int("input_posts", len(posts)),
		slog.Int("analyzed_posts", len(result.AnalyzedPosts)),
		slog.String("overall_sentiment", result.OverallSentiment))

	return &result, nil
}

func emptySentimentResult(summary string) *models.SentimentResult {
	return &models.SentimentResult{
		AnalyzedPosts:    []models.AnalyzedPost{},
		TopKeywords:      []json.RawMessage{},
		RiskAlerts:       []json.RawMessage{},
		OverallSentiment: string(models.SentimentNeutral),
		SentimentSummary: summary,
	}
}
