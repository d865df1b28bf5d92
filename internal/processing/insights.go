package processing

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/oplens/oplens/internal/clients"
	"github.com/oplens/oplens/internal/models"
	"github.com/oplens/oplens/internal/utils"
)

const insightsPrompt = `Based on the public-opinion analysis data below, produce professional insights.

Analysis data:
- Total posts: %d
- Positive share: %.1f%%
- Negative share: %.1f%%
- Neutral share: %.1f%%
- Top keywords: %s
- Risk alerts: %d

Post digest:
%s

Produce:
1. 3-5 key insights (20-50 words each)
2. 3-5 recommended actions (20-50 words each)
3. One summary paragraph (100-200 words)

Return JSON in this exact structure, with no other text:
{"insights": ["..."], "recommendations": ["..."], "summary": "..."}`

// InsightGenerator writes the narrative part of a report. It is best-effort
// by contract: a report is never lost because the narrative call failed.
type InsightGenerator struct {
	ai TextCaller
}

func NewInsightGenerator(ai TextCaller) *InsightGenerator {
	return &InsightGenerator{ai: ai}
}

// GenerateInsights asks the model for insights, recommendations and a
// summary. Every failure path, transport or parse, returns the fixed
// fallback narrative instead of an error.
func (g *InsightGenerator) GenerateInsights(ctx context.Context, posts []models.Post, dist models.SentimentDistribution, keywords []models.KeywordStat, alerts []models.RiskAlert) models.InsightResult {
	prompt := buildInsightsPrompt(posts, dist, keywords, alerts)

	text, err := g.ai.GenerateText(ctx, prompt)
	if err != nil {
		slog.Error("[InsightGenerator] Insight request failed", slog.String("error", err.Error()))
		return fallbackInsights()
	}

	cleaned := clients.StripCodeFence(text)

	var result models.InsightResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		slog.Error("[InsightGenerator] Failed to parse model response",
			slog.String("error", err.Error()),
			slog.String("raw_response", utils.TruncateRunes(cleaned, 200)))
		return fallbackInsights()
	}

	return result
}

func buildInsightsPrompt(posts []models.Post, dist models.SentimentDistribution, keywords []models.KeywordStat, alerts []models.RiskAlert) string {
	digest := make([]string, 0, 10)
	for i, post := range posts {
		if i == 10 {
			break
		}
		digest = append(digest, fmt.Sprintf("- [%s] %s...", post.Sentiment, utils.TruncateRunes(post.Title, 50)))
	}

	words := make([]string, 0, 5)
	for i, kw := range keywords {
		if i == 5 {
			break
		}
		words = append(words, kw.Word)
	}

	return fmt.Sprintf(insightsPrompt,
		len(posts),
		dist.PositiveRatio*100,
		dist.NegativeRatio*100,
		dist.NeutralRatio*100,
		strings.Join(words, ", "),
		len(alerts),
		strings.Join(digest, "\n"),
	)
}

func fallbackInsights() models.InsightResult {
	return models.InsightResult{
		Insights:        []string{"Analysis finished; see the detailed report for specifics."},
		Recommendations: []string{"Keep monitoring how the conversation develops."},
		Summary:         "The analysis completed and identified a number of relevant posts.",
	}
}
