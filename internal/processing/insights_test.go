package processing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oplens/oplens/internal/models"
)

func TestInsightGenerator_ParsesResponse(t *testing.T) {
	fake := &fakeTextCaller{response: "```json\n" + `{
		"insights": ["battery complaints dominate the negative posts"],
		"recommendations": ["respond publicly to the battery thread"],
		"summary": "Sentiment skews negative around battery life."
	}` + "\n```"}
	gen := NewInsightGenerator(fake)

	posts := []models.Post{{Title: "Battery drain complaints", Sentiment: models.SentimentNegative}}
	dist := models.SentimentDistribution{NegativeCount: 1, NegativeRatio: 1}
	keywords := []models.KeywordStat{{Word: "battery", Count: 3, Sentiment: models.SentimentNegative}}

	result := gen.GenerateInsights(context.Background(), posts, dist, keywords, nil)

	require.Len(t, result.Insights, 1)
	assert.Equal(t, "battery complaints dominate the negative posts", result.Insights[0])
	assert.Equal(t, "Sentiment skews negative around battery life.", result.Summary)

	require.Len(t, fake.prompts, 1)
	prompt := fake.prompts[0]
	assert.Contains(t, prompt, "Total posts: 1")
	assert.Contains(t, prompt, "battery")
	assert.Contains(t, prompt, "- [negative] Battery drain complaints...")
}

func TestInsightGenerator_FallbackOnTransportError(t *testing.T) {
	gen := NewInsightGenerator(&fakeTextCaller{err: errors.New("timeout")})

	result := gen.GenerateInsights(context.Background(), nil, models.SentimentDistribution{}, nil, nil)

	assert.Equal(t, fallbackInsights(), result)
	assert.NotEmpty(t, result.Insights)
	assert.NotEmpty(t, result.Recommendations)
	assert.NotEmpty(t, result.Summary)
}

func TestInsightGenerator_FallbackOnBadJSON(t *testing.T) {
	gen := NewInsightGenerator(&fakeTextCaller{response: "here are my thoughts, in prose"})

	result := gen.GenerateInsights(context.Background(), nil, models.SentimentDistribution{}, nil, nil)
	assert.Equal(t, fallbackInsights(), result)
}

func TestBuildInsightsPrompt_Limits(t *testing.T) {
	posts := make([]models.Post, 0, 12)
	for i := 0; i < 12; i++ {
		posts = append(posts, models.Post{
			Title:     fmt.Sprintf("post number %d", i),
			Sentiment: models.SentimentNeutral,
		})
	}
	keywords := make([]models.KeywordStat, 0, 6)
	for i := 0; i < 6; i++ {
		keywords = append(keywords, models.KeywordStat{Word: fmt.Sprintf("kw%d", i)})
	}

	prompt := buildInsightsPrompt(posts, models.SentimentDistribution{}, keywords, nil)

	assert.Equal(t, 10, strings.Count(prompt, "- ["), "digest holds at most ten posts")
	assert.Contains(t, prompt, "kw4")
	assert.NotContains(t, prompt, "kw5", "keyword list holds at most five words")
}

func TestBuildInsightsPrompt_TruncatesLongTitles(t *testing.T) {
	long := strings.Repeat("标", 60)
	posts := []models.Post{{Title: long, Sentiment: models.SentimentPositive}}

	prompt := buildInsightsPrompt(posts, models.SentimentDistribution{}, nil, nil)

	assert.Contains(t, prompt, strings.Repeat("标", 50)+"...")
	assert.NotContains(t, prompt, strings.Repeat("标", 51))
}
