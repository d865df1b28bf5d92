package processing

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/oplens/oplens/internal/models"
	"github.com/oplens/oplens/internal/sentiment"
)

// InsightSource produces the narrative section of a report. It never fails;
// implementations fall back to canned content instead.
type InsightSource interface {
	GenerateInsights(ctx context.Context, posts []models.Post, dist models.SentimentDistribution, keywords []models.KeywordStat, alerts []models.RiskAlert) models.InsightResult
}

// ReportBuilder turns merged posts and the raw keyword, alert and comment
// records into a finished AnalysisReport.
type ReportBuilder struct {
	insights InsightSource
}

func NewReportBuilder(insights InsightSource) *ReportBuilder {
	return &ReportBuilder{insights: insights}
}

// ComputeDistribution counts posts per sentiment class. An empty post list
// yields the all-zero distribution rather than dividing by zero.
func ComputeDistribution(posts []models.Post) models.SentimentDistribution {
	var dist models.SentimentDistribution

	total := len(posts)
	if total == 0 {
		return dist
	}

	for _, post := range posts {
		switch post.Sentiment {
		case models.SentimentPositive:
			dist.PositiveCount++
		case models.SentimentNegative:
			dist.NegativeCount++
		default:
			dist.NeutralCount++
		}
	}

	dist.PositiveRatio = float64(dist.PositiveCount) / float64(total)
	dist.NegativeRatio = float64(dist.NegativeCount) / float64(total)
	dist.NeutralRatio = float64(dist.NeutralCount) / float64(total)
	return dist
}

// keywordRecord tolerates the loose shapes the model emits; count may be
// missing entirely.
type keywordRecord struct {
	Word      string `json:"word"`
	Count     *int   `json:"count"`
	Sentiment string `json:"sentiment"`
}

// NormalizeKeywords keeps at most the first ten records in model order,
// coerces unrecognized sentiment labels to neutral and defaults a missing
// count to 1. Records that fail to decode are dropped with a warning.
func NormalizeKeywords(raw []json.RawMessage) []models.KeywordStat {
	if len(raw) > 10 {
		raw = raw[:10]
	}

	stats := make([]models.KeywordStat, 0, len(raw))
	for _, record := range raw {
		var kw keywordRecord
		if err := json.Unmarshal(record, &kw); err != nil {
			slog.Warn("[ReportBuilder] Skipping malformed keyword record", slog.String("error", err.Error()))
			continue
		}

		count := 1
		if kw.Count != nil {
			count = *kw.Count
		}

		stats = append(stats, models.KeywordStat{
			Word:      kw.Word,
			Count:     count,
			Sentiment: models.ParseSentiment(kw.Sentiment),
		})
	}
	return stats
}

type riskAlertRecord struct {
	Level        string   `json:"level"`
	Description  string   `json:"description"`
	RelatedPosts []string `json:"related_posts"`
}

// NormalizeRiskAlerts passes alert records through with defaults. A missing
// level becomes "low"; any other level string the model invents is kept
// as-is rather than validated away.
func NormalizeRiskAlerts(raw []json.RawMessage) []models.RiskAlert {
	alerts := make([]models.RiskAlert, 0, len(raw))
	for _, record := range raw {
		var alert riskAlertRecord
		if err := json.Unmarshal(record, &alert); err != nil {
			slog.Warn("[ReportBuilder] Skipping malformed risk alert record", slog.String("error", err.Error()))
			continue
		}

		if alert.Level == "" {
			alert.Level = "low"
		}
		if alert.RelatedPosts == nil {
			alert.RelatedPosts = []string{}
		}

		alerts = append(alerts, models.RiskAlert{
			Level:        alert.Level,
			Description:  alert.Description,
			RelatedPosts: alert.RelatedPosts,
		})
	}
	return alerts
}

// NormalizeComments decodes raw comment records one at a time; a malformed
// record is skipped with a warning instead of failing the batch. Comments
// never reach the hosted sentiment model, so each surviving record gets a
// local VADER polarity here.
func NormalizeComments(raw []json.RawMessage) []models.Comment {
	comments := make([]models.Comment, 0, len(raw))
	for _, record := range raw {
		var comment models.Comment
		if err := json.Unmarshal(record, &comment); err != nil {
			slog.Warn("[ReportBuilder] Skipping malformed comment record", slog.String("error", err.Error()))
			continue
		}

		if comment.Replies == nil {
			comment.Replies = []models.CommentReply{}
		}

		score, label := sentiment.ScoreText(comment.Content)
		comment.Sentiment = models.Sentiment(label)
		comment.SentimentScore = score

		comments = append(comments, comment)
	}
	return comments
}

// Assemble builds the final report: distribution stats, normalized keyword,
// alert and comment records, the narrative section, a short random analysis
// id and a creation timestamp.
func (b *ReportBuilder) Assemble(ctx context.Context, posts []models.Post, keywordsRaw, alertsRaw, commentsRaw []json.RawMessage, searchKeyword string) *models.AnalysisReport {
	dist := ComputeDistribution(posts)
	keywords := NormalizeKeywords(keywordsRaw)
	alerts := NormalizeRiskAlerts(alertsRaw)
	comments := NormalizeComments(commentsRaw)

	narrative := b.insights.GenerateInsights(ctx, posts, dist, keywords, alerts)

	report := &models.AnalysisReport{
		AnalysisID:            uuid.NewString()[:8],
		TotalPosts:            len(posts),
		TotalComments:         len(comments),
		SentimentDistribution: dist,
		TopKeywords:           keywords,
		Posts:                 posts,
		Comments:              comments,
		RiskAlerts:            alerts,
		Summary:               narrative.Summary,
		Insights:              narrative.Insights,
		Recommendations:       narrative.Recommendations,
		CreatedAt:             time.Now().Format(time.RFC3339),
	}
	if searchKeyword != "" {
		report.SearchKeyword = &searchKeyword
	}

	slog.Info("[ReportBuilder] Report assembled",
		slog.String("analysis_id", report.AnalysisID),
		slog.Int("posts", report.TotalPosts),
		slog.Int("comments", report.TotalComments),
		slog.Int("risk_alerts", len(alerts)))

	return report
}
