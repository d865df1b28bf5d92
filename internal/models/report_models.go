package models

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// ParseSentiment coerces model output to a known label; anything
// unrecognized counts as neutral.
func ParseSentiment(s string) Sentiment {
	switch Sentiment(s) {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return Sentiment(s)
	default:
		return SentimentNeutral
	}
}

type CommentReply struct {
	Author  string `json:"author"`
	Content string `json:"content"`
}

type Comment struct {
	Author          string         `json:"author"`
	Content         string         `json:"content"`
	Likes           *int           `json:"likes,omitempty"`
	Time            *string        `json:"time,omitempty"`
	IsAuthorReply   bool           `json:"is_author_reply"`
	Replies         []CommentReply `json:"replies"`
	PostTitle       *string        `json:"post_title,omitempty"`
	ScreenshotIndex *int           `json:"screenshot_index,omitempty"`
	Sentiment       Sentiment      `json:"sentiment,omitempty"`
	SentimentScore  float64        `json:"sentiment_score,omitempty"`
}

// Post is the merged entity: transcription fields joined with the
// sentiment record matched by title. SentimentScore stays in [-1, 1].
type Post struct {
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	Author          string    `json:"author"`
	Likes           *int      `json:"likes"`
	Comments        *int      `json:"comments"`
	Tags            []string  `json:"tags,omitempty"`
	ScreenshotIndex int       `json:"screenshot_index"`
	Sentiment       Sentiment `json:"sentiment"`
	SentimentScore  float64   `json:"sentiment_score"`
	Keywords        []string  `json:"keywords"`
}

type SentimentDistribution struct {
	PositiveCount int     `json:"positive_count"`
	NegativeCount int     `json:"negative_count"`
	NeutralCount  int     `json:"neutral_count"`
	PositiveRatio float64 `json:"positive_ratio"`
	NegativeRatio float64 `json:"negative_ratio"`
	NeutralRatio  float64 `json:"neutral_ratio"`
}

type KeywordStat struct {
	Word      string    `json:"word"`
	Count     int       `json:"count"`
	Sentiment Sentiment `json:"sentiment"`
}

// RiskAlert levels are whatever the model said; "high"/"medium"/"low" are
// the expected values but arbitrary strings pass through.
type RiskAlert struct {
	Level        string   `json:"level"`
	Description  string   `json:"description"`
	RelatedPosts []string `json:"related_posts"`
}

type AnalysisReport struct {
	AnalysisID            string                `json:"analysis_id"`
	SearchKeyword         *string               `json:"search_keyword,omitempty"`
	TotalPosts            int                   `json:"total_posts"`
	TotalComments         int                   `json:"total_comments"`
	SentimentDistribution SentimentDistribution `json:"sentiment_distribution"`
	TopKeywords           []KeywordStat         `json:"top_keywords"`
	Posts                 []Post                `json:"posts"`
	Comments              []Comment             `json:"comments"`
	RiskAlerts            []RiskAlert           `json:"risk_alerts"`
	Summary               string                `json:"summary"`
	Insights              []string              `json:"insights"`
	Recommendations       []string              `json:"recommendations"`
	CreatedAt             string                `json:"created_at"`
}

type AnalyzeResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    *AnalysisReport `json:"data"`
}

type ErrorResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ErrorCode string `json:"error_code"`
}
