package processing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oplens/oplens/internal/models"
)

func newTestPipeline(vision *fakeVisionCaller, text *fakeTextCaller, insights InsightSource) *Pipeline {
	return NewPipeline(
		NewTranscriber(vision),
		NewSentimentAnalyzer(text),
		NewReportBuilder(insights),
	)
}

func testImages(n int) []ImageInput {
	images := make([]ImageInput, 0, n)
	for i := 0; i < n; i++ {
		images = append(images, ImageInput{
			Filename: "shot.png",
			MimeType: "image/png",
			Data:     []byte{0x89, 0x50, 0x4e, 0x47},
		})
	}
	return images
}

func TestPipeline_TwoImagesMergedIntoOneReport(t *testing.T) {
	vision := &fakeVisionCaller{responses: []string{
		`{"posts":[{"title":"A","author":"","content":"","likes":100,"comments":null}],"total_visible_posts":1}`,
		`{"posts":[{"title":"B","author":"","content":"","likes":50,"comments":null}],"total_visible_posts":1}`,
	}}
	text := &fakeTextCaller{response: `{
		"analyzed_posts":[{"original_title":"A","sentiment":"positive","sentiment_score":0.8,"keywords":["x"]}],
		"top_keywords":[],
		"risk_alerts":[],
		"overall_sentiment":"positive",
		"sentiment_summary":"ok"
	}`}
	insights := &fakeInsightSource{}
	pipeline := newTestPipeline(vision, text, insights)

	report, err := pipeline.Analyze(context.Background(), testImages(2), "")
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Equal(t, 2, vision.calls, "one transcription call per screenshot")
	assert.Equal(t, 1, text.calls, "sentiment goes out as a single batched call")
	assert.Equal(t, 1, insights.calls)

	require.Len(t, report.Posts, 2)

	a := report.Posts[0]
	assert.Equal(t, "A", a.Title)
	assert.Equal(t, models.SentimentPositive, a.Sentiment)
	assert.InDelta(t, 0.8, a.SentimentScore, 1e-9)
	assert.Equal(t, []string{"x"}, a.Keywords)
	assert.Equal(t, 0, a.ScreenshotIndex)
	require.NotNil(t, a.Likes)
	assert.Equal(t, 100, *a.Likes)

	b := report.Posts[1]
	assert.Equal(t, "B", b.Title)
	assert.Equal(t, models.SentimentNeutral, b.Sentiment)
	assert.Zero(t, b.SentimentScore)
	assert.Empty(t, b.Keywords)
	assert.Equal(t, 1, b.ScreenshotIndex)

	dist := report.SentimentDistribution
	assert.Equal(t, 1, dist.PositiveCount)
	assert.Equal(t, 1, dist.NeutralCount)
	assert.Equal(t, 0, dist.NegativeCount)
	assert.InDelta(t, 0.5, dist.PositiveRatio, 1e-9)
	assert.InDelta(t, 0.5, dist.NeutralRatio, 1e-9)
}

func TestPipeline_NoPostsSkipsDownstreamCalls(t *testing.T) {
	vision := &fakeVisionCaller{responses: []string{
		`{"posts":[],"total_visible_posts":0}`,
		`{"posts":[],"total_visible_posts":0}`,
	}}
	text := &fakeTextCaller{}
	insights := &fakeInsightSource{}
	pipeline := newTestPipeline(vision, text, insights)

	report, err := pipeline.Analyze(context.Background(), testImages(2), "phone")
	require.NoError(t, err)
	assert.Nil(t, report, "no posts means no report, not an error")
	assert.Zero(t, text.calls)
	assert.Zero(t, insights.calls)
}

func TestPipeline_UnparseableTranscriptionCountsAsEmpty(t *testing.T) {
	vision := &fakeVisionCaller{responses: []string{"I could not read the image"}}
	text := &fakeTextCaller{}
	pipeline := newTestPipeline(vision, text, &fakeInsightSource{})

	report, err := pipeline.Analyze(context.Background(), testImages(1), "")
	require.NoError(t, err)
	assert.Nil(t, report)
	assert.Zero(t, text.calls)
}

func TestPipeline_TransportErrorAborts(t *testing.T) {
	vision := &fakeVisionCaller{err: errors.New("dial tcp: connection refused")}
	text := &fakeTextCaller{}
	pipeline := newTestPipeline(vision, text, &fakeInsightSource{})

	report, err := pipeline.Analyze(context.Background(), testImages(2), "")
	require.Error(t, err)
	assert.Nil(t, report)
	assert.Contains(t, err.Error(), "screenshot 1")
	assert.Zero(t, text.calls)
}

func TestPipeline_CommentsCarrySourceIndex(t *testing.T) {
	vision := &fakeVisionCaller{responses: []string{
		`{"posts":[{"title":"A","author":"","content":"","likes":null,"comments":null}],"total_visible_posts":1}`,
		`{
			"screenshot_type":"detail_view",
			"post_content":{"title":"B","content":"body","author":"kay","likes":null,"comments":null},
			"comments":[{"author":"lee","content":"works great, really love it","replies":[],"post_title":"B"}],
			"total_visible_posts":1
		}`,
	}}
	text := &fakeTextCaller{response: `{"analyzed_posts":[],"top_keywords":[],"risk_alerts":[],"overall_sentiment":"neutral","sentiment_summary":""}`}
	pipeline := newTestPipeline(vision, text, &fakeInsightSource{})

	report, err := pipeline.Analyze(context.Background(), testImages(2), "")
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Equal(t, 2, report.TotalPosts, "detail-view post counts like any other")
	require.Len(t, report.Comments, 1)

	comment := report.Comments[0]
	require.NotNil(t, comment.ScreenshotIndex)
	assert.Equal(t, 1, *comment.ScreenshotIndex, "comment is stamped with its source screenshot")
	require.NotNil(t, comment.PostTitle)
	assert.Equal(t, "B", *comment.PostTitle)
	assert.Equal(t, models.SentimentPositive, comment.Sentiment, "comments get a local polarity score")
}
