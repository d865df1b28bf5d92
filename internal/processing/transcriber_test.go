package processing

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeVisionCaller replays canned model responses in call order.
type fakeVisionCaller struct {
	responses []string
	err       error
	calls     int
}

func (f *fakeVisionCaller) GenerateVision(context.Context, string, []byte, string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.responses[f.calls-1], nil
}

func TestTranscriber_FeedView(t *testing.T) {
	response := "```json\n" + `{
		"screenshot_type": "feed_view",
		"posts": [
			{"title": "New phone first impressions", "author": "amy", "content": "", "likes": 1200, "comments": 45, "tags": ["tech"]},
			{"title": "Battery drain complaints", "author": "", "content": "", "likes": null, "comments": null, "tags": []}
		],
		"total_visible_posts": 2,
		"notes": ""
	}` + "\n```"

	tr := NewTranscriber(&fakeVisionCaller{responses: []string{response}})

	result, err := tr.Transcribe(context.Background(), []byte("png-bytes"), "image/png")
	require.NoError(t, err)
	assert.Empty(t, result.ParseError)
	assert.Equal(t, "feed_view", result.ScreenshotType)

	posts := result.AllPosts()
	require.Len(t, posts, 2)
	assert.Equal(t, "New phone first impressions", posts[0].Title)
	require.NotNil(t, posts[0].Likes)
	assert.Equal(t, 1200, *posts[0].Likes)
	assert.Nil(t, posts[1].Likes)
	assert.Equal(t, 2, result.TotalVisiblePosts)
}

func TestTranscriber_DetailView(t *testing.T) {
	response := `{
		"screenshot_type": "detail_view",
		"post_content": {"title": "Service center experience", "content": "Went in for a screen repair...", "author": "kay", "likes": 300, "comments": 12, "tags": []},
		"comments": [
			{"author": "lee", "content": "Same thing happened to me", "likes": 4, "is_author_reply": false, "replies": [], "post_title": "Service center experience"},
			{"author": "kay", "content": "They finally fixed it", "is_author_reply": true, "replies": [{"author": "lee", "content": "good to hear"}], "post_title": "Service center experience"}
		],
		"total_visible_posts": 1
	}`

	tr := NewTranscriber(&fakeVisionCaller{responses: []string{response}})

	result, err := tr.Transcribe(context.Background(), []byte("png-bytes"), "image/png")
	require.NoError(t, err)

	posts := result.AllPosts()
	require.Len(t, posts, 1)
	assert.Equal(t, "Service center experience", posts[0].Title)
	assert.Equal(t, "Went in for a screen repair...", posts[0].Content)

	require.Len(t, result.Comments, 2)
	var first map[string]any
	require.NoError(t, json.Unmarshal(result.Comments[0], &first))
	assert.Equal(t, "lee", first["author"])
}

func TestTranscriber_LegacyShape(t *testing.T) {
	// Older prompt revisions returned a bare posts array with no
	// screenshot_type.
	response := `{"posts": [{"title": "Old shape", "author": "", "content": "", "likes": null, "comments": null}], "total_visible_posts": 1}`

	tr := NewTranscriber(&fakeVisionCaller{responses: []string{response}})

	result, err := tr.Transcribe(context.Background(), []byte("img"), "image/jpeg")
	require.NoError(t, err)
	assert.Empty(t, result.ScreenshotType)
	require.Len(t, result.AllPosts(), 1)
	assert.Equal(t, "Old shape", result.AllPosts()[0].Title)
}

func TestTranscriber_SoftParseFailure(t *testing.T) {
	tr := NewTranscriber(&fakeVisionCaller{responses: []string{"the screenshot shows several posts"}})

	result, err := tr.Transcribe(context.Background(), []byte("img"), "image/png")
	require.NoError(t, err)
	assert.NotEmpty(t, result.ParseError)
	assert.Equal(t, "the screenshot shows several posts", result.RawResponse)
	assert.Empty(t, result.AllPosts())
	assert.Empty(t, result.Comments)
}

func TestTranscriber_TransportError(t *testing.T) {
	tr := NewTranscriber(&fakeVisionCaller{err: errors.New("connection refused")})

	_, err := tr.Transcribe(context.Background(), []byte("img"), "image/png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}
