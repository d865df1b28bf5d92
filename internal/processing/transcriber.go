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

// VisionCaller is the slice of the Ark client the transcriber needs.
type VisionCaller interface {
	GenerateVision(ctx context.Context, prompt string, image []byte, mimeType string) (string, error)
}

const extractionPrompt = `You are a meticulous transcription assistant for social-media screenshots. Examine the screenshot and transcribe every piece of visible text.

First decide which layout you are looking at:
- "feed_view": a search-results or feed page showing multiple post cards
- "detail_view": a single opened post with its comment thread

For a feed view, record every visible post card:
1. The title text shown on each card
2. The author nickname, if visible
3. Like or interaction counts, if visible
4. Any topic tags, if visible

Return JSON in this exact structure:
{
    "screenshot_type": "feed_view",
    "posts": [
        {
            "title": "title text on the card",
            "author": "author nickname (empty if not visible)",
            "content": "",
            "likes": null,
            "comments": null,
            "tags": []
        }
    ],
    "total_visible_posts": 5,
    "notes": "anything unusual about the screenshot"
}

For a detail view, record the opened post and its visible comments:
{
    "screenshot_type": "detail_view",
    "post_content": {
        "title": "post title",
        "content": "visible post body",
        "author": "author nickname",
        "likes": null,
        "comments": null,
        "tags": []
    },
    "comments": [
        {
            "author": "commenter nickname",
            "content": "comment text",
            "likes": null,
            "time": null,
            "is_author_reply": false,
            "replies": [
                {"author": "replier nickname", "content": "reply text"}
            ],
            "post_title": "title of the post being commented on"
        }
    ],
    "total_visible_posts": 1,
    "notes": "anything unusual about the screenshot"
}

Rules:
- Any card with readable text counts as one post record.
- Use null or an empty string for anything you cannot read.
- Convert shorthand counts such as "1.2k" or "1.2万" to plain integers (1200, 12000).
- Transcribe every visible post card; do not stop early.

Return only the JSON result, with no other text.`

// Transcriber turns one screenshot into structured post and comment records
// via the vision model.
type Transcriber struct {
	ai VisionCaller
}

func NewTranscriber(ai VisionCaller) *Transcriber {
	return &Transcriber{ai: ai}
}

// Transcribe sends one screenshot upstream. Transport failures are returned
// as errors; model text that is not valid JSON degrades to an empty result
// carrying the raw text, which callers must treat as "zero posts found".
func (t *Transcriber) Transcribe(ctx context.Context, image []byte, mimeType string) (*models.TranscriptionResult, error) {
	text, err := t.ai.GenerateVision(ctx, extractionPrompt, image, mimeType)
	if err != nil {
		return nil, fmt.Errorf("transcription request failed: %w", err)
	}

	cleaned := clients.StripCodeFence(text)

	var result models.TranscriptionResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		slog.Warn("[Transcriber] Model output was not valid JSON",
			slog.String("error", err.Error()),
			slog.String("raw_response", utils.TruncateRunes(cleaned, 200)))
		return &models.TranscriptionResult{
			ParseError:  "failed to parse model response",
			RawResponse: cleaned,
		}, nil
	}

	slog.Info("[Transcriber] Screenshot transcribed",
		slog.String("screenshot_type", result.ScreenshotType),
		slog.Int("posts", len(result.AllPosts())),
		slog.Int("comments", len(result.Comments)))

	return &result, nil
}
