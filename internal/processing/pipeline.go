package processing

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tidwall/sjson"

	"github.com/oplens/oplens/internal/models"
)

// ImageInput is one uploaded screenshot, already read into memory.
type ImageInput struct {
	Filename string
	MimeType string
	Data     []byte
}

// Pipeline runs the fixed transcribe, analyze, merge, assemble sequence for
// one request. It holds no per-request state and is safe for concurrent use.
type Pipeline struct {
	transcriber *Transcriber
	analyzer    *SentimentAnalyzer
	reports     *ReportBuilder
}

func NewPipeline(transcriber *Transcriber, analyzer *SentimentAnalyzer, reports *ReportBuilder) *Pipeline {
	return &Pipeline{
		transcriber: transcriber,
		analyzer:    analyzer,
		reports:     reports,
	}
}

// Analyze transcribes every screenshot in order, runs one batched sentiment
// call over everything found, merges, and assembles the report. A nil report
// with a nil error means no posts were recognized anywhere; upstream
// transport failures abort the whole request.
func (p *Pipeline) Analyze(ctx context.Context, images []ImageInput, searchKeyword string) (*models.AnalysisReport, error) {
	var allPosts []models.TranscribedPost
	var allComments []json.RawMessage

	for i, image := range images {
		slog.Info("[Pipeline] Transcribing screenshot",
			slog.Int("index", i+1),
			slog.Int("total", len(images)),
			slog.String("filename", image.Filename),
			slog.Int("bytes", len(image.Data)))

		result, err := p.transcriber.Transcribe(ctx, image.Data, image.MimeType)
		if err != nil {
			return nil, fmt.Errorf("screenshot %d: %w", i+1, err)
		}

		posts := result.AllPosts()
		for j := range posts {
			posts[j].ScreenshotIndex = i
		}
		allPosts = append(allPosts, posts...)
		allComments = append(allComments, stampScreenshotIndex(result.Comments, i)...)
	}

	if len(allPosts) == 0 {
		slog.Info("[Pipeline] No posts recognized in any screenshot, skipping analysis")
		return nil, nil
	}

	sentimentResult, err := p.analyzer.Analyze(ctx, allPosts)
	if err != nil {
		return nil, err
	}

	posts := MergePosts(allPosts, sentimentResult.AnalyzedPosts)

	return p.reports.Assemble(ctx, posts, sentimentResult.TopKeywords, sentimentResult.RiskAlerts, allComments, searchKeyword), nil
}

// stampScreenshotIndex records which screenshot each raw comment record came
// from. A record sjson cannot modify is carried through unchanged and will
// be dropped with a warning during normalization.
func stampScreenshotIndex(records []json.RawMessage, index int) []json.RawMessage {
	stamped := make([]json.RawMessage, 0, len(records))
	for _, record := range records {
		withIndex, err := sjson.SetBytes(record, "screenshot_index", index)
		if err != nil {
			stamped = append(stamped, record)
			continue
		}
		stamped = append(stamped, json.RawMessage(withIndex))
	}
	return stamped
}
