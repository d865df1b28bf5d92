package processing

import (
	"github.com/oplens/oplens/internal/models"
)

// MergePosts joins transcribed posts with their sentiment records. Records
// match on exact title; when the model emits two records for the same title
// the later one wins. A post with no matching record keeps a neutral
// zero-score entry, and output order always follows the transcription, not
// the analysis.
func MergePosts(originals []models.TranscribedPost, analyzed []models.AnalyzedPost) []models.Post {
	analysisByTitle := make(map[string]models.AnalyzedPost, len(analyzed))
	for _, record := range analyzed {
		analysisByTitle[record.OriginalTitle] = record
	}

	merged := make([]models.Post, 0, len(originals))
	for _, original := range originals {
		// A miss leaves the zero value, which already carries the
		// neutral defaults.
		analysis := analysisByTitle[original.Title]

		score := 0.0
		if analysis.SentimentScore != nil {
			score = *analysis.SentimentScore
		}
		if score < -1.0 || score > 1.0 {
			score = 0.0
		}

		keywords := analysis.Keywords
		if keywords == nil {
			keywords = []string{}
		}

		merged = append(merged, models.Post{
			Title:           original.Title,
			Content:         original.Content,
			Author:          original.Author,
			Likes:           original.Likes,
			Comments:        original.Comments,
			Tags:            original.Tags,
			ScreenshotIndex: original.ScreenshotIndex,
			Sentiment:       models.ParseSentiment(analysis.Sentiment),
			SentimentScore:  score,
			Keywords:        keywords,
		})
	}
	return merged
}
