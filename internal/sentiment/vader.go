// Package sentiment scores free-form comment text locally. Only posts go to
// the hosted sentiment model; transcribed comments are rated with VADER so
// the report can still attach a polarity to them.
package sentiment

import (
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
)

var analyzer = govader.NewSentimentIntensityAnalyzer()

func RemoveLinks(input string) string {
	linkPattern := regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	input = linkPattern.ReplaceAllString(input, "$1") // Keep only the text

	urlPattern := regexp.MustCompile(`https?://\S+|www\.\S+`)
	input = urlPattern.ReplaceAllString(input, "")

	return input
}

// StripMarkup flattens any markdown the transcription carried over and
// drops the rendered tags and bare links before scoring. The tags go first
// so a URL inside an href never leaks into the surrounding text.
func StripMarkup(input string) string {
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())

	tagPattern := regexp.MustCompile(`<[^>]*>`)
	plainText := tagPattern.ReplaceAllString(string(output), " ")

	plainText = RemoveLinks(plainText)

	return strings.Join(strings.Fields(plainText), " ")
}

// ScoreText returns the VADER compound score for the text and a polarity
// label bucketed at +/-0.20.
func ScoreText(text string) (float64, string) {
	plainText := StripMarkup(text)

	scores := analyzer.PolarityScores(plainText)
	score := scores.Compound

	var label string
	if score >= 0.20 {
		label = "positive"
	} else if score <= -0.20 {
		label = "negative"
	} else {
		label = "neutral"
	}

	return score, label
}
