package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreText_Buckets(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"positive", "I really love this product and it works great", "positive"},
		{"negative", "This is terrible and very disappointing overall", "negative"},
		{"neutral", "The meeting is at noon today", "neutral"},
		{"empty", "", "neutral"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, label := ScoreText(tt.text)
			assert.Equal(t, tt.want, label, "score was %.3f", score)
			assert.GreaterOrEqual(t, score, -1.0)
			assert.LessOrEqual(t, score, 1.0)
		})
	}
}

func TestRemoveLinks(t *testing.T) {
	out := RemoveLinks("check [docs](https://example.com/x) now")
	assert.Equal(t, "check docs now", out)

	out = RemoveLinks("see https://foo.bar/baz for details")
	assert.NotContains(t, out, "https://")
	assert.Contains(t, out, "for details")
}

func TestStripMarkup(t *testing.T) {
	out := StripMarkup("read [the guide](https://g.co/abc) carefully")
	assert.Equal(t, "read the guide carefully", out)

	out = StripMarkup("# Heading\n\nsome **bold** text")
	assert.Equal(t, "Heading some bold text", out)

	out = StripMarkup("see https://foo.bar now")
	assert.Equal(t, "see now", out)
	assert.NotContains(t, out, "https://")
}
