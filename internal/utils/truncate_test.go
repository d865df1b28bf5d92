package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "", TruncateRunes("anything", 0))
	assert.Equal(t, "abc", TruncateRunes("abc", 10))
	assert.Equal(t, "ab", TruncateRunes("abcd", 2))
	assert.Equal(t, "你好", TruncateRunes("你好世界", 2), "truncation counts runes, not bytes")
}
