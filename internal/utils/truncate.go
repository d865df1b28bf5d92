package utils

// TruncateRunes shortens s to at most max runes. Counting runes rather than
// bytes keeps multibyte text from being cut mid-character.
func TruncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
