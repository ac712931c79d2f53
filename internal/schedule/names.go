package schedule

import "unicode"

// WrapName splits a member name into display lines: 5 runes per line when it
// contains Hangul, kana or Han characters, 10 otherwise.
func WrapName(name string) []string {
	runes := []rune(name)
	limit := 10
	for _, r := range runes {
		if unicode.In(r, unicode.Hangul, unicode.Hiragana, unicode.Katakana, unicode.Han) {
			limit = 5
			break
		}
	}

	var lines []string
	for i := 0; i < len(runes); i += limit {
		end := min(i+limit, len(runes))
		lines = append(lines, string(runes[i:end]))
	}
	return lines
}
