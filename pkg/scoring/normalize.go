package scoring

import (
	"strings"
	"unicode"
)

// Normalize produces the canonical form used for keyword matching. The text is
// lowercased, every rune other than a-z, 0-9, whitespace, '?', '\'' and '"'
// becomes a space, and whitespace runs collapse to a single space.
func Normalize(text string) string {
	lower := strings.ToLower(trimMessage(text))
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == '?', r == '\'', r == '"':
			return r
		default:
			return ' '
		}
	}, lower)
	return strings.Join(strings.Fields(mapped), " ")
}

// QuestionMarks counts literal '?' characters in the trimmed raw message.
func QuestionMarks(text string) int {
	return strings.Count(trimMessage(text), "?")
}

// trimMessage strips surrounding whitespace and byte-order marks.
func trimMessage(text string) string {
	return strings.TrimFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\ufeff'
	})
}
