package scoring

import (
	"regexp"
	"strings"
)

// pattern is one compiled keyword or phrase.
type pattern struct {
	phrase string
	re     *regexp.Regexp
}

// PatternSet is a compiled, ordered list of keyword patterns. Each keyword is
// matched case-insensitively as a whole word or phrase, with internal
// whitespace matching any run of whitespace. Safe for concurrent use.
type PatternSet struct {
	patterns []pattern
}

// CompilePatterns builds a PatternSet. Blank and duplicate keywords are skipped
// so a hit always means one distinct phrase.
func CompilePatterns(keywords []string) *PatternSet {
	ps := &PatternSet{}
	seen := make(map[string]bool, len(keywords))
	for _, kw := range keywords {
		fields := strings.Fields(strings.ToLower(kw))
		if len(fields) == 0 {
			continue
		}
		key := strings.Join(fields, " ")
		if seen[key] {
			continue
		}
		seen[key] = true

		quoted := make([]string, len(fields))
		for i, f := range fields {
			quoted[i] = regexp.QuoteMeta(f)
		}
		expr := `(?i)\b` + strings.Join(quoted, `\s+`) + `\b`
		ps.patterns = append(ps.patterns, pattern{
			phrase: key,
			re:     regexp.MustCompile(expr),
		})
	}
	return ps
}

// Len returns the number of distinct patterns in the set.
func (ps *PatternSet) Len() int {
	return len(ps.patterns)
}

// Count returns how many distinct patterns occur at least once in text.
func (ps *PatternSet) Count(text string) int {
	if text == "" {
		return 0
	}
	n := 0
	for _, p := range ps.patterns {
		if p.re.MatchString(text) {
			n++
		}
	}
	return n
}

// Matched returns the phrases that occur in text, in set order.
func (ps *PatternSet) Matched(text string) []string {
	if text == "" {
		return nil
	}
	var out []string
	for _, p := range ps.patterns {
		if p.re.MatchString(text) {
			out = append(out, p.phrase)
		}
	}
	return out
}

// CountMatches compiles keywords and counts the distinct ones found in text.
// Prefer a reused PatternSet on hot paths.
func CountMatches(text string, keywords []string) int {
	return CompilePatterns(keywords).Count(text)
}
