package topic

import "strings"

// Word-boundary hits add a flat bonus on top of the keyword length.
const boundaryBonus = 5

// Score computes the keyword score of lowered input against a keyword
// table: keyword length for every substring hit plus a bonus when the
// hit sits on word boundaries. Every matcher in the system shares this
// function so tie-break semantics stay identical everywhere.
func Score(lowered string, keywords []string) int {
	score := 0
	for _, kw := range keywords {
		k := strings.ToLower(kw)
		if k == "" || !strings.Contains(lowered, k) {
			continue
		}
		score += len(k)
		if containsWord(lowered, k) {
			score += boundaryBonus
		}
	}
	return score
}

// containsWord reports whether kw occurs in text delimited by
// non-word characters (or the string edges) on both sides.
func containsWord(text, kw string) bool {
	for start := 0; ; {
		i := strings.Index(text[start:], kw)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(kw)
		beforeOK := i == 0 || !isWordChar(text[i-1])
		afterOK := end == len(text) || !isWordChar(text[end])
		if beforeOK && afterOK {
			return true
		}
		start = i + 1
	}
}

func isWordChar(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
