package opini

import "strings"

// A Match is a lexicon phrase found in normalized text.
type Match struct {
	Phrase string  `json:"phrase"`
	Weight float64 `json:"weight"`
	Count  int     `json:"count"`
}

// MatchResult holds the phrases consumed from a text and what was left over.
type MatchResult struct {
	Matches  []Match `json:"matches"`
	Residual string  `json:"residual"`
}

// Total returns the number of phrase occurrences consumed.
func (m MatchResult) Total() int {
	total := 0
	for _, match := range m.Matches {
		total += match.Count
	}
	return total
}

// Tokens returns the residual text split into words.
func (m MatchResult) Tokens() []string {
	return strings.Fields(m.Residual)
}

// MatchPhrases consumes lexicon phrases from text, longest first.
// Every whole-word occurrence of a phrase is replaced with a space so that a
// shorter phrase can never re-match part of a longer one. Matches are
// returned in lexicon order.
func MatchPhrases(text string, lex Lexicon) MatchResult {
	residual := lowerText(text)
	var matches []Match

	for _, entry := range lex.entries {
		if !strings.Contains(residual, entry.Phrase) {
			continue
		}
		var n int
		residual, n = replaceBounded(residual, entry.Phrase, " ")
		if n == 0 {
			continue
		}
		matches = append(matches, Match{Phrase: entry.Phrase, Weight: entry.Weight, Count: n})
	}

	return MatchResult{
		Matches:  matches,
		Residual: strings.Join(strings.Fields(residual), " "),
	}
}
