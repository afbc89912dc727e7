package opini

import (
	"context"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Suggest offers a softer rewrite of text. It reports found when a softening
// or slang rule fired, or when the text reads as negative overall; the
// suggestion is then the lowercased, rewritten text with its first letter
// capitalized. Otherwise text is returned unchanged.
func (a *Analyzer) Suggest(text string) (found bool, suggestion string) {
	return a.SuggestContext(context.Background(), text)
}

// SuggestContext is like Suggest but passes ctx to the backend.
func (a *Analyzer) SuggestContext(ctx context.Context, text string) (found bool, suggestion string) {
	if strings.TrimSpace(text) == "" {
		return false, text
	}

	working := lowerText(text)
	working, softened := a.reg.rewrite(working, a.reg.softening)
	working, corrected := a.reg.rewrite(working, a.reg.corrections)
	found = softened+corrected > 0

	compound, _ := a.compound(ctx, a.normalizer.Normalize(text))

	if found || compound < 0 {
		a.metrics.observeSuggestion(true)
		return true, capitalize(working)
	}
	a.metrics.observeSuggestion(false)
	return false, text
}

// capitalize upper-cases the first rune of s.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return cases.Upper(language.Indonesian).String(string(r)) + s[size:]
}
