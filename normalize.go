package opini

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

const (
	// maxNormalizePasses bounds the fixed-point loop in Normalize.
	maxNormalizePasses = 16

	// maxRewriteChain is the longest run of rules feeding one another that
	// NewRegistry accepts. Each pass advances a chain by at least one rule,
	// which leaves the remaining passes for stopwords exposing new matches.
	maxRewriteChain = maxNormalizePasses / 2
)

// Normalizer turns raw opinions into the canonical working string that the
// matcher and the backend operate on.
type Normalizer struct {
	reg          *Registry
	stopwordLang string
}

// NormalizerOptFunc configures a Normalizer.
type NormalizerOptFunc func(*Normalizer)

// UsingStopwordLanguage additionally drops words found in the bundled
// stopword list for the given ISO 639-1 code. Empty disables it.
func UsingStopwordLanguage(code string) NormalizerOptFunc {
	return func(n *Normalizer) {
		n.stopwordLang = code
	}
}

// NewNormalizer creates a Normalizer over reg.
func NewNormalizer(reg *Registry, opts ...NormalizerOptFunc) *Normalizer {
	n := &Normalizer{reg: reg}
	for _, applyOpt := range opts {
		applyOpt(n)
	}
	return n
}

// Normalize lowercases text, applies softening then slang corrections, strips
// symbols and drops stopwords. The pass repeats until the output is stable,
// so normalizing twice is a no-op.
func (n *Normalizer) Normalize(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	out := text
	for i := 0; i < maxNormalizePasses; i++ {
		next := n.pass(out)
		if next == out {
			break
		}
		out = next
	}
	return out
}

func (n *Normalizer) pass(text string) string {
	s := lowerText(text)
	s, _ = n.reg.rewrite(s, n.reg.softening)
	s, _ = n.reg.rewrite(s, n.reg.corrections)
	s = stripSymbols(s)

	words := strings.Fields(s)
	kept := words[:0]
	for _, w := range words {
		if n.reg.IsStopword(w) || n.isExtraStopword(w) {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

// lowerText composes text to NFC and lowercases it.
func lowerText(s string) string {
	return cases.Lower(language.Indonesian).String(norm.NFC.String(s))
}

// stripSymbols replaces every rune that is not a letter, digit or space with
// a single space.
func stripSymbols(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, s)
}

// replaceBounded replaces every whole-word occurrence of old in s with repl.
// It returns the new string and the number of replacements.
func replaceBounded(s, old, repl string) (string, int) {
	if old == "" || len(old) > len(s) {
		return s, 0
	}

	var b strings.Builder
	n, last, pos := 0, 0, 0
	for pos < len(s) {
		j := strings.Index(s[pos:], old)
		if j < 0 {
			break
		}
		start := pos + j
		end := start + len(old)
		if !boundedAt(s, start, end) {
			_, size := utf8.DecodeRuneInString(s[start:])
			pos = start + size
			continue
		}
		b.WriteString(s[last:start])
		b.WriteString(repl)
		last, pos = end, end
		n++
	}

	if n == 0 {
		return s, 0
	}
	b.WriteString(s[last:])
	return b.String(), n
}

// boundedAt reports whether s[start:end] is not glued to a word rune on
// either side.
func boundedAt(s string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(s) {
		r, _ := utf8.DecodeRuneInString(s[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
