package opini

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"
)

// ErrInvalidTables is wrapped by every table validation failure.
var ErrInvalidTables = errors.New("opini: invalid tables")

const (
	extendedMin = -4.0
	extendedMax = 4.0
	localMin    = -1.0
	localMax    = 1.0
)

// Tables is the raw, mutable form of the lexicon data. It is also the JSON
// shape of an external lexicon file.
type Tables struct {
	Extended     map[string]float64 `json:"extended,omitempty"`
	Local        map[string]float64 `json:"local,omitempty"`
	Softening    map[string]string  `json:"softening,omitempty"`
	Corrections  map[string]string  `json:"corrections,omitempty"`
	Stopwords    []string           `json:"stopwords,omitempty"`
	Intensifiers []string           `json:"intensifiers,omitempty"`
	Canonical    map[string]string  `json:"canonical,omitempty"`
}

// Merge copies every entry of other over t. Keys from other are lowercased
// and space-collapsed so they override the matching entry in t.
func (t *Tables) Merge(other Tables) {
	t.Extended = mergeWeights(t.Extended, other.Extended)
	t.Local = mergeWeights(t.Local, other.Local)
	t.Softening = mergeRules(t.Softening, other.Softening)
	t.Corrections = mergeRules(t.Corrections, other.Corrections)
	t.Canonical = mergeRules(t.Canonical, other.Canonical)
	t.Stopwords = append(t.Stopwords, other.Stopwords...)
	t.Intensifiers = append(t.Intensifiers, other.Intensifiers...)
}

// LoadTables decodes a JSON lexicon from r and merges it over base.
func LoadTables(r io.Reader, base Tables) (Tables, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var external Tables
	if err := dec.Decode(&external); err != nil {
		return Tables{}, fmt.Errorf("error parsing lexicon JSON: %w", err)
	}

	base.Merge(external)
	return base, nil
}

// LoadTablesFile reads the JSON lexicon at path and merges it over base.
func LoadTablesFile(path string, base Tables) (Tables, error) {
	f, err := os.Open(path)
	if err != nil {
		return Tables{}, fmt.Errorf("error reading lexicon file: %w", err)
	}
	defer f.Close()

	return LoadTables(f, base)
}

// LexiconEntry is a phrase of one or more words and its weight.
type LexiconEntry struct {
	Phrase string
	Weight float64
}

// Words returns the number of words in the phrase.
func (e LexiconEntry) Words() int {
	return strings.Count(e.Phrase, " ") + 1
}

// Lexicon is an immutable phrase table kept in matching order: most words
// first, then longest phrase, then alphabetical.
type Lexicon struct {
	entries  []LexiconEntry
	weights  map[string]float64
	maxWords int
}

func newLexicon(name string, src map[string]float64, lo, hi float64) (Lexicon, error) {
	lex := Lexicon{
		entries: make([]LexiconEntry, 0, len(src)),
		weights: make(map[string]float64, len(src)),
	}

	for raw, weight := range src {
		phrase := canonicalPhrase(raw)
		if phrase == "" {
			return Lexicon{}, fmt.Errorf("%w: %s lexicon has an empty phrase", ErrInvalidTables, name)
		}
		if stripSymbols(phrase) != phrase {
			return Lexicon{}, fmt.Errorf("%w: %s lexicon phrase %q contains symbols Normalize removes",
				ErrInvalidTables, name, phrase)
		}
		if math.IsNaN(weight) || math.IsInf(weight, 0) || weight < lo || weight > hi {
			return Lexicon{}, fmt.Errorf("%w: %s lexicon weight %v for %q outside [%v, %v]",
				ErrInvalidTables, name, weight, phrase, lo, hi)
		}
		if _, dup := lex.weights[phrase]; dup {
			return Lexicon{}, fmt.Errorf("%w: %s lexicon lists %q more than once", ErrInvalidTables, name, phrase)
		}
		lex.weights[phrase] = weight
		lex.entries = append(lex.entries, LexiconEntry{Phrase: phrase, Weight: weight})
	}

	sort.Slice(lex.entries, func(i, j int) bool {
		return phraseBefore(lex.entries[i].Phrase, lex.entries[j].Phrase)
	})
	if len(lex.entries) > 0 {
		lex.maxWords = lex.entries[0].Words()
	}

	return lex, nil
}

// Weight returns the weight of phrase and whether it is present.
func (l Lexicon) Weight(phrase string) (float64, bool) {
	w, ok := l.weights[phrase]
	return w, ok
}

// Entries returns a copy of the entries in matching order.
func (l Lexicon) Entries() []LexiconEntry {
	return append([]LexiconEntry(nil), l.entries...)
}

// Len returns the number of phrases.
func (l Lexicon) Len() int {
	return len(l.entries)
}

// MaxWords returns the word count of the longest phrase.
func (l Lexicon) MaxWords() int {
	return l.maxWords
}

// CorrectionRule rewrites Pattern to Replacement on word boundaries. A rule
// whose replacement equals its pattern only flags the phrase.
type CorrectionRule struct {
	Pattern     string
	Replacement string
}

// FlagOnly reports whether the rule leaves text unchanged.
func (r CorrectionRule) FlagOnly() bool {
	return r.Pattern == r.Replacement
}

// Registry holds the frozen tables shared by every component. It is safe for
// concurrent use once built.
type Registry struct {
	extended     Lexicon
	local        Lexicon
	softening    []CorrectionRule
	corrections  []CorrectionRule
	stopwords    map[string]struct{}
	intensifiers map[string]struct{}
	canonical    map[string]string
}

// NewRegistry validates t and freezes it. Any malformed table is an error
// wrapping ErrInvalidTables.
func NewRegistry(t Tables) (*Registry, error) {
	extended, err := newLexicon("extended", t.Extended, extendedMin, extendedMax)
	if err != nil {
		return nil, err
	}
	local, err := newLexicon("local", t.Local, localMin, localMax)
	if err != nil {
		return nil, err
	}

	softening, err := newRules("softening", t.Softening)
	if err != nil {
		return nil, err
	}
	corrections, err := newRules("correction", t.Corrections)
	if err != nil {
		return nil, err
	}
	if err := checkRewriteCycles(append(append([]CorrectionRule(nil), softening...), corrections...)); err != nil {
		return nil, err
	}

	stopwords, err := newWordSet("stopword", t.Stopwords)
	if err != nil {
		return nil, err
	}
	intensifiers, err := newWordSet("intensifier", t.Intensifiers)
	if err != nil {
		return nil, err
	}
	if err := checkNoStopwords("extended", extended, stopwords); err != nil {
		return nil, err
	}
	if err := checkNoStopwords("local", local, stopwords); err != nil {
		return nil, err
	}

	canonical := make(map[string]string, len(t.Canonical))
	for word, ref := range t.Canonical {
		w, r := canonicalPhrase(word), canonicalPhrase(ref)
		if w == "" || r == "" || strings.Contains(w, " ") {
			return nil, fmt.Errorf("%w: canonical mapping %q -> %q", ErrInvalidTables, word, ref)
		}
		canonical[w] = r
	}

	return &Registry{
		extended:     extended,
		local:        local,
		softening:    softening,
		corrections:  corrections,
		stopwords:    stopwords,
		intensifiers: intensifiers,
		canonical:    canonical,
	}, nil
}

// MustRegistry is like NewRegistry but panics on invalid tables.
func MustRegistry(t Tables) *Registry {
	reg, err := NewRegistry(t)
	if err != nil {
		panic(err)
	}
	return reg
}

// DefaultRegistry builds a registry from DefaultTables.
func DefaultRegistry() *Registry {
	return MustRegistry(DefaultTables())
}

// Extended returns the wide-range lexicon used by the valence backend.
func (r *Registry) Extended() Lexicon { return r.extended }

// Local returns the normalized dictionary used for the positivity ratio.
func (r *Registry) Local() Lexicon { return r.local }

// Softening returns the softening rules in application order.
func (r *Registry) Softening() []CorrectionRule {
	return append([]CorrectionRule(nil), r.softening...)
}

// Corrections returns the word/slang rules in application order.
func (r *Registry) Corrections() []CorrectionRule {
	return append([]CorrectionRule(nil), r.corrections...)
}

// IsStopword reports whether word is dropped during normalization.
func (r *Registry) IsStopword(word string) bool {
	_, ok := r.stopwords[word]
	return ok
}

// IsIntensifier reports whether word always counts as positive.
func (r *Registry) IsIntensifier(word string) bool {
	_, ok := r.intensifiers[word]
	return ok
}

// Intensifiers returns the intensifier words sorted alphabetically.
func (r *Registry) Intensifiers() []string {
	return sortedWords(r.intensifiers)
}

// Canonical maps word to its reference term, falling back to word itself.
func (r *Registry) Canonical(word string) string {
	if ref, ok := r.canonical[word]; ok {
		return ref
	}
	return word
}

// rewrite applies rules in order and reports how many substitutions fired.
func (r *Registry) rewrite(text string, rules []CorrectionRule) (string, int) {
	fired := 0
	for _, rule := range rules {
		var n int
		text, n = replaceBounded(text, rule.Pattern, rule.Replacement)
		fired += n
	}
	return text, fired
}

func newRules(tier string, src map[string]string) ([]CorrectionRule, error) {
	rules := make([]CorrectionRule, 0, len(src))
	seen := make(map[string]struct{}, len(src))

	for pattern, replacement := range src {
		p, r := canonicalPhrase(pattern), canonicalPhrase(replacement)
		if p == "" {
			return nil, fmt.Errorf("%w: %s rule with empty pattern", ErrInvalidTables, tier)
		}
		if _, dup := seen[p]; dup {
			return nil, fmt.Errorf("%w: %s rule %q listed more than once", ErrInvalidTables, tier, p)
		}
		seen[p] = struct{}{}
		rules = append(rules, CorrectionRule{Pattern: p, Replacement: r})
	}

	sort.Slice(rules, func(i, j int) bool {
		return phraseBefore(rules[i].Pattern, rules[j].Pattern)
	})
	return rules, nil
}

// checkRewriteCycles rejects rule sets whose replacements can feed each other
// forever, or through a chain longer than maxRewriteChain. An edge a->b
// exists when a's replacement contains b's pattern.
func checkRewriteCycles(rules []CorrectionRule) error {
	const (
		unvisited = iota
		visiting
		done
	)

	edges := make([][]int, len(rules))
	for i, a := range rules {
		for j, b := range rules {
			if i == j && a.FlagOnly() {
				continue
			}
			if _, n := replaceBounded(a.Replacement, b.Pattern, b.Replacement); n > 0 {
				edges[i] = append(edges[i], j)
			}
		}
	}

	state := make([]int, len(rules))
	depth := make([]int, len(rules)) // rules in the longest chain starting at i
	var visit func(i int) error
	visit = func(i int) error {
		state[i] = visiting
		depth[i] = 1
		for _, j := range edges[i] {
			switch state[j] {
			case visiting:
				return fmt.Errorf("%w: correction %q -> %q can rewrite itself through %q",
					ErrInvalidTables, rules[i].Pattern, rules[i].Replacement, rules[j].Pattern)
			case unvisited:
				if err := visit(j); err != nil {
					return err
				}
			}
			if d := depth[j] + 1; d > depth[i] {
				depth[i] = d
			}
		}
		state[i] = done
		if depth[i] > maxRewriteChain {
			return fmt.Errorf("%w: correction %q starts a chain of %d rewrites, at most %d allowed",
				ErrInvalidTables, rules[i].Pattern, depth[i], maxRewriteChain)
		}
		return nil
	}

	for i := range rules {
		if state[i] == unvisited {
			if err := visit(i); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkNoStopwords rejects phrases that can never match because Normalize
// drops one of their words.
func checkNoStopwords(name string, lex Lexicon, stopwords map[string]struct{}) error {
	for _, entry := range lex.entries {
		for _, w := range strings.Fields(entry.Phrase) {
			if _, ok := stopwords[w]; ok {
				return fmt.Errorf("%w: %s lexicon phrase %q contains stopword %q",
					ErrInvalidTables, name, entry.Phrase, w)
			}
		}
	}
	return nil
}

func newWordSet(kind string, words []string) (map[string]struct{}, error) {
	set := make(map[string]struct{}, len(words))
	for _, raw := range words {
		w := canonicalPhrase(raw)
		if w == "" || strings.Contains(w, " ") {
			return nil, fmt.Errorf("%w: %s %q must be a single word", ErrInvalidTables, kind, raw)
		}
		set[w] = struct{}{}
	}
	return set, nil
}

// canonicalPhrase lowercases and collapses internal whitespace.
func canonicalPhrase(s string) string {
	return strings.Join(strings.Fields(lowerText(s)), " ")
}

// phraseBefore orders phrases for longest-match-first processing.
func phraseBefore(a, b string) bool {
	wa, wb := strings.Count(a, " "), strings.Count(b, " ")
	if wa != wb {
		return wa > wb
	}
	if len(a) != len(b) {
		return len(a) > len(b)
	}
	return a < b
}

func sortedWords(set map[string]struct{}) []string {
	words := make([]string, 0, len(set))
	for w := range set {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

func mergeWeights(dst, src map[string]float64) map[string]float64 {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]float64, len(src))
	}
	for k, v := range src {
		dst[canonicalPhrase(k)] = v
	}
	return dst
}

func mergeRules(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for k, v := range src {
		dst[canonicalPhrase(k)] = v
	}
	return dst
}
