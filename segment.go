package opini

import (
	"context"
	"strings"

	"gopkg.in/neurosnap/sentences.v1"
)

// indonesianAbbreviations are abbreviations common in school reviews that
// must not end a sentence ("Jl. Merdeka", "dll.").
var indonesianAbbreviations = []string{
	"jl", "jln", "kec", "kel", "kab", "no", "dr", "drs", "ir", "hj",
	"st", "dll", "dsb", "dst", "tsb", "bpk",
}

// punktStorage is read-only after init.
var punktStorage = newPunktStorage()

func newPunktStorage() *sentences.Storage {
	storage := sentences.NewStorage()
	for _, abbr := range indonesianAbbreviations {
		storage.AbbrevTypes.Add(abbr)
	}
	return storage
}

// segmentSentences splits text into sentences with the Punkt tokenizer.
// Empty sentences are dropped.
func segmentSentences(text string) []string {
	tokenizer := sentences.NewSentenceTokenizer(punktStorage)

	var out []string
	for _, s := range tokenizer.Tokenize(text) {
		if t := strings.TrimSpace(s.Text); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// SuggestText runs Suggest on every sentence of a multi-sentence review and
// joins the results with a single space. Sentences without a suggestion keep
// their original text. When no sentence needs a change, text is returned as
// is.
func (a *Analyzer) SuggestText(text string) (found bool, suggestion string) {
	return a.SuggestTextContext(context.Background(), text)
}

// SuggestTextContext is like SuggestText but passes ctx to the backend.
func (a *Analyzer) SuggestTextContext(ctx context.Context, text string) (found bool, suggestion string) {
	if strings.TrimSpace(text) == "" {
		return false, text
	}

	sents := segmentSentences(text)
	parts := make([]string, 0, len(sents))
	for _, sent := range sents {
		ok, s := a.SuggestContext(ctx, sent)
		found = found || ok
		parts = append(parts, s)
	}

	if !found {
		return false, text
	}
	return true, strings.Join(parts, " ")
}
