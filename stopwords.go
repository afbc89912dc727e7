package opini

import (
	"strings"
	"unicode"

	"github.com/bbalet/stopwords"
)

// isExtraStopword reports whether the bbalet list for the configured
// language drops word. The check is off unless UsingStopwordLanguage was
// given.
func (n *Normalizer) isExtraStopword(word string) bool {
	if n.stopwordLang == "" {
		return false
	}
	return isListedStopword(word, n.stopwordLang)
}

// isListedStopword tests a single word against the bbalet list for langCode.
// The library only exposes a cleaning function, so a word is a stopword when
// cleaning it leaves nothing. Words without letters are never stopwords;
// the cleaner would drop them for being punctuation or digits.
func isListedStopword(word, langCode string) bool {
	if !strings.ContainsFunc(word, unicode.IsLetter) {
		return false
	}
	return strings.TrimSpace(stopwords.CleanString(word, langCode, false)) == ""
}
