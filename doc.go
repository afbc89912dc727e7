/*
Package opini scores free-text opinions about schools, written in everyday
Indonesian with English and slang mixed in.

An Analyzer turns an opinion into two numbers: a positivity percentage in
[0, 100] and a compound polarity score in [-1, 1]. It can also suggest a
softer rewrite of harsh phrasing:

	a, err := opini.NewDefaultAnalyzer()
	if err != nil {
		// handle error
	}
	positivity, compound := a.Score("Gurunya ramah, sekolahnya bersih banget!")
	found, suggestion := a.Suggest("Gurunya tidak ramah")
	// found == true, suggestion == "Gurunya kurang ramah"

Scoring is rule based. The text is normalized (lowercased, softened, slang
corrected, stripped of symbols and stopwords), lexicon phrases are matched
longest first, and every remaining token is asked of a PolarityBackend. The
built-in ValenceBackend computes the compound score in the VADER style.

All tables live in a Registry that is validated once and frozen. Every
exported operation on Analyzer is safe for concurrent use.
*/
package opini
