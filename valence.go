package opini

import (
	"context"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

const (
	// Empirically derived mean intensity change for booster and dampener words.
	boosterIncr = 0.293
	boosterDecr = -0.293

	negationScalar = -0.74
	hedgeScalar    = -0.5 // "kurang": weaker than a full negation

	// alpha approximates the largest expected raw sum.
	alpha = 15

	modifierWindow = 3
)

var defaultNegators = map[string]float64{
	"tidak": negationScalar, "bukan": negationScalar, "nggak": negationScalar,
	"gak": negationScalar, "ga": negationScalar, "enggak": negationScalar,
	"not": negationScalar, "kurang": hedgeScalar,
}

var defaultDampeners = []string{"agak", "sedikit"}

var defaultContrastWords = []string{"tapi", "tetapi", "namun", "but"}

// ValenceBackend is the built-in PolarityBackend. It scores text the VADER
// way over a reference table with the registry's extended lexicon merged in.
// It is immutable and safe for concurrent use.
type ValenceBackend struct {
	lexicon  map[string]float64
	maxWords int
	boosters map[string]float64
	negators map[string]float64
	contrast map[string]struct{}
}

// ValenceOptFunc configures a ValenceBackend.
type ValenceOptFunc func(*ValenceBackend)

// UsingBooster registers word as a booster (scalar > 0) or dampener
// (scalar < 0).
func UsingBooster(word string, scalar float64) ValenceOptFunc {
	return func(vb *ValenceBackend) {
		vb.boosters[canonicalPhrase(word)] = scalar
	}
}

// UsingNegator registers word as a negator that multiplies the valence of
// the following sentiment words by scalar.
func UsingNegator(word string, scalar float64) ValenceOptFunc {
	return func(vb *ValenceBackend) {
		vb.negators[canonicalPhrase(word)] = scalar
	}
}

// UsingContrastWord registers a contrastive conjunction such as "tapi".
func UsingContrastWord(word string) ValenceOptFunc {
	return func(vb *ValenceBackend) {
		vb.contrast[canonicalPhrase(word)] = struct{}{}
	}
}

// NewValenceBackend builds the backend table. The extended lexicon of reg is
// merged over the reference lexicon here, once; the table is frozen after.
func NewValenceBackend(reg *Registry, opts ...ValenceOptFunc) *ValenceBackend {
	vb := &ValenceBackend{
		lexicon:  copyWeights(referenceLexicon),
		boosters: make(map[string]float64),
		negators: make(map[string]float64, len(defaultNegators)),
		contrast: make(map[string]struct{}, len(defaultContrastWords)),
	}

	for _, entry := range reg.Extended().entries {
		vb.lexicon[entry.Phrase] = entry.Weight
	}
	for _, word := range reg.Intensifiers() {
		vb.boosters[word] = boosterIncr
	}
	for _, word := range defaultDampeners {
		vb.boosters[word] = boosterDecr
	}
	for word, s := range defaultNegators {
		vb.negators[word] = s
	}
	for _, word := range defaultContrastWords {
		vb.contrast[word] = struct{}{}
	}

	for _, applyOpt := range opts {
		applyOpt(vb)
	}

	for phrase := range vb.lexicon {
		if n := strings.Count(phrase, " ") + 1; n > vb.maxWords {
			vb.maxWords = n
		}
	}

	return vb
}

// Polarity returns the normalized weight of term, or 0 when the table does
// not know it.
func (vb *ValenceBackend) Polarity(ctx context.Context, term string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	w, ok := vb.lexicon[canonicalPhrase(term)]
	if !ok {
		return 0, nil
	}
	return normalizeValence(w), nil
}

// Compound returns the aggregate polarity of text in [-1, 1], rounded to
// four decimal places.
func (vb *ValenceBackend) Compound(ctx context.Context, text string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	units := vb.units(valenceTokens(text))
	if len(units) == 0 {
		return 0, nil
	}

	sentiments := make([]float64, len(units))
	for i := range units {
		sentiments[i] = vb.valence(units, i)
	}
	contrastCheck(units, sentiments)

	sum := floats.Sum(sentiments)
	emphasis := punctuationEmphasis(text)
	if sum > 0 {
		sum += emphasis
	} else if sum < 0 {
		sum -= emphasis
	}

	return scalar.Round(normalizeValence(sum), 4), nil
}

type unitKind int

const (
	plainUnit unitKind = iota
	sentimentUnit
	boosterUnit
	negatorUnit
	contrastUnit
)

// A valenceUnit is one scoring position: a lexicon phrase or a single token.
type valenceUnit struct {
	text   string
	kind   unitKind
	weight float64 // Lexicon weight, 0 when unknown
	scalar float64 // Booster or negation scalar
}

// units groups tokens greedily into the longest lexicon phrase starting at
// each position.
func (vb *ValenceBackend) units(tokens []string) []valenceUnit {
	units := make([]valenceUnit, 0, len(tokens))

	for i := 0; i < len(tokens); {
		n := vb.maxWords
		if rest := len(tokens) - i; n > rest {
			n = rest
		}
		for ; n > 1; n-- {
			if _, ok := vb.lexicon[strings.Join(tokens[i:i+n], " ")]; ok {
				break
			}
		}

		phrase := strings.Join(tokens[i:i+n], " ")
		units = append(units, vb.classify(phrase, n))
		i += n
	}

	return units
}

func (vb *ValenceBackend) classify(phrase string, words int) valenceUnit {
	u := valenceUnit{text: phrase}
	u.weight = vb.lexicon[phrase]

	if words == 1 {
		if s, ok := vb.boosters[phrase]; ok {
			u.kind, u.scalar = boosterUnit, s
			return u
		}
		if s, ok := vb.negators[phrase]; ok {
			u.kind, u.scalar = negatorUnit, s
			return u
		}
		if _, ok := vb.contrast[phrase]; ok {
			u.kind = contrastUnit
			return u
		}
	}

	if u.weight != 0 {
		u.kind = sentimentUnit
	}
	return u
}

// valence scores units[i] in context.
func (vb *ValenceBackend) valence(units []valenceUnit, i int) float64 {
	u := units[i]

	switch u.kind {
	case sentimentUnit:
	case negatorUnit:
		// A negator with nothing to negate keeps its own weight.
		for j := i + 1; j < len(units) && j <= i+modifierWindow; j++ {
			if units[j].kind == sentimentUnit {
				return 0
			}
		}
		return u.weight
	default:
		return 0
	}

	v := u.weight
	for dist := 1; dist <= modifierWindow && i-dist >= 0; dist++ {
		prev := units[i-dist]
		switch prev.kind {
		case boosterUnit:
			v += scaledBoost(prev.scalar, v, dist)
		case negatorUnit:
			v *= prev.scalar
		}
	}

	// A trailing booster ("bagus banget") modifies the word before it unless
	// it already leads into another sentiment word.
	if next := i + 1; next < len(units) && units[next].kind == boosterUnit {
		if after := next + 1; after >= len(units) || units[after].kind != sentimentUnit {
			v += scaledBoost(units[next].scalar, v, 1)
		}
	}

	return v
}

// scaledBoost dampens a booster by its distance from the word it modifies
// and flips it to follow the sign of valence.
func scaledBoost(s, valence float64, dist int) float64 {
	if valence < 0 {
		s = -s
	}
	switch dist {
	case 2:
		s *= 0.95
	case 3:
		s *= 0.9
	}
	return s
}

// contrastCheck halves everything before a contrastive conjunction and
// strengthens everything after it.
func contrastCheck(units []valenceUnit, sentiments []float64) {
	for ci, u := range units {
		if u.kind != contrastUnit {
			continue
		}
		for si := range sentiments {
			if si < ci {
				sentiments[si] *= 0.5
			} else if si > ci {
				sentiments[si] *= 1.5
			}
		}
	}
}

// punctuationEmphasis adds weight for up to four exclamation marks and for
// repeated question marks.
func punctuationEmphasis(text string) float64 {
	ep := strings.Count(text, "!")
	if ep > 4 {
		ep = 4
	}
	emphasis := float64(ep) * 0.292

	switch qm := strings.Count(text, "?"); {
	case qm > 3:
		emphasis += 0.96
	case qm > 1:
		emphasis += float64(qm) * 0.18
	}
	return emphasis
}

// normalizeValence maps a raw score into [-1, 1].
func normalizeValence(score float64) float64 {
	n := score / math.Sqrt(score*score+alpha)
	return math.Max(-1, math.Min(1, n))
}

// valenceTokens lowercases text and splits it into words with leading and
// trailing punctuation removed.
func valenceTokens(text string) []string {
	fields := strings.Fields(lowerText(text))
	tokens := fields[:0]
	for _, f := range fields {
		f = strings.TrimFunc(f, func(r rune) bool { return !isWordRune(r) })
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
