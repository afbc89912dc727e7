package opini

// DefaultTables returns the built-in tables for Indonesian school reviews.
// Every call returns fresh maps and slices, so callers may extend the result
// before handing it to NewRegistry.
func DefaultTables() Tables {
	return Tables{
		Extended:     copyWeights(extendedLexicon),
		Local:        copyWeights(localDictionary),
		Softening:    copyRules(softeningRules),
		Corrections:  copyRules(slangCorrections),
		Stopwords:    append([]string(nil), indonesianStopwords...),
		Intensifiers: append([]string(nil), indonesianIntensifiers...),
		Canonical:    copyRules(canonicalTerms),
	}
}

// extendedLexicon holds wide-range weights (-4..4) merged into the valence backend.
var extendedLexicon = map[string]float64{
	// Strong positive
	"bagus": 2.5, "sangat bagus": 3.5, "baik": 2.2, "sangat baik": 3.3,
	"luar biasa": 4.0, "hebat": 3.0, "keren": 2.8, "mantap": 3.0,
	"ramah": 2.6, "profesional": 2.4, "cepat": 2.2, "tepat": 2.0,
	"bersih": 2.1, "nyaman": 2.4, "menyenangkan": 2.6, "memuaskan": 3.0,
	"puas": 2.8, "terbaik": 3.5, "rekomendasi": 3.2, "recommended": 3.2,
	"favorit": 2.5, "bagus sekali": 3.6, "sempurna": 3.8, "ramah sekali": 3.2,
	"mantul": 3.0, "mantep": 3.0, "jos": 2.5,

	// Mild positive
	"lumayan": 1.2, "cukup baik": 1.5, "oke": 1.4, "ok": 1.3,

	// Negative
	"buruk": -2.8, "sangat buruk": -3.5, "jelek": -2.5, "jelek banget": -3.4,
	"payah": -2.4, "parah": -2.8, "menyedihkan": -3.2, "kecewa": -2.6,
	"mengecewakan": -2.9, "kotor": -2.7, "berantakan": -2.4,
	"lambat": -2.0, "tidak ramah": -2.8, "kasar": -2.6, "tidak profesional": -2.8,
	"tidak nyaman": -2.4, "pelayanan buruk": -3.0, "tidak jelas": -2.0,

	// Negators and hedges
	"tidak": -0.75, "bukan": -0.75, "kurang": -0.6, "nggak": -0.75,
	"gak": -0.75, "ga": -0.75,

	// Degree words
	"sangat": 0.8, "banget": 0.9, "sekali": 0.7, "terlalu": 0.6, "super": 1.0,
	"agak": -0.3, "sedikit": -0.3,
}

// localDictionary holds normalized weights (-1..1) for the positivity ratio.
var localDictionary = map[string]float64{
	"bagus": 1.0, "sangat bagus": 1.0, "baik": 1.0, "sangat baik": 1.0,
	"luar biasa": 1.0, "hebat": 1.0, "mantap": 1.0, "keren": 1.0,
	"ramah": 1.0, "bersih": 1.0, "nyaman": 1.0, "rapi": 1.0,
	"cepat": 1.0, "tepat": 1.0, "membantu": 1.0, "profesional": 1.0,
	"menyenangkan": 1.0, "puas": 1.0, "memuaskan": 1.0,
	"bagus sekali": 1.0, "terbaik": 1.0, "recommended": 1.0,
	"favorit": 1.0, "menarik": 1.0, "ramah sekali": 1.0,

	"lumayan": 0.4, "cukup baik": 0.4, "oke": 0.4, "ok": 0.4,

	"biasa": 0.0, "standar": 0.0, "normal": 0.0,

	"buruk": -1.0, "jelek": -1.0, "tidak baik": -1.0,
	"tidak bagus": -1.0, "menyedihkan": -1.0, "parah": -1.0,
	"payah": -1.0, "kasar": -1.0, "tidak sopan": -1.0,
	"kotor": -1.0, "berantakan": -1.0, "lambat": -1.0,
	"mengecewakan": -1.0, "kecewa": -1.0,
	"tidak nyaman": -1.0, "tidak ramah": -1.0, "pelayanan buruk": -1.0,
	"jelek banget": -1.0, "sangat buruk": -1.0,
}

// slangCorrections fixes typos and informal spellings.
var slangCorrections = map[string]string{
	"banguus": "bagus", "baikk": "baik", "jelekx": "jelek",
	"parrah": "parah", "rammah": "ramah", "mantap jiwa": "mantap",
	"the best": "terbaik", "rekomen": "recommended",
	"nggak bagus": "tidak bagus", "ga bagus": "tidak bagus",
	"gak bagus": "tidak bagus", "nggak baik": "tidak baik", "ga baik": "tidak baik",
}

// softeningRules map harsh negative phrasing to a milder equivalent.
// "tidak membantu" is flag-only: it is reported but left as written.
var softeningRules = map[string]string{
	"tidak terlalu bagus": "kurang bagus",
	"tidak terlalu baik":  "kurang baik",
	"tidak begitu baik":   "kurang baik",
	"tidak begitu bagus":  "kurang bagus",
	"tidak memuaskan":     "kurang memuaskan",
	"tidak cepat":         "lambat",
	"tidak ramah":         "kurang ramah",
	"tidak nyaman":        "kurang nyaman",
	"tidak bersih":        "kotor",
	"tidak enak dilihat":  "jelek",
	"tidak profesional":   "kurang profesional",
	"tidak membantu":      "tidak membantu",
}

var indonesianStopwords = []string{
	"yang", "dan", "atau", "di", "ke", "dari", "itu", "ini", "saya", "kami", "kita",
	"dia", "mereka", "ada", "adalah", "untuk", "dengan", "sebagai", "jadi",
	"karena", "bahwa", "agar",
}

var indonesianIntensifiers = []string{"banget", "sekali", "sangat", "super", "terlalu"}

// canonicalTerms maps local words onto the English reference terms the
// backend knows best.
var canonicalTerms = map[string]string{
	"bagus": "good", "baik": "good", "mantap": "great", "puas": "satisfied",
	"ramah": "friendly", "cepat": "fast", "bersih": "clean", "buruk": "bad",
	"jelek": "bad", "lambat": "slow", "kotor": "dirty", "kecewa": "disappointed",
	"mengecewakan": "disappointing",
}

// referenceLexicon is the English base table of the valence backend. The
// extended lexicon is merged over it.
var referenceLexicon = map[string]float64{
	"good": 1.9, "great": 3.1, "satisfied": 1.8, "friendly": 2.2,
	"fast": 1.0, "clean": 1.7, "nice": 1.8, "excellent": 2.7,
	"best": 3.2, "love": 3.2, "helpful": 1.9,
	"bad": -2.5, "slow": -1.0, "dirty": -1.9, "disappointed": -1.9,
	"disappointing": -2.2, "poor": -2.1, "worst": -3.1, "hate": -2.7,
	"rude": -2.0,
}

func copyWeights(src map[string]float64) map[string]float64 {
	dst := make(map[string]float64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func copyRules(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
