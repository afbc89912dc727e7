package opini

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchPhrases(t *testing.T) {
	local := DefaultRegistry().Local()

	tests := []struct {
		name     string
		text     string
		matches  []Match
		residual string
	}{
		{
			name:     "multi-word phrase counted once",
			text:     "sangat bagus",
			matches:  []Match{{Phrase: "sangat bagus", Weight: 1, Count: 1}},
			residual: "",
		},
		{
			name:     "longer phrase wins over its last word",
			text:     "tidak bagus",
			matches:  []Match{{Phrase: "tidak bagus", Weight: -1, Count: 1}},
			residual: "",
		},
		{
			name: "repeated phrases counted",
			text: "bagus bagus jelek",
			matches: []Match{
				{Phrase: "bagus", Weight: 1, Count: 2},
				{Phrase: "jelek", Weight: -1, Count: 1},
			},
			residual: "",
		},
		{
			name:     "word used by one phrase only",
			text:     "sangat bagus sekali",
			matches:  []Match{{Phrase: "bagus sekali", Weight: 1, Count: 1}},
			residual: "sangat",
		},
		{
			name:     "no match inside a longer word",
			text:     "bagusnya gurunya",
			matches:  nil,
			residual: "bagusnya gurunya",
		},
		{
			name:     "case-insensitive",
			text:     "Guru BAGUS",
			matches:  []Match{{Phrase: "bagus", Weight: 1, Count: 1}},
			residual: "guru",
		},
		{
			name:     "residual keeps unmatched words in order",
			text:     "kantin kotor tapi guru ramah",
			matches:  []Match{{Phrase: "ramah", Weight: 1, Count: 1}, {Phrase: "kotor", Weight: -1, Count: 1}},
			residual: "kantin tapi guru",
		},
		{
			name:     "empty text",
			text:     "",
			matches:  nil,
			residual: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchPhrases(tt.text, local)
			assert.ElementsMatch(t, tt.matches, got.Matches)
			assert.Equal(t, tt.residual, got.Residual)
		})
	}
}

func TestMatchResultTotalAndTokens(t *testing.T) {
	got := MatchPhrases("bagus bagus sangat bagus guru", DefaultRegistry().Local())

	assert.Equal(t, 3, got.Total())
	assert.Equal(t, []string{"guru"}, got.Tokens())
}

func TestMatchPhrasesEmptyLexicon(t *testing.T) {
	reg := MustRegistry(Tables{})
	got := MatchPhrases("bagus sekali", reg.Local())

	assert.Empty(t, got.Matches)
	assert.Equal(t, "bagus sekali", got.Residual)
	assert.Equal(t, 0, got.Total())
}
