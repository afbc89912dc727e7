package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radarzonasi/opini"
	"github.com/radarzonasi/opini/internal/config"
)

func newTestAnalyzer(t *testing.T) *opini.Analyzer {
	t.Helper()
	a, err := opini.NewDefaultAnalyzer()
	require.NoError(t, err)
	return a
}

// decodeLines reads every JSON object written to buf.
func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	dec := json.NewDecoder(buf)
	for {
		var obj map[string]any
		err := dec.Decode(&obj)
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		out = append(out, obj)
	}
}

func TestRunScore(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		stdin     string
		wantTexts []string
		wantPos   []float64
	}{
		{
			name:      "arguments win over stdin",
			args:      []string{"bagus", "jelek"},
			stdin:     "ramah\n",
			wantTexts: []string{"bagus", "jelek"},
			wantPos:   []float64{100, 0},
		},
		{
			name:      "stdin lines without arguments",
			stdin:     "bagus\n\n   \njelek\n",
			wantTexts: []string{"bagus", "jelek"},
			wantPos:   []float64{100, 0},
		},
		{
			name:  "empty stdin prints nothing",
			stdin: "",
		},
	}

	a := newTestAnalyzer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := runScore(context.Background(), a, json.NewEncoder(&buf), strings.NewReader(tt.stdin), tt.args)
			require.NoError(t, err)

			lines := decodeLines(t, &buf)
			require.Len(t, lines, len(tt.wantTexts))
			for i, line := range lines {
				assert.Equal(t, tt.wantTexts[i], line["text"])
				assert.Equal(t, tt.wantPos[i], line["positivity"])
				assert.Contains(t, line, "compound")
				assert.NotContains(t, line, "cleaned")
			}
		})
	}
}

func TestRunScoreDetail(t *testing.T) {
	var buf bytes.Buffer
	err := runScore(context.Background(), newTestAnalyzer(t), json.NewEncoder(&buf),
		strings.NewReader(""), []string{"-detail", "Sekolahnya bagus"})
	require.NoError(t, err)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	line := lines[0]

	assert.Equal(t, "Sekolahnya bagus", line["text"])
	assert.Equal(t, "sekolahnya bagus", line["cleaned"])
	assert.Equal(t, []any{"sekolahnya"}, line["residual"])
	assert.Equal(t, 1.0, line["positive_count"])
	assert.Equal(t, 2.0, line["total_detected"])
	assert.Equal(t, 50.0, line["positivity"])

	matches, ok := line["matches"].([]any)
	require.True(t, ok)
	require.Len(t, matches, 1)
	assert.Equal(t, "bagus", matches[0].(map[string]any)["phrase"])
}

func TestRunSuggest(t *testing.T) {
	var buf bytes.Buffer
	err := runSuggest(context.Background(), newTestAnalyzer(t), json.NewEncoder(&buf),
		strings.NewReader("Gurunya tidak ramah\nSekolahnya bagus\n"), nil)
	require.NoError(t, err)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)

	assert.Equal(t, true, lines[0]["found"])
	assert.Equal(t, "Gurunya kurang ramah", lines[0]["suggestion"])

	assert.Equal(t, false, lines[1]["found"])
	assert.Equal(t, "Sekolahnya bagus", lines[1]["suggestion"])
}

func TestRunSummary(t *testing.T) {
	var buf bytes.Buffer
	err := runSummary(context.Background(), newTestAnalyzer(t), json.NewEncoder(&buf),
		strings.NewReader(""), []string{"bagus", "jelek"})
	require.NoError(t, err)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1, "summary prints a single object")
	assert.Equal(t, 2.0, lines[0]["count"])
	assert.Equal(t, 50.0, lines[0]["mean_positivity"])
	assert.Equal(t, string(opini.BandMixed), lines[0]["band"])
}

func TestRunSubmit(t *testing.T) {
	tests := []struct {
		name         string
		stdin        string
		wantOpinions []string
		wantRejected bool
	}{
		{
			name:         "cooldown per submitter",
			stdin:        "ani\tGurunya tidak ramah\nani\tSekolahnya bagus\nbudi\tSekolahnya bagus\n",
			wantOpinions: []string{"Gurunya tidak ramah", "Sekolahnya bagus"},
			wantRejected: true,
		},
		{
			name:         "lines without a tab share one submitter",
			stdin:        "Gurunya tidak ramah\nSekolahnya bagus\n",
			wantOpinions: []string{"Gurunya tidak ramah"},
			wantRejected: true,
		},
		{
			name:         "blank opinion is logged and skipped",
			stdin:        "ani\t   \nani\tbagus\n",
			wantOpinions: []string{"bagus"},
			wantRejected: true,
		},
		{
			name:         "distinct submitters",
			stdin:        "ani\tbagus\nbudi\tjelek\n",
			wantOpinions: []string{"bagus", "jelek"},
		},
	}

	a := newTestAnalyzer(t)
	cfg := &config.Config{Cooldown: time.Minute}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, logs bytes.Buffer
			err := runSubmit(context.Background(), a, cfg, log.New(&logs), json.NewEncoder(&out),
				strings.NewReader(tt.stdin), []string{"7"})
			require.NoError(t, err)

			lines := decodeLines(t, &out)
			require.Len(t, lines, len(tt.wantOpinions))
			for i, line := range lines {
				assert.Equal(t, tt.wantOpinions[i], line["opinion"])
				assert.Equal(t, 7.0, line["school_id"])
				assert.NotEmpty(t, line["id"])
			}

			if tt.wantRejected {
				assert.Contains(t, logs.String(), "submission rejected")
			} else {
				assert.Empty(t, logs.String())
			}
		})
	}
}

func TestRunSubmitFlagsNegativeOpinion(t *testing.T) {
	var out bytes.Buffer
	err := runSubmit(context.Background(), newTestAnalyzer(t), &config.Config{}, log.New(io.Discard),
		json.NewEncoder(&out), strings.NewReader("ani\tGurunya tidak ramah\n"), []string{"7"})
	require.NoError(t, err)

	lines := decodeLines(t, &out)
	require.Len(t, lines, 1)
	assert.Equal(t, true, lines[0]["flagged"])
	assert.Equal(t, "Gurunya kurang ramah", lines[0]["suggestion"])
}

func TestRunSubmitArguments(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing school id", nil, "usage"},
		{"extra argument", []string{"7", "8"}, "usage"},
		{"school id not a number", []string{"tujuh"}, `invalid school id "tujuh"`},
		{"school id overflows", []string{"99999999999999999999"}, "invalid school id"},
	}

	a := newTestAnalyzer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := runSubmit(context.Background(), a, &config.Config{}, log.New(io.Discard),
				json.NewEncoder(&out), strings.NewReader("ani\tbagus\n"), tt.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Zero(t, out.Len(), "nothing is submitted on a bad invocation")
		})
	}
}
