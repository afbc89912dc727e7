package opini

import (
	"fmt"
	"strings"
)

// Result is the pair of numbers stored with every opinion.
type Result struct {
	Positivity float64 `json:"positivity"` // 0 to 100
	Compound   float64 `json:"compound"`   // -1.0 (negative) to 1.0 (positive)
}

// Analysis holds a score together with the counts that produced it.
type Analysis struct {
	Text    string `json:"text"`    // The opinion as submitted.
	Cleaned string `json:"cleaned"` // The normalized working string.

	Matches  []Match        `json:"matches"`  // Local dictionary phrases found in Cleaned
	Residual []string       `json:"residual"` // Tokens left after phrase matching
	Terms    []TermPolarity `json:"terms"`    // How each residual token was scored

	PositiveCount int     `json:"positive_count"`
	TotalDetected int     `json:"total_detected"`
	Ratio         float64 `json:"ratio"`

	Positivity float64 `json:"positivity"`
	Compound   float64 `json:"compound"`

	// Fallbacks counts backend calls that failed and were scored as neutral.
	Fallbacks int `json:"fallbacks"`
}

// Result returns the two numbers of the analysis.
func (a Analysis) Result() Result {
	return Result{Positivity: a.Positivity, Compound: a.Compound}
}

// TermPolarity records how a single residual token was scored.
type TermPolarity struct {
	Token       string  `json:"token"`
	Term        string  `json:"term"` // Canonical term sent to the backend
	Polarity    float64 `json:"polarity"`
	Positive    bool    `json:"positive"`
	Intensifier bool    `json:"intensifier,omitempty"`
	Fallback    bool    `json:"fallback,omitempty"`
}

// PositivityPolicy turns the positive/total ratio into a percentage.
type PositivityPolicy string

const (
	// RatioPolicy reports ratio*100.
	RatioPolicy PositivityPolicy = "ratio"
	// SnapPolicy reports 100 once the ratio reaches snapThreshold and
	// ratio*100 below it.
	SnapPolicy PositivityPolicy = "snap"
)

const snapThreshold = 0.6

// ParsePositivityPolicy parses a policy name, case-insensitively.
func ParsePositivityPolicy(s string) (PositivityPolicy, error) {
	switch p := PositivityPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case RatioPolicy, SnapPolicy:
		return p, nil
	case "":
		return RatioPolicy, nil
	default:
		return "", fmt.Errorf("unknown positivity policy %q", s)
	}
}

func (p PositivityPolicy) apply(ratio float64) float64 {
	if p == SnapPolicy && ratio >= snapThreshold {
		return 100
	}
	return ratio * 100
}

// Band classifies the average positivity of a set of reviews.
type Band string

const (
	BandNone        Band = "none"        // No reviews yet
	BandFavorable   Band = "favorable"   // Mean positivity of 70 or more
	BandMixed       Band = "mixed"       // Mean positivity from 40 up to 70
	BandUnfavorable Band = "unfavorable" // Mean positivity below 40
)
