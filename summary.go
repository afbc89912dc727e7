package opini

import (
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/stat"
)

const (
	favorableMin = 70.0
	mixedMin     = 40.0
)

// Summary aggregates the stored results of one school.
type Summary struct {
	Count          int     `json:"count"`
	MeanPositivity float64 `json:"mean_positivity"`
	MeanCompound   float64 `json:"mean_compound"`
	Band           Band    `json:"band"`
}

// Summarize averages results. An empty slice gives BandNone and zero means.
func Summarize(results []Result) Summary {
	if len(results) == 0 {
		return Summary{Band: BandNone}
	}

	positivity := make([]float64, len(results))
	compound := make([]float64, len(results))
	for i, r := range results {
		positivity[i] = r.Positivity
		compound[i] = r.Compound
	}

	s := Summary{
		Count:          len(results),
		MeanPositivity: scalar.Round(stat.Mean(positivity, nil), 2),
		MeanCompound:   scalar.Round(stat.Mean(compound, nil), 4),
	}
	s.Band = bandFor(s.MeanPositivity)
	return s
}

func bandFor(meanPositivity float64) Band {
	switch {
	case meanPositivity >= favorableMin:
		return BandFavorable
	case meanPositivity >= mixedMin:
		return BandMixed
	default:
		return BandUnfavorable
	}
}
