package opini

import "context"

// PolarityBackend scores single terms and whole texts. Implementations must
// return 0 for terms they do not know. Errors are never shown to callers of
// the Analyzer: a failing call is logged and scored as neutral.
type PolarityBackend interface {
	// Polarity returns the signed polarity of a single term; positive values
	// mean positive sentiment.
	Polarity(ctx context.Context, term string) (float64, error)

	// Compound returns the aggregate polarity of text in [-1, 1].
	Compound(ctx context.Context, text string) (float64, error)
}
