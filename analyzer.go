package opini

import (
	"context"
	"errors"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/log"
)

// AnalyzerConfig configures scoring.
type AnalyzerConfig struct {
	Policy           PositivityPolicy // How the positive ratio becomes a percentage
	StopwordLanguage string           // Extra bbalet stopword list to apply; empty disables it
}

// DefaultAnalyzerConfig returns the standard configuration.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		Policy: RatioPolicy,
	}
}

// An AnalyzerOpt changes how an Analyzer is built.
//
// For example, it might switch the positivity policy:
//
//	a, err := opini.NewAnalyzer(reg, backend, opini.WithPolicy(opini.SnapPolicy))
type AnalyzerOpt func(a *Analyzer)

// WithConfig replaces the whole configuration.
func WithConfig(config AnalyzerConfig) AnalyzerOpt {
	return func(a *Analyzer) {
		a.config = config
	}
}

// WithPolicy selects the positivity policy.
func WithPolicy(policy PositivityPolicy) AnalyzerOpt {
	return func(a *Analyzer) {
		a.config.Policy = policy
	}
}

// WithStopwordLanguage enables the bbalet stopword list for code, e.g. "id".
func WithStopwordLanguage(code string) AnalyzerOpt {
	return func(a *Analyzer) {
		a.config.StopwordLanguage = code
	}
}

// WithLogger sets the logger used to report backend failures.
func WithLogger(logger *log.Logger) AnalyzerOpt {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// WithMetrics records analyses, suggestions and fallbacks in m.
func WithMetrics(m *Metrics) AnalyzerOpt {
	return func(a *Analyzer) {
		a.metrics = m
	}
}

// Analyzer scores opinions and suggests softer rewrites. It holds no mutable
// state and is safe for concurrent use.
type Analyzer struct {
	reg        *Registry
	backend    PolarityBackend
	normalizer *Normalizer
	config     AnalyzerConfig
	logger     *log.Logger
	metrics    *Metrics
}

// NewAnalyzer creates an Analyzer over reg that asks backend for term and
// compound polarity.
func NewAnalyzer(reg *Registry, backend PolarityBackend, opts ...AnalyzerOpt) (*Analyzer, error) {
	if reg == nil {
		return nil, errors.New("opini: nil registry")
	}
	if backend == nil {
		return nil, errors.New("opini: nil polarity backend")
	}

	a := &Analyzer{
		reg:     reg,
		backend: backend,
		config:  DefaultAnalyzerConfig(),
	}
	for _, applyOpt := range opts {
		applyOpt(a)
	}

	policy, err := ParsePositivityPolicy(string(a.config.Policy))
	if err != nil {
		return nil, err
	}
	a.config.Policy = policy

	if a.logger == nil {
		a.logger = log.New(io.Discard)
	}
	a.normalizer = NewNormalizer(reg, UsingStopwordLanguage(a.config.StopwordLanguage))

	return a, nil
}

// NewDefaultAnalyzer creates an Analyzer over the default tables and the
// built-in ValenceBackend.
func NewDefaultAnalyzer(opts ...AnalyzerOpt) (*Analyzer, error) {
	reg := DefaultRegistry()
	return NewAnalyzer(reg, NewValenceBackend(reg), opts...)
}

// Config returns the effective configuration.
func (a *Analyzer) Config() AnalyzerConfig {
	return a.config
}

// Normalize returns the canonical working string for text.
func (a *Analyzer) Normalize(text string) string {
	return a.normalizer.Normalize(text)
}

// Score returns the positivity percentage and compound score of text.
func (a *Analyzer) Score(text string) (positivity, compound float64) {
	return a.ScoreContext(context.Background(), text)
}

// ScoreContext is like Score but passes ctx to the backend.
func (a *Analyzer) ScoreContext(ctx context.Context, text string) (positivity, compound float64) {
	r := a.AnalyzeContext(ctx, text).Result()
	return r.Positivity, r.Compound
}

// Analyze scores text and keeps the intermediate counts.
func (a *Analyzer) Analyze(text string) Analysis {
	return a.AnalyzeContext(context.Background(), text)
}

// AnalyzeContext is like Analyze but passes ctx to the backend.
func (a *Analyzer) AnalyzeContext(ctx context.Context, text string) Analysis {
	analysis := Analysis{Text: text}
	if strings.TrimSpace(text) == "" {
		return analysis
	}
	a.metrics.observeAnalysis()

	cleaned := a.normalizer.Normalize(text)
	analysis.Cleaned = cleaned

	// Step 1: local dictionary phrases, longest first
	matched := MatchPhrases(cleaned, a.reg.local)
	analysis.Matches = matched.Matches
	for _, m := range matched.Matches {
		analysis.TotalDetected += m.Count
		if m.Weight > 0 {
			analysis.PositiveCount += m.Count
		}
	}

	// Step 2: whatever is left is scored token by token
	analysis.Residual = matched.Tokens()
	for _, token := range analysis.Residual {
		term := a.scoreToken(ctx, token)
		analysis.Terms = append(analysis.Terms, term)
		analysis.TotalDetected++
		if term.Positive {
			analysis.PositiveCount++
		}
		if term.Fallback {
			analysis.Fallbacks++
		}
	}

	if analysis.TotalDetected > 0 {
		analysis.Ratio = float64(analysis.PositiveCount) / float64(analysis.TotalDetected)
	}
	analysis.Positivity = a.config.Policy.apply(analysis.Ratio)

	// Step 3: compound over the cleaned text, never the residual
	compound, ok := a.compound(ctx, cleaned)
	if !ok {
		analysis.Fallbacks++
	}
	analysis.Compound = compound

	return analysis
}

func (a *Analyzer) scoreToken(ctx context.Context, token string) TermPolarity {
	if a.reg.IsIntensifier(token) {
		return TermPolarity{Token: token, Term: token, Positive: true, Intensifier: true}
	}

	term := a.reg.Canonical(token)
	p, err := a.backend.Polarity(ctx, term)
	if err == nil && math.IsNaN(p) {
		err = errors.New("polarity is NaN")
	}
	if err != nil {
		a.fallback("polarity", term, err)
		return TermPolarity{Token: token, Term: term, Fallback: true}
	}

	return TermPolarity{Token: token, Term: term, Polarity: p, Positive: p > 0}
}

// compound asks the backend for the compound score of cleaned. It reports
// false when the backend failed and 0 was substituted.
func (a *Analyzer) compound(ctx context.Context, cleaned string) (float64, bool) {
	c, err := a.backend.Compound(ctx, cleaned)
	if err == nil && math.IsNaN(c) {
		err = errors.New("compound is NaN")
	}
	if err != nil {
		a.fallback("compound", cleaned, err)
		return 0, false
	}
	return math.Max(-1, math.Min(1, c)), true
}

func (a *Analyzer) fallback(operation, input string, err error) {
	a.metrics.observeFallback(operation)
	a.logger.Warn("polarity backend failed, scoring as neutral",
		"operation", operation, "input", input, "err", err)
}
